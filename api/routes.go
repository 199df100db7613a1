package api

import (
	"fmt"
	"net/http"

	"github.com/etnagroup/residence/internal/config"
	"github.com/etnagroup/residence/internal/db"
	"github.com/etnagroup/residence/internal/inventory"
	"github.com/etnagroup/residence/internal/repository/sqlite"
	"github.com/gorilla/mux"
)

// SetupRoutes builds the HTTP router. metrics may be nil, in which case a
// private registry is created.
func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB, metrics *Metrics) (*mux.Router, error) {
	binder, err := NewBinder()
	if err != nil {
		return nil, fmt.Errorf("load request schemas: %w", err)
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	// Preflight requests never match a route method, so CORS answers them here
	r.MethodNotAllowedHandler = CORSMiddleware(cfg.CORSOrigin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}))

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(CORSMiddleware(cfg.CORSOrigin))
	r.Use(RecoveryMiddleware)

	// Repository and services
	repo := sqlite.New(db, logger)
	filterSvc := inventory.NewFilterService(repo, logger)
	availabilitySvc := inventory.NewAvailabilityService(repo, logger)

	// Create handlers
	systemHandler := NewSystemHandler(db)
	authHandler := NewAuthHandler(cfg.Admin.PasswordHash, cfg.Admin.JWTSecret, cfg.Admin.TokenDuration, binder)
	complexes := NewComplexesHandler(repo, binder)
	buildings := NewBuildingsHandler(repo, repo, binder)
	units := NewUnitsHandler(repo, repo, filterSvc, binder)
	inquiries := NewInquiriesHandler(repo, repo, binder)
	availability := NewAvailabilityHandler(availabilitySvc)

	admin := AdminAuthMiddleware(cfg.Admin.JWTSecret)
	guarded := func(h http.HandlerFunc) http.Handler { return admin(h) }

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.Handle("/metrics", metrics.Handler(db.Stats)).Methods("GET")

	v := r.PathPrefix("/api").Subrouter()
	v.HandleFunc("/auth/token", authHandler.Token).Methods("POST")

	// Complexes
	v.HandleFunc("/complexes", complexes.List).Methods("GET")
	v.HandleFunc("/complexes/{id:[0-9]+}", complexes.Get).Methods("GET")
	v.Handle("/complexes", guarded(complexes.Create)).Methods("POST")
	v.Handle("/complexes/{id:[0-9]+}", guarded(complexes.Update)).Methods("PUT")
	v.Handle("/complexes/{id:[0-9]+}", guarded(complexes.Delete)).Methods("DELETE")

	// Buildings
	v.HandleFunc("/buildings", buildings.List).Methods("GET")
	v.HandleFunc("/buildings/{id:[0-9]+}", buildings.Get).Methods("GET")
	v.HandleFunc("/buildings/complexes/{complexId:[0-9]+}/buildings", buildings.ListByComplex).Methods("GET")
	v.Handle("/buildings", guarded(buildings.Create)).Methods("POST")
	v.Handle("/buildings/{id:[0-9]+}", guarded(buildings.Update)).Methods("PUT")
	v.Handle("/buildings/{id:[0-9]+}", guarded(buildings.Delete)).Methods("DELETE")

	// Units
	v.HandleFunc("/units", units.List).Methods("GET")
	v.HandleFunc("/units/filter", units.Filter).Methods("GET")
	v.HandleFunc("/units/{id:[0-9]+}", units.Get).Methods("GET")
	v.HandleFunc("/units/buildings/{buildingId:[0-9]+}/units", units.ListByBuilding).Methods("GET")
	v.Handle("/units", guarded(units.Create)).Methods("POST")
	v.Handle("/units/{id:[0-9]+}", guarded(units.Update)).Methods("PUT")
	v.Handle("/units/{id:[0-9]+}/status", guarded(units.SetStatus)).Methods("PATCH")
	v.Handle("/units/{id:[0-9]+}", guarded(units.Delete)).Methods("DELETE")

	// Availability
	v.HandleFunc("/availability/summary", availability.Summary).Methods("GET")
	v.HandleFunc("/availability/move-in-ready", availability.MoveInReady).Methods("GET")

	// Inquiries
	v.HandleFunc("/inquiries/units/{unitId:[0-9]+}/inquiries", inquiries.Create).Methods("POST")
	v.Handle("/inquiries", guarded(inquiries.List)).Methods("GET")
	v.Handle("/inquiries/{id:[0-9]+}", guarded(inquiries.Get)).Methods("GET")
	v.Handle("/inquiries/{id:[0-9]+}/status", guarded(inquiries.SetStatus)).Methods("PATCH")

	return r, nil
}
