package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/etnagroup/residence/api"
	dbfs "github.com/etnagroup/residence/db"
	"github.com/etnagroup/residence/internal/config"
	"github.com/etnagroup/residence/internal/db"
	"github.com/etnagroup/residence/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Addr:        ":0",
		Env:         "test",
		APITimeout:  5 * time.Second,
		CORSOrigin:  "http://localhost:5173",
		LogLevel:    "info",
		AutoMigrate: true,
		Seed:        true,
		Admin:       config.AdminConfig{TokenDuration: time.Hour},
	}
}

// newTestServer serves the full router over a migrated and seeded database
// in a temporary directory.
func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	cfg.DatabasePath = filepath.Join(t.TempDir(), "etna.db")
	d, err := db.New(ctx, cfg.DatabasePath, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(ctx, d, dbfs.SeedFiles); err != nil {
		t.Fatalf("seed: %v", err)
	}

	r, err := api.SetupRoutes(cfg, "test", "now", d, nil)
	if err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		d.Close()
	})
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body, token string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	data, _ := io.ReadAll(res.Body)
	return res, data
}

func expectStatus(t *testing.T, res *http.Response, body []byte, want int) {
	t.Helper()
	if res.StatusCode != want {
		t.Fatalf("%s %s: expected %d got %d body=%s", res.Request.Method, res.Request.URL.Path, want, res.StatusCode, body)
	}
}

func TestRoutes_FilterUnits(t *testing.T) {
	srv := newTestServer(t, testConfig())

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantUnits  []string
	}{
		{name: "NoParams", query: "", wantStatus: http.StatusOK, wantUnits: []string{"PH-01", "PH-02", "A-05", "L-01", "B-03"}},
		{name: "Type", query: "?type=Penthouse", wantStatus: http.StatusOK, wantUnits: []string{"PH-01", "PH-02"}},
		{name: "TypeLowercase", query: "?type=loft", wantStatus: http.StatusOK, wantUnits: []string{"L-01"}},
		{name: "AvailableAndReady", query: "?status=Available&moveInReady=true", wantStatus: http.StatusOK, wantUnits: []string{"PH-01", "A-05"}},
		{name: "PriceRange", query: "?minPrice=185000&maxPrice=265000", wantStatus: http.StatusOK, wantUnits: []string{"A-05", "L-01", "B-03"}},
		{name: "Bedrooms", query: "?bedrooms=3", wantStatus: http.StatusOK, wantUnits: []string{"PH-01", "B-03"}},
		{name: "Building", query: "?buildingId=2&status=Sold", wantStatus: http.StatusOK, wantUnits: []string{"B-03"}},
		{name: "NoMatch", query: "?type=TypeA&status=Sold", wantStatus: http.StatusOK, wantUnits: []string{}},
		{name: "UnknownType", query: "?type=Villa", wantStatus: http.StatusBadRequest},
		{name: "BadDecimal", query: "?maxPrice=1e", wantStatus: http.StatusBadRequest},
		{name: "BadBool", query: "?moveInReady=maybe", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := do(t, srv, http.MethodGet, "/api/units/filter"+tt.query, "", "")
			expectStatus(t, res, body, tt.wantStatus)
			if tt.wantStatus != http.StatusOK {
				if !strings.Contains(string(body), `"error"`) {
					t.Fatalf("expected json error body, got %s", body)
				}
				return
			}
			var units []models.Unit
			if err := json.Unmarshal(body, &units); err != nil {
				t.Fatalf("decode: %v", err)
			}
			got := make([]string, 0, len(units))
			for _, u := range units {
				got = append(got, u.UnitNumber)
			}
			want := append([]string(nil), tt.wantUnits...)
			sort.Strings(got)
			sort.Strings(want)
			if strings.Join(got, ",") != strings.Join(want, ",") {
				t.Fatalf("expected %v got %v", tt.wantUnits, got)
			}
		})
	}
}

func TestRoutes_Availability(t *testing.T) {
	srv := newTestServer(t, testConfig())

	res, body := do(t, srv, http.MethodGet, "/api/availability/summary", "", "")
	expectStatus(t, res, body, http.StatusOK)
	var summary []models.AvailabilitySummary
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	found := false
	for _, s := range summary {
		if s.Total != s.Available+s.Reserved+s.Sold {
			t.Fatalf("group totals do not add up: %+v", s)
		}
		if s.BuildingName == "Tara" && s.UnitType == models.UnitTypePenthouse {
			found = true
			if s.Available != 2 || s.Total != 2 {
				t.Fatalf("unexpected Tara penthouse group: %+v", s)
			}
		}
	}
	if !found || len(summary) != 4 {
		t.Fatalf("unexpected summary %s", body)
	}

	res, body = do(t, srv, http.MethodGet, "/api/availability/move-in-ready", "", "")
	expectStatus(t, res, body, http.StatusOK)
	var ready []models.Unit
	_ = json.Unmarshal(body, &ready)
	if len(ready) != 2 {
		t.Fatalf("expected 2 move-in-ready units, got %s", body)
	}
	for _, u := range ready {
		if !u.MoveInReady || u.Status != models.UnitStatusAvailable {
			t.Fatalf("unexpected unit in move-in-ready list: %+v", u)
		}
	}
}

func TestRoutes_CRUDFlow(t *testing.T) {
	srv := newTestServer(t, testConfig())

	// child with a missing parent
	res, body := do(t, srv, http.MethodPost, "/api/buildings", `{"complexId":99,"name":"Ghost","code":"GH"}`, "")
	expectStatus(t, res, body, http.StatusNotFound)

	res, body = do(t, srv, http.MethodPost, "/api/complexes", `{"name":"Etna Gardens","city":"Prizren","country":"Kosovo"}`, "")
	expectStatus(t, res, body, http.StatusCreated)
	var c models.Complex
	_ = json.Unmarshal(body, &c)
	if c.ID == 0 {
		t.Fatalf("expected id in created complex, got %s", body)
	}

	res, body = do(t, srv, http.MethodPost, "/api/buildings", `{"complexId":`+itoa(c.ID)+`,"name":"Lis","code":"LIS","floors":6}`, "")
	expectStatus(t, res, body, http.StatusCreated)
	var b models.Building
	_ = json.Unmarshal(body, &b)

	res, body = do(t, srv, http.MethodPost, "/api/units", `{"buildingId":`+itoa(b.ID)+`,"unitNumber":"A-01","type":"TypeA","bedrooms":2,"bathrooms":1.5,"price":99999.99}`, "")
	expectStatus(t, res, body, http.StatusCreated)
	var u models.Unit
	_ = json.Unmarshal(body, &u)
	if u.Status != models.UnitStatusAvailable || !strings.Contains(string(body), `"price":99999.99`) {
		t.Fatalf("unexpected created unit %s", body)
	}

	res, body = do(t, srv, http.MethodPatch, "/api/units/"+itoa(u.ID)+"/status", `"Reserved"`, "")
	expectStatus(t, res, body, http.StatusNoContent)

	res, body = do(t, srv, http.MethodGet, "/api/units/"+itoa(u.ID), "", "")
	expectStatus(t, res, body, http.StatusOK)
	if !strings.Contains(string(body), `"status":"Reserved"`) {
		t.Fatalf("status not persisted: %s", body)
	}

	res, body = do(t, srv, http.MethodPost, "/api/inquiries/units/"+itoa(u.ID)+"/inquiries",
		`{"fullName":"Dren Berisha","email":"dren@example.com","phone":"+383 49 111 222","source":"website"}`, "")
	expectStatus(t, res, body, http.StatusCreated)

	res, body = do(t, srv, http.MethodGet, "/api/units/buildings/"+itoa(b.ID)+"/units", "", "")
	expectStatus(t, res, body, http.StatusOK)

	// deleting the complex removes everything below it
	res, body = do(t, srv, http.MethodDelete, "/api/complexes/"+itoa(c.ID), "", "")
	expectStatus(t, res, body, http.StatusNoContent)

	for _, path := range []string{"/api/complexes/" + itoa(c.ID), "/api/buildings/" + itoa(b.ID), "/api/units/" + itoa(u.ID)} {
		res, body = do(t, srv, http.MethodGet, path, "", "")
		expectStatus(t, res, body, http.StatusNotFound)
	}
	res, body = do(t, srv, http.MethodGet, "/api/inquiries", "", "")
	expectStatus(t, res, body, http.StatusOK)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected inquiries removed by cascade, got %s", body)
	}
}

func TestRoutes_AdminAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("etna-admin"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cfg := testConfig()
	cfg.Admin.JWTSecret = "integration-secret"
	cfg.Admin.PasswordHash = string(hash)
	srv := newTestServer(t, cfg)

	// reads stay public
	res, body := do(t, srv, http.MethodGet, "/api/units", "", "")
	expectStatus(t, res, body, http.StatusOK)

	// mutations need a token
	res, body = do(t, srv, http.MethodPatch, "/api/units/1/status", `"Sold"`, "")
	expectStatus(t, res, body, http.StatusUnauthorized)

	// inquiry submission stays public, reading them does not
	res, body = do(t, srv, http.MethodPost, "/api/inquiries/units/1/inquiries", `{"fullName":"A","email":"a@example.com","phone":"1"}`, "")
	expectStatus(t, res, body, http.StatusCreated)
	res, body = do(t, srv, http.MethodGet, "/api/inquiries", "", "")
	expectStatus(t, res, body, http.StatusUnauthorized)

	res, body = do(t, srv, http.MethodPost, "/api/auth/token", `{"password":"wrong"}`, "")
	expectStatus(t, res, body, http.StatusUnauthorized)

	res, body = do(t, srv, http.MethodPost, "/api/auth/token", `{"password":"etna-admin"}`, "")
	expectStatus(t, res, body, http.StatusOK)
	var tok struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &tok); err != nil || tok.Token == "" {
		t.Fatalf("expected token, got %s", body)
	}

	res, body = do(t, srv, http.MethodPatch, "/api/units/1/status", `"Sold"`, tok.Token)
	expectStatus(t, res, body, http.StatusNoContent)
	res, body = do(t, srv, http.MethodGet, "/api/inquiries", "", tok.Token)
	expectStatus(t, res, body, http.StatusOK)
}

func TestRoutes_Plumbing(t *testing.T) {
	srv := newTestServer(t, testConfig())

	res, body := do(t, srv, http.MethodGet, "/health", "", "")
	expectStatus(t, res, body, http.StatusOK)
	if res.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}

	res, body = do(t, srv, http.MethodGet, "/api/nowhere", "", "")
	expectStatus(t, res, body, http.StatusNotFound)
	if !strings.Contains(string(body), `"error":"not found"`) {
		t.Fatalf("expected json 404, got %s", body)
	}

	for _, path := range []string{"/api/units/0", "/api/complexes/0", "/api/inquiries/0"} {
		res, body = do(t, srv, http.MethodGet, path, "", "")
		expectStatus(t, res, body, http.StatusNotFound)
	}

	res, body = do(t, srv, http.MethodOptions, "/api/units/1", "", "")
	expectStatus(t, res, body, http.StatusNoContent)
	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected CORS origin %q", got)
	}

	// one request through the api so the counter has a sample
	do(t, srv, http.MethodGet, "/api/complexes", "", "")
	res, body = do(t, srv, http.MethodGet, "/metrics", "", "")
	expectStatus(t, res, body, http.StatusOK)
	for _, want := range []string{"etna_api_requests_total", `route="/api/complexes"`, "etna_db_connection_pool"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %s", want)
		}
	}
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestRoutes_UpdateIgnoresNullFields(t *testing.T) {
	srv := newTestServer(t, testConfig())

	res, body := do(t, srv, http.MethodPut, "/api/units/1", `{"price":null,"type":null,"status":"Sold"}`, "")
	expectStatus(t, res, body, http.StatusNoContent)

	res, body = do(t, srv, http.MethodGet, "/api/units/1", "", "")
	expectStatus(t, res, body, http.StatusOK)
	for _, want := range []string{`"status":"Sold"`, `"price":450000`, `"type":"Penthouse"`} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("unit after null patch missing %s: %s", want, body)
		}
	}

	res, body = do(t, srv, http.MethodPut, "/api/complexes/1", `{"name":null,"city":null,"description":"Updated"}`, "")
	expectStatus(t, res, body, http.StatusNoContent)
	res, body = do(t, srv, http.MethodGet, "/api/complexes/1", "", "")
	expectStatus(t, res, body, http.StatusOK)
	if !strings.Contains(string(body), `"name":"Etna Residence"`) || !strings.Contains(string(body), `"description":"Updated"`) {
		t.Fatalf("complex after null patch: %s", body)
	}

	res, body = do(t, srv, http.MethodPut, "/api/buildings/1", `{"floors":null,"code":null,"name":"Tara East"}`, "")
	expectStatus(t, res, body, http.StatusNoContent)
	res, body = do(t, srv, http.MethodGet, "/api/buildings/1", "", "")
	expectStatus(t, res, body, http.StatusOK)
	if !strings.Contains(string(body), `"floors":12`) || !strings.Contains(string(body), `"code":"TARA"`) {
		t.Fatalf("building after null patch: %s", body)
	}
}

func TestRoutes_DeleteBuildingRemovesUnitsAndInquiries(t *testing.T) {
	srv := newTestServer(t, testConfig())

	res, body := do(t, srv, http.MethodPost, "/api/inquiries/units/1/inquiries", `{"fullName":"A","email":"a@example.com","phone":"1"}`, "")
	expectStatus(t, res, body, http.StatusCreated)
	res, body = do(t, srv, http.MethodPost, "/api/inquiries/units/4/inquiries", `{"fullName":"B","email":"b@example.com","phone":"2"}`, "")
	expectStatus(t, res, body, http.StatusCreated)

	// building 1 (Tara) holds units 1-3
	res, body = do(t, srv, http.MethodDelete, "/api/buildings/1", "", "")
	expectStatus(t, res, body, http.StatusNoContent)

	res, body = do(t, srv, http.MethodGet, "/api/units/buildings/1/units", "", "")
	expectStatus(t, res, body, http.StatusOK)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected units removed with building, got %s", body)
	}
	for _, id := range []string{"1", "2", "3"} {
		res, body = do(t, srv, http.MethodGet, "/api/units/"+id, "", "")
		expectStatus(t, res, body, http.StatusNotFound)
	}

	res, body = do(t, srv, http.MethodGet, "/api/inquiries", "", "")
	expectStatus(t, res, body, http.StatusOK)
	var left []models.Inquiry
	if err := json.Unmarshal(body, &left); err != nil {
		t.Fatalf("decode inquiries: %v", err)
	}
	if len(left) != 1 || left[0].UnitID != 4 {
		t.Fatalf("expected only the Tiani inquiry to remain, got %s", body)
	}
}
