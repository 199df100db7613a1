package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/etnagroup/residence/internal/inventory"
	"github.com/etnagroup/residence/pkg/models"
	"github.com/etnagroup/residence/pkg/repository"
	"github.com/shopspring/decimal"
)

type UnitsHandler struct {
	unitRepo     repository.UnitRepo
	buildingRepo repository.BuildingRepo
	filter       *inventory.FilterService
	binder       *Binder
}

func NewUnitsHandler(ur repository.UnitRepo, br repository.BuildingRepo, filter *inventory.FilterService, binder *Binder) *UnitsHandler {
	return &UnitsHandler{unitRepo: ur, buildingRepo: br, filter: filter, binder: binder}
}

func (h *UnitsHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.unitRepo.ListUnits(r.Context())
	if err != nil {
		writeInternal(w, r, "list units", err)
		return
	}
	writeJSON(w, rows, http.StatusOK)
}

func (h *UnitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.unitRepo.GetUnit(r.Context(), id)
	if err != nil {
		writeInternal(w, r, "get unit", err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "unit not found")
		return
	}
	writeJSON(w, u, http.StatusOK)
}

func (h *UnitsHandler) ListByBuilding(w http.ResponseWriter, r *http.Request) {
	buildingID, ok := pathID(w, r, "buildingId")
	if !ok {
		return
	}
	rows, err := h.unitRepo.ListUnitsByBuilding(r.Context(), buildingID)
	if err != nil {
		writeInternal(w, r, "list units by building", err)
		return
	}
	writeJSON(w, rows, http.StatusOK)
}

// Filter answers GET /api/units/filter. Every query parameter is optional;
// the ones present are AND-ed together.
func (h *UnitsHandler) Filter(w http.ResponseWriter, r *http.Request) {
	f, err := parseUnitFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	units, err := h.filter.FilterUnits(r.Context(), f)
	if err != nil {
		writeInternal(w, r, "filter units", err)
		return
	}
	writeJSON(w, units, http.StatusOK)
}

func (h *UnitsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUnitRequest
	if !h.binder.Bind(w, r, "unit_create", &req) {
		return
	}

	ctx := r.Context()
	parent, err := h.buildingRepo.GetBuilding(ctx, req.BuildingID)
	if err != nil {
		writeInternal(w, r, "get building", err)
		return
	}
	if parent == nil {
		writeError(w, http.StatusNotFound, "building not found")
		return
	}

	u := req.Unit()
	if _, err := h.unitRepo.CreateUnit(ctx, &u); err != nil {
		writeInternal(w, r, "create unit", err)
		return
	}
	writeJSON(w, u, http.StatusCreated)
}

func (h *UnitsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var patch models.UnitPatch
	if !h.binder.Bind(w, r, "unit_update", &patch) {
		return
	}

	ctx := r.Context()
	u, err := h.unitRepo.GetUnit(ctx, id)
	if err != nil {
		writeInternal(w, r, "get unit", err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "unit not found")
		return
	}

	patch.Apply(u)
	if err := h.unitRepo.UpdateUnit(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unit not found")
			return
		}
		writeInternal(w, r, "update unit", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusBody accepts either a bare JSON string ("Sold") or {"status":"Sold"}.
type statusBody struct {
	Status models.UnitStatus
}

func (b *statusBody) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var obj struct {
			Status models.UnitStatus `json:"status"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		b.Status = obj.Status
		return nil
	}
	return json.Unmarshal(data, &b.Status)
}

// SetStatus assigns any status regardless of the current one.
func (h *UnitsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body statusBody
	if !h.binder.Bind(w, r, "unit_status", &body) {
		return
	}
	if err := h.unitRepo.SetUnitStatus(r.Context(), id, body.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unit not found")
			return
		}
		writeInternal(w, r, "set unit status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UnitsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.unitRepo.DeleteUnit(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unit not found")
			return
		}
		writeInternal(w, r, "delete unit", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseUnitFilter reads the filter query parameters. Empty values are treated
// as absent; enum names match case-insensitively.
func parseUnitFilter(q url.Values) (models.UnitFilter, error) {
	var f models.UnitFilter

	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t, err := models.ParseUnitType(v)
		if err != nil {
			return f, err
		}
		f.Type = &t
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		s, err := models.ParseUnitStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = &s
	}
	if v := strings.TrimSpace(q.Get("moveInReady")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid moveInReady %q", v)
		}
		f.MoveInReady = &b
	}
	if v := strings.TrimSpace(q.Get("minPrice")); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, fmt.Errorf("invalid minPrice %q", v)
		}
		f.MinPrice = &d
	}
	if v := strings.TrimSpace(q.Get("maxPrice")); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, fmt.Errorf("invalid maxPrice %q", v)
		}
		f.MaxPrice = &d
	}
	if v := strings.TrimSpace(q.Get("bedrooms")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("invalid bedrooms %q", v)
		}
		f.Bedrooms = &n
	}
	if v := strings.TrimSpace(q.Get("buildingId")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("invalid buildingId %q", v)
		}
		f.BuildingID = &n
	}

	return f, nil
}
