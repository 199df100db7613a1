package api

import (
	"errors"
	"net/http"

	"github.com/etnagroup/residence/pkg/models"
	"github.com/etnagroup/residence/pkg/repository"
)

type BuildingsHandler struct {
	buildingRepo repository.BuildingRepo
	complexRepo  repository.ComplexRepo
	binder       *Binder
}

func NewBuildingsHandler(br repository.BuildingRepo, cr repository.ComplexRepo, binder *Binder) *BuildingsHandler {
	return &BuildingsHandler{buildingRepo: br, complexRepo: cr, binder: binder}
}

func (h *BuildingsHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.buildingRepo.ListBuildings(r.Context())
	if err != nil {
		writeInternal(w, r, "list buildings", err)
		return
	}
	writeJSON(w, rows, http.StatusOK)
}

func (h *BuildingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := h.buildingRepo.GetBuilding(r.Context(), id)
	if err != nil {
		writeInternal(w, r, "get building", err)
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "building not found")
		return
	}
	writeJSON(w, b, http.StatusOK)
}

// ListByComplex returns the buildings of one complex. An unknown complex
// yields an empty list.
func (h *BuildingsHandler) ListByComplex(w http.ResponseWriter, r *http.Request) {
	complexID, ok := pathID(w, r, "complexId")
	if !ok {
		return
	}
	rows, err := h.buildingRepo.ListBuildingsByComplex(r.Context(), complexID)
	if err != nil {
		writeInternal(w, r, "list buildings by complex", err)
		return
	}
	writeJSON(w, rows, http.StatusOK)
}

func (h *BuildingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBuildingRequest
	if !h.binder.Bind(w, r, "building_create", &req) {
		return
	}

	ctx := r.Context()
	parent, err := h.complexRepo.GetComplex(ctx, req.ComplexID)
	if err != nil {
		writeInternal(w, r, "get complex", err)
		return
	}
	if parent == nil {
		writeError(w, http.StatusNotFound, "complex not found")
		return
	}

	b := req.Building()
	if _, err := h.buildingRepo.CreateBuilding(ctx, &b); err != nil {
		writeInternal(w, r, "create building", err)
		return
	}
	writeJSON(w, b, http.StatusCreated)
}

func (h *BuildingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var patch models.BuildingPatch
	if !h.binder.Bind(w, r, "building_update", &patch) {
		return
	}

	ctx := r.Context()
	b, err := h.buildingRepo.GetBuilding(ctx, id)
	if err != nil {
		writeInternal(w, r, "get building", err)
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "building not found")
		return
	}

	patch.Apply(b)
	if err := h.buildingRepo.UpdateBuilding(ctx, b); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "building not found")
			return
		}
		writeInternal(w, r, "update building", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BuildingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.buildingRepo.DeleteBuilding(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "building not found")
			return
		}
		writeInternal(w, r, "delete building", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
