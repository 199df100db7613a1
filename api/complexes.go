package api

import (
	"errors"
	"net/http"

	"github.com/etnagroup/residence/pkg/models"
	"github.com/etnagroup/residence/pkg/repository"
)

type ComplexesHandler struct {
	repo   repository.ComplexRepo
	binder *Binder
}

func NewComplexesHandler(repo repository.ComplexRepo, binder *Binder) *ComplexesHandler {
	return &ComplexesHandler{repo: repo, binder: binder}
}

func (h *ComplexesHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.repo.ListComplexes(r.Context())
	if err != nil {
		writeInternal(w, r, "list complexes", err)
		return
	}
	writeJSON(w, rows, http.StatusOK)
}

func (h *ComplexesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.repo.GetComplex(r.Context(), id)
	if err != nil {
		writeInternal(w, r, "get complex", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "complex not found")
		return
	}
	writeJSON(w, c, http.StatusOK)
}

func (h *ComplexesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateComplexRequest
	if !h.binder.Bind(w, r, "complex_create", &req) {
		return
	}
	c := req.Complex()
	if _, err := h.repo.CreateComplex(r.Context(), &c); err != nil {
		writeInternal(w, r, "create complex", err)
		return
	}
	writeJSON(w, c, http.StatusCreated)
}

func (h *ComplexesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var patch models.ComplexPatch
	if !h.binder.Bind(w, r, "complex_update", &patch) {
		return
	}

	ctx := r.Context()
	c, err := h.repo.GetComplex(ctx, id)
	if err != nil {
		writeInternal(w, r, "get complex", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "complex not found")
		return
	}

	patch.Apply(c)
	if err := h.repo.UpdateComplex(ctx, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "complex not found")
			return
		}
		writeInternal(w, r, "update complex", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes the complex together with its buildings, units and inquiries.
func (h *ComplexesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteComplex(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "complex not found")
			return
		}
		writeInternal(w, r, "delete complex", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
