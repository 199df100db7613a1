package api

import (
	"errors"
	"net/http"

	"github.com/etnagroup/residence/pkg/models"
	"github.com/etnagroup/residence/pkg/repository"
)

type InquiriesHandler struct {
	inquiryRepo repository.InquiryRepo
	unitRepo    repository.UnitRepo
	binder      *Binder
}

func NewInquiriesHandler(ir repository.InquiryRepo, ur repository.UnitRepo, binder *Binder) *InquiriesHandler {
	return &InquiriesHandler{inquiryRepo: ir, unitRepo: ur, binder: binder}
}

func (h *InquiriesHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.inquiryRepo.ListInquiries(r.Context())
	if err != nil {
		writeInternal(w, r, "list inquiries", err)
		return
	}
	writeJSON(w, rows, http.StatusOK)
}

func (h *InquiriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	q, err := h.inquiryRepo.GetInquiry(r.Context(), id)
	if err != nil {
		writeInternal(w, r, "get inquiry", err)
		return
	}
	if q == nil {
		writeError(w, http.StatusNotFound, "inquiry not found")
		return
	}
	writeJSON(w, q, http.StatusOK)
}

// Create records a contact-form submission against a unit. New inquiries
// always start in status New.
func (h *InquiriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	unitID, ok := pathID(w, r, "unitId")
	if !ok {
		return
	}
	var req models.CreateInquiryRequest
	if !h.binder.Bind(w, r, "inquiry_create", &req) {
		return
	}

	ctx := r.Context()
	unit, err := h.unitRepo.GetUnit(ctx, unitID)
	if err != nil {
		writeInternal(w, r, "get unit", err)
		return
	}
	if unit == nil {
		writeError(w, http.StatusNotFound, "unit not found")
		return
	}

	q := req.Inquiry(unitID)
	if _, err := h.inquiryRepo.CreateInquiry(ctx, &q); err != nil {
		writeInternal(w, r, "create inquiry", err)
		return
	}
	writeJSON(w, q, http.StatusCreated)
}

func (h *InquiriesHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateInquiryStatusRequest
	if !h.binder.Bind(w, r, "inquiry_status", &req) {
		return
	}
	if err := h.inquiryRepo.SetInquiryStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "inquiry not found")
			return
		}
		writeInternal(w, r, "set inquiry status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
