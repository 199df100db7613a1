package api

import (
	"net/http"

	"github.com/etnagroup/residence/internal/inventory"
)

type AvailabilityHandler struct {
	svc *inventory.AvailabilityService
}

func NewAvailabilityHandler(svc *inventory.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

func (h *AvailabilityHandler) Summary(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Summary(r.Context())
	if err != nil {
		writeInternal(w, r, "availability summary", err)
		return
	}
	writeJSON(w, out, http.StatusOK)
}

func (h *AvailabilityHandler) MoveInReady(w http.ResponseWriter, r *http.Request) {
	units, err := h.svc.MoveInReady(r.Context())
	if err != nil {
		writeInternal(w, r, "move-in-ready units", err)
		return
	}
	writeJSON(w, units, http.StatusOK)
}
