package http

import (
	"net/http"

	"github.com/MKhiriev/go-quest-ledger/internal/utils"
	"github.com/MKhiriev/go-quest-ledger/models"
)

func (h *Handler) getProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.services.LedgerService.GetProgress(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, progress, http.StatusOK)
}

// recordAttempt charges one trial or point and records the result of the
// attempt. Nothing is recorded when the user has no entitlement left.
func (h *Handler) recordAttempt(w http.ResponseWriter, r *http.Request) {
	var attempt models.Attempt
	if err := decodeJSON(r, &attempt); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.services.LedgerService.Attempt(r.Context(), userID(r), attempt)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, result, http.StatusOK)
}
