package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/proof"
	"github.com/MKhiriev/go-quest-ledger/internal/service"
	"github.com/MKhiriev/go-quest-ledger/internal/store"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
)

// errorStatuses is checked in order; the first match wins. Wrapped store
// errors carry both ErrBackendUnavailable and a low-level cause, so the
// more specific entries come first.
var errorStatuses = []struct {
	err    error
	status int
}{
	{ErrInvalidJSON, http.StatusBadRequest},
	{ErrInvalidForm, http.StatusBadRequest},
	{ErrMissingProofFile, http.StatusBadRequest},

	{service.ErrInvalidDataProvided, http.StatusBadRequest},
	{service.ErrInvalidCatalogEntry, http.StatusBadRequest},
	{service.ErrAlreadyProcessed, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
	{service.ErrInsufficientEntitlement, http.StatusForbidden},
	{service.ErrPaymentNotCredited, http.StatusInternalServerError},

	{proof.ErrInvalidProofKey, http.StatusBadRequest},
	{proof.ErrProofNotFound, http.StatusNotFound},

	{store.ErrNotFound, http.StatusNotFound},
	{store.ErrConflict, http.StatusConflict},
	{store.ErrVersionConflict, http.StatusConflict},
	{store.ErrNegativeBalance, http.StatusConflict},
	{store.ErrBackendUnavailable, http.StatusServiceUnavailable},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and replies with its mapped status. Server-side
// failures are answered with the generic status text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	log := logger.FromRequest(r)

	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
		utils.WriteError(w, http.StatusText(status), status)
		return
	}

	log.Info().Err(err).Int("status", status).Msg("request rejected")
	utils.WriteError(w, err.Error(), status)
}
