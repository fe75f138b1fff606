package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-quest-ledger/internal/proof"
	"github.com/MKhiriev/go-quest-ledger/internal/service"
	"github.com/MKhiriev/go-quest-ledger/internal/store"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid json", ErrInvalidJSON, http.StatusBadRequest},
		{"validation", service.ErrInvalidEmail, http.StatusBadRequest},
		{"missing proof", service.ErrMissingProof, http.StatusBadRequest},
		{"catalog mismatch", service.ErrInvalidCatalogEntry, http.StatusBadRequest},
		{"already processed", service.ErrAlreadyProcessed, http.StatusBadRequest},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"bad token", service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
		{"no entitlement", service.ErrInsufficientEntitlement, http.StatusForbidden},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"payment not found wrapped", fmt.Errorf("lookup: %w", store.ErrPaymentNotFound), http.StatusNotFound},
		{"proof not found", proof.ErrProofNotFound, http.StatusNotFound},
		{"email taken", store.ErrEmailAlreadyExists, http.StatusConflict},
		{"phone taken", store.ErrPhoneAlreadyExists, http.StatusConflict},
		{"lost race", store.ErrVersionConflict, http.StatusConflict},
		{
			"backend down",
			fmt.Errorf("%w: %w: %w", store.ErrBackendUnavailable, store.ErrExecutingQuery, errors.New("dial tcp")),
			http.StatusServiceUnavailable,
		},
		{"not credited", fmt.Errorf("%w: %w", service.ErrPaymentNotCredited, store.ErrBackendUnavailable), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
