package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-quest-ledger/internal/proof"
	"github.com/MKhiriev/go-quest-ledger/internal/service"
	"github.com/MKhiriev/go-quest-ledger/internal/store"
	"github.com/MKhiriev/go-quest-ledger/models"
)

func TestAdminRoutes_RequireAdminKey(t *testing.T) {
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/payments/all"},
		{http.MethodPost, "/api/admin/payments/p-1/approve"},
		{http.MethodPost, "/api/admin/payments/p-1/reject"},
		{http.MethodGet, "/api/admin/payments/p-1/proof"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPost, "/api/admin/users/u-1/password"},
		{http.MethodPost, "/api/admin/users/u-1/add-trial"},
		{http.MethodGet, "/api/admin/reset-requests"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			th := newTestHandler(t)

			// a user token is not an admin key
			r := withToken(httptest.NewRequest(route.method, route.path, nil))
			rr := th.serve(r)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestListAllPayments(t *testing.T) {
	th := newTestHandler(t)
	th.payments.EXPECT().ListAll(gomock.Any()).Return([]models.Payment{{ID: "p-2"}, {ID: "p-1"}}, nil)

	rr := th.serve(asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/payments/all", nil)))

	require.Equal(t, http.StatusOK, rr.Code)
	payments := decodeBody[[]models.Payment](t, rr)
	require.Len(t, payments, 2)
	assert.Equal(t, "p-2", payments[0].ID)
}

func TestApprovePayment(t *testing.T) {
	tests := []struct {
		name        string
		payment     models.Payment
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "approved",
			payment:    models.Payment{ID: "p-1", Status: models.PaymentApproved, Points: 2100},
			wantStatus: http.StatusOK,
		},
		{
			name:        "decided already",
			err:         service.ErrAlreadyProcessed,
			wantStatus:  http.StatusBadRequest,
			wantMessage: service.ErrAlreadyProcessed.Error(),
		},
		{
			name:       "unknown payment",
			err:        store.ErrPaymentNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:        "approved without credit",
			payment:     models.Payment{ID: "p-1", Status: models.PaymentApproved},
			err:         fmt.Errorf("%w: %w", service.ErrPaymentNotCredited, store.ErrBackendUnavailable),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: service.ErrPaymentNotCredited.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := newTestHandler(t)
			th.payments.EXPECT().Approve(gomock.Any(), "p-1").Return(tt.payment, tt.err)

			rr := th.serve(asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/payments/p-1/approve", nil)))

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.err == nil {
				assert.Equal(t, tt.payment.ID, decodeBody[models.Payment](t, rr).ID)
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, errorMessage(t, rr))
			}
		})
	}
}

func TestRejectPayment(t *testing.T) {
	reason := "blurry receipt"

	t.Run("with reason", func(t *testing.T) {
		th := newTestHandler(t)
		th.payments.EXPECT().Reject(gomock.Any(), "p-1", reason).
			Return(models.Payment{ID: "p-1", Status: models.PaymentRejected, RejectReason: &reason}, nil)

		rr := th.serve(asAdmin(jsonRequest(t, http.MethodPost, "/api/admin/payments/p-1/reject", models.RejectRequest{Reason: reason})))

		require.Equal(t, http.StatusOK, rr.Code)
		payment := decodeBody[models.Payment](t, rr)
		require.NotNil(t, payment.RejectReason)
		assert.Equal(t, reason, *payment.RejectReason)
	})

	t.Run("empty body", func(t *testing.T) {
		th := newTestHandler(t)
		th.payments.EXPECT().Reject(gomock.Any(), "p-1", "").Return(models.Payment{ID: "p-1", Status: models.PaymentRejected}, nil)

		rr := th.serve(asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/payments/p-1/reject", nil)))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		th := newTestHandler(t)

		rr := th.serve(asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/payments/p-1/reject", strings.NewReader("{"))))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetPaymentProof(t *testing.T) {
	th := newTestHandler(t)
	key, err := th.proofs.Save(t.Context(), proof.Upload{Filename: "r.jpg", Body: bytes.NewReader([]byte("jpeg-bytes"))})
	require.NoError(t, err)

	th.payments.EXPECT().Get(gomock.Any(), "p-1").Return(models.Payment{ID: "p-1", ProofReference: key}, nil)

	rr := th.serve(asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/payments/p-1/proof", nil)))

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(body))
}

func TestGetPaymentProof_Missing(t *testing.T) {
	th := newTestHandler(t)
	th.payments.EXPECT().Get(gomock.Any(), "p-1").Return(models.Payment{ID: "p-1", ProofReference: "proofs/gone.png"}, nil)

	rr := th.serve(asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/payments/p-1/proof", nil)))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListUsers(t *testing.T) {
	th := newTestHandler(t)
	th.auth.EXPECT().ListUsers(gomock.Any()).Return([]models.UserProfile{adaProfile}, nil)

	rr := th.serve(asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []models.UserProfile{adaProfile}, decodeBody[[]models.UserProfile](t, rr))
	assert.NotContains(t, rr.Body.String(), "passwordHash")
}

func TestSetUserPassword(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "changed", wantStatus: http.StatusOK},
		{name: "too short", err: service.ErrPasswordTooShort, wantStatus: http.StatusBadRequest},
		{name: "unknown user", err: store.ErrUserNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := newTestHandler(t)
			th.auth.EXPECT().SetPassword(gomock.Any(), "u-1", "new-password").Return(tt.err)

			rr := th.serve(asAdmin(jsonRequest(t, http.MethodPost, "/api/admin/users/u-1/password", models.SetPasswordRequest{NewPassword: "new-password"})))

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestAddTrial(t *testing.T) {
	th := newTestHandler(t)
	th.ledger.EXPECT().GrantTrial(gomock.Any(), "u-1").Return(models.User{ID: "u-1", FreeTrials: 3}, nil)

	rr := th.serve(asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/users/u-1/add-trial", nil)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"trial added","freeTrials":3}`, rr.Body.String())
}

func TestListResetRequests(t *testing.T) {
	th := newTestHandler(t)
	th.auth.EXPECT().ListResetRequests(gomock.Any()).Return([]models.ResetRequest{
		{ID: "r-1", UserID: "u-1", UserEmail: "ada@example.com", Status: models.ResetRequestPending},
	}, nil)

	rr := th.serve(asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/reset-requests", nil)))

	require.Equal(t, http.StatusOK, rr.Code)
	requests := decodeBody[[]models.ResetRequest](t, rr)
	require.Len(t, requests, 1)
	assert.Equal(t, "r-1", requests[0].ID)
}
