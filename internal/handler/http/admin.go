package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/service"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
	"github.com/MKhiriev/go-quest-ledger/models"
)

type trialResponse struct {
	Message    string `json:"message"`
	FreeTrials int64  `json:"freeTrials"`
}

func (h *Handler) listAllPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.services.PaymentService.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, payments, http.StatusOK)
}

func (h *Handler) approvePayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.services.PaymentService.Approve(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, service.ErrPaymentNotCredited) {
		// the decision is stored; the admin must see that the points are missing
		logger.FromRequest(r).Err(err).Str("payment_id", payment.ID).Msg("approved without credit")
		utils.WriteError(w, service.ErrPaymentNotCredited.Error(), http.StatusInternalServerError)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, payment, http.StatusOK)
}

func (h *Handler) rejectPayment(w http.ResponseWriter, r *http.Request) {
	var request models.RejectRequest
	// an empty body means the default reason
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &request); err != nil {
			writeError(w, r, err)
			return
		}
	}

	payment, err := h.services.PaymentService.Reject(r.Context(), chi.URLParam(r, "id"), request.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, payment, http.StatusOK)
}

func (h *Handler) getPaymentProof(w http.ResponseWriter, r *http.Request) {
	payment, err := h.services.PaymentService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.streamProof(w, r, payment.ProofReference)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.services.AuthService.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, users, http.StatusOK)
}

func (h *Handler) setUserPassword(w http.ResponseWriter, r *http.Request) {
	var request models.SetPasswordRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.SetPassword(r.Context(), chi.URLParam(r, "userId"), request.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, messageResponse{Message: "password changed"}, http.StatusOK)
}

func (h *Handler) addTrial(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.LedgerService.GrantTrial(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, trialResponse{Message: "trial added", FreeTrials: user.FreeTrials}, http.StatusOK)
}

func (h *Handler) listResetRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.services.AuthService.ListResetRequests(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, requests, http.StatusOK)
}
