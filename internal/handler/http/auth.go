package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
	"github.com/MKhiriev/go-quest-ledger/models"
)

// resetRequestReply is sent whether or not the email is registered.
const resetRequestReply = "If the email is registered, the request has been passed to an admin."

type messageResponse struct {
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.FromRequest(r).Info().Err(err).Msg("invalid JSON was passed")
		return ErrInvalidJSON
	}
	return nil
}

// register creates the account and logs it in right away.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request models.RegisterRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.services.AuthService.Register(ctx, request); err != nil {
		writeError(w, r, err)
		return
	}

	response, err := h.services.AuthService.Login(ctx, models.LoginRequest{Email: request.Email, Password: request.Password})
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, response, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var request models.LoginRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, err)
		return
	}

	response, err := h.services.AuthService.Login(r.Context(), request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().Str("user_id", response.User.ID).Msg("user successfully logged in")
	_, _ = utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.services.AuthService.Me(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, profile, http.StatusOK)
}

func (h *Handler) resetRequest(w http.ResponseWriter, r *http.Request) {
	var request models.ResetPasswordRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.RequestPasswordReset(r.Context(), request.Email); err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, messageResponse{Message: resetRequestReply}, http.StatusOK)
}
