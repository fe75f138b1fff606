package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
)

const adminKeyHeader = "X-Admin-Key"

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header, validates
// it via [service.AuthService.ParseToken] and stores the user id in the
// request context for downstream handlers. Any failure is answered with
// 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Info().Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Info().Err(err).Send()
			utils.WriteError(w, ErrInvalidAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx = utils.WithUserID(ctx, token.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminOnly lets a request through only when X-Admin-Key matches the
// configured admin key. An empty configured key closes the admin routes.
func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(adminKeyHeader)
		if h.adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.adminKey)) != 1 {
			logger.FromRequest(r).Warn().Str("uri", r.RequestURI).Msg("admin key rejected")
			utils.WriteError(w, ErrInvalidAdminKey.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// userID returns the id stored by [Handler.auth]. It is only called from
// routes behind that middleware.
func userID(r *http.Request) string {
	id, _ := utils.GetUserIDFromContext(r.Context())
	return id
}
