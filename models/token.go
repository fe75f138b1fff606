package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a signed access token issued after login or registration.
//
// The subject ("sub") claim carries the user ID.
type Token struct {
	jwt.RegisteredClaims

	// SignedString is the compact JWS form (header.payload.signature).
	SignedString string `json:"-"`

	// UserID is the parsed subject claim.
	UserID string `json:"-"`
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}

// Expiry returns the expiration time of the token or the zero time.
func (t *Token) Expiry() time.Time {
	if t.ExpiresAt == nil {
		return time.Time{}
	}
	return t.ExpiresAt.Time
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}
