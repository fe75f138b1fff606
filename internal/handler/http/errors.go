// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors produced by the transport itself. Callers can match
// against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrInvalidAdminKey is returned when an admin route is called without
	// the configured X-Admin-Key.
	ErrInvalidAdminKey = errors.New("invalid admin key")

	ErrInvalidJSON      = errors.New("invalid JSON was passed")
	ErrInvalidForm      = errors.New("invalid multipart form")
	ErrMissingProofFile = errors.New("payment proof file is required")
)
