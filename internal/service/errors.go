package service

import (
	"errors"

	"github.com/MKhiriev/go-quest-ledger/internal/validators"
)

var (
	ErrInvalidDataProvided     = validators.ErrInvalidDataProvided
	ErrInsufficientEntitlement = errors.New("no free trials or points left")
	ErrInvalidCatalogEntry     = errors.New("package does not match catalog")
	ErrAlreadyProcessed        = errors.New("payment already processed")
	ErrPaymentNotCredited      = errors.New("payment approved but points were not credited")

	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)

// Validation failures. All of them match ErrInvalidDataProvided.
var (
	ErrMissingRequiredFields = validators.ErrMissingRequiredFields
	ErrInvalidEmail          = validators.ErrInvalidEmail
	ErrInvalidPhone          = validators.ErrInvalidPhone
	ErrPasswordTooShort      = validators.ErrPasswordTooShort
	ErrMissingProof          = validators.ErrMissingProof
	ErrInvalidProgress       = validators.ErrInvalidProgress
)
