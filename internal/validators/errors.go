package validators

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrUnsupportedType = fmt.Errorf("%w: unsupported type for validation", ErrInvalidDataProvided)
	ErrUnknownField    = fmt.Errorf("%w: unknown field for validation", ErrInvalidDataProvided)

	ErrMissingRequiredFields = fmt.Errorf("%w: name, email, phone and password are required", ErrInvalidDataProvided)
	ErrInvalidEmail          = fmt.Errorf("%w: invalid email format", ErrInvalidDataProvided)
	ErrInvalidPhone          = fmt.Errorf("%w: phone must have 10 to 15 digits", ErrInvalidDataProvided)
	ErrPasswordTooShort      = fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidDataProvided)
	ErrMissingProof          = fmt.Errorf("%w: payment proof is required", ErrInvalidDataProvided)
	ErrInvalidProgress       = fmt.Errorf("%w: invalid progress entry", ErrInvalidDataProvided)
)
