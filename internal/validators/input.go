package validators

import (
	"context"
	"regexp"
	"strings"

	"github.com/MKhiriev/go-quest-ledger/models"
)

// Field names accepted by [InputValidator.Validate].
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldPassword = "password"

	FieldUserID       = "user_id"
	FieldLanguageID   = "language_id"
	FieldDifficultyID = "difficulty_id"
	FieldLevel        = "level"
	FieldScore        = "score"

	FieldProofReference = "proof_reference"
)

// MinPasswordLength applies to registration and to admin password resets.
const MinPasswordLength = 8

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneDigits      = regexp.MustCompile(`^\d{10,15}$`)
	phoneDecorations = strings.NewReplacer(" ", "", "-", "", "+", "")
)

// InputValidator validates [models.RegisterRequest], [models.ProgressEntry]
// and [models.PaymentSubmission], as values or pointers.
type InputValidator struct{}

func NewInputValidator() Validator {
	return &InputValidator{}
}

func (v *InputValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegisterRequest(ctx, value, fields...)
	case *models.RegisterRequest:
		return v.validateRegisterRequest(ctx, *value, fields...)

	case models.ProgressEntry:
		return v.validateProgressEntry(ctx, value, fields...)
	case *models.ProgressEntry:
		return v.validateProgressEntry(ctx, *value, fields...)

	case models.PaymentSubmission:
		return v.validatePaymentSubmission(ctx, value, fields...)
	case *models.PaymentSubmission:
		return v.validatePaymentSubmission(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateRegisterRequest reports a missing field before any format error.
func (v *InputValidator) validateRegisterRequest(_ context.Context, r models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldEmail, FieldPassword, FieldPhone}
	}

	values := map[string]string{
		FieldName:     r.Name,
		FieldEmail:    r.Email,
		FieldPhone:    r.Phone,
		FieldPassword: r.Password,
	}
	for _, f := range fields {
		value, ok := values[f]
		if !ok {
			return ErrUnknownField
		}
		if strings.TrimSpace(value) == "" {
			return ErrMissingRequiredFields
		}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if !emailPattern.MatchString(r.Email) {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if len(r.Password) < MinPasswordLength {
				return ErrPasswordTooShort
			}
		case FieldPhone:
			if !phoneDigits.MatchString(phoneDecorations.Replace(r.Phone)) {
				return ErrInvalidPhone
			}
		}
	}

	return nil
}

// validateProgressEntry rejects entries whose key would not split back
// into the same language and difficulty.
func (v *InputValidator) validateProgressEntry(_ context.Context, e models.ProgressEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldLanguageID, FieldDifficultyID, FieldLevel, FieldScore}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if e.UserID == "" {
				return ErrInvalidProgress
			}
		case FieldLanguageID:
			if e.LanguageID == "" {
				return ErrInvalidProgress
			}
		case FieldDifficultyID:
			if e.DifficultyID == "" || strings.Contains(e.DifficultyID, "_") {
				return ErrInvalidProgress
			}
		case FieldLevel:
			if e.Level < 0 {
				return ErrInvalidProgress
			}
		case FieldScore:
			if e.Score < 0 {
				return ErrInvalidProgress
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *InputValidator) validatePaymentSubmission(_ context.Context, s models.PaymentSubmission, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldProofReference}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if s.UserID == "" {
				return ErrInvalidDataProvided
			}
		case FieldProofReference:
			if s.ProofReference == "" {
				return ErrMissingProof
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
