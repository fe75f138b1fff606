package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/notify"
	"github.com/MKhiriev/go-quest-ledger/internal/store"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
	"github.com/MKhiriev/go-quest-ledger/internal/validators"
	"github.com/MKhiriev/go-quest-ledger/models"
)

// authService handles registration, password login with JWT issuance and
// the admin side of account management.
type authService struct {
	storage   store.Storage
	notifier  notify.Notifier
	validator validators.Validator
	ids       *utils.UUIDGenerator

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string
	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	tokenIssuer   string
	tokenDuration time.Duration

	initialFreeTrials int64
	hashCost          int

	now    func() time.Time
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService. Security parameters and the
// trial balance of new accounts come from cfg.
func NewAuthService(storage store.Storage, notifier notify.Notifier, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		storage:           storage,
		notifier:          notifier,
		validator:         validators.NewInputValidator(),
		ids:               utils.NewUUIDGenerator(),
		tokenSignKey:      cfg.TokenSignKey,
		tokenIssuer:       cfg.TokenIssuer,
		tokenDuration:     cfg.TokenDuration,
		initialFreeTrials: cfg.FreeTrialsOnRegistration(),
		hashCost:          bcrypt.DefaultCost,
		now:               func() time.Time { return time.Now().UTC() },
		logger:            logger,
	}
}

// Register validates the request and creates the account with the initial
// trial balance and no points.
//
// Returns ErrInvalidDataProvided (or one of the validation errors wrapping
// it) for bad input and store.ErrEmailAlreadyExists /
// store.ErrPhoneAlreadyExists for duplicates.
func (a *authService) Register(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	request.Name = strings.TrimSpace(request.Name)
	request.Email = strings.TrimSpace(request.Email)
	request.Phone = strings.TrimSpace(request.Phone)

	if err := a.validator.Validate(ctx, request); err != nil {
		log.Warn().Err(err).Str("func", "authService.Register").Str("email", request.Email).Msg("invalid registration")
		return models.User{}, err
	}

	if _, err := a.storage.GetUserByEmail(ctx, request.Email); err == nil {
		return models.User{}, store.ErrEmailAlreadyExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, err
	}

	taken, err := a.storage.PhoneExists(ctx, request.Phone)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, store.ErrPhoneAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), a.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		ID:           a.ids.Generate(),
		Name:         request.Name,
		Email:        request.Email,
		Phone:        request.Phone,
		PasswordHash: string(hash),
		FreeTrials:   a.initialFreeTrials,
		Points:       0,
		CreatedAt:    a.now(),
	}

	// uniqueness is enforced again by the store for concurrent registrations
	if err = a.storage.CreateUser(ctx, user); err != nil {
		log.Err(err).Str("func", "authService.Register").Str("email", user.Email).Msg("user creation ended with error")
		return models.User{}, err
	}

	a.notifier.Notify(ctx, models.Event{
		Type:       models.EventUserRegistered,
		UserID:     user.ID,
		Attributes: map[string]string{"name": user.Name, "email": user.Email, "phone": user.Phone},
		OccurredAt: a.now(),
	})

	return user, nil
}

// Login checks the password and issues a token. Unknown emails and wrong
// passwords both give ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	if request.Email == "" || request.Password == "" {
		return models.AuthResponse{}, ErrInvalidDataProvided
	}

	user, err := a.storage.GetUserByEmail(ctx, strings.TrimSpace(request.Email))
	if errors.Is(err, store.ErrUserNotFound) {
		return models.AuthResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Str("func", "authService.Login").Msg("user search by email failed")
		return models.AuthResponse{}, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		log.Info().Str("func", "authService.Login").Str("user_id", user.ID).Msg("wrong password")
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.ID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.AuthResponse{Token: token.String(), User: user.Profile()}, nil
}

// ParseToken normalises every validation failure to
// ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "authService.ParseToken").Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

func (a *authService) Me(ctx context.Context, userID string) (models.UserProfile, error) {
	user, err := a.storage.GetUserByID(ctx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return user.Profile(), nil
}

// RequestPasswordReset records a reset request when email belongs to a
// user. Unknown emails succeed silently so callers cannot enumerate accounts.
func (a *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrInvalidDataProvided
	}

	user, err := a.storage.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	request := models.ResetRequest{
		ID:          a.ids.Generate(),
		UserID:      user.ID,
		UserName:    user.Name,
		UserEmail:   user.Email,
		UserPhone:   user.Phone,
		RequestedAt: a.now(),
		Status:      models.ResetRequestPending,
	}
	if err = a.storage.AddResetRequest(ctx, request); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.RequestPasswordReset").Str("user_id", user.ID).Msg("failed to store reset request")
		return err
	}

	a.notifier.Notify(ctx, models.Event{
		Type:       models.EventPasswordResetRequested,
		UserID:     user.ID,
		Attributes: map[string]string{"name": user.Name, "email": user.Email, "phone": user.Phone},
		OccurredAt: request.RequestedAt,
	})
	return nil
}

// SetPassword replaces a user's password on behalf of an admin.
func (a *authService) SetPassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < validators.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.hashCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	encoded := string(hash)

	user, err := a.storage.UpdateUser(ctx, userID, models.UserPatch{PasswordHash: &encoded})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.SetPassword").Str("user_id", userID).Msg("failed to set password")
		return err
	}

	a.notifier.Notify(ctx, models.Event{
		Type:       models.EventPasswordReset,
		Recipient:  user.Email,
		UserID:     user.ID,
		OccurredAt: a.now(),
	})
	return nil
}

func (a *authService) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	users, err := a.storage.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

func (a *authService) ListResetRequests(ctx context.Context) ([]models.ResetRequest, error) {
	return a.storage.ListResetRequests(ctx)
}
