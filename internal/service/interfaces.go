// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-quest-ledger/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// LedgerService owns every change to a user's free trials and points.
type LedgerService interface {
	// Debit spends one unit for an attempt: a free trial while any are
	// left, otherwise a point.
	Debit(ctx context.Context, userID string, cost int64) (models.User, error)
	Credit(ctx context.Context, userID string, points int64) (models.User, error)
	GrantTrial(ctx context.Context, userID string) (models.User, error)

	RecordProgress(ctx context.Context, userID, languageID, difficultyID string, level, score int64) (models.ProgressMap, error)
	GetProgress(ctx context.Context, userID string) (models.ProgressMap, error)

	// Attempt debits the user and records progress only when the debit
	// succeeded.
	Attempt(ctx context.Context, userID string, attempt models.Attempt) (models.AttemptResult, error)
}

// PaymentService runs the pending -> approved | rejected state machine.
type PaymentService interface {
	// CheckPackage fails with ErrInvalidCatalogEntry unless the package,
	// points and amount are exactly a catalog entry.
	CheckPackage(ctx context.Context, packageType models.PackageType, points, amount int64) (models.Package, error)
	Submit(ctx context.Context, submission models.PaymentSubmission) (models.Payment, error)
	Approve(ctx context.Context, paymentID string) (models.Payment, error)
	Reject(ctx context.Context, paymentID, reason string) (models.Payment, error)

	Get(ctx context.Context, paymentID string) (models.Payment, error)
	ListAll(ctx context.Context) ([]models.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Payment, error)
	// FindUncredited returns approved payments without a recorded credit
	// that were approved more than olderThan ago.
	FindUncredited(ctx context.Context, olderThan time.Duration) ([]models.Payment, error)
}

type AuthService interface {
	Register(ctx context.Context, request models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
	Me(ctx context.Context, userID string) (models.UserProfile, error)

	RequestPasswordReset(ctx context.Context, email string) error
	SetPassword(ctx context.Context, userID, newPassword string) error
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
	ListResetRequests(ctx context.Context) ([]models.ResetRequest, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
