// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-quest-ledger/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Storage is the persistence contract shared by the local file driver and
// the remote Postgres driver. Both return the same entities and the same
// sentinel errors; callers never learn which one is active.
type Storage interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	CreateUser(ctx context.Context, user models.User) error
	// UpdateUser applies patch and bumps the version. It fails with
	// ErrVersionConflict when patch.ExpectedVersion no longer matches.
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) (models.User, error)
	// ListUsers returns every user, newest first.
	ListUsers(ctx context.Context) ([]models.User, error)

	CreatePayment(ctx context.Context, payment models.Payment) error
	GetPaymentByID(ctx context.Context, id string) (models.Payment, error)
	// ListPayments returns every payment, newest first.
	ListPayments(ctx context.Context) ([]models.Payment, error)
	ListPaymentsByUser(ctx context.Context, userID string) ([]models.Payment, error)
	// UpdatePayment applies patch. It fails with ErrPaymentStateConflict when
	// patch.ExpectedStatus no longer matches.
	UpdatePayment(ctx context.Context, id string, patch models.PaymentPatch) (models.Payment, error)

	GetProgress(ctx context.Context, userID string) (map[models.ProgressKey]models.ProgressEntry, error)
	// UpsertProgress folds entry into the stored one (max level, summed
	// score) in a single step and returns the result.
	UpsertProgress(ctx context.Context, entry models.ProgressEntry) (models.ProgressEntry, error)

	AddResetRequest(ctx context.Context, request models.ResetRequest) error
	// ListResetRequests returns every reset request, newest first.
	ListResetRequests(ctx context.Context) ([]models.ResetRequest, error)

	Ping(ctx context.Context) error
	Close() error
}
