// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/models"
)

// Collection file names inside the storage directory.
const (
	usersFile    = "users.json"
	paymentsFile = "payments.json"
	progressFile = "progress.json"
	resetsFile   = "resets.json"
)

// progressDocument is the on-disk progress layout:
// {userId: {"lang_diff": {level, score}}}.
type progressDocument map[string]map[models.ProgressKey]models.Progress

// fileStorage is the local [Storage] driver. Each collection lives in its
// own JSON file and is rewritten as a whole on every change.
type fileStorage struct {
	dir      string
	users    *fileCollection[[]models.User]
	payments *fileCollection[[]models.Payment]
	progress *fileCollection[progressDocument]
	resets   *fileCollection[[]models.ResetRequest]
	logger   *logger.Logger
}

// NewFileStorage opens (creating when missing) the four collection files
// in dir.
func NewFileStorage(dir string, log *logger.Logger) (Storage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.Err(err).Str("func", "store.NewFileStorage").Str("dir", dir).Msg("failed to create storage directory")
		return nil, unavailable(ErrWritingFile, err)
	}

	users, err := newFileCollection(dir, usersFile, func() []models.User { return []models.User{} })
	if err != nil {
		return nil, err
	}
	payments, err := newFileCollection(dir, paymentsFile, func() []models.Payment { return []models.Payment{} })
	if err != nil {
		return nil, err
	}
	progress, err := newFileCollection(dir, progressFile, func() progressDocument { return progressDocument{} })
	if err != nil {
		return nil, err
	}
	resets, err := newFileCollection(dir, resetsFile, func() []models.ResetRequest { return []models.ResetRequest{} })
	if err != nil {
		return nil, err
	}

	log.Debug().Str("func", "store.NewFileStorage").Str("dir", dir).Msg("file storage opened")

	return &fileStorage{
		dir:      dir,
		users:    users,
		payments: payments,
		progress: progress,
		resets:   resets,
		logger:   log,
	}, nil
}

func (s *fileStorage) GetUserByID(ctx context.Context, id string) (models.User, error) {
	users, err := s.users.read(ctx)
	if err != nil {
		return models.User{}, err
	}

	i := slices.IndexFunc(users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return models.User{}, ErrUserNotFound
	}
	return users[i], nil
}

func (s *fileStorage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	users, err := s.users.read(ctx)
	if err != nil {
		return models.User{}, err
	}

	i := slices.IndexFunc(users, func(u models.User) bool { return u.Email == email })
	if i < 0 {
		return models.User{}, ErrUserNotFound
	}
	return users[i], nil
}

func (s *fileStorage) PhoneExists(ctx context.Context, phone string) (bool, error) {
	if phone == "" {
		return false, nil
	}

	users, err := s.users.read(ctx)
	if err != nil {
		return false, err
	}

	return slices.ContainsFunc(users, func(u models.User) bool { return u.Phone == phone }), nil
}

func (s *fileStorage) CreateUser(ctx context.Context, user models.User) error {
	return s.users.mutate(ctx, func(users *[]models.User) error {
		for _, u := range *users {
			if u.Email == user.Email {
				return ErrEmailAlreadyExists
			}
			if user.Phone != "" && u.Phone == user.Phone {
				return ErrPhoneAlreadyExists
			}
		}
		*users = append(*users, user)
		return nil
	})
}

func (s *fileStorage) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	var updated models.User
	err := s.users.mutate(ctx, func(users *[]models.User) error {
		i := slices.IndexFunc(*users, func(u models.User) bool { return u.ID == id })
		if i < 0 {
			return ErrUserNotFound
		}

		current := (*users)[i]
		if patch.ExpectedVersion != nil && *patch.ExpectedVersion != current.Version {
			return ErrVersionConflict
		}

		next := patch.Apply(current)
		if next.FreeTrials < 0 || next.Points < 0 {
			return ErrNegativeBalance
		}
		next.Version++

		(*users)[i] = next
		updated = next
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return updated, nil
}

func (s *fileStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.read(ctx)
	if err != nil {
		return nil, err
	}

	sortNewestFirst(users, func(u models.User) time.Time { return u.CreatedAt })
	return users, nil
}

func (s *fileStorage) CreatePayment(ctx context.Context, payment models.Payment) error {
	return s.payments.mutate(ctx, func(payments *[]models.Payment) error {
		if slices.ContainsFunc(*payments, func(p models.Payment) bool { return p.ID == payment.ID }) {
			return fmt.Errorf("payment %s %w", payment.ID, ErrConflict)
		}
		*payments = append(*payments, payment)
		return nil
	})
}

func (s *fileStorage) GetPaymentByID(ctx context.Context, id string) (models.Payment, error) {
	payments, err := s.payments.read(ctx)
	if err != nil {
		return models.Payment{}, err
	}

	i := slices.IndexFunc(payments, func(p models.Payment) bool { return p.ID == id })
	if i < 0 {
		return models.Payment{}, ErrPaymentNotFound
	}
	return payments[i], nil
}

func (s *fileStorage) ListPayments(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.payments.read(ctx)
	if err != nil {
		return nil, err
	}

	sortNewestFirst(payments, func(p models.Payment) time.Time { return p.CreatedAt })
	return payments, nil
}

func (s *fileStorage) ListPaymentsByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	payments, err := s.ListPayments(ctx)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(payments, func(p models.Payment) bool { return p.UserID != userID }), nil
}

func (s *fileStorage) UpdatePayment(ctx context.Context, id string, patch models.PaymentPatch) (models.Payment, error) {
	var updated models.Payment
	err := s.payments.mutate(ctx, func(payments *[]models.Payment) error {
		i := slices.IndexFunc(*payments, func(p models.Payment) bool { return p.ID == id })
		if i < 0 {
			return ErrPaymentNotFound
		}

		current := (*payments)[i]
		if patch.ExpectedStatus != nil && *patch.ExpectedStatus != current.Status {
			return ErrPaymentStateConflict
		}

		updated = patch.Apply(current)
		(*payments)[i] = updated
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}
	return updated, nil
}

func (s *fileStorage) GetProgress(ctx context.Context, userID string) (map[models.ProgressKey]models.ProgressEntry, error) {
	doc, err := s.progress.read(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[models.ProgressKey]models.ProgressEntry, len(doc[userID]))
	for key, p := range doc[userID] {
		languageID, difficultyID := key.Split()
		result[key] = models.ProgressEntry{
			UserID:       userID,
			LanguageID:   languageID,
			DifficultyID: difficultyID,
			Level:        p.Level,
			Score:        p.Score,
		}
	}
	return result, nil
}

func (s *fileStorage) UpsertProgress(ctx context.Context, entry models.ProgressEntry) (models.ProgressEntry, error) {
	var merged models.ProgressEntry
	err := s.progress.mutate(ctx, func(doc *progressDocument) error {
		tracks, ok := (*doc)[entry.UserID]
		if !ok {
			tracks = make(map[models.ProgressKey]models.Progress)
			(*doc)[entry.UserID] = tracks
		}

		key := entry.Key()
		current := tracks[key]
		merged = models.ProgressEntry{
			UserID:       entry.UserID,
			LanguageID:   entry.LanguageID,
			DifficultyID: entry.DifficultyID,
			Level:        current.Level,
			Score:        current.Score,
		}.Merge(entry.Level, entry.Score)

		tracks[key] = models.Progress{Level: merged.Level, Score: merged.Score}
		return nil
	})
	if err != nil {
		return models.ProgressEntry{}, err
	}
	return merged, nil
}

func (s *fileStorage) AddResetRequest(ctx context.Context, request models.ResetRequest) error {
	return s.resets.mutate(ctx, func(resets *[]models.ResetRequest) error {
		*resets = append(*resets, request)
		return nil
	})
}

func (s *fileStorage) ListResetRequests(ctx context.Context) ([]models.ResetRequest, error) {
	resets, err := s.resets.read(ctx)
	if err != nil {
		return nil, err
	}

	sortNewestFirst(resets, func(r models.ResetRequest) time.Time { return r.RequestedAt })
	return resets, nil
}

// Ping checks that the storage directory is still reachable.
func (s *fileStorage) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.dir); err != nil {
		return unavailable(ErrReadingFile, err)
	}
	return nil
}

func (s *fileStorage) Close() error {
	return nil
}

func sortNewestFirst[T any](items []T, at func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		return at(b).Compare(at(a))
	})
}
