// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/metrics"
	"github.com/MKhiriev/go-quest-ledger/internal/store"
	"github.com/MKhiriev/go-quest-ledger/internal/validators"
	"github.com/MKhiriev/go-quest-ledger/models"
)

// Balance updates are compare-and-set on the user version. A lost race is
// retried from a fresh read, at most balanceAttempts times in total.
const (
	balanceAttempts = 5
	balanceBackoff  = 5 * time.Millisecond
)

type ledgerService struct {
	storage   store.Storage
	metrics   *metrics.Metrics
	validator validators.Validator
	backoff   func() retry.Backoff
	logger    *logger.Logger
}

// NewLedgerService constructs the [LedgerService] on top of storage.
func NewLedgerService(storage store.Storage, m *metrics.Metrics, logger *logger.Logger) LedgerService {
	return &ledgerService{
		storage:   storage,
		metrics:   m,
		validator: validators.NewInputValidator(),
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(balanceAttempts-1, retry.NewExponential(balanceBackoff))
		},
		logger: logger,
	}
}

func (l *ledgerService) Debit(ctx context.Context, userID string, cost int64) (models.User, error) {
	if userID == "" || cost < 1 {
		return models.User{}, ErrInvalidDataProvided
	}

	var resource string
	user, err := l.updateBalance(ctx, userID, func(u models.User) (models.UserPatch, error) {
		switch {
		case u.FreeTrials > 0:
			resource = metrics.ResourceFreeTrial
			trials := u.FreeTrials - 1
			return models.UserPatch{FreeTrials: &trials}, nil
		case u.Points >= 1:
			resource = metrics.ResourcePoints
			points := u.Points - 1
			return models.UserPatch{Points: &points}, nil
		default:
			return models.UserPatch{}, ErrInsufficientEntitlement
		}
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "ledgerService.Debit").Str("user_id", userID).Msg("debit failed")
		return models.User{}, err
	}

	l.metrics.RecordDebit(resource)
	return user, nil
}

func (l *ledgerService) Credit(ctx context.Context, userID string, points int64) (models.User, error) {
	if userID == "" || points < 1 {
		return models.User{}, ErrInvalidDataProvided
	}

	user, err := l.updateBalance(ctx, userID, func(u models.User) (models.UserPatch, error) {
		total := u.Points + points
		return models.UserPatch{Points: &total}, nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "ledgerService.Credit").
			Str("user_id", userID).
			Int64("points", points).
			Msg("credit failed")
		return models.User{}, err
	}

	l.metrics.RecordCredit(points)
	return user, nil
}

func (l *ledgerService) GrantTrial(ctx context.Context, userID string) (models.User, error) {
	if userID == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	user, err := l.updateBalance(ctx, userID, func(u models.User) (models.UserPatch, error) {
		trials := u.FreeTrials + 1
		return models.UserPatch{FreeTrials: &trials}, nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "ledgerService.GrantTrial").Str("user_id", userID).Msg("granting trial failed")
		return models.User{}, err
	}

	return user, nil
}

// updateBalance reads the user, lets change compute the patch and writes it
// guarded by the version that was read.
func (l *ledgerService) updateBalance(ctx context.Context, userID string, change func(models.User) (models.UserPatch, error)) (models.User, error) {
	var updated models.User

	err := retry.Do(ctx, l.backoff(), func(ctx context.Context) error {
		user, err := l.storage.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		patch, err := change(user)
		if err != nil {
			return err
		}
		patch.ExpectedVersion = &user.Version

		updated, err = l.storage.UpdateUser(ctx, userID, patch)
		if errors.Is(err, store.ErrVersionConflict) {
			logger.FromContext(ctx).Debug().
				Str("func", "ledgerService.updateBalance").
				Str("user_id", userID).
				Int64("version", user.Version).
				Msg("balance changed concurrently, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	return updated, nil
}

func (l *ledgerService) RecordProgress(ctx context.Context, userID, languageID, difficultyID string, level, score int64) (models.ProgressMap, error) {
	entry := models.ProgressEntry{
		UserID:       userID,
		LanguageID:   languageID,
		DifficultyID: difficultyID,
		Level:        level,
		Score:        score,
	}
	if err := l.validator.Validate(ctx, entry); err != nil {
		return nil, err
	}

	if _, err := l.storage.UpsertProgress(ctx, entry); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "ledgerService.RecordProgress").
			Str("user_id", userID).
			Str("key", string(entry.Key())).
			Msg("failed to record progress")
		return nil, err
	}

	return l.GetProgress(ctx, userID)
}

func (l *ledgerService) GetProgress(ctx context.Context, userID string) (models.ProgressMap, error) {
	entries, err := l.storage.GetProgress(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "ledgerService.GetProgress").Str("user_id", userID).Msg("failed to read progress")
		return nil, err
	}

	progress := make(models.ProgressMap, len(entries))
	for key, e := range entries {
		progress[key] = models.Progress{Level: e.Level, Score: e.Score}
	}
	return progress, nil
}

func (l *ledgerService) Attempt(ctx context.Context, userID string, attempt models.Attempt) (models.AttemptResult, error) {
	err := l.validator.Validate(ctx, models.ProgressEntry{
		UserID:       userID,
		LanguageID:   attempt.LanguageID,
		DifficultyID: attempt.DifficultyID,
		Level:        attempt.Level,
		Score:        attempt.Score,
	})
	if err != nil {
		return models.AttemptResult{}, err
	}

	user, err := l.Debit(ctx, userID, 1)
	if err != nil {
		return models.AttemptResult{}, err
	}

	progress, err := l.RecordProgress(ctx, userID, attempt.LanguageID, attempt.DifficultyID, attempt.Level, attempt.Score)
	if err != nil {
		return models.AttemptResult{}, fmt.Errorf("attempt debited but progress not recorded: %w", err)
	}

	return models.AttemptResult{Balance: user.Balance(), Progress: progress}, nil
}
