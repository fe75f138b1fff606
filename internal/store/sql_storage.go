package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/models"
)

// sqlStorage is the remote [Storage] driver. Every operation is a single
// statement; rows pass through the record mapper in both directions.
type sqlStorage struct {
	db     *DB
	logger *logger.Logger
}

// NewSQLStorage wraps an open Postgres pool.
func NewSQLStorage(db *DB, log *logger.Logger) Storage {
	log.Debug().Msg("creating sql storage")
	return &sqlStorage{
		db:     db,
		logger: log,
	}
}

func (s *sqlStorage) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return s.getUser(ctx, sq.Eq{"id": id})
}

func (s *sqlStorage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getUser(ctx, sq.Eq{"email": email})
}

func (s *sqlStorage) getUser(ctx context.Context, where sq.Eq) (models.User, error) {
	record, found, err := s.db.queryRecord(ctx, buildSelectUserQuery(where), true)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqlStorage.getUser").Msg("failed to select user")
		return models.User{}, err
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	return userFromRecord(record), nil
}

func (s *sqlStorage) PhoneExists(ctx context.Context, phone string) (bool, error) {
	if phone == "" {
		return false, nil
	}

	_, found, err := s.db.queryRecord(ctx, buildPhoneExistsQuery(phone), true)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqlStorage.PhoneExists").Msg("failed to check phone")
		return false, err
	}
	return found, nil
}

func (s *sqlStorage) CreateUser(ctx context.Context, user models.User) error {
	if _, err := s.db.exec(ctx, buildInsertUserQuery(user)); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqlStorage.CreateUser").
			Str("user_id", user.ID).
			Msg("failed to insert user")
		return userWriteError(err)
	}
	return nil
}

func (s *sqlStorage) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	log := logger.FromContext(ctx)

	record, found, err := s.db.queryRecord(ctx, buildUpdateUserQuery(id, patch), false)
	if err != nil {
		log.Err(err).Str("func", "sqlStorage.UpdateUser").Str("user_id", id).Msg("failed to update user")
		return models.User{}, userWriteError(err)
	}
	if found {
		return userFromRecord(record), nil
	}

	// nothing matched: either the user is gone or the version moved on
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return models.User{}, err
	}
	log.Debug().Str("func", "sqlStorage.UpdateUser").Str("user_id", id).Msg("user version conflict")
	return models.User{}, ErrVersionConflict
}

func (s *sqlStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	records, err := s.db.queryRecords(ctx, buildListUsersQuery(), true)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqlStorage.ListUsers").Msg("failed to list users")
		return nil, err
	}

	users := make([]models.User, 0, len(records))
	for _, record := range records {
		users = append(users, userFromRecord(record))
	}
	return users, nil
}

func (s *sqlStorage) CreatePayment(ctx context.Context, payment models.Payment) error {
	if _, err := s.db.exec(ctx, buildInsertPaymentQuery(payment)); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqlStorage.CreatePayment").
			Str("payment_id", payment.ID).
			Str("user_id", payment.UserID).
			Msg("failed to insert payment")

		if code, _ := postgresError(err); code == pgerrcode.UniqueViolation {
			return fmt.Errorf("payment %s %w", payment.ID, ErrConflict)
		}
		return err
	}
	return nil
}

func (s *sqlStorage) GetPaymentByID(ctx context.Context, id string) (models.Payment, error) {
	record, found, err := s.db.queryRecord(ctx, buildSelectPaymentsQuery(sq.Eq{"id": id}), true)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqlStorage.GetPaymentByID").Str("payment_id", id).Msg("failed to select payment")
		return models.Payment{}, err
	}
	if !found {
		return models.Payment{}, ErrPaymentNotFound
	}
	return paymentFromRecord(record), nil
}

func (s *sqlStorage) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return s.listPayments(ctx, nil)
}

func (s *sqlStorage) ListPaymentsByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.listPayments(ctx, sq.Eq{"user_id": userID})
}

func (s *sqlStorage) listPayments(ctx context.Context, where sq.Sqlizer) ([]models.Payment, error) {
	records, err := s.db.queryRecords(ctx, buildSelectPaymentsQuery(where), true)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqlStorage.listPayments").Msg("failed to list payments")
		return nil, err
	}

	payments := make([]models.Payment, 0, len(records))
	for _, record := range records {
		payments = append(payments, paymentFromRecord(record))
	}
	return payments, nil
}

func (s *sqlStorage) UpdatePayment(ctx context.Context, id string, patch models.PaymentPatch) (models.Payment, error) {
	log := logger.FromContext(ctx)

	record, found, err := s.db.queryRecord(ctx, buildUpdatePaymentQuery(id, patch), false)
	if err != nil {
		log.Err(err).Str("func", "sqlStorage.UpdatePayment").Str("payment_id", id).Msg("failed to update payment")
		return models.Payment{}, err
	}
	if found {
		return paymentFromRecord(record), nil
	}

	if _, err := s.GetPaymentByID(ctx, id); err != nil {
		return models.Payment{}, err
	}
	log.Debug().Str("func", "sqlStorage.UpdatePayment").Str("payment_id", id).Msg("payment status conflict")
	return models.Payment{}, ErrPaymentStateConflict
}

func (s *sqlStorage) GetProgress(ctx context.Context, userID string) (map[models.ProgressKey]models.ProgressEntry, error) {
	records, err := s.db.queryRecords(ctx, buildSelectProgressQuery(userID), true)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqlStorage.GetProgress").Str("user_id", userID).Msg("failed to select progress")
		return nil, err
	}

	result := make(map[models.ProgressKey]models.ProgressEntry, len(records))
	for _, record := range records {
		entry := progressFromRecord(record)
		result[entry.Key()] = entry
	}
	return result, nil
}

func (s *sqlStorage) UpsertProgress(ctx context.Context, entry models.ProgressEntry) (models.ProgressEntry, error) {
	record, found, err := s.db.queryRecord(ctx, buildUpsertProgressQuery(entry), false)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqlStorage.UpsertProgress").
			Str("user_id", entry.UserID).
			Str("key", string(entry.Key())).
			Msg("failed to upsert progress")
		return models.ProgressEntry{}, err
	}
	if !found {
		return models.ProgressEntry{}, fmt.Errorf("%w: upsert returned no row", ErrBackendUnavailable)
	}
	return progressFromRecord(record), nil
}

func (s *sqlStorage) AddResetRequest(ctx context.Context, request models.ResetRequest) error {
	if _, err := s.db.exec(ctx, buildInsertResetRequestQuery(request)); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqlStorage.AddResetRequest").
			Str("user_id", request.UserID).
			Msg("failed to insert reset request")
		return err
	}
	return nil
}

func (s *sqlStorage) ListResetRequests(ctx context.Context) ([]models.ResetRequest, error) {
	records, err := s.db.queryRecords(ctx, buildListResetRequestsQuery(), true)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqlStorage.ListResetRequests").Msg("failed to list reset requests")
		return nil, err
	}

	requests := make([]models.ResetRequest, 0, len(records))
	for _, record := range records {
		requests = append(requests, resetRequestFromRecord(record))
	}
	return requests, nil
}

func (s *sqlStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable(ErrExecutingQuery, err)
	}
	return nil
}

func (s *sqlStorage) Close() error {
	return s.db.Close()
}
