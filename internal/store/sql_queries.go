package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-quest-ledger/models"
)

const (
	usersTable         = "users"
	paymentsTable      = "payments"
	progressTable      = "progress"
	resetRequestsTable = "reset_requests"
)

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	userColumns = []string{
		"id", "name", "email", "phone", "password_hash",
		"free_trials", "points", "version", "created_at",
	}
	paymentColumns = []string{
		"id", "user_id", "user_name", "user_email", "package_type", "package_name",
		"points", "amount", "method", "proof_reference", "status", "created_at",
		"approved_at", "rejected_at", "reject_reason", "credited_at",
	}
	progressColumns = []string{
		"user_id", "language_id", "difficulty_id", "level", "score",
	}
	resetRequestColumns = []string{
		"id", "user_id", "user_name", "user_email", "user_phone", "requested_at", "status",
	}
)

// upsertProgressSuffix folds a new attempt into an existing row in the
// same statement: the level only grows and the score accumulates.
const upsertProgressSuffix = `ON CONFLICT (user_id, language_id, difficulty_id) DO UPDATE
	SET level = GREATEST(progress.level, EXCLUDED.level),
		score = progress.score + EXCLUDED.score
	RETURNING user_id, language_id, difficulty_id, level, score`

func buildSelectUserQuery(where sq.Eq) sq.SelectBuilder {
	return psql.Select(userColumns...).From(usersTable).Where(where)
}

func buildPhoneExistsQuery(phone string) sq.SelectBuilder {
	return psql.Select("1").From(usersTable).Where(sq.Eq{"phone": phone}).Limit(1)
}

func buildInsertUserQuery(user models.User) sq.InsertBuilder {
	return psql.Insert(usersTable).SetMap(userToRecord(user))
}

// buildUpdateUserQuery bumps the version on every update and, when the
// patch carries an expected version, only matches that version.
func buildUpdateUserQuery(id string, patch models.UserPatch) sq.UpdateBuilder {
	query := psql.Update(usersTable).
		SetMap(userPatchToRecord(patch)).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"id": id})

	if patch.ExpectedVersion != nil {
		query = query.Where(sq.Eq{"version": *patch.ExpectedVersion})
	}

	return query.Suffix("RETURNING " + strings.Join(userColumns, ", "))
}

func buildListUsersQuery() sq.SelectBuilder {
	return psql.Select(userColumns...).From(usersTable).OrderBy("created_at DESC")
}

func buildInsertPaymentQuery(payment models.Payment) sq.InsertBuilder {
	return psql.Insert(paymentsTable).SetMap(paymentToRecord(payment))
}

func buildSelectPaymentsQuery(where sq.Sqlizer) sq.SelectBuilder {
	query := psql.Select(paymentColumns...).From(paymentsTable)
	if where != nil {
		query = query.Where(where)
	}
	return query.OrderBy("created_at DESC")
}

// buildUpdatePaymentQuery applies the patch and, when the patch carries an
// expected status, only matches rows still in that status. An empty patch
// still runs the guarded statement.
func buildUpdatePaymentQuery(id string, patch models.PaymentPatch) sq.UpdateBuilder {
	changes := paymentPatchToRecord(patch)
	query := psql.Update(paymentsTable).
		SetMap(changes).
		Where(sq.Eq{"id": id})

	if len(changes) == 0 {
		query = query.Set("status", sq.Expr("status"))
	}

	if patch.ExpectedStatus != nil {
		query = query.Where(sq.Eq{"status": string(*patch.ExpectedStatus)})
	}

	return query.Suffix("RETURNING " + strings.Join(paymentColumns, ", "))
}

func buildSelectProgressQuery(userID string) sq.SelectBuilder {
	return psql.Select(progressColumns...).From(progressTable).Where(sq.Eq{"user_id": userID})
}

func buildUpsertProgressQuery(entry models.ProgressEntry) sq.InsertBuilder {
	return psql.Insert(progressTable).
		SetMap(progressToRecord(entry)).
		Suffix(upsertProgressSuffix)
}

func buildInsertResetRequestQuery(request models.ResetRequest) sq.InsertBuilder {
	return psql.Insert(resetRequestsTable).SetMap(resetRequestToRecord(request))
}

func buildListResetRequestsQuery() sq.SelectBuilder {
	return psql.Select(resetRequestColumns...).From(resetRequestsTable).OrderBy("requested_at DESC")
}
