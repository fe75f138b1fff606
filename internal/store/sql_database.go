package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
)

// Read retry policy for transient Postgres failures.
const (
	readRetries      = 3
	readRetryBackoff = 50 * time.Millisecond
)

// DB is a Postgres connection pool with the error classification used to
// decide which reads are worth retrying.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	backoff            func() retry.Backoff
}

func newDB(conn *sql.DB, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             log,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(readRetries, retry.NewExponential(readRetryBackoff))
		},
	}
}

// queryRecords runs a SELECT (or a statement with RETURNING) and scans every
// row into a [Record]. With retryable set, transient failures are retried
// with exponential backoff.
func (db *DB) queryRecords(ctx context.Context, query sq.Sqlizer, retryable bool) ([]Record, error) {
	statement, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Join(ErrBuildingSQLQuery, err)
	}

	if !retryable {
		return db.runQuery(ctx, statement, args)
	}

	var records []Record
	err = retry.Do(ctx, db.backoff(), func(ctx context.Context) error {
		var queryErr error
		records, queryErr = db.runQuery(ctx, statement, args)
		if queryErr != nil && db.errorClassificator.Classify(queryErr) == Retryable {
			logger.FromContext(ctx).Warn().Err(queryErr).Str("func", "DB.queryRecords").Msg("retrying read")
			return retry.RetryableError(queryErr)
		}
		return queryErr
	})
	return records, err
}

// queryRecord is queryRecords for statements returning at most one row.
func (db *DB) queryRecord(ctx context.Context, query sq.Sqlizer, retryable bool) (Record, bool, error) {
	records, err := db.queryRecords(ctx, query, retryable)
	if err != nil || len(records) == 0 {
		return nil, false, err
	}
	return records[0], true, nil
}

// exec runs a statement once and returns the number of affected rows.
func (db *DB) exec(ctx context.Context, query sq.Sqlizer) (int64, error) {
	statement, args, err := query.ToSql()
	if err != nil {
		return 0, errors.Join(ErrBuildingSQLQuery, err)
	}

	result, err := db.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, unavailable(ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, unavailable(ErrExecutingStatement, err)
	}
	return affected, nil
}

func (db *DB) runQuery(ctx context.Context, statement string, args []any) ([]Record, error) {
	rows, err := db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, unavailable(ErrExecutingQuery, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, unavailable(ErrScanningRows, err)
	}

	records := make([]Record, 0, 16)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, unavailable(ErrScanningRow, err)
		}

		record := make(Record, len(columns))
		for i, column := range columns {
			record[column] = values[i]
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable(ErrScanningRows, err)
	}

	return records, nil
}
