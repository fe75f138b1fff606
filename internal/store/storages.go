package store

import (
	"context"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
)

// Driver names as they appear in logs.
const (
	DriverPostgres = "postgres"
	DriverFile     = "file"
)

// NewStorage opens exactly one driver: Postgres when cfg.DB.DSN is set,
// otherwise the file driver in cfg.Files.Dir. The choice is final; there
// is no fallback when the chosen driver fails.
func NewStorage(ctx context.Context, cfg config.Storage, log *logger.Logger) (Storage, error) {
	driver := SelectDriver(cfg)
	log.Info().Str("func", "store.NewStorage").Str("driver", driver).Msg("storage driver selected")

	if driver == DriverPostgres {
		db, err := NewConnectPostgres(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		return NewSQLStorage(db, log), nil
	}

	return NewFileStorage(cfg.Files.Dir, log)
}

// SelectDriver reports which driver NewStorage opens for cfg.
func SelectDriver(cfg config.Storage) string {
	if cfg.DB.DSN != "" {
		return DriverPostgres
	}
	return DriverFile
}
