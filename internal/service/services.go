package service

import (
	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/metrics"
	"github.com/MKhiriev/go-quest-ledger/internal/notify"
	"github.com/MKhiriev/go-quest-ledger/internal/store"
	"github.com/MKhiriev/go-quest-ledger/models"
)

type Services struct {
	AuthService    AuthService
	LedgerService  LedgerService
	PaymentService PaymentService
	AppInfoService AppInfoService
}

func NewServices(
	storage store.Storage,
	notifier notify.Notifier,
	m *metrics.Metrics,
	cfg config.StructuredConfig,
	build models.AppBuildInfo,
	logger *logger.Logger,
) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	catalog := cfg.Catalog
	if len(catalog) == 0 {
		catalog = models.DefaultCatalog()
	}

	ledger := NewLedgerService(storage, m, logger)

	return &Services{
		AuthService:    NewAuthService(storage, notifier, cfg.App, logger),
		LedgerService:  ledger,
		PaymentService: NewPaymentService(storage, ledger, catalog, notifier, m, logger),
		AppInfoService: appInfo,
	}, nil
}
