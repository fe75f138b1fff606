package handler

import (
	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/handler/http"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/metrics"
	"github.com/MKhiriev/go-quest-ledger/internal/proof"
	"github.com/MKhiriev/go-quest-ledger/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, proofs proof.Store, m *metrics.Metrics, cfg config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, proofs, m, cfg, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
