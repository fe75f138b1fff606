package http

import (
	"time"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/metrics"
	"github.com/MKhiriev/go-quest-ledger/internal/proof"
	"github.com/MKhiriev/go-quest-ledger/internal/service"
)

// maxProofUploadSize bounds the multipart body of a payment submission.
const maxProofUploadSize = 10 << 20

type Handler struct {
	services *service.Services
	proofs   proof.Store
	metrics  *metrics.Metrics

	adminKey       string
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, proofs proof.Store, m *metrics.Metrics, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		proofs:         proofs,
		metrics:        m,
		adminKey:       cfg.App.AdminKey,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
}
