package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/handler"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/metrics"
	"github.com/MKhiriev/go-quest-ledger/internal/notify"
	"github.com/MKhiriev/go-quest-ledger/internal/proof"
	"github.com/MKhiriev/go-quest-ledger/internal/server"
	"github.com/MKhiriev/go-quest-ledger/internal/service"
	"github.com/MKhiriev/go-quest-ledger/internal/store"
	"github.com/MKhiriev/go-quest-ledger/internal/workers"
	"github.com/MKhiriev/go-quest-ledger/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	log := logger.NewLogger("quest-ledger-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().
		Str("address", cfg.Server.HTTPAddress).
		Bool("remote_storage", cfg.Storage.DB.DSN != "").
		Bool("object_storage", cfg.Storage.Proofs.Endpoint != "").
		Msg("received configs")

	ctx := context.Background()

	storage, err := store.NewStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storage")
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Err(err).Msg("error closing storage")
		}
	}()

	notifier, err := notify.New(cfg.Notifier, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating notifier")
	}

	proofs, err := proof.NewStore(ctx, cfg.Storage.Proofs, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating proof store")
	}

	m := metrics.New()

	services, err := service.NewServices(storage, notifier, m, *cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, proofs, m, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	bg := workers.NewWorkers(
		workers.NewReconcileWorker(services.PaymentService, m, cfg.Workers, log),
	)

	srv, err := server.NewServer(handlers, bg, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
