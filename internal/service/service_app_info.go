package service

import (
	"context"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/models"
)

// UnknownVersion is reported when neither the config nor the binary
// carries a version.
const UnknownVersion = "N/A"

type appInfoService struct {
	build models.AppBuildInfo

	logger *logger.Logger
}

// NewAppInfoService reports the configured version, falling back to the
// version baked into the binary and then to UnknownVersion.
func NewAppInfoService(cfg config.App, build models.AppBuildInfo, logger *logger.Logger) (AppInfoService, error) {
	version := cfg.Version
	if version == "" {
		version = build.BuildVersion()
	}
	if version == "" {
		version = UnknownVersion
	}

	return &appInfoService{
		build:  models.NewAppBuildInfo(version, build.BuildDate(), build.BuildCommit()),
		logger: logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.build.BuildVersion()
}

func (s *appInfoService) GetBuildInfo(ctx context.Context) models.AppBuildInfo {
	return s.build
}
