// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] is usable at
// startup. It runs after defaults have been applied.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.AdminKey == "" {
		return fmt.Errorf("%w: admin key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.InitialFreeTrials != nil && *cfg.App.InitialFreeTrials < 0 {
		return fmt.Errorf("%w: initial free trials must not be negative", ErrInvalidAppConfigs)
	}

	if cfg.Storage.Proofs.Endpoint != "" && cfg.Storage.Proofs.Bucket == "" {
		return fmt.Errorf("%w: proofs bucket is required with an endpoint", ErrInvalidStorageConfigs)
	}

	if cfg.Workers.ReconcileInterval < 0 || cfg.Workers.ReconcileGrace < 0 {
		return ErrInvalidWorkerConfigs
	}

	for packageType, pkg := range cfg.Catalog {
		if packageType == "" || pkg.Points < 1 || pkg.Price < 1 {
			return fmt.Errorf("%w: package %q", ErrInvalidCatalogConfigs, packageType)
		}
	}

	return nil
}
