// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package proof keeps the evidence files users attach to payment
// submissions. A stored file is addressed by the key returned from
// [Store.Save]; that key becomes the payment's proof reference.
package proof

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
)

// keyPrefix groups every proof object under one folder.
const keyPrefix = "proofs/"

// Upload is one file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	// Size is the body length in bytes, or -1 when unknown.
	Size int64
	Body io.Reader
}

// Store persists proof files.
type Store interface {
	Save(ctx context.Context, upload Upload) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes a stored proof. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewStore returns a MinIO-backed store when cfg.Endpoint is set and a
// local directory store otherwise.
func NewStore(ctx context.Context, cfg config.Proofs, log *logger.Logger) (Store, error) {
	if cfg.Endpoint != "" {
		log.Info().Str("func", "proof.NewStore").Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("proofs go to object storage")
		return NewMinioStore(ctx, cfg)
	}

	log.Info().Str("func", "proof.NewStore").Str("dir", cfg.LocalDir).Msg("proofs go to local directory")
	return NewLocalStore(cfg.LocalDir)
}

// newKey builds a fresh object key keeping the original file extension.
func newKey(ids *utils.UUIDGenerator, filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return keyPrefix + ids.Generate() + ext
}

// validKey reports whether key was produced by newKey.
func validKey(key string) bool {
	if !strings.HasPrefix(key, keyPrefix) || strings.Contains(key, `\`) {
		return false
	}
	name := strings.TrimPrefix(key, keyPrefix)
	return name != "" && !strings.Contains(name, "/") && path.Clean(key) == key
}
