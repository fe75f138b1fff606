package proof

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
)

type localStore struct {
	dir string
	ids *utils.UUIDGenerator
}

// NewLocalStore keeps proofs as plain files under dir.
func NewLocalStore(dir string) (Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, keyPrefix), 0o750); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSavingProof, err)
	}
	return &localStore{dir: dir, ids: utils.NewUUIDGenerator()}, nil
}

func (s *localStore) Save(ctx context.Context, upload Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := newKey(s.ids, upload.Filename)
	target := filepath.Join(s.dir, filepath.FromSlash(key))

	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSavingProof, err)
	}

	if _, err = io.Copy(f, upload.Body); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("%w: %w", ErrSavingProof, err)
	}
	if err = f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("%w: %w", ErrSavingProof, err)
	}

	logger.FromContext(ctx).Debug().Str("func", "localStore.Save").Str("key", key).Msg("proof saved")
	return key, nil
}

func (s *localStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validKey(key) {
		return nil, ErrInvalidProofKey
	}

	f, err := os.Open(filepath.Join(s.dir, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrProofNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadingProof, err)
	}
	return f, nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validKey(key) {
		return ErrInvalidProofKey
	}

	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrDeletingProof, err)
	}
	return nil
}
