package proof

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
)

// minioAPI is the part of *minio.Client the store uses.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}

func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}

func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (w minioClientWrapper) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucketName, objectName, opts)
}

func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

type minioStore struct {
	api    minioAPI
	bucket string
	ids    *utils.UUIDGenerator
}

// NewMinioStore connects to the S3-compatible endpoint in cfg and makes
// sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg config.Proofs) (Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSavingProof, err)
	}

	return newMinioStoreWithAPI(ctx, minioClientWrapper{c: client}, cfg.Bucket)
}

func newMinioStoreWithAPI(ctx context.Context, api minioAPI, bucket string) (*minioStore, error) {
	s := &minioStore{
		api:    api,
		bucket: bucket,
		ids:    utils.NewUUIDGenerator(),
	}

	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return s, nil
}

func (s *minioStore) ensureBucketExists(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err = s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (s *minioStore) Save(ctx context.Context, upload Upload) (string, error) {
	key := newKey(s.ids, upload.Filename)

	size := upload.Size
	if size == 0 {
		size = -1
	}

	_, err := s.api.PutObject(ctx, s.bucket, key, upload.Body, size, minio.PutObjectOptions{
		ContentType: upload.ContentType,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "minioStore.Save").Str("key", key).Msg("failed to upload proof")
		return "", fmt.Errorf("%w: %w", ErrSavingProof, err)
	}

	return key, nil
}

func (s *minioStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if !validKey(key) {
		return nil, ErrInvalidProofKey
	}

	if _, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrProofNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrReadingProof, err)
	}

	obj, err := s.api.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadingProof, err)
	}
	return obj, nil
}

// Delete relies on S3 semantics: removing an absent object succeeds.
func (s *minioStore) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidProofKey
	}

	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "minioStore.Delete").Str("key", key).Msg("failed to remove proof")
		return fmt.Errorf("%w: %w", ErrDeletingProof, err)
	}
	return nil
}
