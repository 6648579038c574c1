package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/core/ports"
)

// Ensure MinioStore implements ports.ArtifactStore
var _ ports.ArtifactStore = (*MinioStore)(nil)

// Options configures the S3-compatible endpoint
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// MinioStore uploads published models to an S3-compatible bucket
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewMinioStore creates a client for opts. No request is made until the
// first call.
func NewMinioStore(opts Options, logger *zap.Logger) (*MinioStore, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint is not configured")
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &MinioStore{
		client: client,
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
		logger: logger,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("created bucket", zap.String("bucket", s.bucket))
	return nil
}

// Put uploads the file at filePath under key
func (s *MinioStore) Put(ctx context.Context, key, filePath, contentType string) error {
	objectKey := s.ObjectKey(key)
	info, err := s.client.FPutObject(ctx, s.bucket, objectKey, filePath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	s.logger.Debug("object stored",
		zap.String("bucket", s.bucket),
		zap.String("key", objectKey),
		zap.Int64("size", info.Size),
		zap.String("etag", info.ETag),
	)
	return nil
}

// ObjectKey joins key onto the configured prefix
func (s *MinioStore) ObjectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}
