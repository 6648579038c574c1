package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/core/ports"
	"github.com/kamal-hamza/extrude-cli/pkg/metrics"
)

// PublishService uploads a prepared model directory to object storage
type PublishService struct {
	store   ports.ArtifactStore
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewPublishService creates a new publish service
func NewPublishService(store ports.ArtifactStore, logger *zap.Logger, m *metrics.Metrics) *PublishService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublishService{store: store, logger: logger, metrics: m}
}

// PublishRequest represents a request to upload a directory
type PublishRequest struct {
	Dir    string
	Prefix string
	DryRun bool
}

// PublishResponse represents the response from publishing
type PublishResponse struct {
	Uploaded []string // object keys
	Failed   []string
	Bytes    int64
}

// Execute uploads every regular file under req.Dir. Keys are the
// slash-separated relative paths, joined onto req.Prefix.
func (s *PublishService) Execute(ctx context.Context, req PublishRequest) (*PublishResponse, error) {
	if req.Dir == "" {
		return nil, fmt.Errorf("publish directory is required")
	}

	if !req.DryRun {
		if err := s.store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare bucket: %w", err)
		}
	}

	resp := &PublishResponse{}
	var errs []error

	walkErr := filepath.WalkDir(req.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(req.Dir, p)
		if err != nil {
			return err
		}
		key := path.Join(strings.Trim(req.Prefix, "/"), filepath.ToSlash(rel))

		info, err := d.Info()
		if err != nil {
			return err
		}

		if req.DryRun {
			resp.Uploaded = append(resp.Uploaded, key)
			resp.Bytes += info.Size()
			return nil
		}

		err = s.store.Put(ctx, key, p, ContentType(p))
		s.metrics.RecordUpload(err)
		if err != nil {
			s.logger.Warn("upload failed", zap.String("key", key), zap.Error(err))
			resp.Failed = append(resp.Failed, key)
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return nil
		}

		s.logger.Debug("uploaded", zap.String("key", key), zap.Int64("bytes", info.Size()))
		resp.Uploaded = append(resp.Uploaded, key)
		resp.Bytes += info.Size()
		return nil
	})
	if walkErr != nil {
		return resp, fmt.Errorf("failed to walk %s: %w", req.Dir, walkErr)
	}

	s.logger.Info("publish finished",
		zap.Int("uploaded", len(resp.Uploaded)),
		zap.Int("failed", len(resp.Failed)),
		zap.Bool("dryRun", req.DryRun),
	)
	return resp, errors.Join(errs...)
}

// ContentType returns the MIME type served for a published file
func ContentType(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".glb":
		return "model/gltf-binary"
	case ".gltf":
		return "model/gltf+json"
	case ".json":
		return "application/json"
	case ".obj":
		return "model/obj"
	}
	if t := mime.TypeByExtension(filepath.Ext(p)); t != "" {
		return t
	}
	return "application/octet-stream"
}
