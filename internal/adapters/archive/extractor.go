package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mholt/archives"
	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/core/ports"
)

// Ensure Extractor implements ports.ArchiveExtractor
var _ ports.ArchiveExtractor = (*Extractor)(nil)

// Extractor unpacks zip, tar (any compression), 7z and rar archives
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new archive extractor
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract writes every regular file of archivePath below destDir and
// returns the written paths
func (e *Extractor) Extract(ctx context.Context, archivePath, destDir string) ([]string, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	var files []string
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		dest := filepath.Join(destDir, filepath.FromSlash(p))
		if err := copyEntry(fsys, p, dest); err != nil {
			return err
		}
		files = append(files, dest)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", archivePath, err)
	}

	e.logger.Debug("archive extracted",
		zap.String("archive", archivePath),
		zap.Int("files", len(files)),
	)
	return files, nil
}

func copyEntry(fsys fs.FS, name, dest string) error {
	src, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
