package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/ports"
	"github.com/kamal-hamza/extrude-cli/pkg/metrics"
)

// ExportService handles the OBJ/STEP to GLB pipeline and metadata emission
type ExportService struct {
	engine  ports.SceneEngine
	store   ports.MetadataStore
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewExportService creates a new export service
func NewExportService(engine ports.SceneEngine, store ports.MetadataStore, logger *zap.Logger, m *metrics.Metrics) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		engine:  engine,
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

// ExportRequest represents a request to export one model
type ExportRequest struct {
	Input        string
	Output       string
	MetadataPath string
	LOD          domain.LOD  // default medium
	Unit         domain.Unit // default inch
	Center       bool
	Normalize    bool
	Compress     bool
}

// ExportResponse represents the outcome of an export
type ExportResponse struct {
	Metadata     *domain.Metadata
	DetectedAxis domain.Axis
	Plan         domain.NormalizationPlan
	Duration     time.Duration
}

// Execute imports the model, infers its extrusion axis, exports the GLB
// and writes the metadata record. A failure to write metadata is fatal.
func (s *ExportService) Execute(ctx context.Context, req ExportRequest) (*ExportResponse, error) {
	resp, err := s.execute(ctx, req)
	s.metrics.RecordConversion(domain.PipelineExport, err)
	return resp, err
}

func (s *ExportService) execute(ctx context.Context, req ExportRequest) (*ExportResponse, error) {
	if req.LOD == "" {
		req.LOD = domain.DefaultLOD
	}
	if req.Unit == "" {
		req.Unit = domain.DefaultUnit
	}
	if _, err := domain.ParseLOD(string(req.LOD)); err != nil {
		return nil, domain.NewError(domain.KindUsage, "export", req.Input, err)
	}
	if _, err := domain.ParseUnit(string(req.Unit)); err != nil {
		return nil, domain.NewError(domain.KindUsage, "export", req.Input, err)
	}

	info, err := os.Stat(req.Input)
	if err != nil || info.IsDir() {
		return nil, domain.NewError(domain.KindInput, "export", req.Input, errors.New("input file not found"))
	}
	if !domain.IsImportable(req.Input) {
		return nil, domain.NewError(domain.KindUnsupportedFormat, "export", req.Input,
			fmt.Errorf("unsupported file format: %s", filepath.Ext(req.Input)))
	}

	job := domain.NewJob(domain.PipelineExport, req.Input, req.Output)
	log := s.logger.With(
		zap.String("job", job.ID.String()),
		zap.String("input", req.Input),
		zap.String("lod", req.LOD.String()),
	)

	// 1. Inspect to find the extrusion axis
	start := time.Now()
	inspected, err := s.engine.Inspect(ctx, domain.InspectRequest{Input: req.Input})
	s.metrics.RecordEngine(time.Since(start))
	if err != nil {
		return nil, asConversionError(err, domain.KindImport, "inspect", req.Input)
	}

	dims := domain.Extents(inspected.WorldBounds())
	detected := domain.InferAxis(dims)
	plan := domain.PlanNormalization(detected, req.Normalize)

	log.Info("extrusion axis inferred",
		zap.String("axis", detected.String()),
		zap.Float64("x", dims.X),
		zap.Float64("y", dims.Y),
		zap.Float64("z", dims.Z),
		zap.Bool("rotates", plan.Rotates()),
	)

	// 2. Export
	if err := os.MkdirAll(filepath.Dir(req.Output), 0755); err != nil {
		return nil, domain.NewError(domain.KindExport, "export", req.Output, err)
	}
	if err := os.Remove(req.Output); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, domain.NewError(domain.KindExport, "export", req.Output, err)
	}

	spec := domain.ExportSpec{
		Input:          req.Input,
		Output:         req.Output,
		Recenter:       plan.Recenter,
		CenterAtOrigin: req.Center,
		Rotation:       plan.Rotation,
		Appearance:     domain.AluminumAppearance,
		Compress:       req.Compress,
	}
	if req.LOD.Decimates() {
		spec.DecimateRatio = req.LOD.DecimationRatio()
	}
	if req.Compress {
		spec.CompressionLevel = domain.DracoCompressionLevel
	}

	start = time.Now()
	exported, err := s.engine.Export(ctx, spec)
	s.metrics.RecordEngine(time.Since(start))
	if err != nil {
		return nil, asConversionError(err, domain.KindExport, "export", req.Input)
	}

	// 3. Metadata, from the geometry that was actually exported
	meta := domain.NewMetadata(domain.MetadataInput{
		InputPath:  req.Input,
		OutputPath: req.Output,
		LOD:        req.LOD,
		Unit:       req.Unit,
		Plan:       plan,
		Bounds:     exported.WorldBounds(),
		Center:     exported.Origin(),
	})

	out, err := os.Stat(req.Output)
	if err != nil {
		return nil, domain.NewError(domain.KindExport, "export", req.Output, domain.ErrOutputMissing)
	}
	meta.FileSize = out.Size()

	if err := s.store.Save(ctx, req.MetadataPath, meta); err != nil {
		return nil, domain.NewError(domain.KindMetadata, "metadata", req.MetadataPath, err)
	}

	s.metrics.RecordExport(req.LOD.String(), meta.FileSize)
	log.Info("model exported",
		zap.String("output", req.Output),
		zap.Int64("file_size", meta.FileSize),
		zap.String("extrusion_axis", meta.ExtrusionAxis.String()),
		zap.Duration("elapsed", job.Elapsed()),
	)

	return &ExportResponse{
		Metadata:     meta,
		DetectedAxis: detected,
		Plan:         plan,
		Duration:     job.Elapsed(),
	}, nil
}

// asConversionError keeps typed errors from adapters and classifies the rest
func asConversionError(err error, kind domain.ErrorKind, op, path string) error {
	var convErr *domain.ConversionError
	if errors.As(err, &convErr) {
		return err
	}
	return domain.NewError(kind, op, path, err)
}
