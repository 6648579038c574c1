package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/ports"
	"github.com/kamal-hamza/extrude-cli/pkg/metrics"
	"github.com/kamal-hamza/extrude-cli/pkg/workspace"
)

// archiveSuffixes are the input extensions unpacked before conversion
var archiveSuffixes = []string{".zip", ".tar", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".tar.zst", ".7z", ".rar"}

// BatchService runs the full STEP -> OBJ -> GLB -> metadata pipeline for
// many files on a worker pool, then rebuilds the catalog
type BatchService struct {
	mesher    ports.Mesher
	exporter  *ExportService
	catalog   *CatalogService
	extractor ports.ArchiveExtractor
	workspace *workspace.Workspace
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewBatchService creates a new batch service. extractor may be nil when
// archive inputs are not needed.
func NewBatchService(mesher ports.Mesher, exporter *ExportService, catalog *CatalogService, extractor ports.ArchiveExtractor, ws *workspace.Workspace, logger *zap.Logger, m *metrics.Metrics) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{
		mesher:    mesher,
		exporter:  exporter,
		catalog:   catalog,
		extractor: extractor,
		workspace: ws,
		logger:    logger,
		metrics:   m,
	}
}

// BatchRequest represents a request to convert many files
type BatchRequest struct {
	Inputs     []string // STEP files, directories or archives; empty means the workspace source dir
	LODs       []domain.LOD
	Unit       domain.Unit
	Center     bool
	Normalize  bool
	Compress   bool
	MaxWorkers int
	Force      bool       // re-mesh even when the OBJ is newer than the STEP file
	CatalogLOD domain.LOD // LOD the catalog is rebuilt from
}

// BatchResult represents the outcome of one source file
type BatchResult struct {
	ID          string
	Source      string
	Mesh        *domain.MeshResult
	MeshSkipped bool
	Exports     map[domain.LOD]*domain.Metadata
	Success     bool
	Error       error
}

// BatchResponse represents the response from a batch run
type BatchResponse struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []BatchResult
	Catalog   *domain.Catalog
}

// BatchProgress represents the progress of a batch run
type BatchProgress struct {
	Current int
	Total   int
	ID      string
	Success bool
	Error   error
}

type batchJob struct {
	id     string
	source string
}

// Execute converts every STEP file named by req. progressChan may be nil;
// when set it receives one update per finished file and is closed on return.
func (s *BatchService) Execute(ctx context.Context, req BatchRequest, progressChan chan<- BatchProgress) (*BatchResponse, error) {
	if progressChan != nil {
		defer close(progressChan)
	}

	if len(req.LODs) == 0 {
		req.LODs = []domain.LOD{domain.DefaultLOD}
	}
	if req.CatalogLOD == "" {
		req.CatalogLOD = domain.DefaultLOD
	}
	if len(req.Inputs) == 0 {
		req.Inputs = []string{s.workspace.SourcePath}
	}

	if err := s.workspace.Initialize(); err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp("", "extrude-batch-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	sources, err := s.Collect(ctx, req.Inputs, scratch)
	if err != nil {
		return nil, err
	}

	response := &BatchResponse{Total: len(sources), Results: []BatchResult{}}
	if len(sources) == 0 {
		return response, nil
	}

	// Jobs must not share output paths, so one id is converted once
	jobs := make([]batchJob, 0, len(sources))
	seen := make(map[string]string)
	for _, src := range sources {
		id := domain.ModelID(src)
		if first, dup := seen[id]; dup {
			response.Results = append(response.Results, BatchResult{
				ID:     id,
				Source: src,
				Error:  fmt.Errorf("duplicate model id %q (already converting %s)", id, first),
			})
			continue
		}
		seen[id] = src
		jobs = append(jobs, batchJob{id: id, source: src})
	}

	maxWorkers := req.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	results := s.runPool(ctx, req, jobs, maxWorkers, len(sources), len(response.Results), progressChan)
	response.Results = append(response.Results, results...)
	sort.SliceStable(response.Results, func(i, j int) bool {
		return response.Results[i].ID < response.Results[j].ID
	})

	for _, r := range response.Results {
		if r.Success {
			response.Succeeded++
		} else {
			response.Failed++
		}
	}

	if s.catalog != nil && ctx.Err() == nil {
		catalog, err := s.catalog.Build(ctx, req.CatalogLOD)
		if err != nil {
			return response, err
		}
		response.Catalog = catalog
	}

	s.logger.Info("batch finished",
		zap.Int("total", response.Total),
		zap.Int("succeeded", response.Succeeded),
		zap.Int("failed", response.Failed),
	)
	return response, nil
}

// runPool converts jobs using a worker pool and reports progress
func (s *BatchService) runPool(ctx context.Context, req BatchRequest, jobs []batchJob, maxWorkers, total, done int, progressChan chan<- BatchProgress) []BatchResult {
	queue := make(chan batchJob, len(jobs))
	results := make(chan BatchResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, req, queue, results)
		}()
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	go func() {
		wg.Wait()
		close(results)
	}()

	current := done
	var out []BatchResult
	for result := range results {
		out = append(out, result)
		current++

		if progressChan != nil {
			progressChan <- BatchProgress{
				Current: current,
				Total:   total,
				ID:      result.ID,
				Success: result.Success,
				Error:   result.Error,
			}
		}
	}
	return out
}

// worker processes batch jobs until the queue is drained
func (s *BatchService) worker(ctx context.Context, req BatchRequest, queue <-chan batchJob, results chan<- BatchResult) {
	for job := range queue {
		select {
		case <-ctx.Done():
			results <- BatchResult{ID: job.id, Source: job.source, Error: ctx.Err()}
			continue
		default:
		}

		s.metrics.JobStarted()
		result := s.convert(ctx, req, job)
		s.metrics.JobFinished()
		s.metrics.RecordConversion(domain.PipelineBatch, result.Error)

		results <- result
	}
}

// convert meshes one STEP file and exports it at every requested LOD
func (s *BatchService) convert(ctx context.Context, req BatchRequest, job batchJob) BatchResult {
	result := BatchResult{
		ID:      job.id,
		Source:  job.source,
		Exports: make(map[domain.LOD]*domain.Metadata),
	}
	log := s.logger.With(zap.String("id", job.id))

	obj := s.workspace.IntermediateOBJ(job.id)
	if !req.Force && newerThan(obj, job.source) {
		result.MeshSkipped = true
		log.Debug("intermediate mesh is up to date", zap.String("obj", obj))
	} else {
		mesh, err := s.mesher.Mesh(ctx, domain.MeshRequest{Input: job.source, Output: obj})
		result.Mesh = mesh
		if err != nil {
			result.Error = err
			return result
		}
	}

	for _, lod := range req.LODs {
		resp, err := s.exporter.Execute(ctx, ExportRequest{
			Input:        obj,
			Output:       s.workspace.ModelPath(lod, job.id),
			MetadataPath: s.workspace.MetadataFile(lod, job.id),
			LOD:          lod,
			Unit:         req.Unit,
			Center:       req.Center,
			Normalize:    req.Normalize,
			Compress:     req.Compress,
		})
		if err != nil {
			result.Error = fmt.Errorf("%s: %w", lod, err)
			return result
		}
		result.Exports[lod] = resp.Metadata
	}

	result.Success = true
	return result
}

// Collect expands inputs into STEP file paths. Directories are walked
// recursively and archives are unpacked into scratch.
func (s *BatchService) Collect(ctx context.Context, inputs []string, scratch string) ([]string, error) {
	var out []string
	for i, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, domain.NewError(domain.KindInput, "batch", input, err)
		}

		switch {
		case info.IsDir():
			found, err := findSTEP(input)
			if err != nil {
				return nil, domain.NewError(domain.KindInput, "batch", input, err)
			}
			out = append(out, found...)

		case IsArchive(input):
			if s.extractor == nil {
				return nil, domain.NewError(domain.KindUnsupportedFormat, "batch", input, fmt.Errorf("archive input is not supported"))
			}
			dest := filepath.Join(scratch, fmt.Sprintf("archive-%d", i))
			files, err := s.extractor.Extract(ctx, input, dest)
			if err != nil {
				return nil, domain.NewError(domain.KindInput, "batch", input, err)
			}
			for _, f := range files {
				if domain.IsSTEP(f) {
					out = append(out, f)
				}
			}

		case domain.IsSTEP(input):
			out = append(out, input)

		default:
			return nil, domain.NewError(domain.KindUnsupportedFormat, "batch", input,
				fmt.Errorf("expected a STEP file, directory or archive"))
		}
	}
	sort.Strings(out)
	return out, nil
}

// IsArchive reports whether path has a supported archive extension
func IsArchive(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func findSTEP(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && domain.IsSTEP(path) {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

// newerThan reports whether a exists and was modified after b
func newerThan(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil || ai.Size() == 0 {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return ai.ModTime().After(bi.ModTime())
}
