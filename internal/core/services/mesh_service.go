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

// MeshService converts STEP files to OBJ by trying each invocation
// strategy in order until one produces the output file
type MeshService struct {
	runner     ports.Runner
	renderer   ports.ScriptRenderer
	verifier   ports.MeshVerifier
	strategies []domain.Strategy
	timeout    time.Duration
	tempDir    string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// MeshOptions configures the strategy loop
type MeshOptions struct {
	Strategies []domain.Strategy
	Timeout    time.Duration // per attempt
	TempDir    string        // where attempt scripts are written, default os.TempDir()
}

// NewMeshService creates a new mesh service. verifier may be nil, in
// which case a non-empty output file is enough.
func NewMeshService(runner ports.Runner, renderer ports.ScriptRenderer, verifier ports.MeshVerifier, opts MeshOptions, logger *zap.Logger, m *metrics.Metrics) *MeshService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeshService{
		runner:     runner,
		renderer:   renderer,
		verifier:   verifier,
		strategies: opts.Strategies,
		timeout:    opts.Timeout,
		tempDir:    opts.TempDir,
		logger:     logger,
		metrics:    m,
	}
}

// Ensure it implements the interface
var _ ports.Mesher = (*MeshService)(nil)

// Mesh runs the strategy loop for req. The returned result always lists
// every attempt made, including on failure.
func (s *MeshService) Mesh(ctx context.Context, req domain.MeshRequest) (*domain.MeshResult, error) {
	result, err := s.mesh(ctx, req)
	s.metrics.RecordConversion(domain.PipelineMesh, err)
	return result, err
}

func (s *MeshService) mesh(ctx context.Context, req domain.MeshRequest) (*domain.MeshResult, error) {
	result := &domain.MeshResult{Input: req.Input, Output: req.Output}

	input, err := filepath.Abs(req.Input)
	if err != nil {
		return result, domain.NewError(domain.KindInput, "mesh", req.Input, err)
	}
	output, err := filepath.Abs(req.Output)
	if err != nil {
		return result, domain.NewError(domain.KindInput, "mesh", req.Output, err)
	}

	info, err := os.Stat(input)
	if err != nil {
		return result, domain.NewError(domain.KindInput, "mesh", req.Input, fmt.Errorf("input file not found: %w", err))
	}
	if info.IsDir() {
		return result, domain.NewError(domain.KindInput, "mesh", req.Input, errors.New("input is a directory"))
	}

	if len(s.strategies) == 0 {
		return result, domain.NewError(domain.KindUnavailable, "mesh", req.Input, domain.ErrNoStrategies)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return result, domain.NewError(domain.KindExecution, "mesh", req.Output, fmt.Errorf("failed to create output directory: %w", err))
	}
	// A file left by an earlier run must not count as this run's output
	if err := os.Remove(output); err != nil && !errors.Is(err, os.ErrNotExist) {
		return result, domain.NewError(domain.KindExecution, "mesh", req.Output, fmt.Errorf("failed to remove stale output: %w", err))
	}

	job := domain.NewJob(domain.PipelineMesh, input, output)
	log := s.logger.With(zap.String("job", job.ID.String()), zap.String("input", input))
	abs := domain.MeshRequest{Input: input, Output: output}

	for _, strategy := range s.strategies {
		for _, exe := range strategy.Executables {
			attempt, faces := s.attempt(ctx, strategy, exe, abs)
			result.Attempts = append(result.Attempts, attempt)
			s.metrics.RecordAttempt(attempt.Strategy, string(attempt.Outcome), attempt.Duration)

			fields := []zap.Field{
				zap.String("strategy", attempt.Strategy),
				zap.String("executable", attempt.Executable),
				zap.Int("exit_code", attempt.ExitCode),
				zap.Duration("duration", attempt.Duration),
				zap.String("outcome", string(attempt.Outcome)),
				zap.Bool("output_present", attempt.Succeeded()),
			}

			if attempt.Succeeded() {
				log.Info("mesh attempt succeeded", fields...)
				result.Winner = &result.Attempts[len(result.Attempts)-1]
				result.Faces = faces
				if info, err := os.Stat(output); err == nil {
					result.OutputSize = info.Size()
				}
				return result, nil
			}

			if attempt.Outcome == domain.OutcomeNotFound {
				log.Warn("executable not found", fields...)
			} else {
				log.Warn("mesh attempt failed", append(fields, zap.Error(attempt.Err))...)
			}

			if ctx.Err() != nil {
				return result, &domain.ConversionError{
					Kind:     domain.KindExecution,
					Op:       "mesh",
					Path:     req.Input,
					Attempts: result.Attempts,
					Err:      ctx.Err(),
				}
			}
		}
	}

	kind := domain.KindUnavailable
	for _, a := range result.Attempts {
		if a.Outcome != domain.OutcomeNotFound {
			kind = domain.KindExecution
			break
		}
	}

	log.Error("all mesh strategies failed", zap.Int("attempts", len(result.Attempts)))
	return result, &domain.ConversionError{
		Kind:     kind,
		Op:       "mesh",
		Path:     req.Input,
		Attempts: result.Attempts,
		Err:      domain.ErrAllStrategiesFailed,
	}
}

// attempt runs one executable under one strategy with its own script.
// Success is judged by the output file, not by the exit code.
func (s *MeshService) attempt(ctx context.Context, strategy domain.Strategy, exe string, req domain.MeshRequest) (domain.Attempt, int) {
	a := domain.Attempt{Strategy: strategy.Name, Executable: exe}

	path, err := s.runner.Resolve(exe)
	if err != nil {
		a.Outcome = domain.OutcomeNotFound
		a.Err = err
		return a, 0
	}
	a.Executable = path

	script, err := s.writeScript(req, strategy.Extension())
	if err != nil {
		a.Outcome = domain.OutcomeFailed
		a.Err = err
		return a, 0
	}
	defer os.Remove(script)

	a.ScriptPath = script
	a.Args = strategy.ExpandArgs(script)

	res, err := s.runner.Run(ctx, domain.Command{
		Path:    path,
		Args:    a.Args,
		Dir:     filepath.Dir(req.Output),
		Timeout: s.timeout,
	})
	if res != nil {
		a.ExitCode = res.ExitCode
		a.Output = res.Output
		a.Duration = res.Duration
	}
	if err != nil {
		a.Outcome = domain.OutcomeFailed
		a.Err = err
		discard(req.Output)
		return a, 0
	}
	if res.TimedOut {
		a.Outcome = domain.OutcomeTimedOut
		a.Err = fmt.Errorf("killed after %s", s.timeout)
		discard(req.Output)
		return a, 0
	}

	info, err := os.Stat(req.Output)
	if err != nil || info.Size() == 0 {
		discard(req.Output)
		if res.ExitCode != 0 {
			a.Outcome = domain.OutcomeFailed
			a.Err = fmt.Errorf("exit code %d", res.ExitCode)
		} else {
			a.Outcome = domain.OutcomeOutputMissing
			a.Err = domain.ErrOutputMissing
		}
		return a, 0
	}

	faces := 0
	if s.verifier != nil {
		faces, err = s.verifier.CountFaces(req.Output)
		if err != nil || faces == 0 {
			discard(req.Output)
			a.Outcome = domain.OutcomeOutputMissing
			a.Err = fmt.Errorf("mesh has no faces")
			if err != nil {
				a.Err = fmt.Errorf("unreadable mesh: %w", err)
			}
			return a, 0
		}
	}

	a.Outcome = domain.OutcomeSucceeded
	return a, faces
}

// writeScript renders the conversion script into a fresh, uniquely named file
func (s *MeshService) writeScript(req domain.MeshRequest, ext string) (string, error) {
	content, err := s.renderer.Render(req, ext)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(s.tempDir, "extrude-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create script: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write script: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write script: %w", err)
	}
	return f.Name(), nil
}

// discard removes a partial or empty output so it cannot satisfy a later check
func discard(path string) {
	_ = os.Remove(path)
}
