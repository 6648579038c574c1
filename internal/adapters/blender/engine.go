package blender

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/ports"
)

//go:embed scripts/scene.py
var sceneScript []byte

// Exit codes reserved by the scene script
const (
	exitUnsupported = 2
	exitImport      = 3
	exitExport      = 4
)

const (
	modeInspect = "inspect"
	modeExport  = "export"
)

// request is the JSON document handed to the scene script after "--"
type request struct {
	Mode   string             `json:"mode"`
	Report string             `json:"report"`
	Input  string             `json:"input"`
	Export *domain.ExportSpec `json:"export,omitempty"`
}

// Engine implements the SceneEngine port by driving Blender in background mode
type Engine struct {
	runner     ports.Runner
	executable string
	timeout    time.Duration
	tempDir    string
	logger     *zap.Logger
}

// Options configures the Blender engine
type Options struct {
	Executable string        // name or absolute path, default "blender"
	Timeout    time.Duration // per invocation, 0 disables
	TempDir    string        // where scripts and reports are written, default os.TempDir()
}

// NewEngine creates a new Blender-backed scene engine
func NewEngine(runner ports.Runner, opts Options, logger *zap.Logger) *Engine {
	if opts.Executable == "" {
		opts.Executable = "blender"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		runner:     runner,
		executable: opts.Executable,
		timeout:    opts.Timeout,
		tempDir:    opts.TempDir,
		logger:     logger,
	}
}

// Ensure it implements the interface
var _ ports.SceneEngine = (*Engine)(nil)

// Inspect imports the model, joins it and reports its bounds
func (e *Engine) Inspect(ctx context.Context, req domain.InspectRequest) (*domain.SceneReport, error) {
	return e.invoke(ctx, "inspect", request{Mode: modeInspect, Input: req.Input})
}

// Export runs the full re-orient, decimate, shade and export sequence
func (e *Engine) Export(ctx context.Context, spec domain.ExportSpec) (*domain.SceneReport, error) {
	return e.invoke(ctx, "export", request{Mode: modeExport, Input: spec.Input, Export: &spec})
}

func (e *Engine) invoke(ctx context.Context, op string, req request) (*domain.SceneReport, error) {
	exe, err := e.runner.Resolve(e.executable)
	if err != nil {
		return nil, domain.NewError(domain.KindUnavailable, op, req.Input, err)
	}

	work, err := os.MkdirTemp(e.tempDir, "extrude-blender-*")
	if err != nil {
		return nil, domain.NewError(domain.KindExecution, op, req.Input, fmt.Errorf("failed to create work dir: %w", err))
	}
	defer os.RemoveAll(work)

	scriptPath := filepath.Join(work, "scene.py")
	if err := os.WriteFile(scriptPath, sceneScript, 0644); err != nil {
		return nil, domain.NewError(domain.KindExecution, op, req.Input, err)
	}

	req.Report = filepath.Join(work, "report.json")
	requestPath := filepath.Join(work, "request.json")
	data, err := json.Marshal(req)
	if err != nil {
		return nil, domain.NewError(domain.KindExecution, op, req.Input, err)
	}
	if err := os.WriteFile(requestPath, data, 0644); err != nil {
		return nil, domain.NewError(domain.KindExecution, op, req.Input, err)
	}

	res, err := e.runner.Run(ctx, domain.Command{
		Path:    exe,
		Args:    []string{"--background", "--factory-startup", "--python", scriptPath, "--", requestPath},
		Timeout: e.timeout,
	})
	if err != nil {
		return nil, domain.NewError(domain.KindExecution, op, req.Input, err)
	}

	e.logger.Debug("blender finished",
		zap.String("op", op),
		zap.String("input", req.Input),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration),
	)

	if res.TimedOut {
		return nil, domain.NewError(domain.KindExecution, op, req.Input,
			fmt.Errorf("blender timed out after %s", e.timeout))
	}
	if res.ExitCode != 0 {
		return nil, exitError(op, req.Input, res)
	}

	report, err := readReport(req.Report)
	if err != nil {
		kind := domain.KindExecution
		if op == modeExport {
			kind = domain.KindExport
		}
		return nil, domain.NewError(kind, op, req.Input, err)
	}

	for _, msg := range report.Messages {
		e.logger.Warn("blender", zap.String("op", op), zap.String("message", msg))
	}
	return report, nil
}

func readReport(path string) (*domain.SceneReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("blender exited without writing a report")
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report domain.SceneReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	if report.Objects == 0 {
		return nil, domain.ErrNoObjects
	}
	return &report, nil
}

func exitError(op, input string, res *domain.RunResult) error {
	msg := lastLine(res.Output, "extrude: ")
	if msg == "" {
		msg = fmt.Sprintf("blender exited with code %d", res.ExitCode)
	}

	switch res.ExitCode {
	case exitUnsupported:
		return domain.NewError(domain.KindUnsupportedFormat, op, input, errors.New(msg))
	case exitImport:
		err := errors.New(msg)
		if strings.Contains(msg, "no objects") {
			err = domain.ErrNoObjects
		}
		return domain.NewError(domain.KindImport, op, input, err)
	case exitExport:
		return domain.NewError(domain.KindExport, op, input, errors.New(msg))
	default:
		return domain.NewError(domain.KindExecution, op, input, errors.New(msg))
	}
}

// lastLine returns the text after prefix on the last output line carrying it
func lastLine(output, prefix string) string {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(lines[i]), prefix); ok {
			return rest
		}
	}
	return ""
}
