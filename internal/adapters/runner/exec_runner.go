package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/ports"
)

// killGrace bounds how long Run waits for output pipes after the process is killed
const killGrace = 5 * time.Second

// ExecRunner implements the Runner port with os/exec
type ExecRunner struct {
	logger *zap.Logger
}

// NewExecRunner creates a new subprocess runner
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{logger: logger}
}

// Ensure it implements the interface
var _ ports.Runner = (*ExecRunner)(nil)

// Resolve finds an executable. Bare names go through PATH lookup;
// absolute paths must exist and be executable.
func (r *ExecRunner) Resolve(name string) (string, error) {
	if !filepath.IsAbs(name) {
		return exec.LookPath(name)
	}

	info, err := os.Stat(name)
	if err != nil || info.IsDir() || info.Mode().Perm()&0111 == 0 {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return name, nil
}

// Run executes the command, capturing combined output.
// The process is killed when cmd.Timeout expires; that case is reported
// through RunResult.TimedOut rather than as an error. Cancellation of
// the parent context is returned as an error.
func (r *ExecRunner) Run(ctx context.Context, cmd domain.Command) (*domain.RunResult, error) {
	runCtx := ctx
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.WaitDelay = killGrace

	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = &out

	r.logger.Debug("running command",
		zap.String("executable", cmd.Path),
		zap.Strings("args", cmd.Args),
		zap.Duration("timeout", cmd.Timeout),
	)

	start := time.Now()
	err := c.Run()
	result := &domain.RunResult{
		Output:   out.String(),
		Duration: time.Since(start),
	}

	if ctx.Err() != nil {
		result.ExitCode = -1
		return result, ctx.Err()
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		result.TimedOut = true
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}

	return result, nil
}
