package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestResolveMissing(t *testing.T) {
	r := NewExecRunner(nil)

	for _, name := range []string{"extrude-no-such-binary", "/definitely/not/here/freecad"} {
		_, err := r.Resolve(name)
		if !errors.Is(err, exec.ErrNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrNotFound", name, err)
		}
	}
}

func TestResolveAbsolute(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain")
	tool := filepath.Join(dir, "tool")
	os.WriteFile(plain, []byte("x"), 0644)
	os.WriteFile(tool, []byte("#!/bin/sh\n"), 0755)

	r := NewExecRunner(nil)
	if _, err := r.Resolve(plain); err == nil {
		t.Error("non-executable file should not resolve")
	}
	got, err := r.Resolve(tool)
	if err != nil || got != tool {
		t.Errorf("Resolve(tool) = %q, %v", got, err)
	}
}

func TestRunCapturesOutputAndExitCode(t *testing.T) {
	sh := requireShell(t)
	r := NewExecRunner(nil)

	res, err := r.Run(context.Background(), domain.Command{
		Path: sh,
		Args: []string{"-c", "echo out; echo err 1>&2; exit 3"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(res.Output, "out") || !strings.Contains(res.Output, "err") {
		t.Errorf("Output = %q, want both streams", res.Output)
	}
	if res.TimedOut {
		t.Error("TimedOut should be false")
	}
}

func TestRunTimeoutKills(t *testing.T) {
	sh := requireShell(t)
	r := NewExecRunner(nil)

	start := time.Now()
	res, err := r.Run(context.Background(), domain.Command{
		Path:    sh,
		Args:    []string{"-c", "sleep 10"},
		Timeout: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.TimedOut {
		t.Error("expected TimedOut")
	}
	if time.Since(start) > 8*time.Second {
		t.Error("process was not killed on timeout")
	}
}

func TestRunParentCancelled(t *testing.T) {
	sh := requireShell(t)
	r := NewExecRunner(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, domain.Command{Path: sh, Args: []string{"-c", "true"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunEnvAndDir(t *testing.T) {
	sh := requireShell(t)
	dir := t.TempDir()
	r := NewExecRunner(nil)

	res, err := r.Run(context.Background(), domain.Command{
		Path: sh,
		Args: []string{"-c", "echo $EXTRUDE_TEST; pwd"},
		Dir:  dir,
		Env:  []string{"EXTRUDE_TEST=hello"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(res.Output, "hello") {
		t.Errorf("env not passed: %q", res.Output)
	}
	if !strings.Contains(res.Output, filepath.Base(dir)) {
		t.Errorf("dir not applied: %q", res.Output)
	}
}
