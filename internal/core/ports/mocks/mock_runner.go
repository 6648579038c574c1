package mocks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

// RunFunc decides the outcome of one mocked subprocess run
type RunFunc func(cmd domain.Command) (*domain.RunResult, error)

// MockRunner is a mock implementation of the Runner interface for testing.
// Only executables registered with Install resolve; everything else
// reports exec.ErrNotFound.
type MockRunner struct {
	mu         sync.Mutex
	installed  map[string]string
	calls      []domain.Command
	scripts    []string
	onRun      RunFunc
	shouldFail bool
	failError  error
}

// NewMockRunner creates a runner with no executables installed
func NewMockRunner() *MockRunner {
	return &MockRunner{installed: make(map[string]string)}
}

// Install makes name resolvable, as "/mock/bin/<name>"
func (m *MockRunner) Install(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		m.installed[n] = "/mock/bin/" + n
	}
}

// OnRun sets the behaviour for every subsequent Run call
func (m *MockRunner) OnRun(fn RunFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRun = fn
}

func (m *MockRunner) Resolve(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.installed[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func (m *MockRunner) Run(ctx context.Context, cmd domain.Command) (*domain.RunResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, cmd)
	for _, a := range cmd.Args {
		if _, err := os.Stat(a); err == nil {
			m.scripts = append(m.scripts, a)
		}
	}
	fn := m.onRun
	fail, failErr := m.shouldFail, m.failError
	m.mu.Unlock()

	if fail {
		if failErr != nil {
			return nil, failErr
		}
		return nil, fmt.Errorf("run failed for %s", cmd.Path)
	}
	if fn != nil {
		return fn(cmd)
	}
	return &domain.RunResult{}, nil
}

func (m *MockRunner) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

// GetCalls returns every command passed to Run
func (m *MockRunner) GetCalls() []domain.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]domain.Command, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// GetScripts returns the arguments that named an existing file at call time
func (m *MockRunner) GetScripts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	scripts := make([]string, len(m.scripts))
	copy(scripts, m.scripts)
	return scripts
}

func (m *MockRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.scripts = nil
	m.shouldFail = false
	m.failError = nil
}
