package mocks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

// MockMesher is a mock implementation of the Mesher interface for testing.
// Successful calls write a single-triangle OBJ to req.Output.
type MockMesher struct {
	mu       sync.Mutex
	calls    []domain.MeshRequest
	failures map[string]error // keyed by input base name
}

func NewMockMesher() *MockMesher {
	return &MockMesher{failures: make(map[string]error)}
}

// FailFor makes meshing of the named input (base name) fail with err
func (m *MockMesher) FailFor(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = domain.NewError(domain.KindExecution, "mesh", name, domain.ErrAllStrategiesFailed)
	}
	m.failures[name] = err
}

func (m *MockMesher) Mesh(ctx context.Context, req domain.MeshRequest) (*domain.MeshResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	failErr := m.failures[filepath.Base(req.Input)]
	m.mu.Unlock()

	result := &domain.MeshResult{Input: req.Input, Output: req.Output}
	if failErr != nil {
		return result, failErr
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if err := os.MkdirAll(filepath.Dir(req.Output), 0755); err != nil {
		return result, err
	}
	data := []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	if err := os.WriteFile(req.Output, data, 0644); err != nil {
		return result, fmt.Errorf("mock mesh: %w", err)
	}
	result.OutputSize = int64(len(data))
	result.Faces = 1
	result.Winner = &domain.Attempt{Strategy: "mock", Executable: "mock", Outcome: domain.OutcomeSucceeded}
	return result, nil
}

func (m *MockMesher) GetCalls() []domain.MeshRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]domain.MeshRequest, len(m.calls))
	copy(calls, m.calls)
	return calls
}
