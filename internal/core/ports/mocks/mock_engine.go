package mocks

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

// MockSceneEngine is a mock implementation of the SceneEngine interface for testing.
// Export writes a placeholder file to spec.Output unless told to skip it.
type MockSceneEngine struct {
	mu           sync.Mutex
	inspect      *domain.SceneReport
	export       *domain.SceneReport
	inspectCalls []domain.InspectRequest
	exportCalls  []domain.ExportSpec
	payload      []byte
	skipOutput   bool
	shouldFail   bool
	failError    error
}

// NewMockSceneEngine creates an engine reporting the given bounds for both calls
func NewMockSceneEngine(report *domain.SceneReport) *MockSceneEngine {
	return &MockSceneEngine{
		inspect: report,
		export:  report,
		payload: []byte("glTF-mock"),
	}
}

// SetExportReport overrides the report returned by Export
func (m *MockSceneEngine) SetExportReport(report *domain.SceneReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.export = report
}

// SetPayload sets the bytes written to the export output
func (m *MockSceneEngine) SetPayload(b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = b
}

// SkipOutput makes Export succeed without writing a file
func (m *MockSceneEngine) SkipOutput(skip bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipOutput = skip
}

func (m *MockSceneEngine) Inspect(ctx context.Context, req domain.InspectRequest) (*domain.SceneReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inspectCalls = append(m.inspectCalls, req)
	if m.shouldFail {
		return nil, m.failure(req.Input)
	}
	r := *m.inspect
	return &r, nil
}

func (m *MockSceneEngine) Export(ctx context.Context, spec domain.ExportSpec) (*domain.SceneReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exportCalls = append(m.exportCalls, spec)
	if m.shouldFail {
		return nil, m.failure(spec.Input)
	}
	if !m.skipOutput {
		if err := os.WriteFile(spec.Output, m.payload, 0644); err != nil {
			return nil, err
		}
	}
	r := *m.export
	return &r, nil
}

func (m *MockSceneEngine) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockSceneEngine) GetExportCalls() []domain.ExportSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]domain.ExportSpec, len(m.exportCalls))
	copy(calls, m.exportCalls)
	return calls
}

func (m *MockSceneEngine) GetInspectCalls() []domain.InspectRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]domain.InspectRequest, len(m.inspectCalls))
	copy(calls, m.inspectCalls)
	return calls
}

func (m *MockSceneEngine) failure(path string) error {
	if m.failError != nil {
		return m.failError
	}
	return fmt.Errorf("engine failed for %s", path)
}

// --- MockScriptRenderer ---

type MockScriptRenderer struct {
	mu    sync.Mutex
	calls []domain.MeshRequest
}

func NewMockScriptRenderer() *MockScriptRenderer {
	return &MockScriptRenderer{}
}

func (m *MockScriptRenderer) Render(req domain.MeshRequest, ext string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	return []byte(fmt.Sprintf("# mesh %s -> %s (%s)\n", req.Input, req.Output, ext)), nil
}

func (m *MockScriptRenderer) GetCalls() []domain.MeshRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]domain.MeshRequest, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// --- MockMeshVerifier ---

type MockMeshVerifier struct {
	mu    sync.Mutex
	faces int
	err   error
}

// NewMockMeshVerifier reports the given face count for every file
func NewMockMeshVerifier(faces int) *MockMeshVerifier {
	return &MockMeshVerifier{faces: faces}
}

func (m *MockMeshVerifier) CountFaces(path string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.faces, m.err
}

func (m *MockMeshVerifier) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !fail {
		m.err = nil
		return
	}
	if err == nil {
		err = fmt.Errorf("unreadable mesh")
	}
	m.err = err
}
