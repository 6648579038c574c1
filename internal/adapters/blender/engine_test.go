package blender

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/ports/mocks"
)

func cuboidReport() domain.SceneReport {
	return domain.SceneReport{
		Objects: 1,
		BoundBox: [8][3]float64{
			{0, 0, 0}, {0, 0, 10}, {0, 10, 10}, {0, 10, 0},
			{100, 0, 0}, {100, 0, 10}, {100, 10, 10}, {100, 10, 0},
		},
		MatrixWorld: domain.IdentityMatrix(),
		Faces:       12,
	}
}

// fakeBlender answers like the scene script: it reads the request and
// writes the report it was asked for.
func fakeBlender(t *testing.T, report domain.SceneReport, seen *request) mocks.RunFunc {
	return func(cmd domain.Command) (*domain.RunResult, error) {
		data, err := os.ReadFile(cmd.Args[len(cmd.Args)-1])
		if err != nil {
			t.Fatalf("request not readable: %v", err)
		}
		var req request
		if err := json.Unmarshal(data, &req); err != nil {
			t.Fatalf("bad request: %v", err)
		}
		if seen != nil {
			*seen = req
		}
		out, _ := json.Marshal(report)
		if err := os.WriteFile(req.Report, out, 0644); err != nil {
			t.Fatalf("write report: %v", err)
		}
		return &domain.RunResult{}, nil
	}
}

func TestInspectReadsReport(t *testing.T) {
	runner := mocks.NewMockRunner()
	runner.Install("blender")
	var seen request
	runner.OnRun(fakeBlender(t, cuboidReport(), &seen))

	e := NewEngine(runner, Options{TempDir: t.TempDir()}, nil)
	report, err := e.Inspect(context.Background(), domain.InspectRequest{Input: "/in/profile.obj"})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}

	if seen.Mode != modeInspect || seen.Input != "/in/profile.obj" || seen.Export != nil {
		t.Errorf("unexpected request: %+v", seen)
	}
	size := report.WorldBounds().Size()
	if size.X != 100 || size.Y != 10 || size.Z != 10 {
		t.Errorf("bounds size = %+v", size)
	}

	calls := runner.GetCalls()
	if len(calls) != 1 || calls[0].Path != "/mock/bin/blender" || calls[0].Args[0] != "--background" {
		t.Errorf("unexpected invocation: %+v", calls)
	}
}

func TestExportSendsSpec(t *testing.T) {
	runner := mocks.NewMockRunner()
	runner.Install("blender")
	var seen request
	runner.OnRun(fakeBlender(t, cuboidReport(), &seen))

	e := NewEngine(runner, Options{TempDir: t.TempDir()}, nil)
	spec := domain.ExportSpec{
		Input:            "/in/a.obj",
		Output:           "/out/a.glb",
		Rotation:         &domain.Rotation{Axis: domain.AxisZ, Degrees: 90},
		DecimateRatio:    0.3,
		Appearance:       domain.AluminumAppearance,
		Compress:         true,
		CompressionLevel: domain.DracoCompressionLevel,
	}
	if _, err := e.Export(context.Background(), spec); err != nil {
		t.Fatalf("Export: %v", err)
	}

	if seen.Mode != modeExport || seen.Export == nil {
		t.Fatalf("unexpected request: %+v", seen)
	}
	got := *seen.Export
	if got.Output != spec.Output || got.Rotation == nil || got.Rotation.Axis != domain.AxisZ {
		t.Errorf("spec not round-tripped: %+v", got)
	}
	if got.Appearance.Metallic != 0.9 || got.CompressionLevel != 6 {
		t.Errorf("appearance/compression lost: %+v", got)
	}
}

func TestEngineErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		result domain.RunResult
		kind   domain.ErrorKind
	}{
		{"unsupported", domain.RunResult{ExitCode: exitUnsupported, Output: "extrude: unsupported file format: .fbx\n"}, domain.KindUnsupportedFormat},
		{"no objects", domain.RunResult{ExitCode: exitImport, Output: "extrude: no objects were imported\n"}, domain.KindImport},
		{"export", domain.RunResult{ExitCode: exitExport}, domain.KindExport},
		{"crash", domain.RunResult{ExitCode: 139}, domain.KindExecution},
		{"timeout", domain.RunResult{TimedOut: true, ExitCode: -1}, domain.KindExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := mocks.NewMockRunner()
			runner.Install("blender")
			result := tt.result
			runner.OnRun(func(domain.Command) (*domain.RunResult, error) {
				return &result, nil
			})

			e := NewEngine(runner, Options{TempDir: t.TempDir()}, nil)
			_, err := e.Inspect(context.Background(), domain.InspectRequest{Input: "x.obj"})
			if got := domain.KindOf(err); got != tt.kind {
				t.Errorf("kind = %v, want %v (err %v)", got, tt.kind, err)
			}
		})
	}
}

func TestEngineNoObjectsSentinel(t *testing.T) {
	runner := mocks.NewMockRunner()
	runner.Install("blender")
	runner.OnRun(func(domain.Command) (*domain.RunResult, error) {
		return &domain.RunResult{ExitCode: exitImport, Output: "extrude: no objects were imported"}, nil
	})

	e := NewEngine(runner, Options{TempDir: t.TempDir()}, nil)
	_, err := e.Inspect(context.Background(), domain.InspectRequest{Input: "x.obj"})
	if !errors.Is(err, domain.ErrNoObjects) {
		t.Errorf("err = %v, want ErrNoObjects", err)
	}
}

func TestEngineUnavailable(t *testing.T) {
	runner := mocks.NewMockRunner()
	e := NewEngine(runner, Options{Executable: "/opt/blender/blender"}, nil)

	_, err := e.Inspect(context.Background(), domain.InspectRequest{Input: "x.obj"})
	if domain.KindOf(err) != domain.KindUnavailable {
		t.Errorf("kind = %v, want unavailable", domain.KindOf(err))
	}
	if len(runner.GetCalls()) != 0 {
		t.Error("nothing should run when blender is missing")
	}
}

func TestEngineMissingReport(t *testing.T) {
	runner := mocks.NewMockRunner()
	runner.Install("blender")

	e := NewEngine(runner, Options{TempDir: t.TempDir()}, nil)
	_, err := e.Export(context.Background(), domain.ExportSpec{Input: "x.obj", Output: "x.glb"})
	if domain.KindOf(err) != domain.KindExport {
		t.Errorf("kind = %v, want export", domain.KindOf(err))
	}
}

func TestLastLine(t *testing.T) {
	out := "Blender 4.1\nextrude: first\nnoise\nextrude: second\nBlender quit\n"
	if got := lastLine(out, "extrude: "); got != "second" {
		t.Errorf("lastLine = %q", got)
	}
	if got := lastLine("nothing here", "extrude: "); got != "" {
		t.Errorf("lastLine = %q, want empty", got)
	}
}
