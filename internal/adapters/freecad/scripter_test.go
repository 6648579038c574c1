package freecad

import (
	"strings"
	"testing"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

func TestRenderQuotesPaths(t *testing.T) {
	s := NewScripter()
	script, err := s.Render(domain.MeshRequest{
		Input:  `/tmp/o'brien "profile".step`,
		Output: `/tmp/out.obj`,
	}, ".py")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := string(script)
	for _, want := range []string{
		`input_path = "/tmp/o'brien \"profile\".step"`,
		`output_path = "/tmp/out.obj"`,
		"tessellate(0.1)",
		`FreeCAD.newDocument("Conversion")`,
		"mesh.write(output_path)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("script missing %q", want)
		}
	}
}

func TestRenderMacroSkipsGuiShutdown(t *testing.T) {
	s := NewScripter()
	req := domain.MeshRequest{Input: "a.step", Output: "a.obj"}

	py, _ := s.Render(req, ".py")
	macro, _ := s.Render(req, MacroExt)

	if !strings.Contains(string(py), "FreeCADGui") {
		t.Error("python script should close the GUI when it is up")
	}
	if strings.Contains(string(macro), "FreeCADGui") {
		t.Error("macro should leave the GUI alone")
	}
}

func TestDefaultStrategies(t *testing.T) {
	strategies := DefaultStrategies()

	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name
		placeholder := false
		for _, a := range s.Args {
			if strings.Contains(a, domain.ScriptPlaceholder) {
				placeholder = true
			}
		}
		if !placeholder {
			t.Errorf("strategy %s never references the script", s.Name)
		}
	}

	want := "run-script,exec-string,macro,console,alternatives"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}

	if strategies[2].Extension() != MacroExt {
		t.Errorf("macro strategy extension = %s", strategies[2].Extension())
	}
}

func TestExecutablesDeduplicates(t *testing.T) {
	exes := Executables(DefaultStrategies())
	if exes[0] != "freecad" {
		t.Errorf("first executable = %s", exes[0])
	}
	count := 0
	for _, e := range exes {
		if e == "freecad" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("freecad listed %d times", count)
	}
	if len(exes) != 7 {
		t.Errorf("len = %d, want 7", len(exes))
	}
}
