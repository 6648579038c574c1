package freecad

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"text/template"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/ports"
)

//go:embed scripts/mesh.py.tmpl
var meshScript string

var meshTemplate = template.Must(template.New("mesh").Parse(meshScript))

// MacroExt is the script extension FreeCAD treats as a macro
const MacroExt = ".FCMacro"

// Scripter implements the ScriptRenderer port for FreeCAD
type Scripter struct {
	deflection float64
}

// NewScripter creates a FreeCAD script renderer using the fixed tessellation deflection
func NewScripter() *Scripter {
	return &Scripter{deflection: domain.TessellationDeflection}
}

// Ensure it implements the interface
var _ ports.ScriptRenderer = (*Scripter)(nil)

type scriptData struct {
	Input      string
	Output     string
	Deflection string
	Macro      bool
}

// Render produces a Python script that reads req.Input and writes req.Output.
// Paths are emitted as JSON string literals, which are valid Python strings
// regardless of quotes or backslashes in the path.
func (s *Scripter) Render(req domain.MeshRequest, ext string) ([]byte, error) {
	in, err := pyString(req.Input)
	if err != nil {
		return nil, err
	}
	out, err := pyString(req.Output)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = meshTemplate.Execute(&buf, scriptData{
		Input:      in,
		Output:     out,
		Deflection: strconv.FormatFloat(s.deflection, 'f', -1, 64),
		Macro:      ext == MacroExt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render mesh script: %w", err)
	}
	return buf.Bytes(), nil
}

func pyString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to quote %q: %w", s, err)
	}
	return string(b), nil
}
