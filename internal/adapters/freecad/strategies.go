package freecad

import "github.com/kamal-hamza/extrude-cli/internal/core/domain"

// DefaultStrategies returns the invocation conventions tried, in order,
// when no strategies are configured
func DefaultStrategies() []domain.Strategy {
	return []domain.Strategy{
		{
			Name:        "run-script",
			Executables: []string{"freecad"},
			Args:        []string{"--run", domain.ScriptPlaceholder},
		},
		{
			Name:        "exec-string",
			Executables: []string{"freecad"},
			Args:        []string{"-c", "exec(open('" + domain.ScriptPlaceholder + "').read())"},
		},
		{
			Name:        "macro",
			Executables: []string{"freecad"},
			Args:        []string{domain.ScriptPlaceholder},
			ScriptExt:   MacroExt,
		},
		{
			Name:        "console",
			Executables: []string{"freecadcmd", "FreeCADCmd"},
			Args:        []string{domain.ScriptPlaceholder},
		},
		{
			Name: "alternatives",
			Executables: []string{
				"FreeCAD",
				"freecad-daily",
				"/usr/bin/freecad",
				"/usr/local/bin/freecad",
			},
			Args: []string{"--run", domain.ScriptPlaceholder},
		},
	}
}

// Executables lists every distinct executable named by strategies, in order
func Executables(strategies []domain.Strategy) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range strategies {
		for _, e := range s.Executables {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}
