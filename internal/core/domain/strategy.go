package domain

import (
	"strings"
	"time"
)

// ScriptPlaceholder is replaced with the generated script path in strategy arguments
const ScriptPlaceholder = "{script}"

// Strategy is one way of invoking an external tool: a list of executable
// candidates sharing an argument convention.
type Strategy struct {
	Name        string   `yaml:"name"`
	Executables []string `yaml:"executables"`
	Args        []string `yaml:"args"`
	ScriptExt   string   `yaml:"script_ext"` // ".py" or ".FCMacro"
}

// ExpandArgs substitutes the script path into the argument template
func (s Strategy) ExpandArgs(scriptPath string) []string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = strings.ReplaceAll(a, ScriptPlaceholder, scriptPath)
	}
	return args
}

// Extension returns the script extension, defaulting to ".py"
func (s Strategy) Extension() string {
	if s.ScriptExt == "" {
		return ".py"
	}
	return s.ScriptExt
}

// AttemptOutcome summarizes how a single attempt ended
type AttemptOutcome string

const (
	OutcomeSucceeded     AttemptOutcome = "succeeded"
	OutcomeNotFound      AttemptOutcome = "not_found"
	OutcomeFailed        AttemptOutcome = "failed"
	OutcomeTimedOut      AttemptOutcome = "timed_out"
	OutcomeOutputMissing AttemptOutcome = "output_missing"
)

// Attempt records one executable run under one strategy
type Attempt struct {
	Strategy   string
	Executable string
	Args       []string
	ScriptPath string
	ExitCode   int
	Output     string
	Duration   time.Duration
	Outcome    AttemptOutcome
	Err        error
}

// Succeeded reports whether the attempt produced the expected output
func (a Attempt) Succeeded() bool {
	return a.Outcome == OutcomeSucceeded
}

// MeshResult is the outcome of the STEP to OBJ pipeline
type MeshResult struct {
	Input      string
	Output     string
	OutputSize int64
	Faces      int
	Attempts   []Attempt
	Winner     *Attempt
}

// Succeeded reports whether any attempt produced the mesh
func (r *MeshResult) Succeeded() bool {
	return r != nil && r.Winner != nil
}
