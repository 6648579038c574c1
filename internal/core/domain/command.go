package domain

import "time"

// Command describes one subprocess invocation
type Command struct {
	Path    string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration // 0 means no timeout
}

// RunResult is the outcome of a finished (or killed) subprocess
type RunResult struct {
	ExitCode int
	Output   string // combined stdout and stderr
	Duration time.Duration
	TimedOut bool
}

// MeshRequest asks for a STEP file to be tessellated into an OBJ file
type MeshRequest struct {
	Input  string
	Output string
}

// TessellationDeflection is the fixed chordal tolerance used when meshing
const TessellationDeflection = 0.1
