package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	PipelineMesh   = "mesh"
	PipelineExport = "export"
	PipelineBatch  = "batch"
)

// Job identifies one conversion run for logging and metrics
type Job struct {
	ID        uuid.UUID
	Pipeline  string
	Input     string
	Output    string
	StartedAt time.Time
}

// NewJob starts a job record
func NewJob(pipeline, input, output string) Job {
	return Job{
		ID:        uuid.New(),
		Pipeline:  pipeline,
		Input:     input,
		Output:    output,
		StartedAt: time.Now(),
	}
}

// Elapsed returns the time since the job started
func (j Job) Elapsed() time.Duration {
	return time.Since(j.StartedAt)
}
