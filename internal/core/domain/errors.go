package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies conversion failures so callers can tell them apart
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUsage
	KindInput
	KindUnavailable
	KindExecution
	KindUnsupportedFormat
	KindImport
	KindExport
	KindMetadata
)

func (k ErrorKind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindInput:
		return "input"
	case KindUnavailable:
		return "unavailable"
	case KindExecution:
		return "execution"
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindImport:
		return "import"
	case KindExport:
		return "export"
	case KindMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// ConversionError is the typed error returned by the conversion services
type ConversionError struct {
	Kind     ErrorKind
	Op       string // "mesh", "inspect", "export", "metadata"
	Path     string
	Attempts []Attempt
	Err      error
}

func (e *ConversionError) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.Attempts) > 0 {
		msg += fmt.Sprintf(" (%d attempts)", len(e.Attempts))
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NewError builds a ConversionError
func NewError(kind ErrorKind, op, path string, err error) *ConversionError {
	return &ConversionError{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf extracts the ErrorKind from err, or KindUnknown
func KindOf(err error) ErrorKind {
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return convErr.Kind
	}
	return KindUnknown
}

var (
	// ErrNoStrategies is returned when the strategy list is empty
	ErrNoStrategies = errors.New("no invocation strategies configured")
	// ErrAllStrategiesFailed is returned when every attempt failed to produce output
	ErrAllStrategiesFailed = errors.New("all invocation strategies failed")
	// ErrNoObjects is returned when an import produced nothing
	ErrNoObjects = errors.New("no objects were imported")
	// ErrOutputMissing is returned when a tool reported success but wrote nothing
	ErrOutputMissing = errors.New("output file was not created")
)
