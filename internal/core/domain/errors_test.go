package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := NewError(KindUnavailable, "mesh", "in.step", ErrAllStrategiesFailed)
	wrapped := fmt.Errorf("convert: %w", base)

	if got := KindOf(wrapped); got != KindUnavailable {
		t.Errorf("KindOf(wrapped) = %s, want unavailable", got)
	}
	if !errors.Is(wrapped, ErrAllStrategiesFailed) {
		t.Error("expected wrapped error to match ErrAllStrategiesFailed")
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %s, want unknown", got)
	}
}

func TestConversionErrorMessage(t *testing.T) {
	err := &ConversionError{
		Kind:     KindExecution,
		Op:       "mesh",
		Path:     "in.step",
		Attempts: make([]Attempt, 3),
		Err:      ErrAllStrategiesFailed,
	}
	msg := err.Error()
	for _, want := range []string{"mesh", "in.step", "all invocation strategies failed", "3 attempts"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}
