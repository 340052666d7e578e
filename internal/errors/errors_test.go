package apperrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("bad base %d", 7)
	if !strings.Contains(err.Error(), "bad base 7") {
		t.Errorf("ConfigError message = %q", err.Error())
	}
	var ce ConfigError
	if !errors.As(err, &ce) {
		t.Error("errors.As should match ConfigError")
	}
}

func TestPrecisionError(t *testing.T) {
	err := PrecisionError{Iteration: 12, Err: 0.4375}
	if !strings.Contains(err.Error(), "0.4375") || !strings.Contains(err.Error(), "12") {
		t.Errorf("PrecisionError message = %q", err.Error())
	}
}

func TestResidueError(t *testing.T) {
	err := ResidueError{Got: 0x5a82277cc9c6f782, Want: 0x1907ebae0c183e35}
	msg := err.Error()
	if !strings.Contains(msg, "5a82277cc9c6f782") || !strings.Contains(msg, "1907ebae0c183e35") {
		t.Errorf("ResidueError message = %q", msg)
	}
}

func TestCheckpointErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := CheckpointError{Path: "/tmp/x", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("CheckpointError should unwrap to its cause")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "ctx") != nil {
		t.Error("WrapError(nil) should be nil")
	}
	base := errors.New("inner")
	wrapped := WrapError(base, "outer %d", 1)
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match base")
	}
	if !strings.Contains(wrapped.Error(), "outer 1") {
		t.Errorf("wrapped message = %q", wrapped.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{context.Canceled, ExitErrorCanceled},
		{fmt.Errorf("wrap: %w", context.DeadlineExceeded), ExitErrorCanceled},
		{NewConfigError("x"), ExitErrorConfig},
		{PrecisionError{Err: 0.5}, ExitErrorNumeric},
		{ResidueError{}, ExitErrorResidue},
		{errors.New("other"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
