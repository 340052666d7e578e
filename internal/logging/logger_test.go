package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestFieldHelpers tests the Field constructor functions.
func TestFieldHelpers(t *testing.T) {
	t.Run("String creates field with key and string value", func(t *testing.T) {
		f := String("key", "value")
		if f.Key != "key" || f.Value != "value" {
			t.Errorf("String() = %+v", f)
		}
	})

	t.Run("Int creates field with key and int value", func(t *testing.T) {
		f := Int("count", 42)
		if f.Key != "count" || f.Value != 42 {
			t.Errorf("Int() = %+v", f)
		}
	})

	t.Run("Uint64 creates field", func(t *testing.T) {
		f := Uint64("n", 12345678901234567890)
		if f.Key != "n" || f.Value != uint64(12345678901234567890) {
			t.Errorf("Uint64() = %+v", f)
		}
	})

	t.Run("Float64 creates field", func(t *testing.T) {
		f := Float64("err", 0.25)
		if f.Key != "err" || f.Value != 0.25 {
			t.Errorf("Float64() = %+v", f)
		}
	})

	t.Run("Err creates field with error key", func(t *testing.T) {
		testErr := errors.New("test error")
		f := Err(testErr)
		if f.Key != "error" || f.Value != testErr {
			t.Errorf("Err() = %+v", f)
		}
	})
}

// TestNewZerologAdapter tests the adapter constructor.
func TestNewZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	adapter := NewZerologAdapter(zl)

	if adapter == nil {
		t.Fatal("NewZerologAdapter returned nil")
	}

	adapter.Info("test message")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("adapter not working, output: %s", buf.String())
	}
}

// TestNewLogger tests the custom logger constructor.
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test-component")

	logger.Info("hello")
	output := buf.String()

	if !strings.Contains(output, "test-component") {
		t.Errorf("should include component field, got: %s", output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("should include message, got: %s", output)
	}
}

// TestLevelsAndFields exercises every level with structured fields.
func TestLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Debug("dbg", Int("i", 1))
	logger.Info("request processed", String("method", "GET"), Int("status", 200))
	logger.Warn("careful", Float64("err", 0.44))
	logger.Error("operation failed", errors.New("connection refused"), Uint64("iter", 9))

	out := buf.String()
	for _, want := range []string{
		"request processed", "GET", "200",
		"careful", "0.44",
		"operation failed", "connection refused", "9",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got: %s", want, out)
		}
	}
}

// TestNop discards without panicking.
func TestNop(t *testing.T) {
	logger := Nop()
	logger.Info("into the void", String("k", "v"))
	logger.Error("still quiet", errors.New("x"))
}
