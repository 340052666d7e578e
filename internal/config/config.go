// Package config holds the application configuration: command-line
// flags, environment overrides and validation.
package config

import (
	"flag"
	"fmt"
	"time"

	apperrors "github.com/agbru/gfncheck/internal/errors"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "GFN_"

// Defaults for tunables that rarely need changing.
const (
	// DefaultErrorWarn is the rounding-error level that triggers a
	// warning log.
	DefaultErrorWarn = 0.4
	// DefaultErrorAbort is the hard failure bound: at or above it the
	// residue is considered unreliable and the run stops.
	DefaultErrorAbort = 0.4375
	// DefaultCheckpointInterval is the spacing between checkpoint
	// writes when a checkpoint path is configured.
	DefaultCheckpointInterval = 10 * time.Minute
)

// AppConfig is the resolved configuration of one gfncheck run.
type AppConfig struct {
	// Base is the even base b of the tested number b^N + 1.
	Base uint64
	// Size is the exponent N, a power of two.
	Size uint64
	// ExpectedResidue is an optional 16-hex-digit fingerprint to compare
	// the final residue against.
	ExpectedResidue string

	// Threads is the worker count for the transform passes (0 = auto).
	Threads int
	// Width forces the SIMD lane width (0 = auto, else 2, 4 or 8).
	Width int
	// CheckError enables per-squaring rounding-error tracking.
	CheckError bool
	// ErrorWarn and ErrorAbort are the soft and hard rounding-error
	// bounds.
	ErrorWarn  float64
	ErrorAbort float64

	// CheckpointPath enables periodic checkpointing when non-empty.
	CheckpointPath string
	// CheckpointInterval is the time between checkpoint writes.
	CheckpointInterval time.Duration

	// MetricsAddr serves Prometheus metrics on this address when
	// non-empty (e.g. ":9090").
	MetricsAddr string

	// TUI enables the interactive dashboard instead of the spinner.
	TUI bool
	// Verbose records the -v flag. Nothing reads it: the log level is
	// taken from GFN_LOG_LEVEL, and -v does not change it.
	Verbose bool
}

// RegisterFlags binds the configuration to a flag set.
func (c *AppConfig) RegisterFlags(fs *flag.FlagSet) {
	fs.Uint64Var(&c.Base, "b", 0, "even base b of the generalized Fermat number b^N+1")
	fs.Uint64Var(&c.Size, "n", 0, "exponent N (power of two)")
	fs.StringVar(&c.ExpectedResidue, "res", "", "expected 64-bit residue (16 hex digits, optional)")
	fs.IntVar(&c.Threads, "threads", 0, "worker threads (0 = number of CPUs, capped)")
	fs.IntVar(&c.Width, "width", 0, "SIMD lane width: 2, 4, 8 (0 = detect)")
	fs.BoolVar(&c.CheckError, "check-error", true, "track per-squaring rounding error")
	fs.Float64Var(&c.ErrorWarn, "error-warn", DefaultErrorWarn, "rounding-error warning threshold")
	fs.Float64Var(&c.ErrorAbort, "error-abort", DefaultErrorAbort, "rounding-error abort threshold")
	fs.StringVar(&c.CheckpointPath, "ckpt", "", "checkpoint file path (empty = no checkpoints)")
	fs.DurationVar(&c.CheckpointInterval, "ckpt-interval", DefaultCheckpointInterval, "time between checkpoints")
	fs.StringVar(&c.MetricsAddr, "metrics", "", "serve Prometheus metrics on this address (empty = off)")
	fs.BoolVar(&c.TUI, "tui", false, "interactive dashboard")
	fs.BoolVar(&c.Verbose, "v", false, "verbose logging (no effect; the log level is read from GFN_LOG_LEVEL)")
}

// ApplyEnv overrides values that were not explicitly set on the command
// line from GFN_-prefixed environment variables.
func (c *AppConfig) ApplyEnv(fs *flag.FlagSet) {
	if !isFlagSet(fs, "threads") {
		c.Threads = getEnvInt("THREADS", c.Threads)
	}
	if !isFlagSet(fs, "width") {
		c.Width = getEnvInt("WIDTH", c.Width)
	}
	if !isFlagSet(fs, "check-error") {
		c.CheckError = getEnvBool("CHECK_ERROR", c.CheckError)
	}
	if !isFlagSet(fs, "ckpt") {
		c.CheckpointPath = getEnvString("CKPT", c.CheckpointPath)
	}
	if !isFlagSet(fs, "ckpt-interval") {
		c.CheckpointInterval = getEnvDuration("CKPT_INTERVAL", c.CheckpointInterval)
	}
	if !isFlagSet(fs, "metrics") {
		c.MetricsAddr = getEnvString("METRICS", c.MetricsAddr)
	}
}

// Validate checks the configuration for consistency. It returns a
// ConfigError describing the first problem found.
func (c *AppConfig) Validate() error {
	if c.Base < 2 || c.Base%2 != 0 {
		return apperrors.NewConfigError("base must be an even integer >= 2, got %d", c.Base)
	}
	if c.Base > 1<<32-1 {
		return apperrors.NewConfigError("base must fit in 32 bits, got %d", c.Base)
	}
	if c.Size == 0 || c.Size&(c.Size-1) != 0 {
		return apperrors.NewConfigError("size must be a power of two, got %d", c.Size)
	}
	if c.Width != 0 && c.Width != 2 && c.Width != 4 && c.Width != 8 {
		return apperrors.NewConfigError("width must be 2, 4 or 8, got %d", c.Width)
	}
	if c.Threads < 0 {
		return apperrors.NewConfigError("threads must be >= 0, got %d", c.Threads)
	}
	if c.ExpectedResidue != "" && len(c.ExpectedResidue) != 16 {
		return apperrors.NewConfigError("expected residue must be 16 hex digits, got %q", c.ExpectedResidue)
	}
	if c.ErrorWarn <= 0 || c.ErrorWarn >= 0.5 {
		return apperrors.NewConfigError("error-warn must be in (0, 0.5), got %v", c.ErrorWarn)
	}
	if c.ErrorAbort < c.ErrorWarn || c.ErrorAbort > 0.5 {
		return apperrors.NewConfigError("error-abort must be in [error-warn, 0.5], got %v", c.ErrorAbort)
	}
	return nil
}

// Describe returns a one-line human-readable summary of the target.
func (c *AppConfig) Describe() string {
	return fmt.Sprintf("%d^%d+1", c.Base, c.Size)
}
