package config

import (
	"flag"
	"io"
	"testing"
	"time"

	apperrors "github.com/agbru/gfncheck/internal/errors"
)

func parse(t *testing.T, args ...string) (*AppConfig, *flag.FlagSet) {
	t.Helper()
	var cfg AppConfig
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return &cfg, fs
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"valid", []string{"-b", "399998300", "-n", "1024"}, false},
		{"odd base", []string{"-b", "399998301", "-n", "1024"}, true},
		{"zero base", []string{"-n", "1024"}, true},
		{"non power of two", []string{"-b", "1000000", "-n", "1000"}, true},
		{"bad width", []string{"-b", "1000000", "-n", "1024", "-width", "3"}, true},
		{"bad residue length", []string{"-b", "1000000", "-n", "1024", "-res", "abc"}, true},
		{"valid residue", []string{"-b", "1000000", "-n", "1024", "-res", "5a82277cc9c6f782"}, false},
		{"warn out of range", []string{"-b", "1000000", "-n", "1024", "-error-warn", "0.7"}, true},
		{"abort below warn", []string{"-b", "1000000", "-n", "1024", "-error-abort", "0.1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := parse(t, tt.args...)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ce apperrors.ConfigError
				if !asConfigError(err, &ce) {
					t.Errorf("Validate() should return ConfigError, got %T", err)
				}
			}
		})
	}
}

func asConfigError(err error, target *apperrors.ConfigError) bool {
	ce, ok := err.(apperrors.ConfigError)
	if ok {
		*target = ce
	}
	return ok
}

func TestApplyEnvRespectsFlags(t *testing.T) {
	t.Setenv("GFN_THREADS", "7")
	t.Setenv("GFN_CKPT_INTERVAL", "30s")

	// flag explicitly set: env must not override
	cfg, fs := parse(t, "-b", "1000000", "-n", "1024", "-threads", "2")
	cfg.ApplyEnv(fs)
	if cfg.Threads != 2 {
		t.Errorf("Threads = %d, want 2 (flag wins over env)", cfg.Threads)
	}
	// flag not set: env applies
	if cfg.CheckpointInterval != 30*time.Second {
		t.Errorf("CheckpointInterval = %v, want 30s from env", cfg.CheckpointInterval)
	}
}

func TestDescribe(t *testing.T) {
	cfg, _ := parse(t, "-b", "2", "-n", "1024")
	if got := cfg.Describe(); got != "2^1024+1" {
		t.Errorf("Describe() = %q", got)
	}
}
