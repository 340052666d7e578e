package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestHasVersionFlag(t *testing.T) {
	if !HasVersionFlag([]string{"--version"}) {
		t.Error("--version should be detected")
	}
	if HasVersionFlag([]string{"-b", "2"}) {
		t.Error("no version flag present")
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.Contains(buf.String(), "gfncheck") {
		t.Errorf("version output = %q", buf.String())
	}
}

func TestNewParsesFlags(t *testing.T) {
	var errBuf bytes.Buffer
	app, err := New([]string{"gfncheck", "-b", "399998300", "-n", "1024", "-res", "5a82277cc9c6f782"}, &errBuf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if app.Config.Base != 399998300 || app.Config.Size != 1024 {
		t.Errorf("config = %+v", app.Config)
	}
	if app.Config.ExpectedResidue != "5a82277cc9c6f782" {
		t.Errorf("residue = %q", app.Config.ExpectedResidue)
	}
}

func TestNewParsesPositional(t *testing.T) {
	var errBuf bytes.Buffer
	app, err := New([]string{"gfncheck", "399998574", "2048", "1907ebae0c183e35"}, &errBuf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if app.Config.Base != 399998574 || app.Config.Size != 2048 {
		t.Errorf("config = %+v", app.Config)
	}
	if app.Config.ExpectedResidue != "1907ebae0c183e35" {
		t.Errorf("residue = %q", app.Config.ExpectedResidue)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	var errBuf bytes.Buffer
	if _, err := New([]string{"gfncheck", "-b", "7", "-n", "1024"}, &errBuf); err == nil {
		t.Error("odd base should be rejected")
	}
	if errBuf.Len() == 0 {
		t.Error("error should be reported on the error writer")
	}
}

func TestResolveThreadsCaps(t *testing.T) {
	app, err := New([]string{"gfncheck", "-b", "399998300", "-n", "1024", "-threads", "999"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := resolveThreads(app.Config); got > 8 {
		t.Errorf("resolveThreads = %d, want <= 8 for N=1024", got)
	}
}
