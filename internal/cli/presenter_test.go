package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/gfncheck/internal/fermat"
)

func TestPresentResult(t *testing.T) {
	var buf bytes.Buffer
	res := fermat.Result{
		IsPrp:    false,
		Residue:  0x5a82277cc9c6f782,
		MaxError: 0.1875,
		Elapsed:  3 * time.Second,
	}
	NewPresenter().PresentResult("399998300^1024+1", res, "5a82277cc9c6f782", &buf)

	out := buf.String()
	for _, want := range []string{
		"399998300^1024+1",
		"is composite",
		"res = 5a82277cc9c6f782",
		"[5a82277cc9c6f782]",
		"err = 0.1875",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got: %s", want, out)
		}
	}
}

func TestPresentResultPrime(t *testing.T) {
	var buf bytes.Buffer
	NewPresenter().PresentResult("2^1024+1", fermat.Result{IsPrp: true, Residue: 1}, "", &buf)
	out := buf.String()
	if !strings.Contains(out, "is a probable prime") {
		t.Errorf("output = %s", out)
	}
	if strings.Contains(out, "[") {
		t.Errorf("no expected residue given, output = %s", out)
	}
}
