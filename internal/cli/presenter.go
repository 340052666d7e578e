package cli

import (
	"fmt"
	"io"

	"github.com/agbru/gfncheck/internal/fermat"
)

// Presenter formats final results for the terminal.
type Presenter struct{}

// NewPresenter creates a result presenter.
func NewPresenter() *Presenter { return &Presenter{} }

// PresentResult prints the verdict line: target, primality, residue,
// max rounding error and wall time, matching the long-standing output
// shape of generalized-Fermat search tools.
func (p *Presenter) PresentResult(target string, res fermat.Result, expected string, out io.Writer) {
	verdict := "is composite"
	if res.IsPrp {
		verdict = "is a probable prime"
	}
	fmt.Fprintf(out, "%s %s, err = %.4f, %s, res = %016x", target, verdict, res.MaxError, FormatExecutionDuration(res.Elapsed), res.Residue)
	if expected != "" {
		fmt.Fprintf(out, " [%s]", expected)
	}
	fmt.Fprintln(out)
}
