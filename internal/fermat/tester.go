package fermat

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/gfncheck/internal/errors"
	"github.com/agbru/gfncheck/internal/logging"
	"github.com/agbru/gfncheck/internal/metrics"
	"github.com/agbru/gfncheck/internal/transform"
)

// progressStride is how many squarings pass between progress callbacks
// and cancellation checks. Squarings are milliseconds at the small sizes
// and the loop runs for hours at the large ones; reacting within a few
// dozen iterations is plenty.
const progressStride = 64

// Progress reports loop advancement: iterations done and total, and the
// running maximum rounding error.
type Progress struct {
	Done     uint64
	Total    uint64
	MaxError float64
}

// ProgressFunc receives periodic Progress updates. It is called from the
// test goroutine; implementations must be fast or hand off.
type ProgressFunc func(Progress)

// Result is the outcome of a completed Fermat test.
type Result struct {
	// IsPrp reports whether b^N + 1 is a base-2 Fermat probable prime.
	IsPrp bool
	// Residue is the 64-bit fingerprint of the final residue.
	Residue uint64
	// MaxError is the maximum rounding error observed across the run.
	MaxError float64
	// Iterations is the number of squarings performed.
	Iterations uint64
	// Elapsed is the wall time of the loop.
	Elapsed time.Duration
}

// Tester runs the probable-prime test on one engine.
type Tester struct {
	eng *transform.Engine
	log logging.Logger
	col *metrics.Collectors

	// ErrorWarn and ErrorAbort are the soft and hard rounding-error
	// bounds; see config for the defaults.
	ErrorWarn  float64
	ErrorAbort float64

	// CheckpointPath, when non-empty, enables resuming and periodic
	// saves every CheckpointInterval.
	CheckpointPath     string
	CheckpointInterval time.Duration
}

// NewTester wires a tester. log may be nil; col may be nil to disable
// metrics.
func NewTester(eng *transform.Engine, log logging.Logger, col *metrics.Collectors) *Tester {
	if log == nil {
		log = logging.Nop()
	}
	return &Tester{eng: eng, log: log, col: col}
}

// Run executes the full test: residue ← 2^(b^N) mod b^N+1, then the
// one-test and fingerprint. The exponent walk starts from the most
// significant bit with the residue seeded to one, so the leading bit is
// absorbed by the first doubling. Cancellation is honored between
// squarings only; a squaring is never interrupted.
func (t *Tester) Run(ctx context.Context, progress ProgressFunc) (Result, error) {
	b, n := t.eng.Base(), uint(t.eng.Size())

	tracer := otel.Tracer("gfncheck")
	ctx, span := tracer.Start(ctx, "fermat.test", trace.WithAttributes(
		attribute.Int64("gfn.base", int64(b)),
		attribute.Int("gfn.size", int(n)),
		attribute.Int("gfn.threads", t.eng.Threads()),
		attribute.Int("gfn.width", t.eng.Width()),
	))
	defer span.End()

	exp := NewExponent(b, n)
	total := uint64(exp.BitLen())

	start := total // next bit index + 1; counts down to 0
	t.eng.Set(1)
	if t.CheckpointPath != "" {
		done, ok, err := loadCheckpoint(t.CheckpointPath, t.eng)
		if err != nil {
			return Result{}, err
		}
		if ok {
			start = total - done
			t.log.Info("resumed from checkpoint",
				logging.Uint64("done", done),
				logging.Uint64("total", total))
		}
	}

	t.log.Info("fermat test starting",
		logging.Uint64("base", uint64(b)),
		logging.Int("size", int(n)),
		logging.Uint64("bits", total),
		logging.Int("threads", t.eng.Threads()),
		logging.Int("width", t.eng.Width()))

	began := time.Now()
	lastCkpt := began
	var iterations uint64

	for i := int(start) - 1; i >= 0; i-- {
		sqStart := time.Now()
		e := t.eng.SquareDup(exp.Bit(i) == 1)
		iterations++

		if t.col != nil {
			t.col.Squarings.Inc()
			t.col.SquareSeconds.Observe(time.Since(sqStart).Seconds())
			t.col.RoundError.Set(t.eng.Error())
		}

		if e >= t.ErrorAbort && t.ErrorAbort > 0 {
			done := total - uint64(i)
			perr := apperrors.PrecisionError{Iteration: done, Err: e}
			t.log.Error("rounding error beyond hard bound", perr,
				logging.Float64("error", e))
			span.RecordError(perr)
			return Result{MaxError: t.eng.Error(), Iterations: iterations, Elapsed: time.Since(began)}, perr
		}
		if e >= t.ErrorWarn && t.ErrorWarn > 0 {
			t.log.Warn("rounding error approaching precision limit",
				logging.Float64("error", e),
				logging.Uint64("iteration", total-uint64(i)))
		}

		if iterations%progressStride == 0 || i == 0 {
			done := total - uint64(i)
			if t.col != nil {
				t.col.Progress.Set(float64(done) / float64(total))
			}
			if progress != nil {
				progress(Progress{Done: done, Total: total, MaxError: t.eng.Error()})
			}
			if err := ctx.Err(); err != nil {
				if t.CheckpointPath != "" {
					if cerr := saveCheckpoint(t.CheckpointPath, t.eng, done); cerr != nil {
						t.log.Error("checkpoint on cancel failed", cerr)
					}
				}
				return Result{MaxError: t.eng.Error(), Iterations: iterations, Elapsed: time.Since(began)}, err
			}
			if t.CheckpointPath != "" && time.Since(lastCkpt) >= t.CheckpointInterval {
				if cerr := saveCheckpoint(t.CheckpointPath, t.eng, done); cerr != nil {
					t.log.Error("checkpoint failed", cerr)
				} else {
					lastCkpt = time.Now()
				}
			}
		}
	}

	one, res := t.eng.IsOne()
	result := Result{
		IsPrp:      one,
		Residue:    res,
		MaxError:   t.eng.Error(),
		Iterations: iterations,
		Elapsed:    time.Since(began),
	}

	span.SetAttributes(
		attribute.Bool("gfn.is_prp", one),
		attribute.Float64("gfn.max_error", result.MaxError),
	)
	t.log.Info("fermat test finished",
		logging.Uint64("residue", res),
		logging.Float64("max_error", result.MaxError),
		logging.Uint64("iterations", iterations))

	return result, nil
}
