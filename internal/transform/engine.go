package transform

import (
	"fmt"
	"math"
	"math/big"
)

const (
	// minLogSize and maxLogSize bound the supported transform lengths.
	minLogSize = 10
	maxLogSize = 23

	// maxThreads bounds the carry-slot table.
	maxThreads = 64

	// gapCx is the cache-line gap, in complex samples, inserted after
	// every row of nIO samples. Purely an addressing decision: it keeps
	// the outer-FFT column walk off associativity conflicts.
	gapCx = 64 / 16
)

// Options configures an Engine.
type Options struct {
	// Threads is the number of workers for the three passes. Zero means 1.
	Threads int
	// Width is the lane width in doubles: 2, 4 or 8. Zero selects from
	// CPU features.
	Width int
	// Registers is the total number of spectral registers, at least 1.
	// Register 0 is the residue; the rest serve Copy/InitMultiplicand.
	Registers int
	// CheckError enables per-squaring rounding-error tracking.
	CheckError bool
}

// Engine owns every buffer of one residue system modulo b^N + 1 and
// performs squarings on register 0. All allocation happens here; the
// squaring path allocates nothing.
type Engine struct {
	b       uint32
	n       int
	nIO     int // cache-resident block length (power of four)
	nIOs    int // half-blocks per block: nIO/8
	nIOInv  int // column tiles per half-block: n/nIO/width
	sIO     int // outer blocks: n/nIO
	vw      int
	threads int

	checkError bool

	bF, bInv   float64
	sb, sbInv  float64 // √b and its inverse, double precision
	isb, fsb   float64 // √b split into a hi/lo pair; isb+fsb ≈ √b exactly
	w122i      []complex128
	ws         []vcx
	regs       [][]float64 // regs[0] is the residue, spectral form
	zp         []float64   // prepared multiplicand
	f          []vcx       // per-thread carry slots, threads × nIOInv
	errs       []float64   // per-thread error scratch, reused across squarings

	maxErr float64
}

// blockLen returns the cache-blocked inner length for a transform of
// size n: a power of four with 64 ≤ nIO ≤ n/16.
func blockLen(n int) int {
	switch {
	case n <= 1<<11:
		return 64
	case n <= 1<<13:
		return 256
	case n <= 1<<17:
		return 1024
	default:
		return 4096
	}
}

// MaxThreadsFor returns the largest worker count the block structure of
// a size-n transform supports: every thread needs at least one outer
// block in pass1 and one half-block in pass2.
func MaxThreadsFor(n int) int {
	nIO := blockLen(n)
	return min(maxThreads, n/nIO, nIO/8)
}

// New builds an engine for b^n + 1. b must be even and n a power of two
// in [2^10, 2^23]. The twiddle tables, the register file and the carry
// slots are allocated up front and never grow.
func New(b uint32, n int, opt Options) (*Engine, error) {
	if b < 2 || b%2 != 0 {
		return nil, fmt.Errorf("transform: base %d is not an even integer >= 2", b)
	}
	if n < 1<<minLogSize || n > 1<<maxLogSize || n&(n-1) != 0 {
		return nil, fmt.Errorf("transform: size %d is not a supported power of two", n)
	}

	vw := opt.Width
	if vw == 0 {
		vw = defaultWidth()
	}
	if vw != 2 && vw != 4 && vw != 8 {
		return nil, fmt.Errorf("transform: vector width %d is not 2, 4 or 8", vw)
	}

	nIO := blockLen(n)
	sIO := n / nIO
	nIOs := nIO / 8

	threads := opt.Threads
	if threads == 0 {
		threads = 1
	}
	if threads < 1 || threads > maxThreads {
		return nil, fmt.Errorf("transform: thread count %d out of range [1, %d]", threads, maxThreads)
	}
	if threads > sIO || threads > nIOs {
		return nil, fmt.Errorf("transform: thread count %d exceeds block parallelism %d for size %d", threads, min(sIO, nIOs), n)
	}

	regs := opt.Registers
	if regs == 0 {
		regs = 1
	}
	if regs < 1 {
		return nil, fmt.Errorf("transform: register count %d out of range", regs)
	}

	e := &Engine{
		b:          b,
		n:          n,
		nIO:        nIO,
		nIOs:       nIOs,
		nIOInv:     n / nIO / vw,
		sIO:        sIO,
		vw:         vw,
		threads:    threads,
		checkError: opt.CheckError,
		bF:         float64(b),
		bInv:       1 / float64(b),
		sb:         math.Sqrt(float64(b)),
	}
	e.sbInv = 1 / e.sb
	e.isb, e.fsb = splitSqrt(b)

	e.w122i = buildW122i(n)
	e.ws = buildWS(n, vw)

	bufLen := 2 * e.index(n)
	e.regs = make([][]float64, regs)
	for i := range e.regs {
		e.regs[i] = make([]float64, bufLen)
	}
	e.zp = make([]float64, bufLen)
	e.f = make([]vcx, threads*e.nIOInv)
	e.errs = make([]float64, threads)

	e.Set(1)
	return e, nil
}

// splitSqrt computes √b as a hi/lo double pair whose sum carries about
// 96 bits of the true root, the precision the split-base carry needs to
// cancel r − h·√b exactly.
func splitSqrt(b uint32) (hi, lo float64) {
	s := new(big.Float).SetPrec(96).SetUint64(uint64(b))
	s.Sqrt(s)
	hi, _ = s.Float64()
	r := new(big.Float).SetPrec(96).Sub(s, new(big.Float).SetFloat64(hi))
	lo, _ = r.Float64()
	return hi, lo
}

// index maps a logical sample position to its padded offset.
func (e *Engine) index(k int) int {
	j, i := k/e.nIO, k%e.nIO
	return j*(e.nIO+gapCx) + i
}

// Size returns the transform length N.
func (e *Engine) Size() int { return e.n }

// Base returns b.
func (e *Engine) Base() uint32 { return e.b }

// Width returns the active lane width in doubles.
func (e *Engine) Width() int { return e.vw }

// Threads returns the worker count.
func (e *Engine) Threads() int { return e.threads }

// Registers returns the number of spectral registers.
func (e *Engine) Registers() int { return len(e.regs) }

// Error returns the running maximum rounding error across all squarings
// since construction or the last Restore.
func (e *Engine) Error() float64 { return e.maxErr }

// Set loads the integer a into register 0. The buffer is primed with
// 2a in the leading sample — the transform carries an overall factor of
// two from the real/imaginary digit packing — and re-spectralized.
func (e *Engine) Set(a int32) {
	z := e.regs[0]
	for i := range z {
		z[i] = 0
	}
	z[0] = 2 * float64(a)
	for lh := 0; lh < e.nIO/8; lh++ {
		e.forwardOut(z, lh)
	}
}

// Copy copies register src to register dst. Both are spectral images, so
// this is a plain buffer copy.
func (e *Engine) Copy(dst, src int) error {
	if dst < 0 || dst >= len(e.regs) || src < 0 || src >= len(e.regs) {
		return fmt.Errorf("transform: register out of range (dst %d, src %d, have %d)", dst, src, len(e.regs))
	}
	copy(e.regs[dst], e.regs[src])
	return nil
}
