package transform

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ── inner-FFT stage drivers (contiguous block, unit step) ────────────────

func (e *Engine) fwd4eBlock(z []float64, k, m int, w0, w1 vcx) {
	for j := 0; j < m; j += e.vw {
		v := vr4Load(z, k+j, m, e.vw)
		v.forward4e(w0, w1)
		v.store(z, k+j, m, e.vw)
	}
}

func (e *Engine) fwd4oBlock(z []float64, k, m int, w0, w2 vcx) {
	for j := 0; j < m; j += e.vw {
		v := vr4Load(z, k+j, m, e.vw)
		v.forward4o(w0, w2)
		v.store(z, k+j, m, e.vw)
	}
}

func (e *Engine) bwd4eBlock(z []float64, k, m int, w0, w1 vcx) {
	for j := 0; j < m; j += e.vw {
		v := vr4Load(z, k+j, m, e.vw)
		v.backward4e(w0, w1)
		v.store(z, k+j, m, e.vw)
	}
}

func (e *Engine) bwd4oBlock(z []float64, k, m int, w0, w2 vcx) {
	for j := 0; j < m; j += e.vw {
		v := vr4Load(z, k+j, m, e.vw)
		v.backward4o(w0, w2)
		v.store(z, k+j, m, e.vw)
	}
}

// ── outer-FFT stage drivers (stride index(nIO), eight columns) ───────────

func (e *Engine) fwd4eOuter(z []float64, k, mi int, w0, w1 vcx) {
	step := e.index(e.nIO)
	for j := 0; j < mi; j += step {
		for i := 0; i < 8; i += e.vw {
			v := vr4Load(z, k+j+i, mi, e.vw)
			v.forward4e(w0, w1)
			v.store(z, k+j+i, mi, e.vw)
		}
	}
}

func (e *Engine) fwd4oOuter(z []float64, k, mi int, w0, w2 vcx) {
	step := e.index(e.nIO)
	for j := 0; j < mi; j += step {
		for i := 0; i < 8; i += e.vw {
			v := vr4Load(z, k+j+i, mi, e.vw)
			v.forward4o(w0, w2)
			v.store(z, k+j+i, mi, e.vw)
		}
	}
}

func (e *Engine) bwd4eOuter(z []float64, k, mi int, w0, w1 vcx) {
	step := e.index(e.nIO)
	for j := 0; j < mi; j += step {
		for i := 0; i < 8; i += e.vw {
			v := vr4Load(z, k+j+i, mi, e.vw)
			v.backward4e(w0, w1)
			v.store(z, k+j+i, mi, e.vw)
		}
	}
}

func (e *Engine) bwd4oOuter(z []float64, k, mi int, w0, w2 vcx) {
	step := e.index(e.nIO)
	for j := 0; j < mi; j += step {
		for i := 0; i < 8; i += e.vw {
			v := vr4Load(z, k+j+i, mi, e.vw)
			v.backward4o(w0, w2)
			v.store(z, k+j+i, mi, e.vw)
		}
	}
}

func (e *Engine) fwd4_0Outer(z []float64, k, mi int) {
	w0 := cxBroadcast(cs2pi116)
	step := e.index(e.nIO)
	for j := 0; j < mi; j += step {
		for i := 0; i < 8; i += e.vw {
			v := vr4Load(z, k+j+i, mi, e.vw)
			v.forward4_0(w0)
			v.store(z, k+j+i, mi, e.vw)
		}
	}
}

func (e *Engine) bwd4_0Outer(z []float64, k, mi int) {
	w0 := cxBroadcast(cs2pi116)
	step := e.index(e.nIO)
	for j := 0; j < mi; j += step {
		for i := 0; i < 8; i += e.vw {
			v := vr4Load(z, k+j+i, mi, e.vw)
			v.backward4_0(w0)
			v.store(z, k+j+i, mi, e.vw)
		}
	}
}

func (e *Engine) fwd8_0Outer(z []float64, k, mi int) {
	step := e.index(e.nIO)
	for j := 0; j < mi; j += step {
		for i := 0; i < 8; i += e.vw {
			v := vr8Load(z, k+j+i, mi, e.vw)
			v.forward8_0()
			v.store(z, k+j+i, mi, e.vw)
		}
	}
}

func (e *Engine) bwd8_0Outer(z []float64, k, mi int) {
	step := e.index(e.nIO)
	for j := 0; j < mi; j += step {
		for i := 0; i < 8; i += e.vw {
			v := vr8Load(z, k+j+i, mi, e.vw)
			v.backward8_0()
			v.store(z, k+j+i, mi, e.vw)
		}
	}
}

// ── outer FFT over one half-block column set ─────────────────────────────

// forwardOut runs the forward outer stages over the eight columns of
// half-block lh. The top level is radix-8 when the stage count is odd.
func (e *Engine) forwardOut(z []float64, lh int) {
	s := (e.n / 4) / e.nIO / 2
	for s >= 4*2 {
		s /= 4
	}

	if s == 4 {
		e.fwd8_0Outer(z, 2*4*lh, e.index(e.n/8))
	} else {
		e.fwd4_0Outer(z, 2*4*lh, e.index(e.n/4))
	}

	mi := e.index(e.n / 16)
	if s == 4 {
		mi = e.index(e.n / 32)
	}
	for ; mi >= e.index(e.nIO); mi, s = mi/4, s*4 {
		for j := 0; j < s; j++ {
			k := 2*4*lh + 8*mi*j
			w := e.w122i[s+3*j:]
			w0, w1 := cxBroadcast(w[0]), cxBroadcast(w[1])
			e.fwd4eOuter(z, k, mi, w0, w1)
			w2 := cxBroadcast(w[2])
			e.fwd4oOuter(z, k+4*mi, mi, w0, w2)
		}
	}
}

func (e *Engine) backwardOut(z []float64, lh int) {
	s := (e.n / 4) / e.nIO / 2
	mi := e.index(e.nIO)
	for ; s >= 2; mi, s = mi*4, s/4 {
		for j := 0; j < s; j++ {
			k := 2*4*lh + 8*mi*j
			w := e.w122i[s+3*j:]
			w0, w1 := cxBroadcast(w[0]), cxBroadcast(w[1])
			e.bwd4eOuter(z, k, mi, w0, w1)
			w2 := cxBroadcast(w[2])
			e.bwd4oOuter(z, k+4*mi, mi, w0, w2)
		}
	}

	if s == 1 {
		e.bwd8_0Outer(z, 2*4*lh, e.index(e.n/8))
	} else {
		e.bwd4_0Outer(z, 2*4*lh, e.index(e.n/4))
	}
}

// ── pass 1: inner forward FFT, pointwise square, inner backward FFT ──────

// blockRange splits the sIO outer blocks across threads.
func (e *Engine) blockRange(tid, count int) (int, int) {
	lo := tid * count / e.threads
	hi := (tid + 1) * count / e.threads
	if tid+1 == e.threads {
		hi = count
	}
	return lo, hi
}

// forwardIn runs the inner forward FFT of block l in place. The entry
// stage follows the parity of l: the outer FFT has already placed the
// block at an even or odd frequency.
func (e *Engine) forwardIn(zl []float64, l int) {
	w := e.w122i[e.sIO/2+3*(l/2):]
	w0 := cxBroadcast(w[0])
	if l%2 == 0 {
		e.fwd4eBlock(zl, 0, e.nIO/4, w0, cxBroadcast(w[1]))
	} else {
		e.fwd4oBlock(zl, 0, e.nIO/4, w0, cxBroadcast(w[2]))
	}

	lim := 4
	if e.vw > 4 {
		lim = 16
	}
	for m, s := e.nIO/16, 2; m >= lim; m, s = m/4, s*4 {
		for j := 0; j < s; j++ {
			kj := 8 * m * j
			w := e.w122i[(e.sIO+3*l)*s+3*j:]
			w0, w1 := cxBroadcast(w[0]), cxBroadcast(w[1])
			e.fwd4eBlock(zl, kj, m, w0, w1)
			w2 := cxBroadcast(w[2])
			e.fwd4oBlock(zl, kj+4*m, m, w0, w2)
		}
	}

	if e.vw > 4 {
		e.crossLaneStage(zl, l, true)
	}
}

func (e *Engine) backwardIn(zl []float64, l int) {
	if e.vw > 4 {
		e.crossLaneStage(zl, l, false)
	}

	lim := 4
	if e.vw > 4 {
		lim = 16
	}
	for m, s := lim, e.nIO/4/lim/2; m <= e.nIO/16; m, s = m*4, s/4 {
		for j := 0; j < s; j++ {
			kj := 8 * m * j
			w := e.w122i[(e.sIO+3*l)*s+3*j:]
			w0, w1 := cxBroadcast(w[0]), cxBroadcast(w[1])
			e.bwd4eBlock(zl, kj, m, w0, w1)
			w2 := cxBroadcast(w[2])
			e.bwd4oBlock(zl, kj+4*m, m, w0, w2)
		}
	}

	w := e.w122i[e.sIO/2+3*(l/2):]
	w0 := cxBroadcast(w[0])
	if l%2 == 0 {
		e.bwd4eBlock(zl, 0, e.nIO/4, w0, cxBroadcast(w[1]))
	} else {
		e.bwd4oBlock(zl, 0, e.nIO/4, w0, cxBroadcast(w[2]))
	}
}

// crossLaneStage is the extra pair of radix-4 stages an 8-wide engine
// needs: the innermost tile is 8 wide, so four lanes of each vector
// belong to the neighbouring subproblem. Half-lane swaps interleave two
// vectors, the butterflies run on the transposed scratch, and the swaps
// restore the layout.
func (e *Engine) crossLaneStage(zl []float64, l int, forward bool) {
	for j := 0; j < e.nIO/32; j += 2 {
		kj := 32 * j
		w := e.w122i[(e.sIO+3*l)*(e.nIO/32)+3*j:]
		w0 := cxBroadcast2(w[0], w[3], e.vw)
		w1 := cxBroadcast2(w[1], w[4], e.vw)
		w2 := cxBroadcast2(w[2], w[5], e.vw)

		var t [8]vcx
		for i := 0; i < 8; i++ {
			t[i] = cxLoad(zl, kj+i*e.vw, e.vw)
		}
		for i := 0; i < 4; i++ {
			cxSwapHalves(&t[i], &t[i+4], e.vw)
		}
		var nt [8]vcx
		for i := 0; i < 4; i++ {
			nt[2*i+0] = t[i]
			nt[2*i+1] = t[i+4]
		}

		if forward {
			forward4eV(nt[0:4], w0, w1)
			forward4oV(nt[4:8], w0, w2)
		} else {
			backward4eV(nt[0:4], w0, w1)
			backward4oV(nt[4:8], w0, w2)
		}

		for i := 0; i < 4; i++ {
			t[i] = nt[2*i+0]
			t[i+4] = nt[2*i+1]
		}
		for i := 0; i < 4; i++ {
			cxSwapHalves(&t[i], &t[i+4], e.vw)
		}
		for i := 0; i < 8; i++ {
			t[i].store(zl, kj+i*e.vw, e.vw)
		}
	}
}

func (e *Engine) pass1(z []float64, tid int) {
	lMin, lMax := e.blockRange(tid, e.sIO)
	for l := lMin; l < lMax; l++ {
		zl := z[2*e.index(e.nIO*l):]
		wsl := e.ws[l*e.nIO/8/e.vw:]

		e.forwardIn(zl, l)

		for j := 0; j < e.nIO/8/e.vw; j++ {
			kj := 8 * j * e.vw
			t := tileLoad(zl, kj, e.vw)
			t.transposeIn(e.vw)
			t.square4e(wsl[j])
			t.square4o(wsl[j])
			t.transposeOut(e.vw)
			t.store(zl, kj, e.vw)
		}

		e.backwardIn(zl, l)
	}
}

// pass1Multiplicand forward-transforms the multiplicand buffer and
// leaves each tile transposed and half-butterflied, the shape mul4
// consumes directly.
func (e *Engine) pass1Multiplicand(tid int) {
	lMin, lMax := e.blockRange(tid, e.sIO)
	for l := lMin; l < lMax; l++ {
		zl := e.zp[2*e.index(e.nIO*l):]
		wsl := e.ws[l*e.nIO/8/e.vw:]

		e.forwardIn(zl, l)

		for j := 0; j < e.nIO/8/e.vw; j++ {
			kj := 8 * j * e.vw
			t := tileLoad(zl, kj, e.vw)
			t.transposeIn(e.vw)
			t.mul4Forward(wsl[j])
			t.store(zl, kj, e.vw)
		}
	}
}

func (e *Engine) pass1Mul(z []float64, tid int) {
	lMin, lMax := e.blockRange(tid, e.sIO)
	for l := lMin; l < lMax; l++ {
		zl := z[2*e.index(e.nIO*l):]
		zpl := e.zp[2*e.index(e.nIO*l):]
		wsl := e.ws[l*e.nIO/8/e.vw:]

		e.forwardIn(zl, l)

		for j := 0; j < e.nIO/8/e.vw; j++ {
			kj := 8 * j * e.vw
			t := tileLoad(zl, kj, e.vw)
			t.transposeIn(e.vw)
			tp := tileLoad(zpl, kj, e.vw) // already transposed
			t.mul4(&tp, wsl[j])
			t.transposeOut(e.vw)
			t.store(zl, kj, e.vw)
		}

		e.backwardIn(zl, l)
	}
}

// ── pass 2: outer backward FFT and rounding carry ────────────────────────

// carryRound rounds one transposed tile to balanced split-base digits:
// each row holds four (r, h) pairs with digit r + h·√b. o is the raw
// convolution output divided by the transform scale; the remainder after
// the base reduction is split against the hi/lo pair of √b so that both
// halves stay within ±√b/2.
func (e *Engine) carryRound(t *vcx8, f vcx, g, t2n float64, errv *vcx) vcx {
	for l := 0; l < 4; l++ {
		z0, z1 := t.z[2*l+0], t.z[2*l+1]
		o := z0.add(z1.scale(e.sb)).scale(t2n)
		oi := o.roundv()
		if e.checkError {
			*errv = errv.maxv(o.sub(oi).absv())
		}
		fi := f.add(oi.scale(g))
		fo := fi.scale(e.bInv).roundv()
		r := fi.sub(fo.scale(e.bF))
		f = fo
		irh := r.scale(e.sbInv).roundv()
		t.z[2*l+0] = r.sub(irh.scale(e.isb)).sub(irh.scale(e.fsb))
		t.z[2*l+1] = irh
	}
	return f
}

// carryIn propagates a carry residual into an already-rounded tile. No
// scaling, no doubling: the digits are exact small integers, so the walk
// is pure integer propagation and usually dies within a pair or two. The
// last pair absorbs whatever remains.
func (e *Engine) carryIn(t *vcx8, f vcx) {
	for l := 0; l < 4-1; l++ {
		z0, z1 := t.z[2*l+0], t.z[2*l+1]
		o := z0.add(z1.scale(e.sb))
		oi := o.roundv()
		f = f.add(oi)
		fo := f.scale(e.bInv).roundv()
		r := f.sub(fo.scale(e.bF))
		f = fo
		irh := r.scale(e.sbInv).roundv()
		t.z[2*l+0] = r.sub(irh.scale(e.isb)).sub(irh.scale(e.fsb))
		t.z[2*l+1] = irh
		if f.isZero() {
			return
		}
	}

	z0, z1 := t.z[6], t.z[7]
	o := z0.add(z1.scale(e.sb))
	oi := o.roundv()
	r := f.add(oi)
	irh := r.scale(e.sbInv).roundv()
	t.z[6] = r.sub(irh.scale(e.isb)).sub(irh.scale(e.fsb))
	t.z[7] = irh
}

// pass2 converts each owned half-block back to the time domain, rounds
// it to balanced digits and accumulates the carry chain. The carry flows
// forward through the thread's own half-blocks; only the first half-block
// is left transposed (and un-spectralized) for the stitch, every other
// one is finished and forward-transformed immediately.
func (e *Engine) pass2(z []float64, tid int, dup bool) float64 {
	g := 1.0
	if dup {
		g = 2.0
	}
	t2n := 2.0 / float64(e.n)
	step := e.index(e.nIO)

	var errv vcx

	lMin, lMax := e.blockRange(tid, e.nIOs)
	for lh := lMin; lh < lMax; lh++ {
		e.backwardOut(z, lh)

		for j := 0; j < e.nIOInv; j++ {
			kj := step*e.vw*j + 2*4*lh
			t := tileLoadStrided(z, kj, step, e.vw)
			t.transposeIn(e.vw)

			var fPrev vcx
			if lh != lMin {
				fPrev = e.f[tid*e.nIOInv+j]
			}
			e.f[tid*e.nIOInv+j] = e.carryRound(&t, fPrev, g, t2n, &errv)

			if lh != lMin {
				t.transposeOut(e.vw)
			}
			t.storeStrided(z, kj, step, e.vw) // transposed if lh == lMin
		}

		if lh != lMin {
			e.forwardOut(z, lh)
		}
	}

	return errv.maxLane()
}

// ── pass 2_1: carry stitch ───────────────────────────────────────────────

// pass21 finishes each thread's first half-block with the carry left by
// its cyclic predecessor. For thread 0 the carry crosses the ring
// boundary: shift walks it one digit up and rotates the wrapping element,
// realizing x^N = −1. The preceding barrier makes the cross-thread read
// safe; every write lands in the range the thread already owned in pass2.
func (e *Engine) pass21(z []float64, tid int) {
	tPrev := tid - 1
	if tid == 0 {
		tPrev = e.threads - 1
	}
	lh := tid * e.nIOs / e.threads
	step := e.index(e.nIO)

	for j := 0; j < e.nIOInv; j++ {
		kj := step*e.vw*j + 2*4*lh
		t := tileLoadStrided(z, kj, step, e.vw) // transposed by pass2

		fPrev := e.f[tPrev*e.nIOInv+j]
		if tid == 0 {
			jPrev := j - 1
			if j == 0 {
				jPrev = e.nIOInv - 1
			}
			fPrev.shift(e.f[tPrev*e.nIOInv+jPrev], j == 0, e.vw)
		}
		e.carryIn(&t, fPrev)

		t.transposeOut(e.vw)
		t.storeStrided(z, kj, step, e.vw)
	}

	e.forwardOut(z, lh)
}

// ── public squaring / multiplication operations ──────────────────────────

// SquareDup replaces register 0 with its square modulo b^N + 1, doubled
// when dup is set. It returns the squaring's maximum rounding error
// (zero unless error checking is enabled); values approaching 0.5 mean
// the residue can no longer be trusted. The engine itself never aborts.
func (e *Engine) SquareDup(dup bool) float64 {
	z := e.regs[0]
	errs := e.errs

	if e.threads == 1 {
		e.pass1(z, 0)
		errs[0] = e.pass2(z, 0, dup)
		e.pass21(z, 0)
	} else {
		var g errgroup.Group
		for t := 0; t < e.threads; t++ {
			g.Go(func() error { e.pass1(z, t); return nil })
		}
		_ = g.Wait() // barrier
		for t := 0; t < e.threads; t++ {
			g.Go(func() error { errs[t] = e.pass2(z, t, dup); return nil })
		}
		_ = g.Wait() // barrier
		for t := 0; t < e.threads; t++ {
			g.Go(func() error { e.pass21(z, t); return nil })
		}
		_ = g.Wait()
	}

	err := 0.0
	for _, v := range errs {
		if v > err {
			err = v
		}
	}
	if err > e.maxErr {
		e.maxErr = err
	}
	return err
}

// InitMultiplicand prepares register src as the multiplicand for Mul:
// the spectral image is copied aside and driven through the inner
// forward transform once, so repeated Mul calls only pay one transform.
func (e *Engine) InitMultiplicand(src int) error {
	if src < 0 || src >= len(e.regs) {
		return fmt.Errorf("transform: register %d out of range (have %d)", src, len(e.regs))
	}
	copy(e.zp, e.regs[src])

	if e.threads == 1 {
		e.pass1Multiplicand(0)
		return nil
	}
	var g errgroup.Group
	for t := 0; t < e.threads; t++ {
		g.Go(func() error { e.pass1Multiplicand(t); return nil })
	}
	return g.Wait()
}

// Mul multiplies register 0 by the prepared multiplicand modulo b^N + 1
// and returns the rounding error, like SquareDup.
func (e *Engine) Mul() float64 {
	z := e.regs[0]
	errs := e.errs

	if e.threads == 1 {
		e.pass1Mul(z, 0)
		errs[0] = e.pass2(z, 0, false)
		e.pass21(z, 0)
	} else {
		var g errgroup.Group
		for t := 0; t < e.threads; t++ {
			g.Go(func() error { e.pass1Mul(z, t); return nil })
		}
		_ = g.Wait()
		for t := 0; t < e.threads; t++ {
			g.Go(func() error { errs[t] = e.pass2(z, t, false); return nil })
		}
		_ = g.Wait()
		for t := 0; t < e.threads; t++ {
			g.Go(func() error { e.pass21(z, t); return nil })
		}
		_ = g.Wait()
	}

	err := 0.0
	for _, v := range errs {
		if v > err {
			err = v
		}
	}
	if err > e.maxErr {
		e.maxErr = err
	}
	return err
}
