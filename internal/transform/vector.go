package transform

import "math"

// maxWidth is the widest supported lane count (AVX-512 class, 8 doubles).
// Narrower engines use the leading lanes and keep the tail lanes at zero:
// loads fill only the active lanes, and every arithmetic op maps zero to
// zero, so width only matters at memory and shuffle boundaries.
const maxWidth = 8

// vd is a vector of doubles, one SIMD lane group.
type vd struct {
	r [maxWidth]float64
}

func vdBroadcast(f float64) vd {
	var v vd
	for i := range v.r {
		v.r[i] = f
	}
	return v
}

func (v vd) add(rhs vd) vd {
	for i := range v.r {
		v.r[i] += rhs.r[i]
	}
	return v
}

func (v vd) sub(rhs vd) vd {
	for i := range v.r {
		v.r[i] -= rhs.r[i]
	}
	return v
}

func (v vd) mul(rhs vd) vd {
	for i := range v.r {
		v.r[i] *= rhs.r[i]
	}
	return v
}

func (v vd) scale(f float64) vd {
	for i := range v.r {
		v.r[i] *= f
	}
	return v
}

// roundv rounds each lane to the nearest integer, halves away from zero.
func (v vd) roundv() vd {
	for i := range v.r {
		v.r[i] = math.Round(v.r[i])
	}
	return v
}

func (v vd) absv() vd {
	for i := range v.r {
		v.r[i] = math.Abs(v.r[i])
	}
	return v
}

func (v vd) maxv(rhs vd) vd {
	for i := range v.r {
		v.r[i] = math.Max(v.r[i], rhs.r[i])
	}
	return v
}

func (v vd) maxLane() float64 {
	m := v.r[0]
	for i := 1; i < maxWidth; i++ {
		m = math.Max(m, v.r[i])
	}
	return m
}

func (v vd) isZero() bool {
	for i := range v.r {
		if v.r[i] != 0 {
			return false
		}
	}
	return true
}

// vcx is a vector of complex values, stored as separate real and
// imaginary lane groups. In memory a width-w group occupies 2w doubles:
// w reals followed by w imaginaries (block-SoA).
type vcx struct {
	re, im vd
}

// cxBroadcast fills every lane with the same complex value. Broadcast
// results feed mulW/mulWconj only, so tail-lane contamination is
// harmless: the other operand keeps its tail at zero.
func cxBroadcast(w complex128) vcx {
	return vcx{re: vdBroadcast(real(w)), im: vdBroadcast(imag(w))}
}

// cxBroadcast2 fills the low half of the active lanes with lo and the
// high half with hi. Used by the cross-lane stage of the 8-wide inner FFT
// where one vector spans two adjacent subproblems.
func cxBroadcast2(lo, hi complex128, width int) vcx {
	var v vcx
	for i := 0; i < width/2; i++ {
		v.re.r[i] = real(lo)
		v.im.r[i] = imag(lo)
	}
	for i := width / 2; i < width; i++ {
		v.re.r[i] = real(hi)
		v.im.r[i] = imag(hi)
	}
	return v
}

// cxLoad reads the width-w group that starts at complex offset k. k is
// any offset; with the padded index layout it need not be a multiple of
// the width.
func cxLoad(mem []float64, k, width int) vcx {
	var v vcx
	d := mem[2*k:]
	for i := 0; i < width; i++ {
		v.re.r[i] = d[i]
		v.im.r[i] = d[width+i]
	}
	return v
}

func (v vcx) store(mem []float64, k, width int) {
	d := mem[2*k:]
	for i := 0; i < width; i++ {
		d[i] = v.re.r[i]
		d[width+i] = v.im.r[i]
	}
}

func (v vcx) lane(i int) complex128 {
	return complex(v.re.r[i], v.im.r[i])
}

func (v *vcx) setLane(i int, c complex128) {
	v.re.r[i] = real(c)
	v.im.r[i] = imag(c)
}

func (v vcx) isZero() bool {
	return v.re.isZero() && v.im.isZero()
}

func (v vcx) add(rhs vcx) vcx {
	return vcx{re: v.re.add(rhs.re), im: v.im.add(rhs.im)}
}

func (v vcx) sub(rhs vcx) vcx {
	return vcx{re: v.re.sub(rhs.re), im: v.im.sub(rhs.im)}
}

// addI returns v + i·rhs.
func (v vcx) addI(rhs vcx) vcx {
	return vcx{re: v.re.sub(rhs.im), im: v.im.add(rhs.re)}
}

// subI returns v − i·rhs.
func (v vcx) subI(rhs vcx) vcx {
	return vcx{re: v.re.add(rhs.im), im: v.im.sub(rhs.re)}
}

// subIr returns i·(v − rhs), in the re-associated form used by the odd
// backward butterfly.
func (v vcx) subIr(rhs vcx) vcx {
	return vcx{re: rhs.im.sub(v.im), im: v.re.sub(rhs.re)}
}

func (v vcx) mul(rhs vcx) vcx {
	return vcx{
		re: v.re.mul(rhs.re).sub(v.im.mul(rhs.im)),
		im: v.im.mul(rhs.re).add(v.re.mul(rhs.im)),
	}
}

func (v vcx) scale(f float64) vcx {
	return vcx{re: v.re.scale(f), im: v.im.scale(f)}
}

// mul1i returns v·(1+i).
func (v vcx) mul1i() vcx {
	return vcx{re: v.re.sub(v.im), im: v.im.add(v.re)}
}

// mul1mi returns v·(1−i).
func (v vcx) mul1mi() vcx {
	return vcx{re: v.re.add(v.im), im: v.im.sub(v.re)}
}

func (v vcx) sqr() vcx {
	return vcx{
		re: v.re.mul(v.re).sub(v.im.mul(v.im)),
		im: v.re.add(v.re).mul(v.im),
	}
}

// mulW multiplies by a twiddle stored in Gentleman form (cos α, tan α):
// (re − im·t)·c + i·(im + re·t)·c. Two multiplies and one add per
// component instead of the four-multiply complex product.
func (v vcx) mulW(w vcx) vcx {
	return vcx{
		re: v.re.sub(v.im.mul(w.im)).mul(w.re),
		im: v.im.add(v.re.mul(w.im)).mul(w.re),
	}
}

// mulWconj multiplies by the conjugate of a Gentleman-form twiddle.
func (v vcx) mulWconj(w vcx) vcx {
	return vcx{
		re: v.re.add(v.im.mul(w.im)).mul(w.re),
		im: v.im.sub(v.re.mul(w.im)).mul(w.re),
	}
}

func (v vcx) absv() vcx {
	return vcx{re: v.re.absv(), im: v.im.absv()}
}

func (v vcx) roundv() vcx {
	return vcx{re: v.re.roundv(), im: v.im.roundv()}
}

func (v vcx) maxv(rhs vcx) vcx {
	return vcx{re: v.re.maxv(rhs.re), im: v.im.maxv(rhs.im)}
}

func (v vcx) maxLane() float64 {
	return math.Max(v.re.maxLane(), v.im.maxLane())
}

// shift walks the lanes up by one: lane i takes lane i−1, and lane 0
// takes the last active lane of rhs. With rotate set, the incoming
// element enters multiplied by i — the packed form of f·x^N = −f in the
// quotient ring, so the carry that wraps past the top digit re-enters
// negated. Not an endian shuffle.
func (v *vcx) shift(rhs vcx, rotate bool, width int) {
	for i := width - 1; i > 0; i-- {
		v.re.r[i] = v.re.r[i-1]
		v.im.r[i] = v.im.r[i-1]
	}
	if rotate {
		v.re.r[0] = -rhs.im.r[width-1]
		v.im.r[0] = rhs.re.r[width-1]
	} else {
		v.re.r[0] = rhs.re.r[width-1]
		v.im.r[0] = rhs.im.r[width-1]
	}
}

// cxSwapHalves exchanges the high half-lanes of a with the low
// half-lanes of b, interleaving two vectors into (low a, low b) and
// (high a, high b).
func cxSwapHalves(a, b *vcx, width int) {
	var na, nb vcx
	h := width / 2
	for i := 0; i < h; i++ {
		na.re.r[i], na.im.r[i] = a.re.r[i], a.im.r[i]
		na.re.r[i+h], na.im.r[i+h] = b.re.r[i], b.im.r[i]
		nb.re.r[i], nb.im.r[i] = a.re.r[i+h], a.im.r[i+h]
		nb.re.r[i+h], nb.im.r[i+h] = b.re.r[i+h], b.im.r[i+h]
	}
	*a, *b = na, nb
}
