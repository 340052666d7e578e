package transform

import (
	"fmt"
	"math"
)

// balancedDigits inverse-transforms a copy of register 0 through the
// outer stages and reads back the N balanced digits. Register 0 itself
// is untouched; the engine stays in spectral form.
func (e *Engine) balancedDigits() []int64 {
	zc := make([]float64, len(e.regs[0]))
	copy(zc, e.regs[0])

	for lh := 0; lh < e.nIO/8; lh++ {
		e.backwardOut(zc, lh)
	}

	// Each logical digit is a sample pair (r, h) with digit r + h·√b;
	// real parts carry digits 0..N/2−1, imaginary parts the upper half.
	scale := float64(e.nIO) / float64(e.n)
	zi := make([]int64, e.n)
	half := e.vw / 2
	for k := 0; k < e.n/2; k += half {
		vc := cxLoad(zc, e.index(2*k), e.vw)
		for i := 0; i < half; i++ {
			z1, z2 := vc.lane(2*i), vc.lane(2*i+1)
			zi[k+i] = int64(math.Round((real(z1) + e.sb*real(z2)) * scale))
			zi[k+i+e.n/2] = int64(math.Round((imag(z1) + e.sb*imag(z2)) * scale))
		}
	}
	return zi
}

// unbalance converts balanced signed digits to canonical digits in
// [0, b), carrying upward. A leftover carry re-enters negated at digit 0
// (x^N = −1) and the walk repeats. The residue −1 has no canonical form:
// when the walk leaves a bare +1 carry over an all-zero digit stream it
// is encoded as zi[0] = −1.
func unbalance(zi []int64, base int64) {
	var f int64
	for i := range zi {
		f += zi[i]
		r := f % base
		if r < 0 {
			r += base
		}
		zi[i] = r
		f = (f - r) / base
	}

	for f != 0 {
		f = -f // a[n] = -a[0]

		for i := range zi {
			f += zi[i]
			r := f % base
			if r < 0 {
				r += base
			}
			zi[i] = r
			f = (f - r) / base
			if f == 0 {
				break
			}
		}

		if f == 1 {
			isMinusOne := true
			for _, d := range zi {
				if d != 0 {
					isMinusOne = false
					break
				}
			}
			if isMinusOne {
				zi[0] = -1
				break
			}
		}
	}
}

// GetInt decodes register 0 into canonical base-b digits, least
// significant first.
func (e *Engine) GetInt() []int64 {
	zi := e.balancedDigits()
	unbalance(zi, int64(e.b))
	return zi
}

// SetInt loads canonical base-b digits into register 0: the digits are
// balanced, split against √b and re-spectralized.
func (e *Engine) SetInt(digits []int64) error {
	if len(digits) != e.n {
		return fmt.Errorf("transform: digit count %d does not match size %d", len(digits), e.n)
	}

	bal := make([]int64, e.n)
	var carry int64
	b := int64(e.b)
	for i, d := range digits {
		v := d + carry
		carry = 0
		if v > b/2 {
			v -= b
			carry = 1
		}
		bal[i] = v
	}
	// carry·b^N ≡ −carry
	bal[0] -= carry

	z := e.regs[0]
	for i := range z {
		z[i] = 0
	}
	half := e.vw / 2
	for k := 0; k < e.n/2; k += half {
		var vc vcx
		for i := 0; i < half; i++ {
			r1, h1 := splitDigit(bal[k+i], e.sbInv, e.isb, e.fsb)
			r2, h2 := splitDigit(bal[k+i+e.n/2], e.sbInv, e.isb, e.fsb)
			vc.setLane(2*i+0, complex(2*r1, 2*r2))
			vc.setLane(2*i+1, complex(2*h1, 2*h2))
		}
		vc.store(z, e.index(2*k), e.vw)
	}

	for lh := 0; lh < e.nIO/8; lh++ {
		e.forwardOut(z, lh)
	}
	return nil
}

// splitDigit splits a balanced digit d into (r, h) with d = r + h·√b and
// both halves within ±√b/2, using the hi/lo pair of the root.
func splitDigit(d int64, sbInv, isb, fsb float64) (r, h float64) {
	h = math.Round(float64(d) * sbInv)
	r = float64(d) - h*isb - h*fsb
	return r, h
}

// IsOne reports whether register 0 holds the integer one, together with
// the 64-bit fingerprint of the canonical digit stream: the top eight
// digits, each truncated to its low byte, most significant digit in the
// low byte. Digits wider than 8 bits truncate — the composition is a
// fingerprint, not a hash, and is kept bit-for-bit stable. The residue
// one reports fingerprint 1.
func (e *Engine) IsOne() (bool, uint64) {
	zi := e.GetInt()

	one := zi[0] == 1
	if one {
		for _, d := range zi[1:] {
			if d != 0 {
				one = false
				break
			}
		}
	}

	var res uint64
	for i := 8; i != 0; i-- {
		res = res<<8 | uint64(uint8(zi[len(zi)-i]))
	}
	if one {
		res = 1
	}
	return one, res
}
