//go:build gmp

// This file provides a GMP-backed exponent, conditionally compiled with
// the "gmp" build tag. The build tag architecture ensures that:
//   - The project builds without GMP (the default, using math/big)
//   - GMP support is opt-in, requiring: go build -tags=gmp
//   - The codebase stays portable across systems without libgmp
//
// The exponent b^N is computed once and only read bit by bit, so the
// gain is modest; it matters for the largest sizes where b^N runs to
// hundreds of megabits.

package fermat

import "github.com/ncw/gmp"

type gmpBits struct {
	v *gmp.Int
}

// NewExponent computes b^n with GMP.
func NewExponent(b uint32, n uint) Bits {
	v := new(gmp.Int).Exp(gmp.NewInt(int64(b)), gmp.NewInt(int64(n)), nil)
	return gmpBits{v: v}
}

func (e gmpBits) BitLen() int    { return e.v.BitLen() }
func (e gmpBits) Bit(i int) uint { return e.v.Bit(i) }
