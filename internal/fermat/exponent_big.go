//go:build !gmp

package fermat

import "math/big"

type bigBits struct {
	v *big.Int
}

// NewExponent computes b^n with math/big. Build with -tags=gmp to use
// the GMP-backed variant instead.
func NewExponent(b uint32, n uint) Bits {
	v := new(big.Int).Exp(big.NewInt(int64(b)), big.NewInt(int64(n)), nil)
	return bigBits{v: v}
}

func (e bigBits) BitLen() int    { return e.v.BitLen() }
func (e bigBits) Bit(i int) uint { return e.v.Bit(i) }
