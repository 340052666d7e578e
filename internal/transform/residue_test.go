package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestUnbalanceCanonical checks plain balanced-to-canonical conversion.
func TestUnbalanceCanonical(t *testing.T) {
	const b = 100
	zi := []int64{-3, 50, -49, 0}
	// value: -3 + 50·100 - 49·100² = -485003... canonical digits of the
	// value mod 100⁴+1.
	unbalance(zi, b)
	for i, d := range zi {
		require.GreaterOrEqual(t, d, int64(0), "digit %d", i)
		require.Less(t, d, int64(b), "digit %d", i)
	}
	// reconstruct: digits must equal -485003 + (100⁴+1)
	var v int64
	for i := len(zi) - 1; i >= 0; i-- {
		v = v*b + zi[i]
	}
	require.Equal(t, int64(-485003+100000001), v)
}

// TestUnbalanceCarryWrap: a carry out of the top digit re-enters negated
// (x^N = -1).
func TestUnbalanceCarryWrap(t *testing.T) {
	const b = 10
	// value b⁴ ≡ -1 (mod b⁴+1), presented as a single carry out of the top.
	zi := []int64{0, 0, 0, 10}
	unbalance(zi, b)
	// -1 ≡ b⁴ mod b⁴+1... the walk cannot canonicalize -1 and encodes it
	// as zi[0] = -1.
	require.Equal(t, []int64{-1, 0, 0, 0}, zi)
}

// TestUnbalanceMinusOne: the balanced representation of -1 takes the
// special encoding.
func TestUnbalanceMinusOne(t *testing.T) {
	const b = 399998300
	zi := make([]int64, 16)
	zi[0] = -1
	unbalance(zi, b)
	want := make([]int64, 16)
	want[0] = -1
	require.Empty(t, cmp.Diff(want, zi))
}

// TestUnbalanceZero: zero stays zero.
func TestUnbalanceZero(t *testing.T) {
	zi := make([]int64, 8)
	unbalance(zi, 1000)
	require.Empty(t, cmp.Diff(make([]int64, 8), zi))
}

// TestFingerprintComposition pins the byte layout: top eight canonical
// digits, each truncated to its low byte, most significant digit in the
// low byte.
func TestFingerprintComposition(t *testing.T) {
	e, err := New(testBase, 1<<10, Options{})
	require.NoError(t, err)

	digits := make([]int64, 1<<10)
	digits[0] = 5
	top := len(digits) - 8
	for i := 0; i < 8; i++ {
		digits[top+i] = int64(0x1101 + i) // low byte 0x01 + i, bits above 8 truncate
	}
	require.NoError(t, e.SetInt(digits))

	one, res := e.IsOne()
	require.False(t, one)
	require.Equal(t, uint64(0x0102030405060708), res)
}

// TestFingerprintOfOne: the residue one reports fingerprint one even
// though its top digits are all zero.
func TestFingerprintOfOne(t *testing.T) {
	e, err := New(testBase, 1<<10, Options{})
	require.NoError(t, err)
	one, res := e.IsOne()
	require.True(t, one)
	require.Equal(t, uint64(1), res)
}

// FuzzUnbalance feeds arbitrary balanced digit streams through
// unbalance and checks the canonical-range invariant.
func FuzzUnbalance(f *testing.F) {
	f.Add(int64(0), int64(1), int64(-1), int64(50))
	f.Add(int64(99), int64(-99), int64(99), int64(-99))
	f.Fuzz(func(t *testing.T, a, b, c, d int64) {
		const base = 100
		clamp := func(v int64) int64 { return v % (base/2 + 1) }
		zi := []int64{clamp(a), clamp(b), clamp(c), clamp(d)}
		unbalance(zi, base)
		if zi[0] == -1 {
			// the -1 encoding: every other digit must be zero
			for _, v := range zi[1:] {
				if v != 0 {
					t.Fatalf("-1 encoding with nonzero tail: %v", zi)
				}
			}
			return
		}
		for i, v := range zi {
			if v < 0 || v >= base {
				t.Fatalf("digit %d out of range: %v", i, zi)
			}
		}
	})
}
