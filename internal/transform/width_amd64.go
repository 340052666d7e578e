//go:build amd64

package transform

import "golang.org/x/sys/cpu"

// defaultWidth mirrors the CPU dispatch of the native transforms: eight
// lanes on AVX-512F, four on AVX, two on the SSE2 baseline.
func defaultWidth() int {
	switch {
	case cpu.X86.HasAVX512F:
		return 8
	case cpu.X86.HasAVX:
		return 4
	default:
		return 2
	}
}
