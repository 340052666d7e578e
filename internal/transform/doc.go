// Package transform implements the squaring transform for residues modulo
// b^N + 1: a cache-blocked, multi-threaded, split-radix complex FFT with a
// weighted (negacyclic) representation, an in-place pointwise squaring
// stage, and split-base carry propagation that stores every digit as
// r + h·√b with |r|, |h| ≤ √b/2.
//
// The spectral buffer is resident: between squarings it holds the forward
// outer-FFT image of the weighted residue, so no re-weighting is ever
// needed. One squaring is three passes separated by barriers — pass1
// (inner FFT, pointwise square, inner inverse FFT per block), pass2
// (outer inverse FFT and rounding carry per half-block), and the carry
// stitch that walks each thread's residual carry into its successor's
// first half-block before re-spectralizing it.
package transform
