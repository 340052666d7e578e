// Package fermat drives the probable-prime test of a generalized Fermat
// number b^N + 1: it walks the bits of the exponent b^N from the most
// significant down, squaring (and conditionally doubling) the residue
// held by the transform engine, and finally reads back the verdict and
// the 64-bit residue fingerprint.
package fermat
