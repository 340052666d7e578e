//go:build !amd64

package transform

// defaultWidth falls back to the two-lane shape on targets without a
// wide-vector dispatch table.
func defaultWidth() int { return 2 }
