// Package logging provides a unified logging interface for gfncheck.
// It abstracts the underlying zerolog implementation, allowing
// consistent structured logging across components.
package logging
