package transform

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Checkpoint layout: an int32 kind tag (the lane width), the running
// maximum error, then the raw float64 samples of every register. The
// bytes are the host's native representation; there is no portability
// guarantee across byte orders or lane widths.

// Save writes the engine state to w.
func (e *Engine) Save(w io.Writer) error {
	if err := binary.Write(w, binary.NativeEndian, int32(e.vw)); err != nil {
		return fmt.Errorf("transform: save kind: %w", err)
	}
	if err := binary.Write(w, binary.NativeEndian, e.maxErr); err != nil {
		return fmt.Errorf("transform: save error: %w", err)
	}
	for i, reg := range e.regs {
		if err := binary.Write(w, binary.NativeEndian, reg); err != nil {
			return fmt.Errorf("transform: save register %d: %w", i, err)
		}
	}
	return nil
}

// Restore reads engine state previously produced by Save on an engine
// of the same (b, N, width, registers) shape.
func (e *Engine) Restore(r io.Reader) error {
	var kind int32
	if err := binary.Read(r, binary.NativeEndian, &kind); err != nil {
		return fmt.Errorf("transform: restore kind: %w", err)
	}
	if int(kind) != e.vw {
		return fmt.Errorf("transform: checkpoint kind %d does not match engine width %d", kind, e.vw)
	}
	if err := binary.Read(r, binary.NativeEndian, &e.maxErr); err != nil {
		return fmt.Errorf("transform: restore error: %w", err)
	}
	for i, reg := range e.regs {
		if err := binary.Read(r, binary.NativeEndian, reg); err != nil {
			return fmt.Errorf("transform: restore register %d: %w", i, err)
		}
	}
	return nil
}
