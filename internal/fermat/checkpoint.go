package fermat

import (
	"encoding/binary"
	"fmt"
	"os"

	apperrors "github.com/agbru/gfncheck/internal/errors"
	"github.com/agbru/gfncheck/internal/transform"
)

// checkpointMagic identifies a gfncheck checkpoint file.
const checkpointMagic = uint32(0x4746_4331) // "GFC1"

// checkpointHeader precedes the raw engine state: enough to refuse a
// file written for a different target, plus the resume position.
type checkpointHeader struct {
	Magic     uint32
	Base      uint32
	Size      uint32
	_         uint32 // alignment pad
	Iteration uint64
}

// saveCheckpoint writes the header and the engine state atomically: a
// temp file in the same directory, renamed over the target.
func saveCheckpoint(path string, eng *transform.Engine, iteration uint64) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return apperrors.CheckpointError{Path: path, Cause: err}
	}

	hdr := checkpointHeader{
		Magic:     checkpointMagic,
		Base:      eng.Base(),
		Size:      uint32(eng.Size()),
		Iteration: iteration,
	}
	if err := binary.Write(f, binary.NativeEndian, hdr); err == nil {
		err = eng.Save(f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return apperrors.CheckpointError{Path: path, Cause: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return apperrors.CheckpointError{Path: path, Cause: err}
	}
	return nil
}

// loadCheckpoint restores the engine from path and returns the iteration
// to resume from. A missing file is not an error; it returns ok=false.
func loadCheckpoint(path string, eng *transform.Engine) (iteration uint64, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, apperrors.CheckpointError{Path: path, Cause: err}
	}
	defer f.Close()

	var hdr checkpointHeader
	if err := binary.Read(f, binary.NativeEndian, &hdr); err != nil {
		return 0, false, apperrors.CheckpointError{Path: path, Cause: err}
	}
	if hdr.Magic != checkpointMagic {
		return 0, false, apperrors.CheckpointError{Path: path, Cause: fmt.Errorf("bad magic %08x", hdr.Magic)}
	}
	if hdr.Base != eng.Base() || int(hdr.Size) != eng.Size() {
		return 0, false, apperrors.CheckpointError{
			Path:  path,
			Cause: fmt.Errorf("checkpoint is for %d^%d+1, engine is %d^%d+1", hdr.Base, hdr.Size, eng.Base(), eng.Size()),
		}
	}
	if err := eng.Restore(f); err != nil {
		return 0, false, apperrors.CheckpointError{Path: path, Cause: err}
	}
	return hdr.Iteration, true, nil
}
