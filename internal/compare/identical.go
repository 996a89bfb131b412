package compare

import (
	"bytes"
	"errors"
	"io"
	"os"
)

const chunkSize = 1 << 20 // 1 MiB

// FilesIdentical compares two files byte for byte.
func FilesIdentical(a, b string) (bool, error) {
	fa, err := os.Open(a) // #nosec G304
	if err != nil {
		return false, err
	}
	defer func() {
		_ = fa.Close()
	}()
	fb, err := os.Open(b) // #nosec G304
	if err != nil {
		return false, err
	}
	defer func() {
		_ = fb.Close()
	}()

	sa, err := fa.Stat()
	if err != nil {
		return false, err
	}
	sb, err := fb.Stat()
	if err != nil {
		return false, err
	}
	if sa.Size() != sb.Size() {
		return false, nil
	}

	bufA := make([]byte, chunkSize)
	bufB := make([]byte, chunkSize)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		doneA := errors.Is(errA, io.EOF) || errors.Is(errA, io.ErrUnexpectedEOF)
		doneB := errors.Is(errB, io.EOF) || errors.Is(errB, io.ErrUnexpectedEOF)
		if errA != nil && !doneA {
			return false, errA
		}
		if errB != nil && !doneB {
			return false, errB
		}
		if doneA || doneB {
			return doneA && doneB, nil
		}
	}
}
