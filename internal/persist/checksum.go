package persist

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// ErrChecksumMismatch is returned when a stored blob no longer matches the
// checksum recorded when it was written.
var ErrChecksumMismatch = errors.New("persist: save checksum mismatch")

func checksum(blob []byte) []byte {
	sum := blake2b.Sum256(blob)
	return sum[:]
}

func verify(slot string, blob, sum []byte) error {
	if !bytes.Equal(checksum(blob), sum) {
		return fmt.Errorf("%w: slot %s", ErrChecksumMismatch, slot)
	}
	return nil
}
