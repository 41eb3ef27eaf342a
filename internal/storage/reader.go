package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/l1jgo/shapesim/internal/geom"
)

// ErrShortBuffer is recorded when a read runs past the end of the blob.
var ErrShortBuffer = errors.New("storage: unexpected end of save data")

// Reader decodes a save blob. The schema version is recovered from the
// leading sentinel and threaded through every read. The first failed read is
// sticky: later reads return zero values and Err reports the failure.
type Reader struct {
	data    []byte
	off     int
	version int32
	err     error
}

// NewReader consumes the sentinel and returns a reader for the rest.
func NewReader(data []byte) *Reader {
	r := &Reader{data: data}
	r.version = -r.ReadInt()
	return r
}

// Version returns the schema version. Legacy blobs started with a positive
// entity count, so their version is zero or negative.
func (r *Reader) Version() int32 {
	return r.version
}

func (r *Reader) Err() error {
	return r.err
}

// Fail records err unless an earlier error is already recorded.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.data)-r.off {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, r.off, len(r.data)-r.off)
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) ReadInt() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *Reader) ReadFloat() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *Reader) ReadColor() geom.Color {
	return geom.Color{R: r.ReadFloat(), G: r.ReadFloat(), B: r.ReadFloat(), A: r.ReadFloat()}
}

func (r *Reader) ReadQuat() geom.Quat {
	return geom.Quat{X: r.ReadFloat(), Y: r.ReadFloat(), Z: r.ReadFloat(), W: r.ReadFloat()}
}

func (r *Reader) ReadVec3() geom.Vec3 {
	return geom.Vec3{X: r.ReadFloat(), Y: r.ReadFloat(), Z: r.ReadFloat()}
}

// ReadString reads a 7-bit varint length prefixed UTF-8 string. Invalid
// sequences are replaced instead of failing the read.
func (r *Reader) ReadString() string {
	if r.err != nil {
		return ""
	}
	n, size := binary.Uvarint(r.data[r.off:])
	if size <= 0 {
		r.err = fmt.Errorf("%w: bad string length at offset %d", ErrShortBuffer, r.off)
		r.off = len(r.data)
		return ""
	}
	r.off += size
	if n > uint64(len(r.data)-r.off) {
		r.err = fmt.Errorf("%w: string of %d bytes at offset %d, have %d", ErrShortBuffer, n, r.off, len(r.data)-r.off)
		r.off = len(r.data)
		return ""
	}
	raw := r.take(int(n))
	if raw == nil {
		return ""
	}
	return decodeUTF8(raw)
}

// decodeUTF8 passes valid UTF-8 through and repairs anything else.
func decodeUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw) // fallback to raw bytes
	}
	return string(decoded)
}

// ReadRandomState reads a generator state written by WriteRandomState.
func (r *Reader) ReadRandomState() RandomState {
	var state RandomState
	raw := r.ReadString()
	if r.err != nil {
		return state
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		r.Fail(fmt.Errorf("decode random state: %w", err))
	}
	return state
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}
