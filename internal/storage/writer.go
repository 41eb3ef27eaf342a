package storage

import (
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/l1jgo/shapesim/internal/geom"
)

// Writer builds a save blob. All multi-byte writes are little-endian; floats
// are IEEE-754 single precision.
type Writer struct {
	buf []byte
}

// NewWriter starts a blob whose first field is the negated schema version.
func NewWriter(version int32) *Writer {
	w := &Writer{buf: make([]byte, 0, 4096)}
	w.WriteInt(-version)
	return w
}

func (w *Writer) WriteInt(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

func (w *Writer) WriteFloat(v float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}

func (w *Writer) WriteColor(c geom.Color) {
	w.WriteFloat(c.R)
	w.WriteFloat(c.G)
	w.WriteFloat(c.B)
	w.WriteFloat(c.A)
}

func (w *Writer) WriteQuat(q geom.Quat) {
	w.WriteFloat(q.X)
	w.WriteFloat(q.Y)
	w.WriteFloat(q.Z)
	w.WriteFloat(q.W)
}

func (w *Writer) WriteVec3(v geom.Vec3) {
	w.WriteFloat(v.X)
	w.WriteFloat(v.Y)
	w.WriteFloat(v.Z)
}

// WriteString writes a 7-bit varint byte length followed by the UTF-8 bytes.
func (w *Writer) WriteString(s string) {
	w.buf = binary.AppendUvarint(w.buf, uint64(len(s)))
	w.buf = append(w.buf, s...)
}

// WriteRandomState stores the generator state as a JSON string field.
func (w *Writer) WriteRandomState(state RandomState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	w.WriteString(string(raw))
	return nil
}

// Bytes returns the blob written so far.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the current blob length.
func (w *Writer) Len() int {
	return len(w.buf)
}
