// Package codec implements the self-describing binary serialization used
// for every on-wire and on-disk entity in likelib. Every encode/decode pair
// obeys decode(encode(x)) == x, and encode(x) is byte-deterministic so that
// hashing an entity's canonical byte image is reproducible across
// platforms. Variable-length fields are length-prefixed with a fixed-width
// uint32; enumerations are encoded as a single-byte tag.
package codec

import "encoding/binary"

// maxBlobLength bounds a single length-prefixed field, guarding against a
// corrupt or adversarial length prefix causing an oversized allocation
// before the truncation check below even runs.
const maxBlobLength = 64 << 20 // 64 MiB

// Writer accumulates a canonical byte image.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated byte image.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteUint8 appends a single byte, used for enumeration tags.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint64 appends a fixed-width 8-byte big-endian unsigned integer.
func (w *Writer) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteInt64 appends a fixed-width 8-byte big-endian signed integer.
func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

// WriteRaw appends b verbatim, with no length prefix. Use only for
// fixed-width fields (addresses, hashes) whose length is implied by the
// schema.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteBytes appends a length-prefixed variable-length field: a 4-byte
// big-endian length followed by the bytes themselves.
func (w *Writer) WriteBytes(b []byte) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(b)))
	w.buf = append(w.buf, tmp[:]...)
	w.buf = append(w.buf, b...)
}

// Reader consumes a canonical byte image produced by Writer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps b for sequential decoding.
func NewReader(b []byte) *Reader { return &Reader{buf: b} }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// ReadUint8 reads a single byte (an enumeration tag).
func (r *Reader) ReadUint8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, ErrTruncated
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// ReadUint64 reads a fixed-width 8-byte big-endian unsigned integer.
func (r *Reader) ReadUint64() (uint64, error) {
	if r.Remaining() < 8 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

// ReadInt64 reads a fixed-width 8-byte big-endian signed integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadRaw reads exactly n bytes verbatim (a fixed-width field).
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrInvalidValue
	}
	if r.Remaining() < n {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadBytes reads a length-prefixed variable-length field.
func (r *Reader) ReadBytes() ([]byte, error) {
	if r.Remaining() < 4 {
		return nil, ErrTruncated
	}
	n := binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4])
	if n > maxBlobLength {
		return nil, ErrOverflow
	}
	r.pos += 4
	return r.ReadRaw(int(n))
}
