package codec

import (
	"bytes"
	"testing"
)

func TestRoundTripPrimitives(t *testing.T) {
	w := NewWriter()
	w.WriteUint8(7)
	w.WriteUint64(1<<63 + 42)
	w.WriteInt64(-1234)
	w.WriteRaw([]byte{1, 2, 3, 4})
	w.WriteBytes([]byte("hello world"))
	w.WriteBytes(nil)

	r := NewReader(w.Bytes())
	tag, err := r.ReadUint8()
	if err != nil || tag != 7 {
		t.Fatalf("tag = %v, %v", tag, err)
	}
	u, err := r.ReadUint64()
	if err != nil || u != 1<<63+42 {
		t.Fatalf("uint64 = %v, %v", u, err)
	}
	i, err := r.ReadInt64()
	if err != nil || i != -1234 {
		t.Fatalf("int64 = %v, %v", i, err)
	}
	raw, err := r.ReadRaw(4)
	if err != nil || !bytes.Equal(raw, []byte{1, 2, 3, 4}) {
		t.Fatalf("raw = %v, %v", raw, err)
	}
	blob, err := r.ReadBytes()
	if err != nil || string(blob) != "hello world" {
		t.Fatalf("blob = %q, %v", blob, err)
	}
	empty, err := r.ReadBytes()
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty = %v, %v", empty, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", r.Remaining())
	}
}

func TestTruncatedInput(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.ReadUint64(); err != ErrTruncated {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
}

func TestReadBytesTruncatedAfterLengthPrefix(t *testing.T) {
	w := NewWriter()
	w.WriteRaw([]byte{0, 0, 0, 99}) // length prefix claiming 99 bytes follow, but none do
	r := NewReader(w.Bytes())
	if _, err := r.ReadBytes(); err != ErrTruncated {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
}

func TestDeterministicEncoding(t *testing.T) {
	w1 := NewWriter()
	w1.WriteUint64(99)
	w1.WriteBytes([]byte("abc"))
	w2 := NewWriter()
	w2.WriteUint64(99)
	w2.WriteBytes([]byte("abc"))
	if !bytes.Equal(w1.Bytes(), w2.Bytes()) {
		t.Fatalf("encoding not deterministic")
	}
}
