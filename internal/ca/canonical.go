package ca

import (
	"encoding/binary"
)

// Encodable is implemented by every content-addressable record. Canonical
// returns the record's canonical byte encoding: fixed field order,
// fixed-width integers, length-prefixed variable-width fields, no padding.
// Two structurally equal values MUST produce byte-identical encodings.
type Encodable interface {
	Canonical() ([]byte, error)
}

// Encoder accumulates a canonical byte encoding field by field, in the
// exact order the caller writes them. It never reorders or pads.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 64)}
}

// Uint8 appends a single byte field (used for tags/version markers).
func (e *Encoder) Uint8(v uint8) *Encoder {
	e.buf = append(e.buf, v)
	return e
}

// Uint32 appends a fixed-width big-endian uint32 field.
func (e *Encoder) Uint32(v uint32) *Encoder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
	return e
}

// Uint64 appends a fixed-width big-endian uint64 field.
func (e *Encoder) Uint64(v uint64) *Encoder {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
	return e
}

// Int32 appends a fixed-width big-endian int32 field (two's complement).
func (e *Encoder) Int32(v int32) *Encoder {
	return e.Uint32(uint32(v))
}

// Int64 appends a fixed-width big-endian int64 field (two's complement).
func (e *Encoder) Int64(v int64) *Encoder {
	return e.Uint64(uint64(v))
}

// Bool appends a single-byte boolean field (0x00 / 0x01).
func (e *Encoder) Bool(v bool) *Encoder {
	if v {
		return e.Uint8(1)
	}
	return e.Uint8(0)
}

// Bytes appends a length-prefixed (uint32 big-endian length) byte field.
// Length-prefixing, rather than a sentinel terminator, is what makes the
// encoding unambiguous regardless of the field's contents.
func (e *Encoder) Bytes(b []byte) *Encoder {
	e.Uint32(uint32(len(b)))
	e.buf = append(e.buf, b...)
	return e
}

// String appends a length-prefixed UTF-8 string field.
func (e *Encoder) String(s string) *Encoder {
	return e.Bytes([]byte(s))
}

// ID appends a nested EntityId as a fixed 32-byte field.
func (e *Encoder) ID(id EntityId) *Encoder {
	e.buf = append(e.buf, id[:]...)
	return e
}

// Finish returns the accumulated canonical encoding.
func (e *Encoder) Finish() []byte {
	return e.buf
}

// EncodeContent hashes an Encodable's canonical encoding into an EntityId
// using the given Hasher, prefixing the encoding with CurrentVersion as
// required by spec.md §4.1's stability rule.
func EncodeContent(h Hasher, content Encodable) (EntityId, error) {
	body, err := content.Canonical()
	if err != nil {
		return Zero, err
	}
	return h.Hash(CurrentVersion, body), nil
}

// FromContent computes the EntityId of an Encodable using the default
// Hasher. This is spec.md §4.1's `from_content(x) -> EntityId` operation.
func FromContent(content Encodable) (EntityId, error) {
	return EncodeContent(Default(), content)
}
