package codec

import (
	"encoding/binary"
	"unicode/utf8"
)

// ============================================================================
// Length-prefixed string and fixed-width integer primitives.
//
// Every primitive is a pair of functions operating on a cursor into a byte
// slice: Read* advances past what it consumed and returns the value, Write*
// appends to a growing buffer. All integers are big-endian.
// ============================================================================

// WriteString appends a 4-byte big-endian length followed by the UTF-8
// bytes of s. The length is measured in bytes, not code points.
func WriteString(buf []byte, s string) []byte {
	b := []byte(s)
	out := make([]byte, 0, len(buf)+4+len(b))
	out = append(out, buf...)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	out = append(out, lenBuf[:]...)
	out = append(out, b...)
	return out
}

// ReadString decodes a length-prefixed UTF-8 string starting at data[off].
// Returns the string, the offset just past it, and an error if the header
// doesn't fit, the declared length exceeds the remaining bytes, or the
// bytes are not valid UTF-8.
func ReadString(data []byte, off int) (string, int, error) {
	if off+4 > len(data) {
		return "", off, &DecodeError{Kind: Malformed, Reason: "string length header does not fit"}
	}
	n := binary.BigEndian.Uint32(data[off : off+4])
	off += 4
	if int(n) > len(data)-off {
		return "", off, &DecodeError{Kind: Malformed, Reason: "string length exceeds remaining bytes"}
	}
	raw := data[off : off+int(n)]
	if !utf8.Valid(raw) {
		return "", off, &DecodeError{Kind: Malformed, Reason: "string is not valid UTF-8"}
	}
	return string(raw), off + int(n), nil
}

// WriteInt32 appends a big-endian signed 32-bit integer.
func WriteInt32(buf []byte, v int32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return append(buf, b[:]...)
}

// ReadInt32 decodes a big-endian signed 32-bit integer at data[off].
func ReadInt32(data []byte, off int) (int32, int, error) {
	if off+4 > len(data) {
		return 0, off, &DecodeError{Kind: Malformed, Reason: "int32 does not fit"}
	}
	return int32(binary.BigEndian.Uint32(data[off : off+4])), off + 4, nil
}

// WriteInt64 appends a big-endian signed 64-bit integer.
func WriteInt64(buf []byte, v int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return append(buf, b[:]...)
}

// ReadInt64 decodes a big-endian signed 64-bit integer at data[off].
func ReadInt64(data []byte, off int) (int64, int, error) {
	if off+8 > len(data) {
		return 0, off, &DecodeError{Kind: Malformed, Reason: "int64 does not fit"}
	}
	return int64(binary.BigEndian.Uint64(data[off : off+8])), off + 8, nil
}

