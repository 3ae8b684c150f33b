package codec

import "fmt"

// DecodeErrorKind enumerates the ways a frame or primitive can be malformed.
type DecodeErrorKind int

const (
	// Malformed covers every decode failure described in §4.1: a header
	// or string that doesn't fit, a negative or mismatched payload
	// length, or invalid UTF-8.
	Malformed DecodeErrorKind = iota
)

// DecodeError is returned by Decode, ReadString, ReadInt32 and ReadInt64
// whenever the input bytes don't form a valid frame or primitive. At the
// server, a DecodeError is discarded and logged; at the client, the
// offending datagram is ignored and the retry wait continues (§7a).
type DecodeError struct {
	Kind   DecodeErrorKind
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %s", e.Reason)
}
