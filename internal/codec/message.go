// Package codec implements the wire framing for the facility-reservation
// protocol: a fixed 16-byte header followed by an opaque payload, plus the
// length-prefixed string and fixed-width integer primitives used to build
// that payload.
//
// Unlike RFC 4506 XDR, this frame carries no 4-byte alignment padding: the
// payload length in the header is exact and every primitive is packed
// back-to-back. The shape of this package (one function per wire primitive,
// explicit error wrapping on every read) follows the teacher's XDR codec,
// but the wire layout itself is spec-defined and intentionally unpadded.
package codec

import (
	"encoding/binary"
	"fmt"
)

// Semantics tag values carried in the header.
const (
	SemanticsALO uint8 = 0
	SemanticsAMO uint8 = 1
)

// Opcodes, per the wire protocol table.
const (
	OpQuery            uint8 = 1
	OpBook             uint8 = 2
	OpChange           uint8 = 3
	OpMonitorRegister  uint8 = 4
	OpMonitorUpdate    uint8 = 5
	OpCancel           uint8 = 6
	OpExtend           uint8 = 7
	OpQueryBooking     uint8 = 8
)

// OpcodeName returns a human-readable name for logging; unknown opcodes
// render as a decimal number.
func OpcodeName(op uint8) string {
	switch op {
	case OpQuery:
		return "QUERY"
	case OpBook:
		return "BOOK"
	case OpChange:
		return "CHANGE"
	case OpMonitorRegister:
		return "MONITOR_REGISTER"
	case OpMonitorUpdate:
		return "MONITOR_UPDATE"
	case OpCancel:
		return "CANCEL"
	case OpExtend:
		return "EXTEND"
	case OpQueryBooking:
		return "QUERY_BOOKING"
	default:
		return fmt.Sprintf("OP(%d)", op)
	}
}

// FlagError is bit 0 of the header's flags byte.
const FlagError uint8 = 1 << 0

// ProtocolVersion is the only version this codec understands.
const ProtocolVersion uint8 = 1

// HeaderSize is the fixed size, in bytes, of the message header.
const HeaderSize = 16

// MaxDatagramSize bounds the largest frame this codec will produce or
// accept, matching the receive buffer size used on both sides of the wire.
const MaxDatagramSize = 2048

// Message is a decoded request or reply frame.
type Message struct {
	Version   uint8
	Semantics uint8
	Opcode    uint8
	Flags     uint8
	RequestID uint64
	Payload   []byte
}

// IsError reports whether the error flag bit is set.
func (m Message) IsError() bool {
	return m.Flags&FlagError != 0
}

// Reply builds a reply Message that echoes the request's version,
// semantics, opcode and request id, per §4.5: "All replies preserve the
// request's version, semantics, opcode, and request id; only flags and
// payload differ."
func (m Message) Reply(payload []byte, isError bool) Message {
	flags := uint8(0)
	if isError {
		flags = FlagError
	}
	return Message{
		Version:   m.Version,
		Semantics: m.Semantics,
		Opcode:    m.Opcode,
		Flags:     flags,
		RequestID: m.RequestID,
		Payload:   payload,
	}
}

// Encode serializes a Message into its wire frame. The payload length
// field is always exact; callers must pre-measure any string they embed
// so the declared length never falls short of what actually follows.
func Encode(m Message) ([]byte, error) {
	if len(m.Payload) > MaxDatagramSize-HeaderSize {
		return nil, fmt.Errorf("encode: payload of %d bytes exceeds max datagram size", len(m.Payload))
	}

	buf := make([]byte, HeaderSize+len(m.Payload))
	buf[0] = m.Version
	buf[1] = m.Semantics
	buf[2] = m.Opcode
	buf[3] = m.Flags
	binary.BigEndian.PutUint64(buf[4:12], m.RequestID)
	binary.BigEndian.PutUint32(buf[12:16], uint32(len(m.Payload)))
	copy(buf[HeaderSize:], m.Payload)
	return buf, nil
}

// Decode parses a wire frame into a Message, returning a *DecodeError on
// any malformed input per §4.1.
func Decode(data []byte) (Message, error) {
	if len(data) < HeaderSize {
		return Message{}, &DecodeError{Kind: Malformed, Reason: "frame shorter than header"}
	}

	payloadLen := int32(binary.BigEndian.Uint32(data[12:16]))
	if payloadLen < 0 {
		return Message{}, &DecodeError{Kind: Malformed, Reason: "negative payload length"}
	}

	rest := data[HeaderSize:]
	if int(payloadLen) > len(rest) {
		return Message{}, &DecodeError{Kind: Malformed, Reason: "payload length exceeds remaining bytes"}
	}
	if int(payloadLen) != len(rest) {
		return Message{}, &DecodeError{Kind: Malformed, Reason: "payload length does not match remaining bytes"}
	}

	payload := make([]byte, payloadLen)
	copy(payload, rest)

	return Message{
		Version:   data[0],
		Semantics: data[1],
		Opcode:    data[2],
		Flags:     data[3],
		RequestID: binary.BigEndian.Uint64(data[4:12]),
		Payload:   payload,
	}, nil
}
