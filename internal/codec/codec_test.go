package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := WriteString(nil, "RoomA")
	payload = WriteInt32(payload, 0)
	payload = WriteInt32(payload, 540)
	payload = WriteInt32(payload, 630)

	msg := Message{
		Version:   ProtocolVersion,
		Semantics: SemanticsAMO,
		Opcode:    OpBook,
		Flags:     0,
		RequestID: 1234567890,
		Payload:   payload,
	}

	wire, err := Encode(msg)
	require.NoError(t, err)
	assert.Equal(t, HeaderSize+len(payload), len(wire))

	decoded, err := Decode(wire)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestDecodeRejectsShortHeader(t *testing.T) {
	_, err := Decode(make([]byte, 4))
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestDecodeRejectsNegativePayloadLength(t *testing.T) {
	wire := make([]byte, HeaderSize)
	wire[12] = 0xFF // sign bit set -> negative when read as int32
	_, err := Decode(wire)
	require.Error(t, err)
}

func TestDecodeRejectsPayloadLengthMismatch(t *testing.T) {
	wire, err := Encode(Message{Version: 1, Opcode: OpCancel, Payload: []byte("abc")})
	require.NoError(t, err)

	// Truncate so the declared length no longer matches what's left.
	truncated := wire[:len(wire)-1]
	_, err = Decode(truncated)
	require.Error(t, err)
}

func TestReplyPreservesRequestFields(t *testing.T) {
	req := Message{
		Version:   ProtocolVersion,
		Semantics: SemanticsALO,
		Opcode:    OpQuery,
		RequestID: 42,
		Payload:   []byte("req"),
	}
	reply := req.Reply([]byte("resp"), true)

	assert.Equal(t, req.Version, reply.Version)
	assert.Equal(t, req.Semantics, reply.Semantics)
	assert.Equal(t, req.Opcode, reply.Opcode)
	assert.Equal(t, req.RequestID, reply.RequestID)
	assert.True(t, reply.IsError())
	assert.Equal(t, []byte("resp"), reply.Payload)
}

func TestStringRoundTrip(t *testing.T) {
	buf := WriteString(nil, "café") // multi-byte UTF-8
	s, off, err := ReadString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "café", s)
	assert.Equal(t, len(buf), off)
}

func TestReadStringRejectsInvalidUTF8(t *testing.T) {
	buf := WriteString(nil, "x")
	buf[len(buf)-1] = 0xFF // corrupt the single payload byte
	_, _, err := ReadString(buf, 0)
	require.Error(t, err)
}

func TestReadStringRejectsTruncatedLength(t *testing.T) {
	_, _, err := ReadString([]byte{0, 0}, 0)
	require.Error(t, err)
}

func TestInt32RoundTrip(t *testing.T) {
	buf := WriteInt32(nil, -12345)
	v, off, err := ReadInt32(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(-12345), v)
	assert.Equal(t, 4, off)
}

func TestInt64RoundTrip(t *testing.T) {
	buf := WriteInt64(nil, 9223372036854775807)
	v, off, err := ReadInt64(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), v)
	assert.Equal(t, 8, off)
}

func TestEncodeRejectsOversizedPayload(t *testing.T) {
	_, err := Encode(Message{Payload: make([]byte, MaxDatagramSize)})
	require.Error(t, err)
}
