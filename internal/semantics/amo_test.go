package semantics

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvindgk/facilityresv/internal/clientreq"
	"github.com/arvindgk/facilityresv/internal/codec"
	"github.com/arvindgk/facilityresv/internal/facility"
	"github.com/arvindgk/facilityresv/internal/monitor"
	"github.com/arvindgk/facilityresv/internal/router"
)

func newTestEnv(names ...string) *router.Environment {
	return &router.Environment{
		Store:      facility.NewStore(names),
		Registry:   monitor.NewRegistry(),
		Now:        time.Now,
		FreshReqID: FreshRequestID,
	}
}

// TestDispatchAMOReplaysIdenticalReplyWithoutRemutating drives the same
// BOOK request through DispatchAMO twice with an identical request id,
// the literal scenario invariant C1 and Property P3 describe: a
// retransmission must produce a byte-identical reply and must not book
// the slot a second time.
func TestDispatchAMOReplaysIdenticalReplyWithoutRemutating(t *testing.T) {
	cache := NewReplyCache()
	env := newTestEnv("RoomA")
	peer := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 40000}
	const peerKey = "127.0.0.1:40000"

	req := codec.Message{
		Version:   codec.ProtocolVersion,
		Semantics: codec.SemanticsAMO,
		Opcode:    codec.OpBook,
		RequestID: 12345,
		Payload:   clientreq.Book("RoomA", 0, 480, 540),
	}

	reply1, updates1, hit1, err := DispatchAMO(cache, env, peer, peerKey, req)
	require.NoError(t, err)
	assert.False(t, hit1)
	require.False(t, reply1.IsError())
	assert.Equal(t, 1, env.Store.BookingCount())

	wire1, err := codec.Encode(reply1)
	require.NoError(t, err)

	reply2, updates2, hit2, err := DispatchAMO(cache, env, peer, peerKey, req)
	require.NoError(t, err)
	assert.True(t, hit2, "retransmission of the same request id must be served from the cache")
	assert.Nil(t, updates2, "a cache hit must not re-run the mutation that produces monitor updates")
	assert.Equal(t, 1, env.Store.BookingCount(), "a replayed request must not book the slot again")

	wire2, err := codec.Encode(reply2)
	require.NoError(t, err)
	assert.Equal(t, wire1, wire2, "a replayed reply must be byte-identical to the original")

	_ = updates1
}

// TestDispatchAMODistinctRequestIDsBothExecute confirms the cache keys on
// (peer, request id), not just peer: a second, different request from the
// same peer still reaches the handler and mutates the store.
func TestDispatchAMODistinctRequestIDsBothExecute(t *testing.T) {
	cache := NewReplyCache()
	env := newTestEnv("RoomA")
	peer := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 40001}
	const peerKey = "127.0.0.1:40001"

	first := codec.Message{
		Version:   codec.ProtocolVersion,
		Semantics: codec.SemanticsAMO,
		Opcode:    codec.OpBook,
		RequestID: 1,
		Payload:   clientreq.Book("RoomA", 0, 480, 540),
	}
	second := codec.Message{
		Version:   codec.ProtocolVersion,
		Semantics: codec.SemanticsAMO,
		Opcode:    codec.OpBook,
		RequestID: 2,
		Payload:   clientreq.Book("RoomA", 1, 480, 540),
	}

	_, _, hit1, err := DispatchAMO(cache, env, peer, peerKey, first)
	require.NoError(t, err)
	assert.False(t, hit1)

	_, _, hit2, err := DispatchAMO(cache, env, peer, peerKey, second)
	require.NoError(t, err)
	assert.False(t, hit2)
	assert.Equal(t, 2, env.Store.BookingCount())
}
