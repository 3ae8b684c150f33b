// Package e2e drives the full request/reply stack over a real loopback
// UDP socket: transport, codec, router, facility, monitor and semantics
// wired together the way cmd/resvserver's serve loop wires them.
package e2e

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvindgk/facilityresv/internal/clientreq"
	"github.com/arvindgk/facilityresv/internal/codec"
	"github.com/arvindgk/facilityresv/internal/facility"
	"github.com/arvindgk/facilityresv/internal/monitor"
	"github.com/arvindgk/facilityresv/internal/router"
	"github.com/arvindgk/facilityresv/internal/semantics"
	"github.com/arvindgk/facilityresv/internal/transport"
)

// runServer starts a minimal ALO serve loop against store/registry and
// stops when stop is closed.
func runServer(t *testing.T, conn *transport.Conn, env *router.Environment, stop <-chan struct{}) {
	t.Helper()
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			result, err := conn.Receive()
			if err != nil {
				return
			}
			res := router.Handle(env, result.Peer, result.Msg)
			for _, u := range res.Updates {
				_, _ = conn.SendTo(u.Peer, u.Msg)
			}
			_, _ = conn.SendTo(result.Peer, res.Reply)
		}
	}()
}

func newEnv(names ...string) *router.Environment {
	return &router.Environment{
		Store:      facility.NewStore(names),
		Registry:   monitor.NewRegistry(),
		Now:        time.Now,
		FreshReqID: semantics.FreshRequestID,
	}
}

func TestBookThenQueryBookingRoundTrip(t *testing.T) {
	server, err := transport.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()

	env := newEnv("RoomA")
	stop := make(chan struct{})
	defer close(stop)
	runServer(t, server, env, stop)

	client, err := transport.Dial(server.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()

	bookMsg := codec.Message{
		Version:   codec.ProtocolVersion,
		Semantics: codec.SemanticsALO,
		Opcode:    codec.OpBook,
		RequestID: semantics.FreshRequestID(),
		Payload:   clientreq.Book("RoomA", 0, 480, 540),
	}
	reply, err := semantics.Invoke(client, bookMsg)
	require.NoError(t, err)
	require.False(t, reply.IsError())

	text, _, err := codec.ReadString(reply.Payload, 0)
	require.NoError(t, err)
	var id int64
	_, err = fmt.Sscanf(text, "CONFIRM# %d", &id)
	require.NoError(t, err)

	qbMsg := codec.Message{
		Version:   codec.ProtocolVersion,
		Semantics: codec.SemanticsALO,
		Opcode:    codec.OpQueryBooking,
		RequestID: semantics.FreshRequestID(),
		Payload:   clientreq.QueryBooking(id),
	}
	qbReply, err := semantics.Invoke(client, qbMsg)
	require.NoError(t, err)
	require.False(t, qbReply.IsError())

	details, _, err := codec.ReadString(qbReply.Payload, 0)
	require.NoError(t, err)
	assert.Contains(t, details, "RoomA")
	assert.Contains(t, details, "08:00 - 09:00")
}

func TestMonitorRegisterReceivesFanOutOnBook(t *testing.T) {
	server, err := transport.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()

	env := newEnv("RoomA")
	stop := make(chan struct{})
	defer close(stop)
	runServer(t, server, env, stop)

	monitorClient, err := transport.Dial(server.LocalAddr().String())
	require.NoError(t, err)
	defer monitorClient.Close()

	registerMsg := codec.Message{
		Version:   codec.ProtocolVersion,
		Semantics: codec.SemanticsALO,
		Opcode:    codec.OpMonitorRegister,
		RequestID: semantics.FreshRequestID(),
		Payload:   clientreq.MonitorRegister("RoomA", 5),
	}
	regReply, err := semantics.Invoke(monitorClient, registerMsg)
	require.NoError(t, err)
	require.False(t, regReply.IsError())

	bookClient, err := transport.Dial(server.LocalAddr().String())
	require.NoError(t, err)
	defer bookClient.Close()

	bookMsg := codec.Message{
		Version:   codec.ProtocolVersion,
		Semantics: codec.SemanticsALO,
		Opcode:    codec.OpBook,
		RequestID: semantics.FreshRequestID(),
		Payload:   clientreq.Book("RoomA", 1, 600, 660),
	}
	bookReply, err := semantics.Invoke(bookClient, bookMsg)
	require.NoError(t, err)
	require.False(t, bookReply.IsError())

	var gotUpdate bool
	err = semantics.AwaitMonitorUpdates(monitorClient, time.Now().Add(500*time.Millisecond), func(update codec.Message) {
		gotUpdate = true
	})
	require.NoError(t, err)
	assert.True(t, gotUpdate, "expected a MONITOR_UPDATE fanned out after the BOOK")
}

func TestCancelUnknownBookingIsSuccessOverTheWire(t *testing.T) {
	server, err := transport.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()

	env := newEnv("RoomA")
	stop := make(chan struct{})
	defer close(stop)
	runServer(t, server, env, stop)

	client, err := transport.Dial(server.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()

	cancelMsg := codec.Message{
		Version:   codec.ProtocolVersion,
		Semantics: codec.SemanticsALO,
		Opcode:    codec.OpCancel,
		RequestID: semantics.FreshRequestID(),
		Payload:   clientreq.Cancel(999),
	}
	reply, err := semantics.Invoke(client, cancelMsg)
	require.NoError(t, err)
	assert.False(t, reply.IsError())

	text, _, err := codec.ReadString(reply.Payload, 0)
	require.NoError(t, err)
	assert.Equal(t, "ALREADY_CANCELED_OR_NOT_FOUND", text)
}
