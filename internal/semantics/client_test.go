package semantics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvindgk/facilityresv/internal/codec"
	"github.com/arvindgk/facilityresv/internal/transport"
)

func TestInvokeReturnsMatchingReply(t *testing.T) {
	server, err := transport.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()

	client, err := transport.Dial(server.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()

	go func() {
		result, err := server.Receive()
		if err != nil {
			return
		}
		reply := result.Msg.Reply(codec.WriteString(nil, "ok"), false)
		_, _ = server.SendTo(result.Peer, reply)
	}()

	req := codec.Message{Version: 1, Opcode: codec.OpQuery, RequestID: FreshRequestID()}
	reply, err := Invoke(client, req)
	require.NoError(t, err)
	text, _, _ := codec.ReadString(reply.Payload, 0)
	assert.Equal(t, "ok", text)
}

func TestAwaitMatchTimesOutWithoutReply(t *testing.T) {
	// A socket nobody answers: awaitMatch, the per-attempt wait inside
	// Invoke, must return an error once its timeout elapses rather than
	// block forever. Invoke's full retry budget (9 attempts of 1s each) is
	// not exercised here, to keep the suite fast.
	server, err := transport.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()

	client, err := transport.Dial(server.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()

	req := codec.Message{Version: 1, Opcode: codec.OpQuery, RequestID: FreshRequestID()}

	start := time.Now()
	_, err = awaitMatch(client, req.RequestID, 50*time.Millisecond)
	elapsed := time.Since(start)
	assert.Error(t, err)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestAwaitMonitorUpdatesCollectsUntilDeadline(t *testing.T) {
	server, err := transport.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()

	client, err := transport.Dial(server.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()

	// The client must send something first so the server learns its
	// ephemeral port; real monitor updates arrive only after registration.
	peerReady := make(chan struct{})
	go func() {
		result, err := server.Receive()
		if err != nil {
			return
		}
		close(peerReady)
		for i := 0; i < 2; i++ {
			update := codec.Message{
				Version: 1,
				Opcode:  codec.OpMonitorUpdate,
				Payload: codec.WriteString(codec.WriteString(nil, "RoomA"), "status"),
			}
			_, _ = server.SendTo(result.Peer, update)
			time.Sleep(10 * time.Millisecond)
		}
	}()

	_, err = client.Send(codec.Message{Version: 1, Opcode: codec.OpMonitorRegister, RequestID: FreshRequestID()})
	require.NoError(t, err)
	<-peerReady

	var received int
	err = AwaitMonitorUpdates(client, time.Now().Add(150*time.Millisecond), func(update codec.Message) {
		received++
	})
	require.NoError(t, err)
	assert.Equal(t, 2, received)
}

func TestFreshRequestIDsAreDistinct(t *testing.T) {
	a := FreshRequestID()
	time.Sleep(time.Microsecond)
	b := FreshRequestID()
	assert.NotEqual(t, a, b)
}
