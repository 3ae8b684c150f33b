// Package transport wraps UDP datagram send and receive for both the
// server and the client: framing is handled by internal/codec, transport
// only moves bytes, enforces the maximum datagram size, and applies the
// loss simulator to every outbound datagram: server replies, monitor
// updates, and client requests alike.
package transport

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/arvindgk/facilityresv/internal/codec"
	"github.com/arvindgk/facilityresv/internal/lossim"
)

// Conn wraps a UDP socket and an optional loss simulator applied to every
// outbound send.
type Conn struct {
	pc     net.PacketConn
	sim    *lossim.Simulator
	closed atomic.Bool
}

// Listen opens a UDP socket bound to addr (e.g. ":5000") for server use.
func Listen(addr string) (*Conn, error) {
	pc, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen udp %s: %w", addr, err)
	}
	return &Conn{pc: pc}, nil
}

// Dial opens a UDP socket connected to addr, for client use.
func Dial(addr string) (*Conn, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp %s: %w", addr, err)
	}
	return &Conn{pc: conn.(net.PacketConn)}, nil
}

// SetLossSimulator installs sim so that every SendTo and Send call through this
// Conn is subject to simulated drops. A nil sim (the default) never drops.
func (c *Conn) SetLossSimulator(sim *lossim.Simulator) {
	c.sim = sim
}

// LocalAddr returns the socket's local address.
func (c *Conn) LocalAddr() net.Addr {
	return c.pc.LocalAddr()
}

// Close releases the underlying socket.
func (c *Conn) Close() error {
	c.closed.Store(true)
	return c.pc.Close()
}

// Bound reports whether the socket is still open, for the /healthz
// liveness probe.
func (c *Conn) Bound() bool {
	return !c.closed.Load()
}

// ReceiveResult carries one decoded inbound datagram and the address it
// came from.
type ReceiveResult struct {
	Peer net.Addr
	Msg  codec.Message
}

// Receive blocks for the next inbound datagram and decodes it. A
// malformed datagram is returned as a *codec.DecodeError and should be
// discarded by the caller without terminating the loop (§7).
func (c *Conn) Receive() (ReceiveResult, error) {
	buf := make([]byte, codec.MaxDatagramSize)
	n, peer, err := c.pc.ReadFrom(buf)
	if err != nil {
		return ReceiveResult{}, fmt.Errorf("read udp: %w", err)
	}
	msg, err := codec.Decode(buf[:n])
	if err != nil {
		return ReceiveResult{Peer: peer}, err
	}
	return ReceiveResult{Peer: peer, Msg: msg}, nil
}

// SendTo encodes msg and writes it to peer, consulting the loss simulator
// first. A simulated drop is reported as (true, nil): the caller logs it
// but treats it as success, since from the network's perspective the
// datagram simply never arrived.
func (c *Conn) SendTo(peer net.Addr, msg codec.Message) (dropped bool, err error) {
	wire, err := codec.Encode(msg)
	if err != nil {
		return false, fmt.Errorf("encode message: %w", err)
	}
	if c.sim != nil && c.sim.ShouldDrop() {
		return true, nil
	}
	if _, err := c.pc.WriteTo(wire, peer); err != nil {
		return false, fmt.Errorf("write udp to %s: %w", peer, err)
	}
	return false, nil
}

// Send is SendTo for a connected (client-side) socket, writing to the
// peer the socket was Dial'd to.
func (c *Conn) Send(msg codec.Message) (dropped bool, err error) {
	wire, err := codec.Encode(msg)
	if err != nil {
		return false, fmt.Errorf("encode message: %w", err)
	}
	if c.sim != nil && c.sim.ShouldDrop() {
		return true, nil
	}
	conn, ok := c.pc.(net.Conn)
	if !ok {
		return false, fmt.Errorf("write udp: socket is not connected")
	}
	if _, err := conn.Write(wire); err != nil {
		return false, fmt.Errorf("write udp: %w", err)
	}
	return false, nil
}

// ReceiveWithin blocks for the next inbound datagram until ctx's deadline,
// if it has one; when the deadline passes first, the returned error is a
// net.Error whose Timeout() reports true. Cancelling a ctx that has no
// deadline does not interrupt the read. Used by the client's retry loop
// (§7a) to bound each attempt's wait to the per-attempt timeout.
func (c *Conn) ReceiveWithin(ctx context.Context) (ReceiveResult, error) {
	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.pc.SetReadDeadline(deadline); err != nil {
			return ReceiveResult{}, fmt.Errorf("set read deadline: %w", err)
		}
	}
	return c.Receive()
}
