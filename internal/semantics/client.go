package semantics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/arvindgk/facilityresv/internal/codec"
	"github.com/arvindgk/facilityresv/internal/logger"
	"github.com/arvindgk/facilityresv/internal/transport"
)

const (
	// RetryTimeout is the per-attempt wait for a matching reply, §4.4.
	RetryTimeout = 1 * time.Second
	// MaxRetries is the number of retransmissions after the first send
	// before giving up with ErrNoReply, §4.4.
	MaxRetries = 8
)

// ErrNoReply is returned once every attempt (the original send plus
// MaxRetries retransmissions) has timed out without a matching reply.
var ErrNoReply = errors.New("no reply after retries")

// FreshRequestID mints a request id from a high-resolution clock reading,
// sufficient to be monotone non-repeating within one client process.
func FreshRequestID() uint64 {
	return uint64(time.Now().UnixNano())
}

// Invoke sends msg over conn and retries it, identical bytes, until a
// reply with the same request id arrives or the retry budget is
// exhausted. Datagrams with any other request id (a stray reply, or an
// unsolicited MONITOR_UPDATE outside monitor mode) are discarded and the
// wait continues, per §4.4.
func Invoke(conn *transport.Conn, msg codec.Message) (codec.Message, error) {
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		logger.Debug("sending request",
			logger.RequestID(msg.RequestID),
			logger.Opcode(msg.Opcode, codec.OpcodeName(msg.Opcode)),
			logger.Attempt(attempt),
			logger.MaxAttempts(MaxRetries),
		)
		if _, err := conn.Send(msg); err != nil {
			return codec.Message{}, fmt.Errorf("send request: %w", err)
		}

		reply, err := awaitMatch(conn, msg.RequestID, RetryTimeout)
		if err == nil {
			return reply, nil
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			// A non-timeout transport error on our own dedicated socket is
			// not retryable; surface it.
			return codec.Message{}, err
		}
		logger.Debug("request timed out, retrying", logger.RequestID(msg.RequestID), logger.Attempt(attempt))
	}
	logger.Warn("giving up after exhausting retries", logger.RequestID(msg.RequestID), logger.MaxAttempts(MaxRetries))
	return codec.Message{}, ErrNoReply
}

// AwaitMonitorUpdates reads MONITOR_UPDATE datagrams from conn and invokes
// onUpdate for each, until the wall clock reaches until. Per §5, this is a
// bounded receive loop: per-read timeouts are swallowed and the loop keeps
// waiting until the deadline, rather than treating a quiet period as the
// subscription having ended.
func AwaitMonitorUpdates(conn *transport.Conn, until time.Time, onUpdate func(codec.Message)) error {
	for {
		remaining := time.Until(until)
		if remaining <= 0 {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), remaining)
		result, err := conn.ReceiveWithin(ctx)
		cancel()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			var de *codec.DecodeError
			if errors.As(err, &de) {
				continue // malformed datagram, discarded per §7
			}
			return err
		}
		if result.Msg.Opcode != codec.OpMonitorUpdate {
			continue
		}
		onUpdate(result.Msg)
	}
}

// awaitMatch reads datagrams from conn until one decodes with RequestID
// equal to want, or timeout elapses. Malformed datagrams and mismatched
// request ids are discarded silently, per §4.4 and §7.
func awaitMatch(conn *transport.Conn, want uint64, timeout time.Duration) (codec.Message, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return codec.Message{}, context.DeadlineExceeded
		}
		ctx, cancel := context.WithTimeout(context.Background(), remaining)
		result, err := conn.ReceiveWithin(ctx)
		cancel()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return codec.Message{}, context.DeadlineExceeded
			}
			var de *codec.DecodeError
			if errors.As(err, &de) {
				continue // malformed datagram, keep waiting
			}
			return codec.Message{}, err
		}
		if result.Msg.RequestID != want {
			continue // stray reply or unsolicited update, keep waiting
		}
		return result.Msg, nil
	}
}
