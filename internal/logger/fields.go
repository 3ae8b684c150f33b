package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log
// aggregation and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Protocol & Operation
	// ========================================================================
	KeyOpcode     = "opcode"      // Numeric opcode of the request/reply
	KeyOpcodeName = "opcode_name" // Human-readable opcode name (BOOK, CANCEL, ...)
	KeySemantics  = "semantics"   // ALO or AMO
	KeyRequestID  = "request_id"  // Client-chosen 64-bit request id
	KeyFlags      = "flags"       // Reply flags byte
	KeyErrorFlag  = "error_flag"  // Whether the flags error bit is set

	// ========================================================================
	// Peer Identification
	// ========================================================================
	KeyPeerAddr = "peer_addr" // Remote UDP address (ip:port)
	KeyPeerIP   = "peer_ip"   // Remote IP only
	KeyPeerPort = "peer_port" // Remote port only

	// ========================================================================
	// Facility Domain
	// ========================================================================
	KeyFacility      = "facility"      // Facility name
	KeyConfirmID     = "confirmation_id"
	KeyDay           = "day"
	KeyStartMinute   = "start_minute"
	KeyEndMinute     = "end_minute"
	KeyShiftMinutes  = "shift_minutes"
	KeyStartDelta    = "start_delta"
	KeyEndDelta      = "end_delta"
	KeySubscriberCnt = "subscriber_count"

	// ========================================================================
	// Semantics Layer
	// ========================================================================
	KeyCacheHit    = "cache_hit"
	KeyCacheSize   = "cache_size"
	KeyAttempt     = "attempt"
	KeyMaxAttempts = "max_attempts"
	KeyDropped     = "dropped"
	KeyLossRate    = "loss_rate"

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyBytesLen   = "bytes_len"   // Length of an encoded/decoded payload
)

// ============================================================================
// Field Helpers
//
// Constructors for the commonly used keys above, so call sites read as
// logger.Info("booked", logger.Facility(name), logger.ConfirmID(id)).
// ============================================================================

func Opcode(code uint8, name string) slog.Attr {
	return slog.Group("", slog.Int(KeyOpcode, int(code)), slog.String(KeyOpcodeName, name))
}

func Semantics(mode string) slog.Attr   { return slog.String(KeySemantics, mode) }
func RequestID(id uint64) slog.Attr     { return slog.Uint64(KeyRequestID, id) }
func ErrorFlag(isErr bool) slog.Attr    { return slog.Bool(KeyErrorFlag, isErr) }

func PeerAddr(addr string) slog.Attr { return slog.String(KeyPeerAddr, addr) }

func Facility(name string) slog.Attr       { return slog.String(KeyFacility, name) }
func ConfirmID(id uint64) slog.Attr        { return slog.Uint64(KeyConfirmID, id) }
func Day(day int) slog.Attr                { return slog.Int(KeyDay, day) }
func StartMinute(m int) slog.Attr          { return slog.Int(KeyStartMinute, m) }
func EndMinute(m int) slog.Attr            { return slog.Int(KeyEndMinute, m) }
func ShiftMinutes(m int) slog.Attr         { return slog.Int(KeyShiftMinutes, m) }
func SubscriberCount(n int) slog.Attr      { return slog.Int(KeySubscriberCnt, n) }

func CacheHit(hit bool) slog.Attr    { return slog.Bool(KeyCacheHit, hit) }
func CacheSize(n int) slog.Attr      { return slog.Int(KeyCacheSize, n) }
func Attempt(n int) slog.Attr        { return slog.Int(KeyAttempt, n) }
func MaxAttempts(n int) slog.Attr    { return slog.Int(KeyMaxAttempts, n) }
func Dropped(dropped bool) slog.Attr { return slog.Bool(KeyDropped, dropped) }
func LossRate(rate float64) slog.Attr { return slog.Float64(KeyLossRate, rate) }

func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err formats an error for logging. Returns a zero Attr for a nil error so
// call sites can pass it unconditionally without branching.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, fmt.Sprintf("%v", err))
}

func BytesLen(n int) slog.Attr { return slog.Int(KeyBytesLen, n) }
