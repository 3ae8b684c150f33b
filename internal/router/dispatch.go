// Package router dispatches decoded request messages to the seven
// client-invokable opcode handlers, enforces booking invariants through
// the facility store, and produces the monitor fan-out datagrams a
// mutation triggers.
package router

import (
	"fmt"
	"net"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/arvindgk/facilityresv/internal/codec"
	"github.com/arvindgk/facilityresv/internal/facility"
	"github.com/arvindgk/facilityresv/internal/monitor"
)

// Update is a MONITOR_UPDATE datagram the router wants delivered to a
// subscriber, produced as a side effect of a mutating handler. The caller
// (the server loop) is responsible for sending it, subject to the loss
// simulator.
type Update struct {
	Peer net.Addr
	Msg  codec.Message
}

// Result is what a dispatched request produces: the reply to send back to
// the requester, plus zero or more monitor updates fanned out by the
// mutation.
type Result struct {
	Reply   codec.Message
	Updates []Update
}

// Environment bundles the state a handler needs: the facility store, the
// monitor registry, and the clocks used to stamp subscription expiry and
// mint fresh request ids for server-initiated datagrams.
type Environment struct {
	Store      *facility.Store
	Registry   *monitor.Registry
	Now        func() time.Time
	FreshReqID func() uint64
}

var validate = validator.New()

type handlerFunc func(env *Environment, peer net.Addr, req codec.Message) (string, bool, []Update)

type procedure struct {
	Name    string
	Handler handlerFunc
}

// dispatchTable maps opcode to its handler. Populated once at package
// init, mirroring a classic procedure-dispatch table.
var dispatchTable map[uint8]*procedure

func init() {
	dispatchTable = map[uint8]*procedure{
		codec.OpQuery:           {Name: "QUERY", Handler: handleQuery},
		codec.OpBook:            {Name: "BOOK", Handler: handleBook},
		codec.OpChange:          {Name: "CHANGE", Handler: handleChange},
		codec.OpMonitorRegister: {Name: "MONITOR_REGISTER", Handler: handleMonitorRegister},
		codec.OpCancel:          {Name: "CANCEL", Handler: handleCancel},
		codec.OpExtend:          {Name: "EXTEND", Handler: handleExtend},
		codec.OpQueryBooking:    {Name: "QUERY_BOOKING", Handler: handleQueryBooking},
	}
}

// Handle dispatches req to its opcode handler and builds the Result. An
// unknown opcode or a handler panic both degrade to an error reply with
// flags=1, per §4.5 and §7 — handlers never escape Handle as a Go panic.
func Handle(env *Environment, peer net.Addr, req codec.Message) (result Result) {
	proc, ok := dispatchTable[req.Opcode]
	if !ok {
		result.Reply = req.Reply(encodeText(fmt.Sprintf("Unknown opcode: %d", req.Opcode)), true)
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			result = Result{Reply: req.Reply(encodeText(fmt.Sprintf("Exception: %v", r)), true)}
		}
	}()

	text, isError, updates := proc.Handler(env, peer, req)
	result.Reply = req.Reply(encodeText(text), isError)
	result.Updates = updates
	return result
}

// fanOut builds one MONITOR_UPDATE datagram per live subscriber of
// facilityName, skipping subscriptions observed expired. It does not
// remove them from the registry; the server loop calls Registry.Prune.
func fanOut(env *Environment, facilityName string) []Update {
	now := env.Now()
	subs := env.Registry.Subscribers(facilityName, now)
	if len(subs) == 0 {
		return nil
	}

	f, err := env.Store.Facility(facilityName)
	if err != nil {
		return nil
	}
	text := renderWeeklyStatus(f)

	updates := make([]Update, 0, len(subs))
	for _, sub := range subs {
		addr, err := net.ResolveUDPAddr("udp", sub.PeerAddr)
		if err != nil {
			continue
		}
		msg := codec.Message{
			Version:   codec.ProtocolVersion,
			Semantics: codec.SemanticsALO,
			Opcode:    codec.OpMonitorUpdate,
			RequestID: env.FreshReqID(),
			Payload:   encodeMonitorUpdate(facilityName, text),
		}
		updates = append(updates, Update{Peer: addr, Msg: msg})
	}
	return updates
}
