// Package clientreq builds the request payloads the client sends for each
// opcode. It mirrors internal/router's decode side: every function here
// produces exactly the bytes the matching decode*Request function in
// internal/router expects.
package clientreq

import (
	"github.com/arvindgk/facilityresv/internal/codec"
)

// Query builds the QUERY payload: facility name and a comma-separated list
// of day names.
func Query(facility, daysCSV string) []byte {
	buf := codec.WriteString(nil, facility)
	return codec.WriteString(buf, daysCSV)
}

// Book builds the BOOK payload.
func Book(facility string, day, start, end int32) []byte {
	buf := codec.WriteString(nil, facility)
	buf = codec.WriteInt32(buf, day)
	buf = codec.WriteInt32(buf, start)
	return codec.WriteInt32(buf, end)
}

// Change builds the CHANGE payload.
func Change(id int64, shiftMinutes int32) []byte {
	buf := codec.WriteInt64(nil, id)
	return codec.WriteInt32(buf, shiftMinutes)
}

// MonitorRegister builds the MONITOR_REGISTER payload.
func MonitorRegister(facility string, seconds int32) []byte {
	buf := codec.WriteString(nil, facility)
	return codec.WriteInt32(buf, seconds)
}

// Cancel builds the CANCEL payload.
func Cancel(id int64) []byte {
	return codec.WriteInt64(nil, id)
}

// Extend builds the EXTEND payload.
func Extend(id int64, startDelta, endDelta int32) []byte {
	buf := codec.WriteInt64(nil, id)
	buf = codec.WriteInt32(buf, startDelta)
	return codec.WriteInt32(buf, endDelta)
}

// QueryBooking builds the QUERY_BOOKING payload.
func QueryBooking(id int64) []byte {
	return codec.WriteInt64(nil, id)
}
