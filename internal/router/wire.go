package router

import (
	"fmt"

	"github.com/arvindgk/facilityresv/internal/codec"
)

// The request/reply payload shapes below mirror the per-opcode table: every
// non-error reply is a single length-prefixed string, every error reply is
// likewise a single string (with flags=1).

type queryRequest struct {
	Facility string `validate:"required"`
	DaysCSV  string
}

func decodeQueryRequest(payload []byte) (queryRequest, error) {
	facility, off, err := codec.ReadString(payload, 0)
	if err != nil {
		return queryRequest{}, err
	}
	daysCSV, _, err := codec.ReadString(payload, off)
	if err != nil {
		return queryRequest{}, err
	}
	return queryRequest{Facility: facility, DaysCSV: daysCSV}, nil
}

type bookRequest struct {
	Facility string `validate:"required"`
	Day      int32  `validate:"gte=0,lte=6"`
	Start    int32  `validate:"gte=0,lte=1439"`
	End      int32  `validate:"gte=1,lte=1440"`
}

func decodeBookRequest(payload []byte) (bookRequest, error) {
	facility, off, err := codec.ReadString(payload, 0)
	if err != nil {
		return bookRequest{}, err
	}
	day, off, err := codec.ReadInt32(payload, off)
	if err != nil {
		return bookRequest{}, err
	}
	start, off, err := codec.ReadInt32(payload, off)
	if err != nil {
		return bookRequest{}, err
	}
	end, _, err := codec.ReadInt32(payload, off)
	if err != nil {
		return bookRequest{}, err
	}
	return bookRequest{Facility: facility, Day: day, Start: start, End: end}, nil
}

type changeRequest struct {
	ID           int64
	ShiftMinutes int32
}

func decodeChangeRequest(payload []byte) (changeRequest, error) {
	id, off, err := codec.ReadInt64(payload, 0)
	if err != nil {
		return changeRequest{}, err
	}
	shift, _, err := codec.ReadInt32(payload, off)
	if err != nil {
		return changeRequest{}, err
	}
	return changeRequest{ID: id, ShiftMinutes: shift}, nil
}

type monitorRegisterRequest struct {
	Facility string `validate:"required"`
	Seconds  int32  `validate:"gte=0"`
}

func decodeMonitorRegisterRequest(payload []byte) (monitorRegisterRequest, error) {
	facility, off, err := codec.ReadString(payload, 0)
	if err != nil {
		return monitorRegisterRequest{}, err
	}
	seconds, _, err := codec.ReadInt32(payload, off)
	if err != nil {
		return monitorRegisterRequest{}, err
	}
	return monitorRegisterRequest{Facility: facility, Seconds: seconds}, nil
}

type cancelRequest struct {
	ID int64
}

func decodeCancelRequest(payload []byte) (cancelRequest, error) {
	id, _, err := codec.ReadInt64(payload, 0)
	if err != nil {
		return cancelRequest{}, err
	}
	return cancelRequest{ID: id}, nil
}

type extendRequest struct {
	ID         int64
	StartDelta int32
	EndDelta   int32
}

func decodeExtendRequest(payload []byte) (extendRequest, error) {
	id, off, err := codec.ReadInt64(payload, 0)
	if err != nil {
		return extendRequest{}, err
	}
	startDelta, off, err := codec.ReadInt32(payload, off)
	if err != nil {
		return extendRequest{}, err
	}
	endDelta, _, err := codec.ReadInt32(payload, off)
	if err != nil {
		return extendRequest{}, err
	}
	return extendRequest{ID: id, StartDelta: startDelta, EndDelta: endDelta}, nil
}

type queryBookingRequest struct {
	ID int64
}

func decodeQueryBookingRequest(payload []byte) (queryBookingRequest, error) {
	id, _, err := codec.ReadInt64(payload, 0)
	if err != nil {
		return queryBookingRequest{}, err
	}
	return queryBookingRequest{ID: id}, nil
}

// encodeText wraps a single string as the payload for every reply and for
// MONITOR_UPDATE's text field.
func encodeText(s string) []byte {
	return codec.WriteString(nil, s)
}

// encodeMonitorUpdate builds the two-string MONITOR_UPDATE payload.
func encodeMonitorUpdate(facility, text string) []byte {
	buf := codec.WriteString(nil, facility)
	return codec.WriteString(buf, text)
}

func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
