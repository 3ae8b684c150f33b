package router

import (
	"errors"
	"fmt"
	"net"

	"github.com/arvindgk/facilityresv/internal/codec"
	"github.com/arvindgk/facilityresv/internal/facility"
	"github.com/arvindgk/facilityresv/internal/logger"
	"github.com/arvindgk/facilityresv/internal/monitor"
	"github.com/arvindgk/facilityresv/internal/timeslot"
)

func handleQuery(env *Environment, _ net.Addr, req codec.Message) (string, bool, []Update) {
	q, err := decodeQueryRequest(req.Payload)
	if err != nil {
		return fmt.Sprintf("Exception: %v", err), true, nil
	}

	f, err := env.Store.Facility(q.Facility)
	if err != nil {
		return "No such facility", true, nil
	}

	text, err := renderQueryDays(f, q.DaysCSV)
	if err != nil {
		return fmt.Sprintf("Exception: %v", err), true, nil
	}
	return text, false, nil
}

func handleBook(env *Environment, _ net.Addr, req codec.Message) (string, bool, []Update) {
	b, err := decodeBookRequest(req.Payload)
	if err != nil {
		return fmt.Sprintf("Exception: %v", err), true, nil
	}
	if err := validate.Struct(b); err != nil {
		return fmt.Sprintf("Exception: %v", err), true, nil
	}

	slot, err := timeslot.New(int(b.Day), int(b.Start), int(b.End))
	if err != nil {
		return fmt.Sprintf("Exception: %v", err), true, nil
	}

	booking, err := env.Store.Book(b.Facility, slot)
	if err != nil {
		var uf *facility.ErrUnknownFacility
		if errors.As(err, &uf) {
			return "No such facility", true, nil
		}
		logger.Debug("book rejected: slot occupied", logger.Facility(b.Facility), logger.Day(int(b.Day)), logger.StartMinute(int(b.Start)), logger.EndMinute(int(b.End)), logger.Err(err))
		return "Unavailable in requested period", true, nil
	}

	logger.Info("booking confirmed",
		logger.Facility(b.Facility),
		logger.ConfirmID(booking.ID),
		logger.Day(int(b.Day)),
		logger.StartMinute(int(b.Start)),
		logger.EndMinute(int(b.End)),
	)
	updates := fanOut(env, b.Facility)
	return fmt.Sprintf("CONFIRM# %d", booking.ID), false, updates
}

func handleChange(env *Environment, _ net.Addr, req codec.Message) (string, bool, []Update) {
	c, err := decodeChangeRequest(req.Payload)
	if err != nil {
		return fmt.Sprintf("Exception: %v", err), true, nil
	}

	booking, err := env.Store.Change(uint64(c.ID), int(c.ShiftMinutes))
	if err != nil {
		var ub *facility.ErrUnknownBooking
		if errors.As(err, &ub) {
			return fmt.Sprintf("No booking found with ID: %d", c.ID), true, nil
		}
		var cd *timeslot.CrossDayError
		if errors.As(err, &cd) {
			return "exceed end of day", true, nil
		}
		return "Unavailable for new period", true, nil
	}

	logger.Info("booking changed", logger.ConfirmID(booking.ID), logger.Facility(booking.Facility), logger.ShiftMinutes(int(c.ShiftMinutes)))
	updates := fanOut(env, booking.Facility)
	return fmt.Sprintf("CHANGED# %d (shifted %s min)", booking.ID, signed(int(c.ShiftMinutes))), false, updates
}

func handleMonitorRegister(env *Environment, peer net.Addr, req codec.Message) (string, bool, []Update) {
	m, err := decodeMonitorRegisterRequest(req.Payload)
	if err != nil {
		return fmt.Sprintf("Exception: %v", err), true, nil
	}
	if err := validate.Struct(m); err != nil {
		return fmt.Sprintf("Exception: %v", err), true, nil
	}

	if _, err := env.Store.Facility(m.Facility); err != nil {
		return "No such facility", true, nil
	}

	sub := monitor.NewSubscription(peer.String(), m.Facility, env.Now(), int(m.Seconds))
	env.Registry.Register(sub)

	updates := fanOut(env, m.Facility)
	return fmt.Sprintf("MONITORING# %s for %ds", m.Facility, m.Seconds), false, updates
}

func handleCancel(env *Environment, _ net.Addr, req codec.Message) (string, bool, []Update) {
	c, err := decodeCancelRequest(req.Payload)
	if err != nil {
		return fmt.Sprintf("Exception: %v", err), true, nil
	}

	booking, err := env.Store.Cancel(uint64(c.ID))
	if err != nil {
		// §4.5: an unknown id is still a *success* reply, which is what
		// makes CANCEL observationally idempotent.
		return "ALREADY_CANCELED_OR_NOT_FOUND", false, nil
	}

	updates := fanOut(env, booking.Facility)
	return fmt.Sprintf("CANCELED# %d", c.ID), false, updates
}

func handleExtend(env *Environment, _ net.Addr, req codec.Message) (string, bool, []Update) {
	e, err := decodeExtendRequest(req.Payload)
	if err != nil {
		return fmt.Sprintf("Exception: %v", err), true, nil
	}

	booking, err := env.Store.Extend(uint64(e.ID), int(e.StartDelta), int(e.EndDelta))
	if err != nil {
		var ub *facility.ErrUnknownBooking
		if errors.As(err, &ub) {
			return fmt.Sprintf("No booking found with ID: %d", e.ID), true, nil
		}
		var bs *timeslot.BadSlotError
		if errors.As(err, &bs) {
			return "New start time must be before end time", true, nil
		}
		return "Unavailable for new period", true, nil
	}

	updates := fanOut(env, booking.Facility)
	text := fmt.Sprintf("EXTENDED# %d (start %s min, end %s min)", booking.ID, signed(int(e.StartDelta)), signed(int(e.EndDelta)))
	return text, false, updates
}

func handleQueryBooking(env *Environment, _ net.Addr, req codec.Message) (string, bool, []Update) {
	q, err := decodeQueryBookingRequest(req.Payload)
	if err != nil {
		return fmt.Sprintf("Exception: %v", err), true, nil
	}

	booking, err := env.Store.Booking(uint64(q.ID))
	if err != nil {
		return fmt.Sprintf("No booking found with ID: %d", q.ID), true, nil
	}
	return renderBookingDetails(booking), false, nil
}
