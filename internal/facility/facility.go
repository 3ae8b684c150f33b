// Package facility implements the per-facility weekly availability grid,
// the booking index, and the human-readable rendering used by QUERY and
// QUERY_BOOKING.
package facility

import (
	"fmt"

	"github.com/arvindgk/facilityresv/internal/timeslot"
)

const (
	daysPerWeek   = 7
	minutesPerDay = 1440
)

// Booking is a single reservation within a Facility.
type Booking struct {
	ID       uint64
	Facility string
	Slot     timeslot.Slot
}

// Facility owns a weekly availability bitmap and the bookings that
// populate it. Invariants B1-B3 (§3) are maintained by pairing every
// Occupy with a prior IsFree check and every Free with a prior lookup,
// which is the caller's responsibility (Store enforces this).
type Facility struct {
	Name string
	grid [daysPerWeek][minutesPerDay]bool
}

// New creates an empty (fully free) facility.
func New(name string) *Facility {
	return &Facility{Name: name}
}

// IsFree reports whether every minute in [slot.Start, slot.End) on
// slot.Day is unoccupied.
func (f *Facility) IsFree(slot timeslot.Slot) bool {
	row := f.grid[slot.Day]
	for m := slot.Start; m < slot.End; m++ {
		if row[m] {
			return false
		}
	}
	return true
}

// Occupy marks [slot.Start, slot.End) on slot.Day as occupied, unconditionally.
func (f *Facility) Occupy(slot timeslot.Slot) {
	row := &f.grid[slot.Day]
	for m := slot.Start; m < slot.End; m++ {
		row[m] = true
	}
}

// Free clears [slot.Start, slot.End) on slot.Day, unconditionally.
func (f *Facility) Free(slot timeslot.Slot) {
	row := &f.grid[slot.Day]
	for m := slot.Start; m < slot.End; m++ {
		row[m] = false
	}
}

// freeRange describes a contiguous occupied or free run of minutes.
type freeRange struct {
	start, end int
	occupied   bool
}

func (f *Facility) ranges(day int) []freeRange {
	row := f.grid[day]
	var ranges []freeRange
	runStart := 0
	runOccupied := row[0]
	for m := 1; m < minutesPerDay; m++ {
		if row[m] != runOccupied {
			ranges = append(ranges, freeRange{runStart, m, runOccupied})
			runStart = m
			runOccupied = row[m]
		}
	}
	ranges = append(ranges, freeRange{runStart, minutesPerDay, runOccupied})
	return ranges
}

// DetailedAvailability renders the contiguous booked and free minute
// ranges for a day, in chronological order, using "HH:MM-HH:MM" notation.
// A fully-free day renders as the single line "All day free (00:00-24:00)".
func (f *Facility) DetailedAvailability(day int) string {
	ranges := f.ranges(day)
	if len(ranges) == 1 && !ranges[0].occupied {
		return fmt.Sprintf("%s: All day free (00:00-24:00)\n", timeslot.DayName(day))
	}

	out := fmt.Sprintf("%s:\n", timeslot.DayName(day))
	for _, r := range ranges {
		status := "free"
		if r.occupied {
			status = "booked"
		}
		out += fmt.Sprintf("  %s %s\n", timeslot.RenderRange(r.start, r.end), status)
	}
	return out
}

// WeeklySummary lists the count of free minutes per day.
func (f *Facility) WeeklySummary() string {
	out := ""
	for day := 0; day < daysPerWeek; day++ {
		free := 0
		row := f.grid[day]
		for m := 0; m < minutesPerDay; m++ {
			if !row[m] {
				free++
			}
		}
		out += fmt.Sprintf("%s: %d free minutes\n", timeslot.DayName(day), free)
	}
	return out
}
