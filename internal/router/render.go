package router

import (
	"fmt"
	"strings"

	"github.com/arvindgk/facilityresv/internal/facility"
	"github.com/arvindgk/facilityresv/internal/timeslot"
)

// renderWeeklyStatus builds the full-week "=== <facility> Status ===" block
// carried by MONITOR_UPDATE fan-out.
func renderWeeklyStatus(f *facility.Facility) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s Status ===\n", f.Name)
	for day := 0; day < 7; day++ {
		b.WriteString(f.DetailedAvailability(day))
	}
	return b.String()
}

// renderQueryDays builds the header plus the requested days' availability,
// per §4.5: empty daysCsv yields just the header.
func renderQueryDays(f *facility.Facility, daysCSV string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s Status ===\n", f.Name)

	daysCSV = strings.TrimSpace(daysCSV)
	if daysCSV == "" {
		return b.String(), nil
	}

	for _, token := range strings.Split(daysCSV, ",") {
		day, err := timeslot.ParseDay(strings.TrimSpace(token))
		if err != nil {
			return "", err
		}
		b.WriteString(f.DetailedAvailability(day))
	}
	return b.String(), nil
}

func renderBookingDetails(b *facility.Booking) string {
	var out strings.Builder
	fmt.Fprintf(&out, "Confirmation ID: %d\n", b.ID)
	fmt.Fprintf(&out, "Facility: %s\n", b.Facility)
	fmt.Fprintf(&out, "Day: %s\n", timeslot.DayName(b.Slot.Day))
	fmt.Fprintf(&out, "Time: %s - %s\n", timeslot.RenderClock(b.Slot.Start), timeslot.RenderClock(b.Slot.End))
	fmt.Fprintf(&out, "Duration: %d minutes\n", b.Slot.End-b.Slot.Start)
	return out.String()
}
