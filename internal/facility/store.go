package facility

import (
	"fmt"

	"github.com/arvindgk/facilityresv/internal/timeslot"
)

// ErrUnknownFacility is returned when a request names a facility the store
// has never heard of.
type ErrUnknownFacility struct {
	Name string
}

func (e *ErrUnknownFacility) Error() string {
	return fmt.Sprintf("unknown facility %q", e.Name)
}

// ErrSlotOccupied is returned when a BOOK, CHANGE, or EXTEND would overlap
// an existing booking.
type ErrSlotOccupied struct {
	Facility string
	Slot     timeslot.Slot
}

func (e *ErrSlotOccupied) Error() string {
	return fmt.Sprintf("facility %q slot %s is occupied", e.Facility, timeslot.RenderRange(e.Slot.Start, e.Slot.End))
}

// ErrUnknownBooking is returned when a confirmation id has no matching
// booking, for CANCEL, EXTEND, and QUERY_BOOKING.
type ErrUnknownBooking struct {
	ConfirmID uint64
}

func (e *ErrUnknownBooking) Error() string {
	return fmt.Sprintf("unknown confirmation id %d", e.ConfirmID)
}

// Store owns every known Facility and the global booking index, and issues
// confirmation ids. The server runs a single-threaded cooperative loop
// (§5), so Store performs no locking of its own.
type Store struct {
	facilities map[string]*Facility
	bookings   map[uint64]*Booking
	nextID     uint64
}

// NewStore creates a Store seeded with the given facility names, each
// starting fully free.
func NewStore(names []string) *Store {
	s := &Store{
		facilities: make(map[string]*Facility, len(names)),
		bookings:   make(map[uint64]*Booking),
	}
	for _, name := range names {
		s.facilities[name] = New(name)
	}
	return s
}

// BookingCount reports the number of live bookings across all facilities,
// for tests and diagnostics that need to observe whether a mutation
// actually happened.
func (s *Store) BookingCount() int {
	return len(s.bookings)
}

// Facility looks up a facility by name.
func (s *Store) Facility(name string) (*Facility, error) {
	f, ok := s.facilities[name]
	if !ok {
		return nil, &ErrUnknownFacility{Name: name}
	}
	return f, nil
}

// Booking looks up a booking by confirmation id.
func (s *Store) Booking(id uint64) (*Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, &ErrUnknownBooking{ConfirmID: id}
	}
	return b, nil
}

// Book reserves slot on facilityName, failing if the facility is unknown
// or the slot is not entirely free, and otherwise issuing a fresh
// confirmation id and occupying the grid (maintaining B1).
func (s *Store) Book(facilityName string, slot timeslot.Slot) (*Booking, error) {
	f, err := s.Facility(facilityName)
	if err != nil {
		return nil, err
	}
	if !f.IsFree(slot) {
		return nil, &ErrSlotOccupied{Facility: facilityName, Slot: slot}
	}

	s.nextID++
	id := s.nextID
	b := &Booking{ID: id, Facility: facilityName, Slot: slot}
	f.Occupy(slot)
	s.bookings[id] = b
	return b, nil
}

// Cancel removes a booking by confirmation id, freeing its slot (B1) and
// erasing it from the index (B3 no longer applies to a removed id).
func (s *Store) Cancel(id uint64) (*Booking, error) {
	b, err := s.Booking(id)
	if err != nil {
		return nil, err
	}
	f := s.facilities[b.Facility]
	f.Free(b.Slot)
	delete(s.bookings, id)
	return b, nil
}

// Change replaces a booking's slot with a shifted one (per
// timeslot.ShiftMinutes), rejecting the change and leaving the booking
// untouched if the new slot overlaps another booking. The booking keeps
// its confirmation id (B3).
func (s *Store) Change(id uint64, shiftMinutes int) (*Booking, error) {
	b, err := s.Booking(id)
	if err != nil {
		return nil, err
	}
	newSlot, err := timeslot.ShiftMinutes(b.Slot, shiftMinutes)
	if err != nil {
		return nil, err
	}

	f := s.facilities[b.Facility]
	f.Free(b.Slot)
	if !f.IsFree(newSlot) {
		f.Occupy(b.Slot)
		return nil, &ErrSlotOccupied{Facility: b.Facility, Slot: newSlot}
	}
	f.Occupy(newSlot)
	b.Slot = newSlot
	return b, nil
}

// Extend moves a booking's start by startDelta and its end by endDelta,
// keeping the day fixed, rejecting the change if the new bounds are
// invalid or overlap another booking.
func (s *Store) Extend(id uint64, startDelta, endDelta int) (*Booking, error) {
	b, err := s.Booking(id)
	if err != nil {
		return nil, err
	}
	newSlot, err := timeslot.New(b.Slot.Day, b.Slot.Start+startDelta, b.Slot.End+endDelta)
	if err != nil {
		return nil, err
	}

	f := s.facilities[b.Facility]
	f.Free(b.Slot)
	if !f.IsFree(newSlot) {
		f.Occupy(b.Slot)
		return nil, &ErrSlotOccupied{Facility: b.Facility, Slot: newSlot}
	}
	f.Occupy(newSlot)
	b.Slot = newSlot
	return b, nil
}

// FacilityNames lists every known facility, for diagnostics.
func (s *Store) FacilityNames() []string {
	names := make([]string, 0, len(s.facilities))
	for name := range s.facilities {
		names = append(names, name)
	}
	return names
}
