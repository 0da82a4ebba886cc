package schedule

import (
	"errors"
	"fmt"
)

// Booking and availability failures are typed so callers can branch with
// errors.Is and still surface the original tool-style message verbatim.
var (
	// ErrInvalidInput indicates a malformed date or time string.
	ErrInvalidInput = errors.New("invalid date or time format")

	// ErrInvalidRange indicates a start time that is not strictly before the
	// end time, or a start that is not aligned to an hourly slot boundary.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrNotOpen indicates a date outside the generated calendar window.
	ErrNotOpen = errors.New("jam spot is not open")

	// ErrMissingOccupant indicates an empty reservation name.
	ErrMissingOccupant = errors.New("reservation name is required")

	// ErrSlotConflict indicates at least one required slot is already held.
	ErrSlotConflict = errors.New("slot conflict")
)

// ConflictError reports the first conflicting slot found during a booking
// scan. Occupant is empty when the slot does not exist on the grid at all
// (a range reaching past operating hours).
type ConflictError struct {
	Date     string
	Slot     string
	Occupant string
}

func (e *ConflictError) Error() string {
	if e.Occupant == "" {
		return fmt.Sprintf("the time slot %s on %s is outside operating hours", e.Slot, e.Date)
	}
	return fmt.Sprintf("the time slot %s on %s is already booked by %s", e.Slot, e.Date, e.Occupant)
}

func (e *ConflictError) Unwrap() error { return ErrSlotConflict }
