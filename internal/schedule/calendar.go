// Package schedule implements the jam-spot booking calendar: a fixed grid of
// hourly slots over a rolling window of days, with conflict-checked atomic
// bookings and free/booked availability queries.
package schedule

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

const (
	// DateLayout is the wire format for calendar days.
	DateLayout = "2006-01-02"

	// TimeLayout is the wire format for slot times.
	TimeLayout = "15:04"

	dateTimeLayout = DateLayout + " " + TimeLayout

	// GridStartHour and GridEndHour bound the bookable day, inclusive.
	GridStartHour = 8
	GridEndHour   = 20

	slotsPerDay = GridEndHour - GridStartHour + 1

	// DefaultWindowDays is the rolling window generated at startup.
	DefaultWindowDays = 7

	// FreeSentinel marks an unoccupied slot.
	FreeSentinel = "unknown"
)

// Date is a calendar day key. Using a value type instead of the wire string
// keeps slot lookups free of format mismatches.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q is not a valid YYYY-MM-DD date", ErrInvalidInput, s)
	}
	return dateOf(t), nil
}

func dateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// daySlots holds one occupant label per grid hour. Index 0 is GridStartHour.
type daySlots [slotsPerDay]string

func slotIndex(hour int) (int, bool) {
	if hour < GridStartHour || hour > GridEndHour {
		return 0, false
	}
	return hour - GridStartHour, true
}

func slotLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// Calendar is the process-wide jam-spot schedule. All reads and writes are
// serialized behind a single mutex so the booking check-then-commit sequence
// is atomic with respect to concurrent queries and bookings.
type Calendar struct {
	mu         sync.Mutex
	days       map[Date]*daySlots
	windowDays int
}

// New creates a calendar and generates the slot grid for windowDays days
// starting at now's calendar day.
func New(now time.Time, windowDays int) *Calendar {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	c := &Calendar{windowDays: windowDays}
	c.Generate(now)
	return c
}

// Generate replaces all calendar state with a fresh grid covering the window
// starting at now. Every day gets the identical hourly slot set, each slot
// initialized to the free sentinel. The window never rolls forward on its
// own; regeneration is an explicit operation.
func (c *Calendar) Generate(now time.Time) {
	days := make(map[Date]*daySlots, c.windowDays)
	for i := 0; i < c.windowDays; i++ {
		var slots daySlots
		for j := range slots {
			slots[j] = FreeSentinel
		}
		days[dateOf(now.AddDate(0, 0, i))] = &slots
	}

	c.mu.Lock()
	c.days = days
	c.mu.Unlock()
}

// Dates returns the generated window's days in ascending order.
func (c *Calendar) Dates() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.days))
	for d := range c.days {
		out = append(out, d.String())
	}
	sort.Strings(out)
	return out
}

// DaySchedule is the availability view for one date. Open is false when the
// date lies outside the generated window, so callers can tell "no bookings"
// apart from "calendar not generated for this date".
type DaySchedule struct {
	Date        string            `json:"date"`
	Open        bool              `json:"open"`
	FreeSlots   []string          `json:"available_slots,omitempty"`
	BookedSlots map[string]string `json:"booked_slots,omitempty"`
}

// Availability partitions a date's slots into free and booked sets.
// A malformed date string yields ErrInvalidInput.
func (c *Calendar) Availability(date string) (*DaySchedule, error) {
	key, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	slots, ok := c.days[key]
	if !ok {
		return &DaySchedule{Date: key.String(), Open: false}, nil
	}

	sched := &DaySchedule{
		Date:        key.String(),
		Open:        true,
		FreeSlots:   make([]string, 0, slotsPerDay),
		BookedSlots: make(map[string]string),
	}
	for i, occupant := range slots {
		label := slotLabel(GridStartHour + i)
		if occupant == FreeSentinel {
			sched.FreeSlots = append(sched.FreeSlots, label)
		} else {
			sched.BookedSlots[label] = occupant
		}
	}
	return sched, nil
}

// Booking records a committed reservation: the occupant now holds every slot
// in Slots on Date. There is no independent booking identity beyond the
// slots themselves.
type Booking struct {
	Date     string   `json:"date"`
	Start    string   `json:"start_time"`
	End      string   `json:"end_time"`
	Occupant string   `json:"reservation_name"`
	Slots    []string `json:"slots"`
}

// Book reserves [start, end) on date for occupant. The range expands into
// hourly slots by stepping one hour at a time from start until the cursor
// reaches end; all required slots are conflict-checked before any is
// written, so the operation either books every slot or none.
func (c *Calendar) Book(date, start, end, occupant string) (*Booking, error) {
	startAt, err := time.Parse(dateTimeLayout, date+" "+start)
	if err != nil {
		return nil, fmt.Errorf("%w: use YYYY-MM-DD and HH:MM", ErrInvalidInput)
	}
	endAt, err := time.Parse(dateTimeLayout, date+" "+end)
	if err != nil {
		return nil, fmt.Errorf("%w: use YYYY-MM-DD and HH:MM", ErrInvalidInput)
	}

	if !startAt.Before(endAt) {
		return nil, fmt.Errorf("%w: start time must be before end time", ErrInvalidRange)
	}
	if startAt.Minute() != 0 {
		// The grid only holds on-the-hour slots; a misaligned start would
		// otherwise slip past conflict detection entirely.
		return nil, fmt.Errorf("%w: bookings must start on the hour", ErrInvalidRange)
	}
	var hours []int
	for cur := startAt; cur.Before(endAt); cur = cur.Add(time.Hour) {
		hours = append(hours, cur.Hour())
	}

	key := dateOf(startAt)

	c.mu.Lock()
	defer c.mu.Unlock()

	slots, ok := c.days[key]
	if !ok {
		return nil, fmt.Errorf("%w on %s", ErrNotOpen, key)
	}

	// Window membership is settled before the occupant check: a closed date
	// answers not-open no matter how broken the rest of the request is.
	if occupant == "" {
		return nil, fmt.Errorf("%w: cannot book a jam spot without a reservation name", ErrMissingOccupant)
	}

	for _, h := range hours {
		idx, onGrid := slotIndex(h)
		if !onGrid {
			return nil, &ConflictError{Date: key.String(), Slot: slotLabel(h)}
		}
		if slots[idx] != FreeSentinel {
			return nil, &ConflictError{Date: key.String(), Slot: slotLabel(h), Occupant: slots[idx]}
		}
	}

	booking := &Booking{
		Date:     key.String(),
		Start:    start,
		End:      end,
		Occupant: occupant,
		Slots:    make([]string, 0, len(hours)),
	}
	for _, h := range hours {
		idx, _ := slotIndex(h)
		slots[idx] = occupant
		booking.Slots = append(booking.Slots, slotLabel(h))
	}
	return booking, nil
}
