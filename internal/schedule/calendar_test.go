package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var windowStart = time.Date(2024, 8, 1, 9, 30, 0, 0, time.UTC)

func newTestCalendar(t *testing.T) *Calendar {
	t.Helper()
	return New(windowStart, DefaultWindowDays)
}

func TestGenerateWindow(t *testing.T) {
	cal := newTestCalendar(t)

	dates := cal.Dates()
	require.Len(t, dates, 7)
	assert.Equal(t, "2024-08-01", dates[0])
	assert.Equal(t, "2024-08-07", dates[6])

	for _, date := range dates {
		day, err := cal.Availability(date)
		require.NoError(t, err)
		assert.True(t, day.Open)
		assert.Len(t, day.FreeSlots, 13, "every day starts with the full hourly grid free")
		assert.Equal(t, "08:00", day.FreeSlots[0])
		assert.Equal(t, "20:00", day.FreeSlots[12])
		assert.Empty(t, day.BookedSlots)
	}
}

func TestAvailabilityOutsideWindow(t *testing.T) {
	cal := newTestCalendar(t)

	day, err := cal.Availability("2024-09-15")
	require.NoError(t, err)
	assert.False(t, day.Open, "dates outside the window report not-open, not an empty schedule")
	assert.Empty(t, day.FreeSlots)
}

func TestAvailabilityInvalidDate(t *testing.T) {
	cal := newTestCalendar(t)

	_, err := cal.Availability("2024-13-40")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = cal.Availability("tomorrow")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBookAssignsExactSlots(t *testing.T) {
	cal := newTestCalendar(t)

	booking, err := cal.Book("2024-08-01", "10:00", "12:00", "Bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00"}, booking.Slots)

	day, err := cal.Availability("2024-08-01")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"10:00": "Bob", "11:00": "Bob"}, day.BookedSlots)
	assert.Len(t, day.FreeSlots, 11)
	assert.Contains(t, day.FreeSlots, "12:00", "exclusive end slot stays free")
}

func TestBookConflictChangesNothing(t *testing.T) {
	cal := newTestCalendar(t)

	_, err := cal.Book("2024-08-01", "10:00", "12:00", "Bob")
	require.NoError(t, err)

	_, err = cal.Book("2024-08-01", "11:00", "13:00", "Alice")
	require.ErrorIs(t, err, ErrSlotConflict)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "11:00", conflict.Slot)
	assert.Equal(t, "Bob", conflict.Occupant)

	// All-or-nothing: the non-conflicting 12:00 slot stays untouched.
	day, err := cal.Availability("2024-08-01")
	require.NoError(t, err)
	assert.NotContains(t, day.BookedSlots, "12:00")
	assert.Equal(t, map[string]string{"10:00": "Bob", "11:00": "Bob"}, day.BookedSlots)
}

func TestRebookAlwaysConflicts(t *testing.T) {
	cal := newTestCalendar(t)

	_, err := cal.Book("2024-08-02", "14:00", "16:00", "Bob")
	require.NoError(t, err)

	// Different occupant.
	_, err = cal.Book("2024-08-02", "14:00", "16:00", "Alice")
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Same occupant: no silent merge either.
	_, err = cal.Book("2024-08-02", "14:00", "16:00", "Bob")
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestBookValidation(t *testing.T) {
	cal := newTestCalendar(t)

	tests := []struct {
		name     string
		date     string
		start    string
		end      string
		occupant string
		want     error
	}{
		{"malformed date", "2024-13-40", "10:00", "11:00", "Bob", ErrInvalidInput},
		{"malformed time", "2024-08-01", "ten", "11:00", "Bob", ErrInvalidInput},
		{"start equals end", "2024-08-01", "10:00", "10:00", "Bob", ErrInvalidRange},
		{"start after end", "2024-08-01", "12:00", "10:00", "Bob", ErrInvalidRange},
		{"misaligned start", "2024-08-01", "10:30", "12:00", "Bob", ErrInvalidRange},
		{"outside window", "2024-09-15", "10:00", "11:00", "Bob", ErrNotOpen},
		{"missing occupant", "2024-08-01", "10:00", "11:00", "", ErrMissingOccupant},
		{"closed date wins over missing occupant", "2024-09-15", "10:00", "11:00", "", ErrNotOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cal.Book(tt.date, tt.start, tt.end, tt.occupant)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBookBeyondOperatingHours(t *testing.T) {
	cal := newTestCalendar(t)

	_, err := cal.Book("2024-08-01", "20:00", "22:00", "Bob")
	require.ErrorIs(t, err, ErrSlotConflict)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "21:00", conflict.Slot)
	assert.Empty(t, conflict.Occupant)

	// The in-grid 20:00 slot must not have been committed.
	day, err := cal.Availability("2024-08-01")
	require.NoError(t, err)
	assert.Contains(t, day.FreeSlots, "20:00")
}

func TestBookMisalignedEndTruncates(t *testing.T) {
	cal := newTestCalendar(t)

	// The stepping loop stops once the cursor reaches or passes end, so a
	// 12:30 end books through the 12:00 slot.
	booking, err := cal.Book("2024-08-03", "10:00", "12:30", "Bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00", "12:00"}, booking.Slots)
}

func TestGenerateReplacesState(t *testing.T) {
	cal := newTestCalendar(t)

	_, err := cal.Book("2024-08-01", "10:00", "11:00", "Bob")
	require.NoError(t, err)

	cal.Generate(windowStart.AddDate(0, 0, 1))

	day, err := cal.Availability("2024-08-01")
	require.NoError(t, err)
	assert.False(t, day.Open, "regeneration replaces prior state wholesale")

	day, err = cal.Availability("2024-08-02")
	require.NoError(t, err)
	assert.True(t, day.Open)
	assert.Empty(t, day.BookedSlots)
}

func TestConcurrentBookingsSingleWinner(t *testing.T) {
	cal := newTestCalendar(t)

	const attempts = 16
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func(n int) {
			_, err := cal.Book("2024-08-01", "10:00", "12:00", "Party")
			errs <- err
		}(i)
	}

	var won int
	for i := 0; i < attempts; i++ {
		if err := <-errs; err == nil {
			won++
		} else if !errors.Is(err, ErrSlotConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won, "check-then-commit is serialized behind the lock")
}
