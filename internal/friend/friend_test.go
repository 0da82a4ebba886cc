package friend

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamhost-dev/jamhost/internal/agent"
)

var calendarStart = time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

func newTestCalendar() *Calendar {
	return NewCalendar("Cartola", calendarStart, 7, rand.New(rand.NewSource(42)))
}

func TestCalendarGeneration(t *testing.T) {
	cal := newTestCalendar()

	for i := 0; i < 7; i++ {
		date := calendarStart.AddDate(0, 0, i).Format("2006-01-02")
		slots := cal.FreeSlots(date)
		require.Len(t, slots, 8, "each day has exactly 8 free slots")

		seen := make(map[string]bool)
		for _, slot := range slots {
			assert.Regexp(t, `^(0[89]|1\d|20):00$`, slot, "slots stay on the 08:00-20:00 grid")
			assert.False(t, seen[slot], "slots are unique")
			seen[slot] = true
		}
		assert.True(t, sortedAscending(slots))
	}

	assert.Nil(t, cal.FreeSlots("2024-09-01"), "outside the window")
}

func sortedAscending(slots []string) bool {
	for i := 1; i < len(slots); i++ {
		if slots[i] < slots[i-1] {
			return false
		}
	}
	return true
}

func TestCalendarDeterministicWithSeed(t *testing.T) {
	a := NewCalendar("Cartola", calendarStart, 7, rand.New(rand.NewSource(7)))
	b := NewCalendar("Cartola", calendarStart, 7, rand.New(rand.NewSource(7)))
	assert.Equal(t, a.FreeSlots("2024-08-03"), b.FreeSlots("2024-08-03"))
}

func TestAvailabilityRange(t *testing.T) {
	cal := newTestCalendar()

	answer := cal.Availability("2024-08-01", "2024-08-02")
	assert.Contains(t, answer, "On 2024-08-01, Cartola is available at:")
	assert.Contains(t, answer, "On 2024-08-02, Cartola is available at:")
}

func TestAvailabilityOutsideWindow(t *testing.T) {
	cal := newTestCalendar()
	answer := cal.Availability("2024-09-01", "2024-09-01")
	assert.Equal(t, "Cartola is not available on 2024-09-01.", answer)
}

func TestAvailabilityBadInput(t *testing.T) {
	cal := newTestCalendar()
	assert.Contains(t, cal.Availability("2024-13-40", "2024-08-02"), "Invalid date format")
	assert.Contains(t, cal.Availability("2024-08-05", "2024-08-01"), "start date cannot be after the end date")
}

func TestAgentExtractsDates(t *testing.T) {
	a := NewAgent("Cartola", "Cartola's scheduling assistant", newTestCalendar())

	out, err := a.Execute(context.Background(), agent.NewMessage("user",
		"Are you available for a jam session between 2024-08-01 and 2024-08-03?"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "On 2024-08-01, Cartola is available at:")
	assert.Contains(t, out.Text, "On 2024-08-03, Cartola is available at:")
}

func TestAgentSingleDate(t *testing.T) {
	a := NewAgent("Cartola", "Cartola's scheduling assistant", newTestCalendar())

	out, err := a.Execute(context.Background(), agent.NewMessage("user", "Can you jam on 2024-08-02?"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "On 2024-08-02, Cartola is available at:")
	assert.NotContains(t, out.Text, "2024-08-03")
}

func TestAgentNoDate(t *testing.T) {
	a := NewAgent("Cartola", "Cartola's scheduling assistant", newTestCalendar())

	out, err := a.Execute(context.Background(), agent.NewMessage("user", "What's your favorite song?"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "only help with scheduling")
}

func TestAgentPreservesIdentifiers(t *testing.T) {
	a := NewAgent("Cartola", "Cartola's scheduling assistant", newTestCalendar())

	in := agent.NewMessage("user", "free on 2024-08-02?")
	in.TaskID = "task-1"
	in.ContextID = "ctx-1"

	out, err := a.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "task-1", out.TaskID)
	assert.Equal(t, "ctx-1", out.ContextID)
}
