// Package friend implements the remote side of the demo: an agent with a
// randomized personal calendar that answers availability questions for jam
// sessions.
package friend

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/jamhost-dev/jamhost/internal/schedule"
)

const (
	// freeSlotsPerDay is how many of the grid hours each friend is free on
	// any given day. High enough that overlaps across friends are likely.
	freeSlotsPerDay = 8

	invalidRangeMsg  = "Invalid date range. The start date cannot be after the end date."
	invalidFormatMsg = "Invalid date format. Please use YYYY-MM-DD for both start and end dates."
)

// Calendar is one friend's personal availability over the same 7-day hourly
// grid the jam spot uses. It is generated once and read-only afterward.
type Calendar struct {
	name string
	days map[string][]string
}

// NewCalendar generates a calendar for name covering windowDays days from
// now, with freeSlotsPerDay random free slots per day. The rng makes the
// calendar reproducible in tests.
func NewCalendar(name string, now time.Time, windowDays int, rng *rand.Rand) *Calendar {
	if windowDays <= 0 {
		windowDays = schedule.DefaultWindowDays
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	gridHours := make([]int, 0, schedule.GridEndHour-schedule.GridStartHour+1)
	for h := schedule.GridStartHour; h <= schedule.GridEndHour; h++ {
		gridHours = append(gridHours, h)
	}

	days := make(map[string][]string, windowDays)
	for i := 0; i < windowDays; i++ {
		date := now.AddDate(0, 0, i).Format(schedule.DateLayout)

		picked := rng.Perm(len(gridHours))[:freeSlotsPerDay]
		sort.Ints(picked)

		slots := make([]string, 0, freeSlotsPerDay)
		for _, idx := range picked {
			slots = append(slots, fmt.Sprintf("%02d:00", gridHours[idx]))
		}
		days[date] = slots
	}
	return &Calendar{name: name, days: days}
}

// FreeSlots returns the friend's free slots on a date, nil when the date is
// outside the generated window.
func (c *Calendar) FreeSlots(date string) []string {
	return c.days[date]
}

// Availability reports the friend's free times over [startDate, endDate]
// inclusive, one line per day. Malformed input and inverted ranges answer
// with a plain-text message rather than an error: the reply goes straight
// back over the wire to the asking agent.
func (c *Calendar) Availability(startDate, endDate string) string {
	start, err := time.Parse(schedule.DateLayout, startDate)
	if err != nil {
		return invalidFormatMsg
	}
	end, err := time.Parse(schedule.DateLayout, endDate)
	if err != nil {
		return invalidFormatMsg
	}
	if start.After(end) {
		return invalidRangeMsg
	}

	var lines []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(schedule.DateLayout)
		slots := c.days[date]
		if len(slots) == 0 {
			lines = append(lines, fmt.Sprintf("%s is not available on %s.", c.name, date))
			continue
		}
		lines = append(lines, fmt.Sprintf("On %s, %s is available at: %s.", date, c.name, strings.Join(slots, ", ")))
	}
	return strings.Join(lines, "\n")
}
