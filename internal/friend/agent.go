package friend

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jamhost-dev/jamhost/internal/agent"
)

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Agent answers availability questions from one friend's calendar. It only
// does scheduling; anything without a recognizable date gets a polite nudge.
type Agent struct {
	name        string
	description string
	calendar    *Calendar
}

// NewAgent wraps a calendar in the agent contract.
func NewAgent(name, description string, calendar *Calendar) *Agent {
	return &Agent{name: name, description: description, calendar: calendar}
}

func (a *Agent) Name() string        { return a.name }
func (a *Agent) Description() string { return a.description }

// Execute extracts a date range from the inbound text and answers with the
// friend's availability. A single date is used for both ends of the range,
// mirroring how the scheduling assistants in this demo are instructed.
func (a *Agent) Execute(_ context.Context, input *agent.Message) (*agent.Message, error) {
	dates := datePattern.FindAllString(input.Text, 2)

	var reply string
	switch len(dates) {
	case 0:
		reply = fmt.Sprintf(
			"I can only help with scheduling. Please ask about %s's availability for a specific date (YYYY-MM-DD).",
			a.name,
		)
	case 1:
		reply = a.calendar.Availability(dates[0], dates[0])
	default:
		reply = a.calendar.Availability(dates[0], dates[1])
	}

	out := agent.NewMessage("agent", reply)
	out.TaskID = input.TaskID
	out.ContextID = input.ContextID
	return out, nil
}
