package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"

	"github.com/jamhost-dev/jamhost/internal/schedule"
	obs "github.com/jamhost-dev/jamhost/pkg/observability"
)

// Tool names exposed to the planner.
const (
	toolSendMessage        = "send_message"
	toolListAvailabilities = "list_jam_spot_availabilities"
	toolBookJamSession     = "book_jam_session"
	toolFindCommonTimes    = "find_common_times"
)

func hostTools() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolSendMessage,
				Description: "Send a task to a remote friend agent and return its reply.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"agent_name": {"type": "string", "description": "Official name of the friend agent."},
						"task": {"type": "string", "description": "The question or task for the friend."}
					},
					"required": ["agent_name", "task"]
				}`),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolListAvailabilities,
				Description: "List the available and booked time slots for the jam spot on a given date.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"date": {"type": "string", "description": "The date to check, in YYYY-MM-DD format."}
					},
					"required": ["date"]
				}`),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolBookJamSession,
				Description: "Book the jam spot for a date and time range under a reservation name.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"date": {"type": "string", "description": "The date of the reservation, in YYYY-MM-DD format."},
						"start_time": {"type": "string", "description": "Start time in HH:MM format."},
						"end_time": {"type": "string", "description": "End time in HH:MM format."},
						"reservation_name": {"type": "string", "description": "The name for the reservation."}
					},
					"required": ["date", "start_time", "end_time", "reservation_name"]
				}`),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolFindCommonTimes,
				Description: "Given the friends' availability replies, return the time slots every friend offered.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"availabilities": {
							"type": "array",
							"items": {"type": "string"},
							"description": "One availability reply per friend."
						}
					},
					"required": ["availabilities"]
				}`),
			},
		},
	}
}

// toolResult encodes a map into the JSON payload handed back to the model.
func toolResult(fields map[string]any) string {
	data, err := json.Marshal(fields)
	if err != nil {
		log.Printf("failed to marshal tool result: %v", err)
		return `{"status":"error","message":"internal error"}`
	}
	return string(data)
}

func toolError(message string) string {
	return toolResult(map[string]any{"status": "error", "message": message})
}

func (h *Host) listAvailabilities(args json.RawMessage) string {
	var in struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return toolError("Invalid arguments for list_jam_spot_availabilities.")
	}

	sched, err := h.cal.Availability(in.Date)
	if err != nil {
		return toolError("Invalid date format. Please use YYYY-MM-DD.")
	}
	if !sched.Open {
		return toolResult(map[string]any{
			"status":   "success",
			"message":  fmt.Sprintf("The jam spot is not open on %s.", sched.Date),
			"schedule": map[string]any{},
		})
	}
	return toolResult(map[string]any{
		"status":          "success",
		"message":         fmt.Sprintf("Schedule for %s.", sched.Date),
		"available_slots": sched.FreeSlots,
		"booked_slots":    sched.BookedSlots,
	})
}

func (h *Host) bookJamSession(args json.RawMessage) string {
	var in struct {
		Date            string `json:"date"`
		StartTime       string `json:"start_time"`
		EndTime         string `json:"end_time"`
		ReservationName string `json:"reservation_name"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return toolError("Invalid arguments for book_jam_session.")
	}

	booking, err := h.cal.Book(in.Date, in.StartTime, in.EndTime, in.ReservationName)
	if err == nil {
		obs.RecordBooking("success")
		return toolResult(map[string]any{
			"status": "success",
			"message": fmt.Sprintf(
				"Success! The jam session has been booked for %s from %s to %s on %s.",
				booking.Occupant, booking.Start, booking.End, booking.Date,
			),
		})
	}

	switch {
	case errors.Is(err, schedule.ErrSlotConflict):
		obs.RecordBooking("conflict")
	case errors.Is(err, schedule.ErrNotOpen):
		obs.RecordBooking("not_open")
	case errors.Is(err, schedule.ErrMissingOccupant):
		obs.RecordBooking("missing_name")
	default:
		obs.RecordBooking("invalid")
	}
	return toolError(err.Error())
}

func (h *Host) findCommonTimes(args json.RawMessage) string {
	var in struct {
		Availabilities []string `json:"availabilities"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return toolError("Invalid arguments for find_common_times.")
	}

	common := CommonSlots(in.Availabilities)
	if len(common) == 0 {
		return toolResult(map[string]any{
			"status":  "success",
			"message": "No common times found.",
		})
	}
	return toolResult(map[string]any{
		"status":       "success",
		"common_slots": common,
	})
}
