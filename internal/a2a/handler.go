package a2a

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jamhost-dev/jamhost/internal/agent"
)

// Handler serves one agent over the protocol: its card at the well-known
// path and message/send at the root.
type Handler struct {
	agent agent.Agent
	card  AgentCard
	mux   *http.ServeMux
}

// NewHandler builds the HTTP surface for an agent.
func NewHandler(a agent.Agent, card AgentCard) *Handler {
	h := &Handler{agent: a, card: card, mux: http.NewServeMux()}
	h.mux.HandleFunc(WellKnownPath, h.serveCard)
	h.mux.HandleFunc("/", h.serveMessage)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveCard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.card); err != nil {
		log.Printf("[a2a] %s: encode card: %v", h.card.Name, err)
	}
}

func (h *Handler) serveMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, "", -32700, "parse error")
		return
	}
	if req.Method != MethodSendMessage {
		writeRPCError(w, req.ID, -32601, "method not found")
		return
	}

	msg := req.Params.Message
	input := &agent.Message{
		ID:        msg.MessageID,
		Role:      msg.Role,
		Text:      flattenParts(msg.Parts),
		TaskID:    msg.TaskID,
		ContextID: msg.ContextID,
	}

	output, err := h.agent.Execute(r.Context(), input)
	if err != nil {
		log.Printf("[a2a] %s: execute: %v", h.card.Name, err)
		writeRPCError(w, req.ID, -32000, err.Error())
		return
	}

	taskID := msg.TaskID
	if taskID == "" {
		taskID = uuid.New().String()
	}
	task := Task{
		ID:        taskID,
		ContextID: msg.ContextID,
		Status:    TaskStatus{State: TaskStateCompleted},
		Artifacts: []Artifact{{
			Name:  "response",
			Parts: []Part{{Type: "text", Text: output.Text}},
		}},
	}

	result, err := json.Marshal(task)
	if err != nil {
		writeRPCError(w, req.ID, -32603, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	resp := SendMessageResponse{JSONRPC: "2.0", ID: req.ID, Result: result}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[a2a] %s: encode response: %v", h.card.Name, err)
	}
}

func writeRPCError(w http.ResponseWriter, id string, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	resp := SendMessageResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func flattenParts(parts []Part) string {
	var texts []string
	for _, p := range parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}
