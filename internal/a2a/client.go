package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// ResolveCard fetches an agent's descriptor card from its well-known path.
// Transport failures map to ErrUnreachable, malformed cards to ErrProtocol.
func ResolveCard(ctx context.Context, hc *http.Client, baseURL string) (*AgentCard, error) {
	if hc == nil {
		hc = http.DefaultClient
	}

	url := strings.TrimRight(baseURL, "/") + WellKnownPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, baseURL, err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnreachable, baseURL, resp.StatusCode)
	}

	var card AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("%w: malformed card from %s: %v", ErrProtocol, baseURL, err)
	}
	if card.Name == "" {
		return nil, fmt.Errorf("%w: card from %s has no name", ErrProtocol, baseURL)
	}
	if card.URL == "" {
		card.URL = baseURL
	}
	return &card, nil
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit throttles outbound calls to rps requests per second with
// the given burst.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// Client sends task messages to one remote agent.
type Client struct {
	card    AgentCard
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client bound to the agent described by card.
func NewClient(card AgentCard, opts ...ClientOption) *Client {
	c := &Client{
		card: card,
		http: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Card returns the descriptor this client was built from.
func (c *Client) Card() AgentCard { return c.card }

// SendMessage posts a message/send envelope and returns the resulting task.
// Failures are typed: ErrUnreachable for transport problems, ErrProtocol
// for RPC errors, malformed envelopes, or non-completed tasks.
func (c *Client) SendMessage(ctx context.Context, msg Message) (*Task, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %v", ErrUnreachable, err)
		}
	}

	envelope := SendMessageRequest{
		JSONRPC: "2.0",
		ID:      msg.MessageID,
		Method:  MethodSendMessage,
		Params:  MessageSendParams{Message: msg},
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrProtocol, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.card.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, c.card.URL, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, c.card.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnreachable, c.card.URL, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response from %s: %v", ErrUnreachable, c.card.URL, err)
	}

	var envelopeResp SendMessageResponse
	if err := json.Unmarshal(raw, &envelopeResp); err != nil {
		return nil, fmt.Errorf("%w: malformed response from %s: %v", ErrProtocol, c.card.Name, err)
	}
	if envelopeResp.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s (code %d)", ErrProtocol, c.card.Name, envelopeResp.Error.Message, envelopeResp.Error.Code)
	}
	if len(envelopeResp.Result) == 0 {
		return nil, fmt.Errorf("%w: %s: response has neither result nor error", ErrProtocol, c.card.Name)
	}

	var task Task
	if err := json.Unmarshal(envelopeResp.Result, &task); err != nil {
		return nil, fmt.Errorf("%w: malformed task from %s: %v", ErrProtocol, c.card.Name, err)
	}
	if task.Status.State != TaskStateCompleted {
		return nil, fmt.Errorf("%w: %s returned task state %q", ErrProtocol, c.card.Name, task.Status.State)
	}
	return &task, nil
}
