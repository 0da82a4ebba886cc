// Package agent defines the minimal contract shared by the host coordinator
// and friend agents: a named, described collaborator that answers one
// message at a time.
package agent

import "context"

// Agent is implemented by anything that can be asked a question over the
// remote-agent protocol. Execute must be safe for concurrent use; the
// serving layer fans requests in without coordination.
type Agent interface {
	// Name returns the agent's official name as published on its card.
	Name() string

	// Description returns the one-line summary published on the card.
	Description() string

	// Execute answers a single inbound message.
	Execute(ctx context.Context, input *Message) (*Message, error)
}
