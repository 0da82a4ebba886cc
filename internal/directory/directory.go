// Package directory maintains the host's view of reachable friend agents:
// descriptor cards fetched at bootstrap and one protocol client per friend.
package directory

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jamhost-dev/jamhost/internal/a2a"
)

// NoFriendsFound is the summary marker for an empty directory.
const NoFriendsFound = "No friends found"

// RegisterResult reports the outcome of registering one address. Err is nil
// on success; failures carry the transport or protocol error so the caller
// decides whether to continue the directory build.
type RegisterResult struct {
	Address string
	Card    *a2a.AgentCard
	Err     error
}

// Option configures a Directory.
type Option func(*Directory)

// WithHTTPClient sets the HTTP client used for card resolution and messaging.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Directory) { d.http = hc }
}

// WithTimeout bounds each card fetch during registration.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Directory) { d.timeout = timeout }
}

// WithRateLimit applies an outbound rate limit to every friend client.
func WithRateLimit(rps float64, burst int) Option {
	return func(d *Directory) {
		d.rps, d.burst = rps, burst
	}
}

// Directory maps friend names to protocol clients. Registration happens
// once at bootstrap; lookups afterward are read-only and concurrent-safe.
type Directory struct {
	http    *http.Client
	timeout time.Duration
	rps     float64
	burst   int

	mu      sync.RWMutex
	cards   map[string]a2a.AgentCard
	clients map[string]*a2a.Client
}

// New creates an empty directory.
func New(opts ...Option) *Directory {
	d := &Directory{
		http:    http.DefaultClient,
		timeout: 30 * time.Second,
		cards:   make(map[string]a2a.AgentCard),
		clients: make(map[string]*a2a.Client),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register fetches descriptor cards from every address concurrently, each
// fetch bounded by the directory timeout. Registration is best-effort: a
// failed address is logged, reported in its result, and skipped — it never
// aborts the build.
func (d *Directory) Register(ctx context.Context, addresses []string) []RegisterResult {
	results := make([]RegisterResult, len(addresses))

	g, gctx := errgroup.WithContext(ctx)
	for i, addr := range addresses {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, d.timeout)
			defer cancel()

			card, err := a2a.ResolveCard(callCtx, d.http, addr)
			if err != nil {
				log.Printf("[directory] failed to register %s: %v", addr, err)
				results[i] = RegisterResult{Address: addr, Err: err}
				return nil
			}

			d.add(*card)
			results[i] = RegisterResult{Address: addr, Card: card}
			log.Printf("[directory] registered %s (%s)", card.Name, addr)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (d *Directory) add(card a2a.AgentCard) {
	opts := []a2a.ClientOption{a2a.WithHTTPClient(d.http)}
	if d.rps > 0 {
		opts = append(opts, a2a.WithRateLimit(d.rps, d.burst))
	}

	d.mu.Lock()
	d.cards[card.Name] = card
	d.clients[card.Name] = a2a.NewClient(card, opts...)
	d.mu.Unlock()
}

// Lookup returns the client for a registered friend.
func (d *Directory) Lookup(name string) (*a2a.Client, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.clients[name]
	return c, ok
}

// Names returns the registered friend names in registration-map order.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.cards))
	for name := range d.cards {
		names = append(names, name)
	}
	return names
}

// Len returns the number of registered friends.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cards)
}

// Summary renders the directory for the planner's context: one JSON line of
// name and description per friend, or the no-friends marker.
func (d *Directory) Summary() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.cards) == 0 {
		return NoFriendsFound
	}

	lines := make([]string, 0, len(d.cards))
	for _, card := range d.cards {
		entry, err := json.Marshal(map[string]string{
			"name":        card.Name,
			"description": card.Description,
		})
		if err != nil {
			continue
		}
		lines = append(lines, string(entry))
	}
	return strings.Join(lines, "\n")
}
