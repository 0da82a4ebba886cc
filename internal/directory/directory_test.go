package directory

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamhost-dev/jamhost/internal/a2a"
	"github.com/jamhost-dev/jamhost/internal/agent"
)

type stubAgent struct {
	name, desc string
}

func (s *stubAgent) Name() string        { return s.name }
func (s *stubAgent) Description() string { return s.desc }

func (s *stubAgent) Execute(_ context.Context, input *agent.Message) (*agent.Message, error) {
	return agent.NewMessage("agent", "ok"), nil
}

func startFriend(t *testing.T, name, desc string) string {
	t.Helper()
	a := &stubAgent{name: name, desc: desc}
	srv := httptest.NewServer(a2a.NewHandler(a, a2a.AgentCard{Name: name, Description: desc, Version: "1.0.0"}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestRegisterPartialFailure(t *testing.T) {
	cartola := startFriend(t, "Cartola Agent", "Cartola's scheduling assistant")
	dilermano := startFriend(t, "Dilermano Agent", "Dilermano's scheduling assistant")

	// An address with nothing listening.
	dead := httptest.NewServer(nil)
	deadURL := dead.URL
	dead.Close()

	dir := New(WithTimeout(2 * time.Second))
	results := dir.Register(context.Background(), []string{cartola, deadURL, dilermano})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err, "unreachable friend is reported, not raised")
	assert.NoError(t, results[2].Err)

	assert.Equal(t, 2, dir.Len())
	assert.ElementsMatch(t, []string{"Cartola Agent", "Dilermano Agent"}, dir.Names())

	summary := dir.Summary()
	assert.Contains(t, summary, "Cartola Agent")
	assert.Contains(t, summary, "Dilermano Agent")
	assert.NotContains(t, summary, deadURL)
}

func TestSummaryEmpty(t *testing.T) {
	dir := New()
	assert.Equal(t, NoFriendsFound, dir.Summary())
}

func TestLookup(t *testing.T) {
	addr := startFriend(t, "Buarque Agent", "Helps with scheduling jam session")

	dir := New(WithRateLimit(50, 5))
	dir.Register(context.Background(), []string{addr})

	client, ok := dir.Lookup("Buarque Agent")
	require.True(t, ok)
	assert.Equal(t, "Buarque Agent", client.Card().Name)

	_, ok = dir.Lookup("Nobody")
	assert.False(t, ok)
}

func TestRegisterRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := New(WithTimeout(time.Second))
	results := dir.Register(ctx, []string{"http://127.0.0.1:1"})
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Equal(t, 0, dir.Len())
}
