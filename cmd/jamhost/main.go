// jamhost runs the host agent that coordinates jam sessions with remote
// friend agents.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/jamhost-dev/jamhost/internal/directory"
	"github.com/jamhost-dev/jamhost/internal/host"
	"github.com/jamhost-dev/jamhost/internal/observability"
	"github.com/jamhost-dev/jamhost/internal/schedule"
	"github.com/jamhost-dev/jamhost/internal/session"
	"github.com/jamhost-dev/jamhost/pkg/config"
	obs "github.com/jamhost-dev/jamhost/pkg/observability"
)

// Version information (set via ldflags)
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:          "jamhost",
		Short:        "Host agent that schedules jam sessions with friend agents",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "YAML configuration file")

	rootCmd.AddCommand(
		newServeCmd(&configFile),
		newChatCmd(&configFile),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the jamhost version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jamhost v%s\n", Version)
		},
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

// app bundles the wired host and everything that needs tearing down.
type app struct {
	host *host.Host
	dir  *directory.Directory

	store session.Store
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		log.Printf("session store close: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := observability.Shutdown(ctx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}

// wireApp builds the calendar, friend directory, session store, and host
// from configuration, connecting to friend agents as it goes.
func wireApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := observability.InitFromEnv(); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	obs.InitMetrics()

	cal := schedule.New(time.Now(), cfg.WindowDays)

	store, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	dir := directory.New(
		directory.WithTimeout(cfg.RemoteTimeout()),
		directory.WithRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	)
	for _, res := range dir.Register(ctx, cfg.Friends) {
		if res.Err != nil {
			log.Printf("friend at %s unavailable: %v", res.Address, res.Err)
			continue
		}
		log.Printf("registered friend %q from %s", res.Card.Name, res.Address)
	}
	obs.SetFriendsRegistered(dir.Len())

	clientCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	h := host.New(cfg.Host.Name, cal, dir, store, client,
		host.WithModel(cfg.Model),
		host.WithThinkingMessage(cfg.Host.ThinkingMessage),
		host.WithRemoteTimeout(cfg.RemoteTimeout()),
	)

	return &app{host: h, dir: dir, store: store}, nil
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case "redis":
		return session.NewRedisStore(session.RedisConfig{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
			TTL:      cfg.SessionTTL(),
		})
	default:
		return session.NewMemoryStore(), nil
	}
}
