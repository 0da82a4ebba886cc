package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamhost-dev/jamhost/internal/a2a"
	obs "github.com/jamhost-dev/jamhost/pkg/observability"
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the host agent over the agent-to-agent protocol",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			log.Printf("Starting jamhost v%s on :%d", Version, cfg.Host.Port)

			app, err := wireApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.close()

			card := a2a.AgentCard{
				Name:        cfg.Host.Name,
				Description: app.host.Description(),
				URL:         fmt.Sprintf("http://localhost:%d", cfg.Host.Port),
				Version:     Version,
				Skills: []a2a.Skill{{
					ID:          "schedule_jam_session",
					Name:        "Schedule jam sessions",
					Description: "Coordinates friend availability and books the jam spot.",
					Tags:        []string{"scheduling"},
				}},
			}

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Host.Port),
				Handler:      a2a.NewHandler(app.host, card),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 120 * time.Second,
			}

			errChan := make(chan error, 2)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errChan <- fmt.Errorf("agent server error: %w", err)
				}
			}()

			var obsServer *obs.Server
			if cfg.ObservabilityPort > 0 {
				checker := obs.NewHealthChecker()
				checker.RegisterCheck(obs.PingCheck())
				checker.RegisterCheck(obs.DirectoryCheck(app.dir.Len))

				obsServer = obs.NewServer(cfg.ObservabilityPort, checker)
				go func() {
					log.Printf("Observability server on :%d", cfg.ObservabilityPort)
					if err := obsServer.Start(); err != nil && err != http.ErrServerClosed {
						errChan <- fmt.Errorf("observability server error: %w", err)
					}
				}()
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errChan:
				log.Printf("Error: %v", err)
			case <-quit:
				log.Println("Shutting down jamhost...")
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				log.Printf("agent server shutdown error: %v", err)
			}
			if obsServer != nil {
				if err := obsServer.Shutdown(ctx); err != nil {
					log.Printf("observability server shutdown error: %v", err)
				}
			}

			log.Println("jamhost stopped")
			return nil
		},
	}
}
