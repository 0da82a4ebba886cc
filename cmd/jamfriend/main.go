// jamfriend runs one friend agent: a randomized weekly availability calendar
// served over the agent-to-agent protocol.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamhost-dev/jamhost/internal/a2a"
	"github.com/jamhost-dev/jamhost/internal/friend"
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
	var (
		name        string
		description string
		port        int
		seed        int64
		windowDays  int
	)

	rootCmd := &cobra.Command{
		Use:          "jamfriend",
		Short:        "Serve a friend agent that answers availability questions",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if description == "" {
				description = fmt.Sprintf("%s's scheduling assistant for jam sessions", name)
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			cal := friend.NewCalendar(name, time.Now(), windowDays, rand.New(rand.NewSource(seed)))
			agent := friend.NewAgent(name, description, cal)

			card := a2a.AgentCard{
				Name:        name,
				Description: description,
				URL:         fmt.Sprintf("http://localhost:%d", port),
				Version:     Version,
				Skills: []a2a.Skill{{
					ID:          "check_availability",
					Name:        "Check availability",
					Description: "Answers whether " + name + " is free for a jam session on given dates.",
					Tags:        []string{"scheduling"},
				}},
			}

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", port),
				Handler:      a2a.NewHandler(agent, card),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			}

			errChan := make(chan error, 1)
			go func() {
				log.Printf("Friend agent %q listening on :%d", name, port)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errChan <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errChan:
				return err
			case <-quit:
				log.Printf("Shutting down %s...", name)
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}

	rootCmd.Flags().StringVar(&name, "name", "Cartola", "friend agent name")
	rootCmd.Flags().StringVar(&description, "description", "", "agent card description")
	rootCmd.Flags().IntVar(&port, "port", 10002, "listen port")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the availability calendar (0 = time-based)")
	rootCmd.Flags().IntVar(&windowDays, "window-days", 7, "days of availability to generate")

	return rootCmd
}
