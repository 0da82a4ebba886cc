package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jamhost-dev/jamhost/internal/host"
)

func newChatCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the host agent from an interactive prompt",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			app, err := wireApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.close()

			if app.dir.Len() == 0 {
				log.Println("warning: no friend agents reachable; scheduling will be limited")
			}

			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)

			sessionID := uuid.New().String()
			fmt.Println("Ask the host agent to plan a jam session. Type \"exit\" to quit.")

			for {
				input, err := line.Prompt("jam> ")
				if err != nil {
					if errors.Is(err, liner.ErrPromptAborted) {
						fmt.Println()
						return nil
					}
					return err
				}

				input = strings.TrimSpace(input)
				if input == "" {
					continue
				}
				if input == "exit" || input == "quit" {
					return nil
				}
				line.AppendHistory(input)

				for event := range app.host.Stream(cmd.Context(), input, sessionID) {
					switch event.Kind {
					case host.EventThinking:
						fmt.Printf("  ... %s\n", event.Text)
					case host.EventFinal:
						fmt.Printf("\n%s\n\n", event.Text)
					}
				}
			}
		},
	}
}
