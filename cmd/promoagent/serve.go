package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/infohub-br/promoagent/internal/httpapi"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := slog.Default()

			chatAgent, manager, store, err := buildAgent(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}

			handlers := httpapi.NewHandlers(chatAgent, manager, logger)
			server := httpapi.NewServer(cfg.ListenAddr, handlers, logger)
			return server.Run(cmd.Context())
		},
	}
	return cmd
}
