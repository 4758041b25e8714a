package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/infohub-br/promoagent/internal/cli"
	"github.com/infohub-br/promoagent/internal/model"
)

func chatCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the agent from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := slog.Default()

			chatAgent, _, store, err := buildAgent(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			sessionID := uuid.NewString()
			fmt.Println(cli.TitleStyle.Render("🛒 promoagent"))
			fmt.Println(cli.MetaStyle.Render("Pergunte sobre promoções. Digite /sair para encerrar."))

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print(cli.PromptStyle.Render("você> "))
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "/sair" || line == "/quit" {
					break
				}

				resp, err := chatAgent.Process(cmd.Context(), model.ChatRequest{
					Message:   line,
					SessionID: sessionID,
					UserID:    userID,
				})
				if err != nil {
					fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("erro: %v", err)))
					continue
				}

				fmt.Println(cli.ReplyStyle.Render(resp.Reply))
				fmt.Println(cli.MetaStyle.Render(fmt.Sprintf("[%s · %s · %dms]",
					resp.Metadata.Intent, resp.Metadata.Method, resp.Metadata.ResponseTimeMs)))
			}

			fmt.Println(cli.MetaStyle.Render("Até logo!"))
			return scanner.Err()
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id for offer lookups")
	return cmd
}
