package commands

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/justclara/onboarding_services/cmd/onboarding_cli/handlers"
)

func Status() *cobra.Command {
	var (
		server string
		token  string
	)

	cmd := &cobra.Command{
		Use:   "status <run-id>",
		Short: "Show the status of a provisioning run on a running service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("ONBOARDING_API_TOKEN")
			}
			client := &http.Client{Timeout: 15 * time.Second}
			return handlers.Status(cmd.Context(), client, server, token, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8000", "Onboarding service base URL")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token (default $ONBOARDING_API_TOKEN)")

	return cmd
}
