package commands

import (
	"github.com/spf13/cobra"

	"github.com/justclara/onboarding_services/cmd/onboarding_cli/handlers"
)

func AreaCodes() *cobra.Command {
	return &cobra.Command{
		Use:   "area-codes <code>",
		Short: "List the area codes tried, in order, when buying a number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.AreaCodes(args[0], cmd.OutOrStdout())
		},
	}
}
