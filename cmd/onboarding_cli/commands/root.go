// Package commands defines the CLI command tree and flag bindings.
// Execution is delegated to the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the onboarding CLI root command.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "onboarding",
		Short:         "Provision voice assistants for small businesses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Create())
	cmd.AddCommand(Status())
	cmd.AddCommand(AreaCodes())

	return cmd
}
