package commands

import (
	"github.com/spf13/cobra"

	"github.com/justclara/onboarding_services/cmd/onboarding_cli/handlers"
	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

func Create() *cobra.Command {
	var (
		in          domain.ProfileInput
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Run the provisioning pipeline locally for one business",
		Long: "Runs every provisioning step in this process using the service configuration\n" +
			"(configs/config.defaults.yaml and APP_* environment variables) and prints the result.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), in, interactive, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Business name")
	cmd.Flags().StringVar(&in.AssistantName, "assistant", domain.DefaultAssistantName, "Assistant name spoken to callers")
	cmd.Flags().StringVar(&in.Address, "address", "", "Business address")
	cmd.Flags().StringVar(&in.TimeZone, "timezone", "Eastern", "Time zone label or America/<City>")
	cmd.Flags().StringVar(&in.BusinessHours, "hours", "", "Business hours description")
	cmd.Flags().StringVar(&in.WebsiteURL, "website", "", "Business website")
	cmd.Flags().StringVar(&in.ContactPhone, "phone", "", "Business contact phone (US/Canada)")
	cmd.Flags().StringVar(&in.PreferredAreaCode, "area-code", "", "Preferred area code for the assistant number")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for the business profile")

	return cmd
}
