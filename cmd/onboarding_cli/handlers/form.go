package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

var timeZoneOptions = []huh.Option[string]{
	huh.NewOption("Eastern", "Eastern"),
	huh.NewOption("Central", "Central"),
	huh.NewOption("Mountain", "Mountain"),
	huh.NewOption("Pacific", "Pacific"),
	huh.NewOption("Alaska", "Alaska"),
	huh.NewOption("Hawaii", "Hawaii"),
}

// promptProfile asks for the business profile. Values already set from flags
// are shown as the initial answers.
func promptProfile(ctx context.Context, in *domain.ProfileInput) error {
	if in.TimeZone == "" {
		in.TimeZone = "Eastern"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Business Name").
				Placeholder("Acme Plumbing").
				Value(&in.Name).
				Validate(required("business name")),
			huh.NewInput().
				Title("Assistant Name").
				Description("The name the assistant introduces itself with").
				Placeholder(domain.DefaultAssistantName).
				Value(&in.AssistantName),
			huh.NewInput().
				Title("Address").
				Value(&in.Address),
			huh.NewInput().
				Title("Website").
				Description("Used to build the knowledge base from its sitemap").
				Placeholder("acmeplumbing.com").
				Value(&in.WebsiteURL).
				Validate(required("website")),
		).Title("Business"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Time Zone").
				Options(timeZoneOptions...).
				Value(&in.TimeZone),
			huh.NewInput().
				Title("Business Hours").
				Placeholder("Mon-Fri 8am-5pm").
				Value(&in.BusinessHours).
				Validate(required("business hours")),
		).Title("Hours"),
		huh.NewGroup(
			huh.NewInput().
				Title("Contact Phone").
				Description("US or Canada number").
				Placeholder("(213) 555-0142").
				Value(&in.ContactPhone).
				Validate(validatePhone),
			huh.NewInput().
				Title("Preferred Area Code (Optional)").
				Description("Defaults to the contact phone's area code").
				Value(&in.PreferredAreaCode).
				Validate(validateOptionalAreaCode),
		).Title("Phone"),
	).RunWithContext(ctx)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validatePhone(s string) error {
	_, err := domain.NormalizePhone(s)
	return err
}

func validateOptionalAreaCode(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || domain.IsAreaCode(s) {
		return nil
	}
	return domain.ErrInvalidAreaCode
}
