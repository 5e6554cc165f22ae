// Package bootstrap assembles the provisioning pipeline from configuration.
// Both the HTTP service and the CLI build their pipeline here.
package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/justclara/onboarding_services/internal/onboarding_service/adapters/dashboard"
	"github.com/justclara/onboarding_services/internal/onboarding_service/adapters/retell"
	"github.com/justclara/onboarding_services/internal/onboarding_service/app"
	"github.com/justclara/onboarding_services/internal/onboarding_service/areacode"
	"github.com/justclara/onboarding_services/internal/onboarding_service/credentials"
	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
	"github.com/justclara/onboarding_services/internal/onboarding_service/prompts"
	"github.com/justclara/onboarding_services/internal/platform/config"
)

// NewPipeline wires the Retell client, phone acquisition, prompts, credentials
// and dashboard registration. repo may be nil, in which case persistence is skipped.
func NewPipeline(cfg *config.Config, repo domain.ProvisioningRepository, logger *slog.Logger) (*app.Pipeline, error) {
	httpClient := &http.Client{Timeout: cfg.RemoteTimeout()}

	platform, err := retell.NewClient(retell.Options{
		BaseURL:          cfg.RetellBaseURL,
		APIToken:         cfg.RetellAPIToken,
		OrgID:            cfg.RetellOrgID,
		NumberProvider:   cfg.NumberProvider,
		CountryCode:      cfg.PhoneCountryCode,
		AddressToolURL:   cfg.AddressToolURL,
		AddressToolToken: cfg.AddressToolToken,
	}, logger, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create retell client: %w", err)
	}

	renderer, err := prompts.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	deps := app.PipelineDeps{
		Platform:    platform,
		Phones:      app.NewPhoneAcquirer(platform, areacode.NewResolver(), logger),
		Credentials: credentials.NewGenerator(cfg.CredentialsEmailDomain),
		Prompts:     renderer,
		Repository:  repo,
		Logger:      logger,
	}
	if cfg.DashboardRegisterURL != "" {
		deps.Dashboard = dashboard.NewRegistrar(cfg.DashboardRegisterURL, cfg.DashboardOrigin, logger, httpClient)
	} else {
		logger.Warn("DASHBOARD_REGISTER_URL not set; dashboard registration will be skipped")
	}
	return app.NewPipeline(deps), nil
}
