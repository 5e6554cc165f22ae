package app

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

// troubleshootingTips maps a failed run's error to operator hints.
func troubleshootingTips(err error) []string {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())

	var remote *domain.RemoteError
	status := 0
	if errors.As(err, &remote) {
		status = remote.StatusCode
	}

	switch {
	case strings.Contains(msg, "too long"):
		return []string{
			"Use a shorter company name (max 50 characters)",
			"Remove special characters from the company name",
			"Try abbreviations or acronyms",
		}
	case strings.Contains(msg, "sitemap"):
		return []string{
			"Check that the website publishes a valid sitemap.xml",
			"Verify the website URL is reachable",
			"Try a different website URL",
		}
	case status == http.StatusUnauthorized || status == http.StatusForbidden || strings.Contains(msg, "unauthorized"):
		return []string{
			"Check the Retell API token configuration",
			"Verify the API token has the required permissions",
			"Contact support about API access",
		}
	case status == http.StatusTooManyRequests || strings.Contains(msg, "quota") || strings.Contains(msg, "limit"):
		return []string{
			"The provider rate limit or quota was reached",
			"Wait a few minutes before retrying",
			"Check the account plan limits",
		}
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "timeout"):
		return []string{
			"The provisioning platform did not answer in time",
			"Try again in a few minutes",
		}
	default:
		return []string{
			"Check your internet connection",
			"Verify all form fields are filled correctly",
			"Try again in a few minutes",
			"Contact support if the problem persists",
		}
	}
}
