package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

type statusResponse struct {
	Success bool `json:"success"`
	domain.Run
}

// Status fetches a run from the service's versioned status endpoint.
func Status(ctx context.Context, client *http.Client, server, token, runID string, out io.Writer) error {
	endpoint := strings.TrimRight(server, "/") + "/api/v1/onboarding/runs/" + url.PathEscape(runID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create status request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode status response (HTTP %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
	}

	printRun(out, &body.Run)
	return nil
}
