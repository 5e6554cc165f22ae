// Package dashboard registers the customer's dashboard login.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

const operation = "dashboard-register"

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	AgentID     string `json:"agentId"`
	CompanyName string `json:"companyName"`
}

type Registrar struct {
	logger      *slog.Logger
	httpClient  *http.Client
	registerURL string
	origin      string
}

func NewRegistrar(registerURL, origin string, logger *slog.Logger, httpClient *http.Client) *Registrar {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Registrar{
		logger:      logger.With("adapter", "dashboard"),
		httpClient:  httpClient,
		registerURL: registerURL,
		origin:      strings.TrimRight(origin, "/"),
	}
}

// Register creates the dashboard account bound to the router agent.
func (r *Registrar) Register(ctx context.Context, acct domain.DashboardAccount) error {
	b, err := json.Marshal(registerRequest{
		Email:       acct.Email,
		Password:    acct.Password,
		AgentID:     acct.AgentID,
		CompanyName: acct.CompanyName,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.registerURL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("failed to create dashboard request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json")
	if r.origin != "" {
		req.Header.Set("Origin", r.origin)
		req.Header.Set("Referer", r.origin+"/")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send dashboard registration: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		r.logger.WarnContext(ctx, "Dashboard registration rejected", "status_code", resp.StatusCode, "email", acct.Email)
		return domain.NewRemoteError(operation, resp.StatusCode, body)
	}
	r.logger.InfoContext(ctx, "Dashboard account registered", "email", acct.Email, "agent_id", acct.AgentID)
	return nil
}
