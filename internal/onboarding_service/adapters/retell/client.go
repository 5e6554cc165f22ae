// Package retell is the REST client for the Retell conversational-AI platform.
package retell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

const (
	opListSitemap      = "list-sitemap"
	opCreateKB         = "create-knowledge-base"
	opCreateLLM        = "create-retell-llm"
	opCreateAgent      = "create-agent"
	opCreateFlow       = "create-conversation-flow"
	opCreatePhone      = "create-phone-number"
	defaultBaseURL     = "https://api.retellai.com"
	defaultHTTPTimeout = 60 * time.Second
)

type Options struct {
	BaseURL          string
	APIToken         string
	OrgID            string // sent as the orgid header when set
	NumberProvider   string
	CountryCode      string
	AddressToolURL   string
	AddressToolToken string
}

type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	opts       Options
	templates  map[string]*payloadTemplate
}

// NewClient builds a client. A nil httpClient gets a 60s timeout.
func NewClient(opts Options, logger *slog.Logger, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.NumberProvider == "" {
		opts.NumberProvider = "twilio"
	}
	if opts.CountryCode == "" {
		opts.CountryCode = "US"
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &Client{
		logger:     logger.With("adapter", "retell"),
		httpClient: httpClient,
		opts:       opts,
		templates:  templates,
	}, nil
}

// post performs one request of the create micro-protocol: bearer auth,
// success on 200 or 201, anything else becomes a *domain.RemoteError.
func (c *Client) post(ctx context.Context, op string, body io.Reader, contentType string) ([]byte, error) {
	url := c.opts.BaseURL + "/" + op
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.APIToken)
	req.Header.Set("Content-Type", contentType)
	if c.opts.OrgID != "" {
		req.Header.Set("orgid", c.opts.OrgID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(op, "transport_error").Inc()
		c.logger.WarnContext(ctx, "Retell request failed", "operation", op, "error", err)
		return nil, fmt.Errorf("failed to send %s request: %w", op, err)
	}
	defer resp.Body.Close()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response (status %d): %w", op, resp.StatusCode, err)
	}
	c.logger.DebugContext(ctx, "Retell response", "operation", op, "status_code", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, domain.NewRemoteError(op, resp.StatusCode, respBody)
	}
	return respBody, nil
}

func (c *Client) postJSON(ctx context.Context, op string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", op, err)
	}
	return c.post(ctx, op, bytes.NewReader(b), "application/json")
}

// create posts payload and reads the new resource's id from idField.
func (c *Client) create(ctx context.Context, op string, payload any, idField string) (string, error) {
	body, err := c.postJSON(ctx, op, payload)
	if err != nil {
		return "", err
	}
	return decodeID(op, body, idField)
}

func decodeID(op string, body []byte, idField string) (string, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	id, _ := fields[idField].(string)
	if id == "" {
		return "", fmt.Errorf("%s: %w (%s)", op, domain.ErrMissingIdentifier, idField)
	}
	return id, nil
}

func (c *Client) renderTemplate(name string, v vars) (map[string]any, error) {
	t, ok := c.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown payload template %q", name)
	}
	return t.render(v)
}
