package retell

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

const maxKnowledgeBaseNameLen = 50

// KnowledgeBaseName truncates long names to 47 characters plus "...".
func KnowledgeBaseName(businessName string) string {
	r := []rune(businessName)
	if len(r) <= maxKnowledgeBaseNameLen {
		return businessName
	}
	return string(r[:maxKnowledgeBaseNameLen-3]) + "..."
}

// ListSitemap returns the crawlable URLs of websiteURL. The platform answers
// either with a bare JSON list or with {"urls": [...]}.
func (c *Client) ListSitemap(ctx context.Context, websiteURL string) ([]string, error) {
	body, err := c.postJSON(ctx, opListSitemap, map[string]string{"website_url": websiteURL})
	if err != nil {
		return nil, err
	}

	var urls []string
	if err := json.Unmarshal(body, &urls); err != nil {
		var wrapped struct {
			URLs []string `json:"urls"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("unexpected %s response format: %w", opListSitemap, err)
		}
		urls = wrapped.URLs
	}
	if len(urls) == 0 {
		return nil, domain.ErrEmptySitemap
	}
	return urls, nil
}

// CreateKnowledgeBase crawls the site map of websiteURL into a new knowledge base.
// The create call is form-encoded, unlike every other create operation.
func (c *Client) CreateKnowledgeBase(ctx context.Context, businessName, websiteURL string) (string, error) {
	urls, err := c.ListSitemap(ctx, websiteURL)
	if err != nil {
		return "", err
	}
	c.logger.InfoContext(ctx, "Sitemap listed", "website_url", websiteURL, "url_count", len(urls))

	urlsJSON, err := json.Marshal(urls)
	if err != nil {
		return "", fmt.Errorf("failed to encode sitemap urls: %w", err)
	}
	form := url.Values{}
	form.Set("knowledge_base_name", KnowledgeBaseName(businessName))
	form.Set("knowledge_base_texts", "[]")
	form.Set("knowledge_base_urls", string(urlsJSON))
	form.Set("enable_auto_refresh", "false")
	form.Set("auto_crawling_paths", "[]")

	body, err := c.post(ctx, opCreateKB, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return "", err
	}
	id, err := decodeID(opCreateKB, body, "knowledge_base_id")
	if err != nil {
		return "", err
	}
	c.logger.InfoContext(ctx, "Knowledge base created", "knowledge_base_id", id)
	return id, nil
}
