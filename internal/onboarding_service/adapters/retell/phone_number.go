package retell

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

type createPhoneNumberRequest struct {
	Nickname                string   `json:"nickname"`
	AreaCode                int      `json:"area_code"`
	CountryCode             string   `json:"country_code"`
	NumberProvider          string   `json:"number_provider"`
	InboundAllowedCountries []string `json:"inbound_allowed_countries"`
	InboundAgentID          string   `json:"inbound_agent_id"`
	InboundAgentVersion     int      `json:"inbound_agent_version"`
}

type createPhoneNumberResponse struct {
	PhoneNumber   string `json:"phone_number"`
	PhoneNumberID string `json:"phone_number_id"`
}

// PurchaseNumber buys one number in req.AreaCode and routes inbound calls to
// req.InboundAgentID. Each successful call reserves a real number.
func (c *Client) PurchaseNumber(ctx context.Context, req domain.NumberRequest) (*domain.PurchasedNumber, error) {
	code, err := strconv.Atoi(req.AreaCode)
	if err != nil || !domain.IsAreaCode(req.AreaCode) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAreaCode, req.AreaCode)
	}

	body, err := c.postJSON(ctx, opCreatePhone, createPhoneNumberRequest{
		Nickname:                req.BusinessName + " Number",
		AreaCode:                code,
		CountryCode:             c.opts.CountryCode,
		NumberProvider:          c.opts.NumberProvider,
		InboundAllowedCountries: []string{"US", "CA"},
		InboundAgentID:          req.InboundAgentID,
		InboundAgentVersion:     0,
	})
	if err != nil {
		return nil, err
	}

	var resp createPhoneNumberResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", opCreatePhone, err)
	}
	if resp.PhoneNumber == "" {
		return nil, fmt.Errorf("%s: %w (phone_number)", opCreatePhone, domain.ErrMissingIdentifier)
	}
	if resp.PhoneNumberID == "" {
		// the platform keys numbers by their E.164 form
		resp.PhoneNumberID = resp.PhoneNumber
	}
	return &domain.PurchasedNumber{PhoneNumber: resp.PhoneNumber, PhoneNumberID: resp.PhoneNumberID}, nil
}
