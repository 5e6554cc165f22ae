package domain

import (
	"strings"
)

const DefaultAssistantName = "Clara"

// SummaryPreference controls whether a post-call summary is sent and where.
type SummaryPreference struct {
	Enabled     bool   `json:"enabled"`
	Destination string `json:"destination,omitempty"`
}

// BusinessProfile is the immutable input of a provisioning run.
type BusinessProfile struct {
	Name          string            `json:"name"`
	AssistantName string            `json:"assistant_name"`
	Address       string            `json:"address"`
	TimeZone      string            `json:"time_zone"`  // label, e.g. "Eastern"
	TimePlace     string            `json:"time_place"` // IANA city part, e.g. "New_York"
	BusinessHours string            `json:"business_hours"`
	WebsiteURL    string            `json:"website_url"`
	ContactPhone  string            `json:"contact_phone"` // E.164
	AreaCode      string            `json:"area_code"`
	SMSSummary    SummaryPreference `json:"sms_summary"`
	EmailSummary  SummaryPreference `json:"email_summary"`
}

// ProfileInput carries raw, user-entered values before normalisation.
type ProfileInput struct {
	Name              string
	AssistantName     string
	Address           string
	TimeZone          string
	BusinessHours     string
	WebsiteURL        string
	ContactPhone      string
	PreferredAreaCode string
	SMSSummary        SummaryPreference
	EmailSummary      SummaryPreference
}

// NewBusinessProfile validates and normalises raw input.
// ContactPhone must be a US/Canada number. The area code comes from
// PreferredAreaCode when it is a valid 3-digit code, otherwise from ContactPhone.
func NewBusinessProfile(in ProfileInput) (BusinessProfile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return BusinessProfile{}, ErrMissingBusinessName
	}

	phone, err := NormalizePhone(in.ContactPhone)
	if err != nil {
		return BusinessProfile{}, err
	}

	areaCode := strings.TrimSpace(in.PreferredAreaCode)
	if !IsAreaCode(areaCode) {
		if areaCode, err = ExtractAreaCode(phone); err != nil {
			return BusinessProfile{}, err
		}
	}

	assistant := strings.TrimSpace(in.AssistantName)
	if assistant == "" {
		assistant = DefaultAssistantName
	}

	label, place := ResolveTimeZone(in.TimeZone)

	return BusinessProfile{
		Name:          name,
		AssistantName: assistant,
		Address:       strings.TrimSpace(in.Address),
		TimeZone:      label,
		TimePlace:     place,
		BusinessHours: strings.TrimSpace(in.BusinessHours),
		WebsiteURL:    NormalizeWebsiteURL(in.WebsiteURL),
		ContactPhone:  phone,
		AreaCode:      areaCode,
		SMSSummary:    in.SMSSummary,
		EmailSummary:  in.EmailSummary,
	}, nil
}

// IANATimeZone returns e.g. "America/Chicago".
func (p BusinessProfile) IANATimeZone() string {
	return "America/" + p.TimePlace
}

// NormalizeWebsiteURL defaults the scheme to https.
func NormalizeWebsiteURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return u
	}
	return "https://" + u
}
