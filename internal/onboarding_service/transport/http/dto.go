package http

import "github.com/justclara/onboarding_services/internal/onboarding_service/domain"

// CreateRunRequest is the onboarding form as posted by the website.
type CreateRunRequest struct {
	CompanyName         string   `json:"company_name" validate:"required,max=200"`
	AssistantName       string   `json:"assistant_name,omitempty" validate:"omitempty,max=50"`
	BusinessAddress     string   `json:"business_address" validate:"required"`
	TimeZone            string   `json:"timezone" validate:"required"`
	BusinessHours       string   `json:"business_hours" validate:"required"`
	WebsiteURL          string   `json:"website_url,omitempty"`
	Websites            []string `json:"websites,omitempty"`
	PrimaryPhoneNumber  string   `json:"primary_phone_number" validate:"required"`
	PreferredAreaCode   string   `json:"preferred_area_code,omitempty" validate:"omitempty,len=3,numeric"`
	PostCallSummarySMS  bool     `json:"post_call_summary_sms,omitempty"`
	SummarySMSNumber    string   `json:"summary_sms_number,omitempty"`
	PostCallSummaryMail bool     `json:"post_call_summary_email,omitempty"`
	SummaryEmailAddress string   `json:"summary_email_address,omitempty" validate:"omitempty,email"`
}

// ProfileInput maps the form onto the domain input. The first entry of
// Websites is used when WebsiteURL is empty.
func (r CreateRunRequest) ProfileInput() domain.ProfileInput {
	website := r.WebsiteURL
	if website == "" && len(r.Websites) > 0 {
		website = r.Websites[0]
	}
	return domain.ProfileInput{
		Name:              r.CompanyName,
		AssistantName:     r.AssistantName,
		Address:           r.BusinessAddress,
		TimeZone:          r.TimeZone,
		BusinessHours:     r.BusinessHours,
		WebsiteURL:        website,
		ContactPhone:      r.PrimaryPhoneNumber,
		PreferredAreaCode: r.PreferredAreaCode,
		SMSSummary:        domain.SummaryPreference{Enabled: r.PostCallSummarySMS, Destination: r.SummarySMSNumber},
		EmailSummary:      domain.SummaryPreference{Enabled: r.PostCallSummaryMail, Destination: r.SummaryEmailAddress},
	}
}

type CreateRunResponse struct {
	Success bool   `json:"success"`
	RunID   string `json:"run_id"`
	Message string `json:"message"`
}

// RunStatusResponse is the run record plus the success flag the website reads.
type RunStatusResponse struct {
	Success bool `json:"success"`
	*domain.Run
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
