package domain

// ProvisioningResult accumulates the identifiers created by one run.
// An empty string means the step that owns the field failed or was skipped.
type ProvisioningResult struct {
	KnowledgeBaseID     string `json:"knowledge_base_id,omitempty"`
	OfficeHoursModelID  string `json:"office_hours_llm_id,omitempty"`
	OfficeHoursAgentID  string `json:"office_hours_agent_id,omitempty"`
	AfterHoursModelID   string `json:"after_hours_llm_id,omitempty"`
	AfterHoursAgentID   string `json:"after_hours_agent_id,omitempty"`
	CallFlowID          string `json:"conversation_flow_id,omitempty"`
	RouterAgentID       string `json:"main_router_agent_id,omitempty"`
	PhoneNumber         string `json:"phone_number,omitempty"`
	PhoneNumberID       string `json:"phone_number_id,omitempty"`
	AreaCodeUsed        string `json:"area_code_used,omitempty"`
	DashboardEmail      string `json:"dashboard_email,omitempty"`
	DashboardPassword   string `json:"dashboard_password,omitempty"`
	DashboardRegistered bool   `json:"dashboard_registered"`
	PersistedRecordID   string `json:"company_id,omitempty"`
}

// disabledFields are the result fields owned by steps that configuration can turn off.
var disabledFields = map[StepName]string{
	StepDashboard:   "dashboard_registration",
	StepPersistence: "company_id",
}

// Omissions lists the result fields a run could not populate, in step order.
func (r ProvisioningResult) Omissions() []string {
	return r.OmissionsExcept()
}

// OmissionsExcept is Omissions without the fields owned by the disabled steps.
func (r ProvisioningResult) OmissionsExcept(disabled ...StepName) []string {
	skip := make(map[string]bool, len(disabled))
	for _, step := range disabled {
		if f, ok := disabledFields[step]; ok {
			skip[f] = true
		}
	}
	var out []string
	add := func(name string) {
		if !skip[name] {
			out = append(out, name)
		}
	}
	check := func(name, v string) {
		if v == "" {
			add(name)
		}
	}
	check("knowledge_base_id", r.KnowledgeBaseID)
	check("office_hours_llm_id", r.OfficeHoursModelID)
	check("after_hours_llm_id", r.AfterHoursModelID)
	check("office_hours_agent_id", r.OfficeHoursAgentID)
	check("after_hours_agent_id", r.AfterHoursAgentID)
	check("conversation_flow_id", r.CallFlowID)
	check("main_router_agent_id", r.RouterAgentID)
	check("phone_number", r.PhoneNumber)
	check("dashboard_email", r.DashboardEmail)
	if !r.DashboardRegistered {
		add("dashboard_registration")
	}
	check("company_id", r.PersistedRecordID)
	return out
}

// Credentials are the dashboard login derived from the business name.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PromptSet holds the rendered prompts for one business.
type PromptSet struct {
	Global      string `json:"global_prompt"`
	OfficeHours string `json:"office_hours_prompt"`
	AfterHours  string `json:"after_hours_prompt"`
}
