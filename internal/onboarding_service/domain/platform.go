package domain

// Shift selects the office-hours or after-hours variant of a model or agent.
type Shift string

const (
	ShiftOfficeHours Shift = "office_hours"
	ShiftAfterHours  Shift = "after_hours"
)

// Label is the suffix used in remote resource names.
func (s Shift) Label() string {
	if s == ShiftAfterHours {
		return "After Hours"
	}
	return "Office Hours"
}

type ModelRequest struct {
	Shift           Shift
	BusinessName    string
	Prompt          string
	KnowledgeBaseID string
	TransferNumber  string // E.164 number for the transfer_call tool
}

type AgentRequest struct {
	Shift           Shift
	BusinessName    string
	ModelID         string
	KnowledgeBaseID string
}

type CallFlowRequest struct {
	BusinessName       string
	TimePlace          string
	BusinessHours      string
	GlobalPrompt       string
	OfficeHoursAgentID string
	AfterHoursAgentID  string
}

type RouterAgentRequest struct {
	BusinessName string
	CallFlowID   string
}

type NumberRequest struct {
	BusinessName   string
	AreaCode       string
	InboundAgentID string
}

type PurchasedNumber struct {
	PhoneNumber   string
	PhoneNumberID string
}

// AcquiredNumber is a purchased number plus the area code that yielded it.
type AcquiredNumber struct {
	PhoneNumber   string
	PhoneNumberID string
	AreaCodeUsed  string
}

// DashboardAccount is posted to the dashboard registration endpoint.
type DashboardAccount struct {
	Email       string
	Password    string
	AgentID     string
	CompanyName string
}

// ProvisioningRecord is everything the persistence step writes.
type ProvisioningRecord struct {
	Profile BusinessProfile
	Result  ProvisioningResult
	Prompts PromptSet
}
