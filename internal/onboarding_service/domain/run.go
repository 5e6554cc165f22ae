package domain

import "time"

type RunStatus string

const (
	RunPending                RunStatus = "pending"
	RunInProgress             RunStatus = "in_progress"
	RunCompleted              RunStatus = "completed"
	RunCompletedWithOmissions RunStatus = "completed_with_omissions"
	RunFailed                 RunStatus = "failed"
)

// Finished reports whether the run reached a terminal status.
func (s RunStatus) Finished() bool {
	return s == RunCompleted || s == RunCompletedWithOmissions || s == RunFailed
}

// Run is the pollable status record of one provisioning run.
type Run struct {
	ID                  string              `json:"run_id"`
	CompanyName         string              `json:"company_name"`
	Status              RunStatus           `json:"status"`
	Stage               StepName            `json:"stage,omitempty"`
	Progress            int                 `json:"progress"`
	Message             string              `json:"message"`
	Result              *ProvisioningResult `json:"result,omitempty"`
	Steps               []StepRecord        `json:"steps,omitempty"`
	Omissions           []string            `json:"omissions,omitempty"`
	Error               string              `json:"error,omitempty"`
	FailedStep          StepName            `json:"failed_step,omitempty"`
	TroubleshootingTips []string            `json:"troubleshooting_tips,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

func NewRun(id, companyName string, now time.Time) *Run {
	return &Run{
		ID:          id,
		CompanyName: companyName,
		Status:      RunPending,
		Message:     "Queued",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy so stores never share slices with callers.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	c := *r
	if r.Result != nil {
		res := *r.Result
		c.Result = &res
	}
	c.Steps = append([]StepRecord(nil), r.Steps...)
	for i := range c.Steps {
		c.Steps[i].ResourceIDs = append([]string(nil), r.Steps[i].ResourceIDs...)
	}
	c.Omissions = append([]string(nil), r.Omissions...)
	c.TroubleshootingTips = append([]string(nil), r.TroubleshootingTips...)
	return &c
}
