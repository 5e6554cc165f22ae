package domain

import "time"

type StepName string

const (
	StepKnowledgeBase StepName = "knowledge_base"
	StepModels        StepName = "models"
	StepAgents        StepName = "agents"
	StepCallFlow      StepName = "call_flow"
	StepRouterAgent   StepName = "router_agent"
	StepPhoneNumber   StepName = "phone_number"
	StepCredentials   StepName = "credentials"
	StepDashboard     StepName = "dashboard"
	StepPersistence   StepName = "persistence"
)

// PipelineSteps is the fixed execution order.
var PipelineSteps = []StepName{
	StepKnowledgeBase,
	StepModels,
	StepAgents,
	StepCallFlow,
	StepRouterAgent,
	StepPhoneNumber,
	StepCredentials,
	StepDashboard,
	StepPersistence,
}

type StepStatus string

const (
	StepSucceeded       StepStatus = "succeeded"
	StepFailedContinued StepStatus = "failed_continued"
	StepFailedAborted   StepStatus = "failed_aborted"
	StepSkipped         StepStatus = "skipped"
	// StepDisabled marks an optional step turned off by configuration.
	StepDisabled StepStatus = "disabled"
)

// StepRecord is one entry of a run's step log. ResourceIDs lists every remote
// resource the step created, including ones created before a failure.
type StepRecord struct {
	Step        StepName      `json:"step"`
	Status      StepStatus    `json:"status"`
	Reason      string        `json:"reason,omitempty"`
	ResourceIDs []string      `json:"resource_ids,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
}

// RunReport is the ordered step log of one pipeline run.
type RunReport struct {
	Steps []StepRecord `json:"steps"`
}

func (r *RunReport) Add(rec StepRecord) {
	r.Steps = append(r.Steps, rec)
}

// Find returns the record for step, if the step was reached.
func (r *RunReport) Find(step StepName) (StepRecord, bool) {
	for _, rec := range r.Steps {
		if rec.Step == step {
			return rec, true
		}
	}
	return StepRecord{}, false
}

// Aborted reports whether a step aborted the run.
func (r *RunReport) Aborted() bool {
	for _, rec := range r.Steps {
		if rec.Status == StepFailedAborted {
			return true
		}
	}
	return false
}

// Degraded reports whether any step failed or was skipped without aborting.
func (r *RunReport) Degraded() bool {
	for _, rec := range r.Steps {
		if rec.Status == StepFailedContinued || rec.Status == StepSkipped {
			return true
		}
	}
	return false
}

// Disabled lists the steps turned off by configuration, in order.
func (r *RunReport) Disabled() []StepName {
	var out []StepName
	for _, rec := range r.Steps {
		if rec.Status == StepDisabled {
			out = append(out, rec.Step)
		}
	}
	return out
}

// CreatedResources lists every resource id created during the run, in order.
func (r *RunReport) CreatedResources() []string {
	var ids []string
	for _, rec := range r.Steps {
		ids = append(ids, rec.ResourceIDs...)
	}
	return ids
}
