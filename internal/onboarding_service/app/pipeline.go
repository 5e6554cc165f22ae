package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/justclara/onboarding_services/internal/onboarding_service/credentials"
	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

// Platform creates the voice-agent resources of one business.
type Platform interface {
	CreateKnowledgeBase(ctx context.Context, businessName, websiteURL string) (string, error)
	CreateModel(ctx context.Context, req domain.ModelRequest) (string, error)
	CreateAgent(ctx context.Context, req domain.AgentRequest) (string, error)
	CreateCallFlow(ctx context.Context, req domain.CallFlowRequest) (string, error)
	CreateRouterAgent(ctx context.Context, req domain.RouterAgentRequest) (string, error)
}

type PhoneProvisioner interface {
	Acquire(ctx context.Context, businessName, areaCode, inboundAgentID string) (*domain.AcquiredNumber, error)
}

type CredentialGenerator interface {
	Generate(businessName string) domain.Credentials
}

type PromptRenderer interface {
	Render(p domain.BusinessProfile) domain.PromptSet
}

type DashboardRegistrar interface {
	Register(ctx context.Context, acct domain.DashboardAccount) error
}

// Observer is told about every step boundary. partial is the result as known
// after the step, so a status record can show progress before the run ends.
type Observer interface {
	StepStarted(ctx context.Context, step domain.StepName)
	StepFinished(ctx context.Context, rec domain.StepRecord, partial domain.ProvisioningResult)
}

type nopObserver struct{}

func (nopObserver) StepStarted(context.Context, domain.StepName) {}
func (nopObserver) StepFinished(context.Context, domain.StepRecord, domain.ProvisioningResult) {}

type failurePolicy int

const (
	abortRun failurePolicy = iota
	continueRun
)

// stepPolicies decides what a failed outcome does to the run.
var stepPolicies = map[domain.StepName]failurePolicy{
	domain.StepKnowledgeBase: abortRun,
	domain.StepModels:        abortRun,
	domain.StepAgents:        abortRun,
	domain.StepCallFlow:      continueRun,
	domain.StepRouterAgent:   continueRun,
	domain.StepPhoneNumber:   continueRun,
	domain.StepCredentials:   abortRun,
	domain.StepDashboard:     continueRun,
	domain.StepPersistence:   continueRun,
}

const defaultPersistTimeout = 30 * time.Second

// PipelineDeps wires a Pipeline. Dashboard and Repository are optional; a nil
// value makes the matching step report Disabled.
type PipelineDeps struct {
	Platform       Platform
	Phones         PhoneProvisioner
	Credentials    CredentialGenerator
	Prompts        PromptRenderer
	Dashboard      DashboardRegistrar
	Repository     domain.ProvisioningRepository
	PersistTimeout time.Duration
	Logger         *slog.Logger
}

// Pipeline runs the provisioning steps for one business, in order.
type Pipeline struct {
	deps   PipelineDeps
	logger *slog.Logger
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.PersistTimeout <= 0 {
		deps.PersistTimeout = defaultPersistTimeout
	}
	return &Pipeline{deps: deps, logger: deps.Logger.With("component", "provisioning_pipeline")}
}

type runState struct {
	profile domain.BusinessProfile
	prompts domain.PromptSet
	result  domain.ProvisioningResult
	report  domain.RunReport
	created []string
}

// track records a remote resource created by the current step.
func (st *runState) track(id string) {
	if id != "" {
		st.created = append(st.created, id)
	}
}

type modelIDs struct{ officeHours, afterHours string }
type agentIDs struct{ officeHours, afterHours string }

// Run executes every step. When a structural step fails the returned result is
// nil and err is a *domain.StructuralFailure; the report is returned either way.
func (p *Pipeline) Run(ctx context.Context, profile domain.BusinessProfile, obs Observer) (*domain.ProvisioningResult, *domain.RunReport, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	st := &runState{profile: profile, prompts: p.deps.Prompts.Render(profile)}
	logger := p.logger.With("business", profile.Name)
	logger.InfoContext(ctx, "Provisioning run started", "area_code", profile.AreaCode)

	steps := []func() error{
		func() error {
			return runStep(ctx, p, st, obs, domain.StepKnowledgeBase, p.createKnowledgeBase,
				func(r *domain.ProvisioningResult, id string) { r.KnowledgeBaseID = id })
		},
		func() error {
			return runStep(ctx, p, st, obs, domain.StepModels, p.createModels,
				func(r *domain.ProvisioningResult, ids modelIDs) {
					r.OfficeHoursModelID, r.AfterHoursModelID = ids.officeHours, ids.afterHours
				})
		},
		func() error {
			return runStep(ctx, p, st, obs, domain.StepAgents, p.createAgents,
				func(r *domain.ProvisioningResult, ids agentIDs) {
					r.OfficeHoursAgentID, r.AfterHoursAgentID = ids.officeHours, ids.afterHours
				})
		},
		func() error {
			return runStep(ctx, p, st, obs, domain.StepCallFlow, p.createCallFlow,
				func(r *domain.ProvisioningResult, id string) { r.CallFlowID = id })
		},
		func() error {
			return runStep(ctx, p, st, obs, domain.StepRouterAgent, p.createRouterAgent,
				func(r *domain.ProvisioningResult, id string) { r.RouterAgentID = id })
		},
		func() error {
			return runStep(ctx, p, st, obs, domain.StepPhoneNumber, p.acquirePhoneNumber,
				func(r *domain.ProvisioningResult, n *domain.AcquiredNumber) {
					r.PhoneNumber, r.PhoneNumberID, r.AreaCodeUsed = n.PhoneNumber, n.PhoneNumberID, n.AreaCodeUsed
				})
		},
		func() error {
			return runStep(ctx, p, st, obs, domain.StepCredentials, p.generateCredentials,
				func(r *domain.ProvisioningResult, c domain.Credentials) {
					r.DashboardEmail, r.DashboardPassword = c.Email, c.Password
				})
		},
		func() error {
			return runStep(ctx, p, st, obs, domain.StepDashboard, p.registerDashboard,
				func(r *domain.ProvisioningResult, _ struct{}) { r.DashboardRegistered = true })
		},
		func() error {
			return runStep(ctx, p, st, obs, domain.StepPersistence, p.persist,
				func(r *domain.ProvisioningResult, id string) { r.PersistedRecordID = id })
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			logger.ErrorContext(ctx, "Provisioning run aborted",
				"error", err, "created_resources", st.report.CreatedResources())
			return nil, &st.report, err
		}
	}

	result := st.result
	logger.InfoContext(ctx, "Provisioning run finished",
		"router_agent_id", result.RouterAgentID,
		"phone_number", result.PhoneNumber,
		"degraded", st.report.Degraded(),
		"disabled_steps", st.report.Disabled(),
		"omissions", result.OmissionsExcept(st.report.Disabled()...))
	return &result, &st.report, nil
}

// runStep executes one step, applies its payload on success and enforces the
// step's failure policy. It returns an error only when the run must abort.
func runStep[T any](
	ctx context.Context,
	p *Pipeline,
	st *runState,
	obs Observer,
	step domain.StepName,
	fn func(context.Context, *runState) domain.StepOutcome[T],
	apply func(*domain.ProvisioningResult, T),
) error {
	obs.StepStarted(ctx, step)
	if reason, off := p.disabledReason(step); off {
		rec := domain.StepRecord{Step: step, Status: domain.StepDisabled, Reason: reason}
		p.logger.DebugContext(ctx, "Step disabled", "step", step, "reason", reason)
		stepOutcomesCounter.WithLabelValues(string(step), string(rec.Status)).Inc()
		st.report.Add(rec)
		obs.StepFinished(ctx, rec, st.result)
		return nil
	}
	st.created = nil
	start := time.Now()

	out := fn(ctx, st)

	rec := domain.StepRecord{
		Step:        step,
		ResourceIDs: st.created,
		Duration:    time.Since(start),
	}
	var abortErr error

	switch out.Kind() {
	case domain.OutcomeSucceeded:
		v, _ := out.Value()
		apply(&st.result, v)
		rec.Status = domain.StepSucceeded
	case domain.OutcomeSkipped:
		rec.Status = domain.StepSkipped
		rec.Reason = out.Reason()
		p.logger.InfoContext(ctx, "Step skipped", "step", step, "reason", rec.Reason)
	default:
		rec.Reason = out.Reason()
		if stepPolicies[step] == continueRun {
			rec.Status = domain.StepFailedContinued
			p.logger.WarnContext(ctx, "Step failed, continuing without its output",
				"step", step, "error", &domain.DegradedFailure{Step: step, Err: out.Err()})
		} else {
			rec.Status = domain.StepFailedAborted
			abortErr = &domain.StructuralFailure{Step: step, Err: out.Err()}
		}
	}

	stepOutcomesCounter.WithLabelValues(string(step), string(rec.Status)).Inc()
	stepDurationHist.WithLabelValues(string(step)).Observe(rec.Duration.Seconds())

	st.report.Add(rec)
	obs.StepFinished(ctx, rec, st.result)
	return abortErr
}

// disabledReason reports whether configuration turned step off.
func (p *Pipeline) disabledReason(step domain.StepName) (string, bool) {
	switch {
	case step == domain.StepDashboard && p.deps.Dashboard == nil:
		return "dashboard registration not configured", true
	case step == domain.StepPersistence && p.deps.Repository == nil:
		return "no repository configured", true
	}
	return "", false
}

func (p *Pipeline) createKnowledgeBase(ctx context.Context, st *runState) domain.StepOutcome[string] {
	id, err := p.deps.Platform.CreateKnowledgeBase(ctx, st.profile.Name, st.profile.WebsiteURL)
	if err != nil {
		return domain.Failed[string](err)
	}
	st.track(id)
	return domain.Succeeded(id)
}

func (p *Pipeline) createModels(ctx context.Context, st *runState) domain.StepOutcome[modelIDs] {
	var ids modelIDs
	for _, m := range []struct {
		shift  domain.Shift
		prompt string
		dst    *string
	}{
		{domain.ShiftOfficeHours, st.prompts.OfficeHours, &ids.officeHours},
		{domain.ShiftAfterHours, st.prompts.AfterHours, &ids.afterHours},
	} {
		id, err := p.deps.Platform.CreateModel(ctx, domain.ModelRequest{
			Shift:           m.shift,
			BusinessName:    st.profile.Name,
			Prompt:          m.prompt,
			KnowledgeBaseID: st.result.KnowledgeBaseID,
			TransferNumber:  st.profile.ContactPhone,
		})
		if err != nil {
			return domain.Failed[modelIDs](err)
		}
		st.track(id)
		*m.dst = id
	}
	return domain.Succeeded(ids)
}

func (p *Pipeline) createAgents(ctx context.Context, st *runState) domain.StepOutcome[agentIDs] {
	var ids agentIDs
	for _, a := range []struct {
		shift   domain.Shift
		modelID string
		dst     *string
	}{
		{domain.ShiftOfficeHours, st.result.OfficeHoursModelID, &ids.officeHours},
		{domain.ShiftAfterHours, st.result.AfterHoursModelID, &ids.afterHours},
	} {
		id, err := p.deps.Platform.CreateAgent(ctx, domain.AgentRequest{
			Shift:           a.shift,
			BusinessName:    st.profile.Name,
			ModelID:         a.modelID,
			KnowledgeBaseID: st.result.KnowledgeBaseID,
		})
		if err != nil {
			return domain.Failed[agentIDs](err)
		}
		st.track(id)
		*a.dst = id
	}
	return domain.Succeeded(ids)
}

func (p *Pipeline) createCallFlow(ctx context.Context, st *runState) domain.StepOutcome[string] {
	id, err := p.deps.Platform.CreateCallFlow(ctx, domain.CallFlowRequest{
		BusinessName:       st.profile.Name,
		TimePlace:          st.profile.TimePlace,
		BusinessHours:      st.profile.BusinessHours,
		GlobalPrompt:       st.prompts.Global,
		OfficeHoursAgentID: st.result.OfficeHoursAgentID,
		AfterHoursAgentID:  st.result.AfterHoursAgentID,
	})
	if err != nil {
		return domain.Failed[string](err)
	}
	st.track(id)
	return domain.Succeeded(id)
}

func (p *Pipeline) createRouterAgent(ctx context.Context, st *runState) domain.StepOutcome[string] {
	if st.result.CallFlowID == "" {
		return domain.Skipped[string]("conversation flow unavailable")
	}
	id, err := p.deps.Platform.CreateRouterAgent(ctx, domain.RouterAgentRequest{
		BusinessName: st.profile.Name,
		CallFlowID:   st.result.CallFlowID,
	})
	if err != nil {
		return domain.Failed[string](err)
	}
	st.track(id)
	return domain.Succeeded(id)
}

func (p *Pipeline) acquirePhoneNumber(ctx context.Context, st *runState) domain.StepOutcome[*domain.AcquiredNumber] {
	if st.result.RouterAgentID == "" {
		return domain.Skipped[*domain.AcquiredNumber]("router agent unavailable")
	}
	num, err := p.deps.Phones.Acquire(ctx, st.profile.Name, st.profile.AreaCode, st.result.RouterAgentID)
	if err != nil {
		return domain.Failed[*domain.AcquiredNumber](err)
	}
	st.track(num.PhoneNumberID)
	return domain.Succeeded(num)
}

func (p *Pipeline) generateCredentials(_ context.Context, st *runState) domain.StepOutcome[domain.Credentials] {
	return domain.Succeeded(p.deps.Credentials.Generate(st.profile.Name))
}

func (p *Pipeline) registerDashboard(ctx context.Context, st *runState) domain.StepOutcome[struct{}] {
	if st.result.RouterAgentID == "" {
		return domain.Skipped[struct{}]("router agent unavailable")
	}
	err := p.deps.Dashboard.Register(ctx, domain.DashboardAccount{
		Email:       st.result.DashboardEmail,
		Password:    st.result.DashboardPassword,
		AgentID:     st.result.RouterAgentID,
		CompanyName: credentials.Normalize(st.profile.Name),
	})
	if err != nil {
		return domain.Failed[struct{}](err)
	}
	return domain.Succeeded(struct{}{})
}

// persist ignores the run deadline; the resources it records already exist.
func (p *Pipeline) persist(ctx context.Context, st *runState) domain.StepOutcome[string] {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.deps.PersistTimeout)
	defer cancel()

	id, err := p.deps.Repository.SaveProvisioning(pctx, domain.ProvisioningRecord{
		Profile: st.profile,
		Result:  st.result,
		Prompts: st.prompts,
	})
	if err != nil {
		var pf *domain.PersistenceFailure
		if !errors.As(err, &pf) {
			err = &domain.PersistenceFailure{Err: err}
		}
		return domain.Failed[string](err)
	}
	return domain.Succeeded(id)
}
