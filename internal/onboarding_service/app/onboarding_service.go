package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

// ErrBusy is returned by StartRun when every run slot is taken.
var ErrBusy = errors.New("too many provisioning runs in progress")

// Runner executes one provisioning pipeline.
type Runner interface {
	Run(ctx context.Context, profile domain.BusinessProfile, obs Observer) (*domain.ProvisioningResult, *domain.RunReport, error)
}

type ServiceOptions struct {
	MaxConcurrentRuns int
	RunTimeout        time.Duration
}

// OnboardingService starts provisioning runs and keeps their status records.
type OnboardingService struct {
	runner  Runner
	store   domain.RunStore
	events  domain.RunEventPublisher // optional
	runs    *errgroup.Group
	timeout time.Duration
	logger  *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewOnboardingService(runner Runner, store domain.RunStore, events domain.RunEventPublisher, opts ServiceOptions, logger *slog.Logger) *OnboardingService {
	g := new(errgroup.Group)
	if opts.MaxConcurrentRuns > 0 {
		g.SetLimit(opts.MaxConcurrentRuns)
	}
	return &OnboardingService{
		runner:  runner,
		store:   store,
		events:  events,
		runs:    g,
		timeout: opts.RunTimeout,
		logger:  logger.With("component", "onboarding_service"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// StartRun validates the input, stores a pending run and executes it in the
// background. The returned snapshot is the pending record.
func (s *OnboardingService) StartRun(ctx context.Context, in domain.ProfileInput) (*domain.Run, error) {
	profile, run, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	snapshot := run.Clone()

	// Runs outlive the request that started them.
	runCtx := context.WithoutCancel(ctx)
	if !s.runs.TryGo(func() error {
		s.execute(runCtx, run, profile)
		return nil
	}) {
		runsRejectedCounter.Inc()
		run.Status = domain.RunFailed
		run.Error = ErrBusy.Error()
		run.Message = "Rejected: too many runs in progress"
		run.UpdatedAt = s.now()
		s.save(runCtx, run)
		s.logger.WarnContext(ctx, "Provisioning run rejected", "run_id", run.ID)
		return nil, ErrBusy
	}

	s.logger.InfoContext(ctx, "Provisioning run queued", "run_id", run.ID, "business", profile.Name)
	return snapshot, nil
}

// RunSync executes a run on the caller's goroutine and returns the final record.
func (s *OnboardingService) RunSync(ctx context.Context, in domain.ProfileInput) (*domain.Run, error) {
	profile, run, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	s.execute(ctx, run, profile)
	return run.Clone(), nil
}

func (s *OnboardingService) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	return s.store.Get(ctx, id)
}

// Wait blocks until every started run has finished.
func (s *OnboardingService) Wait() error {
	return s.runs.Wait()
}

func (s *OnboardingService) prepare(ctx context.Context, in domain.ProfileInput) (domain.BusinessProfile, *domain.Run, error) {
	profile, err := domain.NewBusinessProfile(in)
	if err != nil {
		return domain.BusinessProfile{}, nil, err
	}
	run := domain.NewRun(s.newID(), profile.Name, s.now())
	if err := s.store.Save(ctx, run); err != nil {
		return domain.BusinessProfile{}, nil, fmt.Errorf("failed to store run: %w", err)
	}
	return profile, run, nil
}

func (s *OnboardingService) execute(ctx context.Context, run *domain.Run, profile domain.BusinessProfile) {
	activeRunsGauge.Inc()
	defer activeRunsGauge.Dec()
	start := time.Now()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	logger := s.logger.With("run_id", run.ID)

	run.Status = domain.RunInProgress
	run.Message = "Starting agent creation..."
	run.UpdatedAt = s.now()
	s.save(ctx, run)

	result, report, err := s.runner.Run(ctx, profile, &runTracker{svc: s, run: run})
	s.finish(run, result, report, err)
	s.save(context.WithoutCancel(ctx), run)

	runsFinishedCounter.WithLabelValues(string(run.Status)).Inc()
	runDurationHist.Observe(time.Since(start).Seconds())
	logger.InfoContext(ctx, "Provisioning run finished", "status", run.Status, "omissions", run.Omissions)

	if s.events != nil {
		if perr := s.events.PublishRunFinished(context.WithoutCancel(ctx), run.Clone()); perr != nil {
			logger.ErrorContext(ctx, "Failed to publish run finished event", "error", perr)
		}
	}
}

// finish turns the pipeline output into the terminal status record. On abort
// the record keeps the partial result the tracker saw.
func (s *OnboardingService) finish(run *domain.Run, result *domain.ProvisioningResult, report *domain.RunReport, err error) {
	if report != nil {
		run.Steps = append([]domain.StepRecord(nil), report.Steps...)
	}
	run.Stage = ""
	run.UpdatedAt = s.now()

	if err != nil {
		run.Status = domain.RunFailed
		run.Error = err.Error()
		run.Message = "Agent creation failed"
		var sf *domain.StructuralFailure
		if errors.As(err, &sf) {
			run.FailedStep = sf.Step
		}
		run.TroubleshootingTips = troubleshootingTips(err)
		return
	}

	var disabled []domain.StepName
	if report != nil {
		disabled = report.Disabled()
	}
	run.Result = result
	run.Omissions = result.OmissionsExcept(disabled...)
	run.Progress = 100
	if len(run.Omissions) == 0 {
		run.Status = domain.RunCompleted
		run.Message = "Agent creation completed successfully"
	} else {
		run.Status = domain.RunCompletedWithOmissions
		run.Message = "Agent creation completed with omissions"
	}
	if len(disabled) > 0 {
		run.Message += fmt.Sprintf(" (not configured: %s)", joinSteps(disabled))
	}
}

func (s *OnboardingService) save(ctx context.Context, run *domain.Run) {
	if err := s.store.Save(ctx, run); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save run status", "run_id", run.ID, "error", err)
	}
}

var stepMessages = map[domain.StepName]string{
	domain.StepKnowledgeBase: "Creating knowledge base from website...",
	domain.StepModels:        "Creating office hours and after hours LLMs...",
	domain.StepAgents:        "Creating office hours and after hours agents...",
	domain.StepCallFlow:      "Creating conversation flow...",
	domain.StepRouterAgent:   "Creating main router agent...",
	domain.StepPhoneNumber:   "Purchasing phone number...",
	domain.StepCredentials:   "Generating dashboard credentials...",
	domain.StepDashboard:     "Registering dashboard account...",
	domain.StepPersistence:   "Saving company record...",
}

// runTracker mirrors pipeline progress into the run's status record.
type runTracker struct {
	svc *OnboardingService
	run *domain.Run
}

func (t *runTracker) StepStarted(ctx context.Context, step domain.StepName) {
	t.run.Stage = step
	t.run.Message = stepMessages[step]
	t.run.Progress = stepProgress(step, false)
	t.run.UpdatedAt = t.svc.now()
	t.svc.save(context.WithoutCancel(ctx), t.run)
}

func (t *runTracker) StepFinished(ctx context.Context, rec domain.StepRecord, partial domain.ProvisioningResult) {
	t.run.Steps = append(t.run.Steps, rec)
	t.run.Result = &partial
	t.run.Progress = stepProgress(rec.Step, true)
	t.run.UpdatedAt = t.svc.now()
	t.svc.save(context.WithoutCancel(ctx), t.run)
}

func stepProgress(step domain.StepName, done bool) int {
	for i, s := range domain.PipelineSteps {
		if s == step {
			if done {
				i++
			}
			return i * 100 / len(domain.PipelineSteps)
		}
	}
	return 0
}

func joinSteps(steps []domain.StepName) string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
