// Package events publishes run lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

const (
	SubjectRunCompleted = "onboarding.run.completed"
	SubjectRunFailed    = "onboarding.run.failed"
)

// Publisher is satisfied by *messagebroker.NatsClient.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// RunFinishedEvent is the message body. The dashboard password is never published.
type RunFinishedEvent struct {
	RunID       string           `json:"run_id"`
	CompanyName string           `json:"company_name"`
	Status      domain.RunStatus `json:"status"`
	FailedStep  domain.StepName  `json:"failed_step,omitempty"`
	Error       string           `json:"error,omitempty"`
	Omissions   []string         `json:"omissions,omitempty"`
	CompanyID   string           `json:"company_id,omitempty"`
	PhoneNumber string           `json:"phone_number,omitempty"`
	RouterAgent string           `json:"main_router_agent_id,omitempty"`
}

type RunEventPublisher struct {
	pub    Publisher
	logger *slog.Logger
}

func NewRunEventPublisher(pub Publisher, logger *slog.Logger) *RunEventPublisher {
	return &RunEventPublisher{pub: pub, logger: logger.With("adapter", "run_events")}
}

func (p *RunEventPublisher) PublishRunFinished(ctx context.Context, run *domain.Run) error {
	evt := RunFinishedEvent{
		RunID:       run.ID,
		CompanyName: run.CompanyName,
		Status:      run.Status,
		FailedStep:  run.FailedStep,
		Error:       run.Error,
		Omissions:   run.Omissions,
	}
	if run.Result != nil {
		evt.CompanyID = run.Result.PersistedRecordID
		evt.PhoneNumber = run.Result.PhoneNumber
		evt.RouterAgent = run.Result.RouterAgentID
	}

	subject := SubjectRunCompleted
	if run.Status == domain.RunFailed {
		subject = SubjectRunFailed
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}
	if err := p.pub.Publish(ctx, subject, data); err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "Run event published", "subject", subject, "run_id", run.ID)
	return nil
}
