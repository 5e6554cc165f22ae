package domain

import "context"

// RunStore keeps run status records. Get returns ErrRunNotFound for unknown ids.
type RunStore interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
}

// ProvisioningRepository persists a finished run and returns the company record id.
type ProvisioningRepository interface {
	SaveProvisioning(ctx context.Context, rec ProvisioningRecord) (string, error)
}

// RunEventPublisher announces finished runs.
type RunEventPublisher interface {
	PublishRunFinished(ctx context.Context, run *Run) error
}
