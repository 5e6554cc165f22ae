package domain

// OutcomeKind tags a StepOutcome.
type OutcomeKind int

const (
	OutcomeSucceeded OutcomeKind = iota
	OutcomeFailed
	OutcomeSkipped
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// StepOutcome is what every pipeline step returns. Only a succeeded outcome
// exposes its payload.
type StepOutcome[T any] struct {
	kind   OutcomeKind
	value  T
	err    error
	reason string
}

func Succeeded[T any](v T) StepOutcome[T] {
	return StepOutcome[T]{kind: OutcomeSucceeded, value: v}
}

func Failed[T any](err error) StepOutcome[T] {
	return StepOutcome[T]{kind: OutcomeFailed, err: err}
}

func Skipped[T any](reason string) StepOutcome[T] {
	return StepOutcome[T]{kind: OutcomeSkipped, reason: reason}
}

func (o StepOutcome[T]) Kind() OutcomeKind { return o.kind }

// Value returns the payload and true only for a succeeded outcome.
func (o StepOutcome[T]) Value() (T, bool) {
	if o.kind != OutcomeSucceeded {
		var zero T
		return zero, false
	}
	return o.value, true
}

func (o StepOutcome[T]) Err() error { return o.err }

// Reason is the skip reason, or the failure message for failed outcomes.
func (o StepOutcome[T]) Reason() string {
	if o.kind == OutcomeFailed && o.err != nil {
		return o.err.Error()
	}
	return o.reason
}
