package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

// NumberPurchaser buys a single number in one area code.
type NumberPurchaser interface {
	PurchaseNumber(ctx context.Context, req domain.NumberRequest) (*domain.PurchasedNumber, error)
}

// CandidateResolver expands a requested area code into the ordered list of codes to try.
type CandidateResolver interface {
	Candidates(areaCode string) []string
}

// PhoneAcquirer walks the candidate area codes until one purchase succeeds.
type PhoneAcquirer struct {
	purchaser NumberPurchaser
	resolver  CandidateResolver
	logger    *slog.Logger
}

func NewPhoneAcquirer(purchaser NumberPurchaser, resolver CandidateResolver, logger *slog.Logger) *PhoneAcquirer {
	return &PhoneAcquirer{
		purchaser: purchaser,
		resolver:  resolver,
		logger:    logger.With("component", "phone_acquirer"),
	}
}

// Acquire tries the requested code first, then its nearby codes, one purchase
// each and without backoff. It stops at the first success. When every code
// fails it returns *domain.ExhaustionFailure listing the codes in the order tried.
func (a *PhoneAcquirer) Acquire(ctx context.Context, businessName, areaCode, inboundAgentID string) (*domain.AcquiredNumber, error) {
	var (
		attempted []string
		lastErr   error
	)
	seen := make(map[string]struct{})

	for _, code := range a.resolver.Candidates(areaCode) {
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("phone acquisition stopped after %d attempts: %w", len(attempted), err)
		}

		attempted = append(attempted, code)
		num, err := a.purchaser.PurchaseNumber(ctx, domain.NumberRequest{
			BusinessName:   businessName,
			AreaCode:       code,
			InboundAgentID: inboundAgentID,
		})
		if err != nil {
			phoneAttemptsCounter.WithLabelValues("failure").Inc()
			a.logger.WarnContext(ctx, "Phone number purchase failed, trying next area code",
				"area_code", code, "attempt", len(attempted), "error", err)
			lastErr = err
			continue
		}

		phoneAttemptsCounter.WithLabelValues("success").Inc()
		a.logger.InfoContext(ctx, "Phone number purchased",
			"area_code", code, "phone_number", num.PhoneNumber, "attempts", len(attempted))
		return &domain.AcquiredNumber{
			PhoneNumber:   num.PhoneNumber,
			PhoneNumberID: num.PhoneNumberID,
			AreaCodeUsed:  code,
		}, nil
	}

	return nil, &domain.ExhaustionFailure{Attempted: attempted, LastErr: lastErr}
}
