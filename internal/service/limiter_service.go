package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/repository"
)

// LimitDecision is the limiter's verdict for one (workflow, lead) pair
type LimitDecision struct {
	Allowed bool
	Reason  string
}

// LimiterService enforces per-lead send caps and cooldowns. Decisions are
// always made against the persisted execution history: dispatches run
// concurrently across processes, so the workflow's cached counters can
// never be trusted here.
type LimiterService struct {
	executionRepo repository.ExecutionRepository
}

// NewLimiterService creates a new limiter service
func NewLimiterService(executionRepo repository.ExecutionRepository) *LimiterService {
	return &LimiterService{executionRepo: executionRepo}
}

// CheckAllowed decides whether a workflow may fire again for a lead at the
// given instant. An empty lead ID always allows: workflows not tied to a
// lead are unthrottled.
func (s *LimiterService) CheckAllowed(ctx context.Context, workflow *models.Workflow, leadID string, now time.Time) (LimitDecision, error) {
	if leadID == "" {
		return LimitDecision{Allowed: true}, nil
	}

	count, err := s.executionRepo.CountSuccesses(ctx, workflow.ID, leadID)
	if err != nil {
		return LimitDecision{}, fmt.Errorf("failed to query execution history: %w", err)
	}
	if count >= workflow.MaxSendsPerLead {
		return LimitDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("max sends reached (%d of %d)", count, workflow.MaxSendsPerLead),
		}, nil
	}

	if workflow.CooldownHours > 0 {
		lastSuccess, err := s.executionRepo.LastSuccessAt(ctx, workflow.ID, leadID)
		if err != nil {
			return LimitDecision{}, fmt.Errorf("failed to query last successful execution: %w", err)
		}
		if lastSuccess != nil {
			cooldownEnds := lastSuccess.Add(time.Duration(workflow.CooldownHours) * time.Hour)
			// Boundary-inclusive: allowed at exactly lastSuccess + cooldown
			if now.Before(cooldownEnds) {
				return LimitDecision{
					Allowed: false,
					Reason:  fmt.Sprintf("cooldown active until %s", cooldownEnds.UTC().Format(time.RFC3339)),
				}, nil
			}
		}
	}

	return LimitDecision{Allowed: true}, nil
}
