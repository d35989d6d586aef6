package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/repository"
)

// DispatchResult summarizes one dispatch call. Dispatch is always
// best-effort: per-workflow failures are collected here, never raised.
type DispatchResult struct {
	Event      string                      `json:"event"`
	Triggered  int                         `json:"triggered"`
	Skipped    int                         `json:"skipped"`
	Failed     int                         `json:"failed"`
	Errors     []string                    `json:"errors"`
	Executions []*models.WorkflowExecution `json:"executions"`
}

// WorkflowService is the automation engine's entry point. Given a business
// event it decides which workflows fire, whether each is allowed to fire
// again for the lead, what content to produce, and when delivery happens.
type WorkflowService struct {
	workflowRepo  repository.WorkflowRepository
	templateRepo  repository.TemplateRepository
	leadRepo      repository.LeadRepository
	executionRepo repository.ExecutionRepository
	messageRepo   repository.MessageRepository

	templateSvc  *TemplateService
	conditionSvc *ConditionService
	limiter      *LimiterService
	recipientSvc *RecipientService
	scheduleSvc  *ScheduleService

	companyName  string
	companyPhone string

	// now is injectable so tests control the clock
	now func() time.Time
}

// NewWorkflowService creates a new workflow dispatch service
func NewWorkflowService(
	workflowRepo repository.WorkflowRepository,
	templateRepo repository.TemplateRepository,
	leadRepo repository.LeadRepository,
	executionRepo repository.ExecutionRepository,
	messageRepo repository.MessageRepository,
	companyName string,
	companyPhone string,
) *WorkflowService {
	return &WorkflowService{
		workflowRepo:  workflowRepo,
		templateRepo:  templateRepo,
		leadRepo:      leadRepo,
		executionRepo: executionRepo,
		messageRepo:   messageRepo,
		templateSvc:   NewTemplateService(),
		conditionSvc:  NewConditionService(),
		limiter:       NewLimiterService(executionRepo),
		recipientSvc:  NewRecipientService(leadRepo),
		scheduleSvc:   NewScheduleService(),
		companyName:   companyName,
		companyPhone:  companyPhone,
		now:           time.Now,
	}
}

// Conditions exposes the condition registry so callers can register new
// predicate kinds without touching the dispatch path
func (s *WorkflowService) Conditions() *ConditionService {
	return s.conditionSvc
}

// Dispatch runs every active workflow registered for the event, highest
// priority first (equal priorities run in creation order). Each workflow
// is evaluated independently: one workflow failing never prevents the
// rest from being processed.
func (s *WorkflowService) Dispatch(ctx context.Context, eventName string, tc *models.TriggerContext) (*DispatchResult, error) {
	if eventName == "" {
		return nil, &ValidationError{Message: "event name is required"}
	}
	if tc == nil {
		tc = &models.TriggerContext{}
	}
	tc.EventName = eventName

	workflows, err := s.workflowRepo.ListByTriggerEvent(ctx, eventName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflows for event %q: %w", eventName, err)
	}

	result := &DispatchResult{Event: eventName, Errors: []string{}, Executions: []*models.WorkflowExecution{}}

	for _, workflow := range workflows {
		execution, runErr := s.runWorkflow(ctx, workflow, tc)
		result.Executions = append(result.Executions, execution)

		switch execution.Status {
		case models.ExecutionStatusSuccess:
			result.Triggered++
		case models.ExecutionStatusSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
		if runErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("workflow %s: %v", workflow.ID, runErr))
		}
	}

	log.Printf("Dispatched event %q: %d triggered, %d skipped, %d failed",
		eventName, result.Triggered, result.Skipped, result.Failed)

	return result, nil
}

// DispatchWorkflow runs the pipeline for one explicitly named workflow,
// bypassing trigger-event lookup. Used for manual fires from the admin UI;
// the active flag is deliberately not checked, a manual trigger is an
// explicit operator decision.
func (s *WorkflowService) DispatchWorkflow(ctx context.Context, workflowID string, tc *models.TriggerContext) (*models.WorkflowExecution, error) {
	workflow, err := s.workflowRepo.GetByID(ctx, workflowID)
	if err != nil {
		return nil, &NotFoundError{Resource: "workflow", ID: workflowID}
	}

	if tc == nil {
		tc = &models.TriggerContext{}
	}
	if tc.EventName == "" {
		tc.EventName = "manual"
	}

	return s.runWorkflow(ctx, workflow, tc)
}

// runWorkflow evaluates one workflow against one trigger and persists the
// audit record with its terminal status. The returned error is non-nil
// only for infrastructure problems the caller should surface; expected
// non-firing (conditions, limits, missing recipient) is a skip, not an
// error.
func (s *WorkflowService) runWorkflow(ctx context.Context, workflow *models.Workflow, tc *models.TriggerContext) (*models.WorkflowExecution, error) {
	execution := &models.WorkflowExecution{
		ID:           uuid.NewString(),
		WorkflowID:   workflow.ID,
		LeadID:       tc.LeadID,
		CustomerID:   tc.CustomerID,
		TriggerEvent: tc.EventName,
		Context:      tc.Data,
		Status:       models.ExecutionStatusPending,
		StartedAt:    s.now(),
	}

	message, skipReason, pipelineErr := s.buildMessage(ctx, workflow, tc)
	completedAt := s.now()

	switch {
	case pipelineErr != nil:
		execution.MarkFailed(pipelineErr.Error(), completedAt)
	case skipReason != "":
		execution.MarkSkipped(skipReason, completedAt)
	default:
		if err := s.messageRepo.Create(ctx, message); err != nil {
			pipelineErr = fmt.Errorf("failed to persist scheduled message: %w", err)
			execution.MarkFailed(pipelineErr.Error(), completedAt)
		} else {
			execution.MarkSuccess(message.ID, completedAt)
		}
	}

	if err := s.executionRepo.Create(ctx, execution); err != nil {
		if pipelineErr == nil {
			pipelineErr = fmt.Errorf("failed to persist execution record: %w", err)
		} else {
			log.Printf("Failed to persist execution record for workflow %s: %v", workflow.ID, err)
		}
	}

	if execution.Status == models.ExecutionStatusSuccess {
		// Counter updates are derived caches; losing one is harmless
		if err := s.workflowRepo.IncrementExecution(ctx, workflow.ID, completedAt); err != nil {
			log.Printf("Failed to increment execution count for workflow %s: %v", workflow.ID, err)
		}
		if err := s.templateRepo.IncrementUsage(ctx, workflow.TemplateID); err != nil {
			log.Printf("Failed to increment usage count for template %s: %v", workflow.TemplateID, err)
		}
	}

	return execution, pipelineErr
}

// buildMessage runs the decision pipeline: limiter, conditions, recipient,
// rendering, business-hours scheduling. Returns the message to persist, or
// a skip reason, or an error.
func (s *WorkflowService) buildMessage(ctx context.Context, workflow *models.Workflow, tc *models.TriggerContext) (*models.ScheduledMessage, string, error) {
	now := s.now()

	leadID := ""
	if tc.HasLead() {
		leadID = *tc.LeadID
	}

	decision, err := s.limiter.CheckAllowed(ctx, workflow, leadID, now)
	if err != nil {
		return nil, "", err
	}
	if !decision.Allowed {
		return nil, decision.Reason, nil
	}

	matched, err := s.conditionSvc.Matches(workflow.Conditions, tc)
	if err != nil {
		return nil, "", err
	}
	if !matched {
		return nil, "conditions not met", nil
	}

	// A dangling template reference is a contract violation, but it is
	// contained as a per-workflow failure like any infrastructure error
	template, err := s.templateRepo.GetByID(ctx, workflow.TemplateID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load template %s: %w", workflow.TemplateID, err)
	}

	channel := template.Channel
	if workflow.Channel != nil {
		channel = *workflow.Channel
	}

	recipient, err := s.recipientSvc.Resolve(ctx, tc, channel)
	if err != nil {
		return nil, "", err
	}
	if !recipient.Valid {
		return nil, fmt.Sprintf("no deliverable %s address", channel), nil
	}

	vars, err := s.buildVariables(ctx, tc)
	if err != nil {
		return nil, "", err
	}

	body := s.templateSvc.Render(template.Body, vars)
	var subject *string
	if channel == models.ChannelEmail {
		rendered := s.templateSvc.Render(template.SubjectText(), vars)
		subject = &rendered
	}

	scheduledFor := now.Add(time.Duration(workflow.DelayMinutes) * time.Minute)
	if workflow.RespectBusinessHours {
		adjusted, err := s.scheduleSvc.NextValidTime(
			scheduledFor,
			workflow.BusinessHoursStart,
			workflow.BusinessHoursEnd,
			workflow.BusinessDays,
		)
		if errors.Is(err, ErrNoValidWindow) {
			return nil, ErrNoValidWindow.Error(), nil
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to compute send window: %w", err)
		}
		scheduledFor = adjusted
	}

	message := &models.ScheduledMessage{
		ID:            uuid.NewString(),
		WorkflowID:    &workflow.ID,
		TemplateID:    &template.ID,
		LeadID:        tc.LeadID,
		Channel:       channel,
		Recipient:     recipient.Address,
		RecipientName: recipient.DisplayName,
		Subject:       subject,
		Body:          body,
		ScheduledFor:  scheduledFor,
		Status:        models.MessageStatusScheduled,
		MaxAttempts:   models.DefaultMaxAttempts,
	}

	return message, "", nil
}

// buildVariables assembles the render variable map: stored lead fields
// first, then payload values on top (data captured in the triggering event
// is fresher than anything on file), then the company identity.
func (s *WorkflowService) buildVariables(ctx context.Context, tc *models.TriggerContext) (map[string]string, error) {
	vars := make(map[string]string)

	if tc.HasLead() {
		lead, err := s.leadRepo.GetByID(ctx, *tc.LeadID)
		if err != nil {
			return nil, fmt.Errorf("failed to load lead %s: %w", *tc.LeadID, err)
		}
		if lead.FirstName != nil {
			vars["first_name"] = *lead.FirstName
		}
		if lead.LastName != nil {
			vars["last_name"] = *lead.LastName
		}
		vars["full_name"] = lead.FullName()
		if lead.Email != nil {
			vars["email"] = *lead.Email
		}
		if lead.Phone != nil {
			vars["phone"] = *lead.Phone
		}
		vars["status"] = string(lead.Status)
		if lead.Source != nil {
			vars["source"] = *lead.Source
		}
	}

	for key, value := range tc.Data {
		vars[key] = value
	}

	vars["company_name"] = s.companyName
	vars["company_phone"] = s.companyPhone

	return vars, nil
}
