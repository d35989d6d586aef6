package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/repository"
)

// Function-field mocks: each repository method delegates to an optional
// func field and falls back to a benign default, with call counting.

type MockWorkflowRepository struct {
	CreateFunc             func(ctx context.Context, workflow *models.Workflow) error
	GetByIDFunc            func(ctx context.Context, id string) (*models.Workflow, error)
	ListByTriggerEventFunc func(ctx context.Context, event string) ([]*models.Workflow, error)
	ListFunc               func(ctx context.Context, limit, offset int) ([]*models.Workflow, error)
	IncrementExecutionFunc func(ctx context.Context, id string, at time.Time) error

	Calls map[string]int
}

func NewMockWorkflowRepository() *MockWorkflowRepository {
	return &MockWorkflowRepository{Calls: make(map[string]int)}
}

func (m *MockWorkflowRepository) Create(ctx context.Context, workflow *models.Workflow) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, workflow)
	}
	if workflow.ID == "" {
		workflow.ID = uuid.NewString()
	}
	return nil
}

func (m *MockWorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	w := NewTestWorkflow()
	w.ID = id
	return w, nil
}

func (m *MockWorkflowRepository) ListByTriggerEvent(ctx context.Context, event string) ([]*models.Workflow, error) {
	m.Calls["ListByTriggerEvent"]++
	if m.ListByTriggerEventFunc != nil {
		return m.ListByTriggerEventFunc(ctx, event)
	}
	return []*models.Workflow{}, nil
}

func (m *MockWorkflowRepository) List(ctx context.Context, limit, offset int) ([]*models.Workflow, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.Workflow{}, nil
}

func (m *MockWorkflowRepository) IncrementExecution(ctx context.Context, id string, at time.Time) error {
	m.Calls["IncrementExecution"]++
	if m.IncrementExecutionFunc != nil {
		return m.IncrementExecutionFunc(ctx, id, at)
	}
	return nil
}

type MockTemplateRepository struct {
	CreateFunc         func(ctx context.Context, template *models.Template) error
	GetByIDFunc        func(ctx context.Context, id string) (*models.Template, error)
	ListFunc           func(ctx context.Context, limit, offset int) ([]*models.Template, error)
	IncrementUsageFunc func(ctx context.Context, id string) error

	Calls map[string]int
}

func NewMockTemplateRepository() *MockTemplateRepository {
	return &MockTemplateRepository{Calls: make(map[string]int)}
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *models.Template) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, template)
	}
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	return nil
}

func (m *MockTemplateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	t := NewTestEmailTemplate()
	t.ID = id
	return t, nil
}

func (m *MockTemplateRepository) List(ctx context.Context, limit, offset int) ([]*models.Template, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.Template{}, nil
}

func (m *MockTemplateRepository) IncrementUsage(ctx context.Context, id string) error {
	m.Calls["IncrementUsage"]++
	if m.IncrementUsageFunc != nil {
		return m.IncrementUsageFunc(ctx, id)
	}
	return nil
}

type MockLeadRepository struct {
	CreateFunc  func(ctx context.Context, lead *models.Lead) error
	GetByIDFunc func(ctx context.Context, id string) (*models.Lead, error)

	Calls map[string]int
}

func NewMockLeadRepository() *MockLeadRepository {
	return &MockLeadRepository{Calls: make(map[string]int)}
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, lead)
	}
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	return nil
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	l := NewTestLead()
	l.ID = id
	return l, nil
}

type MockExecutionRepository struct {
	CreateFunc         func(ctx context.Context, execution *models.WorkflowExecution) error
	GetByIDFunc        func(ctx context.Context, id string) (*models.WorkflowExecution, error)
	ListFunc           func(ctx context.Context, filters repository.ExecutionFilters) ([]*models.WorkflowExecution, error)
	CountSuccessesFunc func(ctx context.Context, workflowID, leadID string) (int, error)
	LastSuccessAtFunc  func(ctx context.Context, workflowID, leadID string) (*time.Time, error)

	Created []*models.WorkflowExecution
	Calls   map[string]int
}

func NewMockExecutionRepository() *MockExecutionRepository {
	return &MockExecutionRepository{Calls: make(map[string]int)}
}

func (m *MockExecutionRepository) Create(ctx context.Context, execution *models.WorkflowExecution) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, execution)
	}
	m.Created = append(m.Created, execution)
	return nil
}

func (m *MockExecutionRepository) GetByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockExecutionRepository) List(ctx context.Context, filters repository.ExecutionFilters) ([]*models.WorkflowExecution, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return []*models.WorkflowExecution{}, nil
}

func (m *MockExecutionRepository) CountSuccesses(ctx context.Context, workflowID, leadID string) (int, error) {
	m.Calls["CountSuccesses"]++
	if m.CountSuccessesFunc != nil {
		return m.CountSuccessesFunc(ctx, workflowID, leadID)
	}
	return 0, nil
}

func (m *MockExecutionRepository) LastSuccessAt(ctx context.Context, workflowID, leadID string) (*time.Time, error) {
	m.Calls["LastSuccessAt"]++
	if m.LastSuccessAtFunc != nil {
		return m.LastSuccessAtFunc(ctx, workflowID, leadID)
	}
	return nil, nil
}

type MockMessageRepository struct {
	CreateFunc       func(ctx context.Context, message *models.ScheduledMessage) error
	GetByIDFunc      func(ctx context.Context, id string) (*models.ScheduledMessage, error)
	ListFunc         func(ctx context.Context, filters repository.MessageFilters) ([]*models.ScheduledMessage, error)
	UpdateStatusFunc func(ctx context.Context, id string, status models.MessageStatus, lastError *string) error

	Created []*models.ScheduledMessage
	Calls   map[string]int
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{Calls: make(map[string]int)}
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.ScheduledMessage) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, message)
	}
	m.Created = append(m.Created, message)
	return nil
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id string) (*models.ScheduledMessage, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockMessageRepository) List(ctx context.Context, filters repository.MessageFilters) ([]*models.ScheduledMessage, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return []*models.ScheduledMessage{}, nil
}

func (m *MockMessageRepository) UpdateStatus(ctx context.Context, id string, status models.MessageStatus, lastError *string) error {
	m.Calls["UpdateStatus"]++
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, lastError)
	}
	return nil
}

// Test fixtures

func NewTestLead() *models.Lead {
	firstName := "Dana"
	lastName := "Whitfield"
	email := "dana@example.com"
	phone := "+15035550142"
	source := "quote_form"
	return &models.Lead{
		ID:        uuid.NewString(),
		FirstName: &firstName,
		LastName:  &lastName,
		Email:     &email,
		Phone:     &phone,
		Status:    models.LeadStatusNew,
		Source:    &source,
		CreatedAt: time.Now(),
	}
}

func NewTestEmailTemplate() *models.Template {
	subject := "Hello {{first_name}}"
	return &models.Template{
		ID:      uuid.NewString(),
		Name:    "Test Email",
		Channel: models.ChannelEmail,
		Subject: &subject,
		Body:    "Hi {{first_name}}, thanks for contacting {{company_name}}.",
	}
}

func NewTestSMSTemplate() *models.Template {
	return &models.Template{
		ID:      uuid.NewString(),
		Name:    "Test SMS",
		Channel: models.ChannelSMS,
		Body:    "Hi {{first_name}}, call us at {{company_phone}}.",
	}
}

func NewTestWorkflow() *models.Workflow {
	return &models.Workflow{
		ID:              uuid.NewString(),
		Name:            "Test Workflow",
		TriggerEvent:    "lead_created",
		Conditions:      models.ConditionSet{},
		DelayMinutes:    0,
		TemplateID:      uuid.NewString(),
		Active:          true,
		Priority:        10,
		MaxSendsPerLead: 3,
		CooldownHours:   0,
		CreatedAt:       time.Now(),
	}
}

// newTestService wires a WorkflowService from the given mocks with a
// fixed clock
func newTestService(
	workflowRepo *MockWorkflowRepository,
	templateRepo *MockTemplateRepository,
	leadRepo *MockLeadRepository,
	executionRepo *MockExecutionRepository,
	messageRepo *MockMessageRepository,
	now time.Time,
) *WorkflowService {
	s := NewWorkflowService(
		workflowRepo,
		templateRepo,
		leadRepo,
		executionRepo,
		messageRepo,
		"Roofing Made Easy",
		"+15035550100",
	)
	s.now = func() time.Time { return now }
	return s
}
