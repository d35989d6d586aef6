package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
)

var workflowRowColumns = []string{
	"id", "name", "trigger_event", "conditions", "delay_minutes", "template_id", "channel",
	"active", "priority", "max_sends_per_lead", "cooldown_hours",
	"respect_business_hours", "business_hours_start", "business_hours_end", "business_days",
	"execution_count", "last_executed_at", "created_at", "updated_at",
}

func newWorkflowRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows(workflowRowColumns)
}

func TestWorkflowRepositoryListByTriggerEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWorkflowRepository(db)

	now := time.Now()
	rows := newWorkflowRows(t).
		AddRow("wf-1", "Welcome new leads", "lead_created", []byte(`{"has_email": true}`), 0, "tpl-1", nil,
			true, 100, 1, 0, false, "", "", "{}", 4, nil, now, now).
		AddRow("wf-2", "Second touch", "lead_created", []byte(`{}`), 60, "tpl-2", "sms",
			true, 50, 3, 24, true, "09:00", "17:00", "{1,2,3,4,5}", 0, nil, now, now)

	mock.ExpectQuery(`ORDER BY priority DESC, created_at ASC, id ASC`).
		WithArgs("lead_created").
		WillReturnRows(rows)

	workflows, err := repo.ListByTriggerEvent(context.Background(), "lead_created")
	require.NoError(t, err)
	require.Len(t, workflows, 2)

	first := workflows[0]
	assert.Equal(t, "wf-1", first.ID)
	assert.Equal(t, models.ConditionSet{"has_email": true}, first.Conditions)
	assert.Nil(t, first.Channel)
	assert.Empty(t, first.BusinessDays)

	second := workflows[1]
	assert.Equal(t, "wf-2", second.ID)
	require.NotNil(t, second.Channel)
	assert.Equal(t, models.ChannelSMS, *second.Channel)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, second.BusinessDays)
	assert.True(t, second.RespectBusinessHours)
	assert.Equal(t, "09:00", second.BusinessHoursStart)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWorkflowRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM workflows WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWorkflowRepository(db)

	workflow := &models.Workflow{
		Name:            "Welcome new leads",
		TriggerEvent:    "lead_created",
		Conditions:      models.ConditionSet{"has_email": true},
		TemplateID:      "tpl-1",
		Active:          true,
		Priority:        100,
		MaxSendsPerLead: 1,
	}

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO workflows")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), workflow))
	assert.NotEmpty(t, workflow.ID, "create should assign an id")
	assert.Equal(t, now, workflow.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepositoryCreateRejectsInvalid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWorkflowRepository(db)

	// No template reference; validation must fail before any query runs
	workflow := &models.Workflow{
		Name:            "Broken",
		TriggerEvent:    "lead_created",
		MaxSendsPerLead: 1,
	}

	require.Error(t, repo.Create(context.Background(), workflow))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepositoryIncrementExecution(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWorkflowRepository(db)
	at := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE workflows")).
		WithArgs(at, "wf-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementExecution(context.Background(), "wf-1", at))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE workflows")).
		WithArgs(at, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.IncrementExecution(context.Background(), "missing", at)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	require.NoError(t, mock.ExpectationsWereMet())
}
