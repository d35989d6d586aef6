package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
)

func TestMatches_EmptyConditionSetAlwaysPasses(t *testing.T) {
	svc := NewConditionService()

	matched, err := svc.Matches(models.ConditionSet{}, &models.TriggerContext{})
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = svc.Matches(nil, &models.TriggerContext{})
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestMatches_HasEmailPredicate(t *testing.T) {
	svc := NewConditionService()
	conditions := models.ConditionSet{"has_email": true}

	withEmail := &models.TriggerContext{Data: models.Payload{"email": "dana@example.com"}}
	matched, err := svc.Matches(conditions, withEmail)
	require.NoError(t, err)
	assert.True(t, matched)

	withoutEmail := &models.TriggerContext{Data: models.Payload{"phone": "+15035550142"}}
	matched, err = svc.Matches(conditions, withoutEmail)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestMatches_HasPhoneDisabledByFalse(t *testing.T) {
	svc := NewConditionService()

	matched, err := svc.Matches(models.ConditionSet{"has_phone": false}, &models.TriggerContext{})
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestMatches_PresencePredicateRejectsNonBool(t *testing.T) {
	svc := NewConditionService()

	_, err := svc.Matches(models.ConditionSet{"has_email": "yes"}, &models.TriggerContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has_email")
}

func TestMatches_FieldEquality(t *testing.T) {
	svc := NewConditionService()
	conditions := models.ConditionSet{"status": "quoted"}

	matched, err := svc.Matches(conditions, &models.TriggerContext{Data: models.Payload{"status": "quoted"}})
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = svc.Matches(conditions, &models.TriggerContext{Data: models.Payload{"status": "won"}})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestMatches_FieldSetMembership(t *testing.T) {
	svc := NewConditionService()
	conditions := models.ConditionSet{"status": []string{"quoted", "qualified"}}

	matched, err := svc.Matches(conditions, &models.TriggerContext{Data: models.Payload{"status": "qualified"}})
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = svc.Matches(conditions, &models.TriggerContext{Data: models.Payload{"status": "lost"}})
	require.NoError(t, err)
	assert.False(t, matched)
}

// Condition sets loaded from JSONB arrive as []any, not []string
func TestMatches_FieldSetMembershipFromJSON(t *testing.T) {
	svc := NewConditionService()
	conditions := models.ConditionSet{"status": []any{"quoted", "qualified"}}

	matched, err := svc.Matches(conditions, &models.TriggerContext{Data: models.Payload{"status": "quoted"}})
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestMatches_AbsentFieldPasses(t *testing.T) {
	svc := NewConditionService()
	conditions := models.ConditionSet{"status": "quoted"}

	matched, err := svc.Matches(conditions, &models.TriggerContext{Data: models.Payload{}})
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestMatches_AndSemantics(t *testing.T) {
	svc := NewConditionService()
	conditions := models.ConditionSet{
		"has_email": true,
		"status":    "quoted",
	}

	bothPass := &models.TriggerContext{Data: models.Payload{"email": "dana@example.com", "status": "quoted"}}
	matched, err := svc.Matches(conditions, bothPass)
	require.NoError(t, err)
	assert.True(t, matched)

	oneFails := &models.TriggerContext{Data: models.Payload{"email": "dana@example.com", "status": "won"}}
	matched, err = svc.Matches(conditions, oneFails)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestMatches_UnsupportedValueType(t *testing.T) {
	svc := NewConditionService()

	_, err := svc.Matches(models.ConditionSet{"status": 42}, &models.TriggerContext{Data: models.Payload{"status": "quoted"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")
}

func TestRegister_CustomPredicate(t *testing.T) {
	svc := NewConditionService()
	svc.Register("in_service_area", func(value any, tc *models.TriggerContext) (bool, error) {
		return tc.Data.Get("zip") == "97201", nil
	})

	matched, err := svc.Matches(
		models.ConditionSet{"in_service_area": true},
		&models.TriggerContext{Data: models.Payload{"zip": "97201"}},
	)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = svc.Matches(
		models.ConditionSet{"in_service_area": true},
		&models.TriggerContext{Data: models.Payload{"zip": "10001"}},
	)
	require.NoError(t, err)
	assert.False(t, matched)
}
