package service

import (
	"fmt"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
)

// ConditionFunc evaluates one predicate against a trigger context.
// The value is the workflow's configured expectation for the predicate.
type ConditionFunc func(value any, tc *models.TriggerContext) (bool, error)

// ConditionService evaluates workflow condition sets against trigger
// contexts. Predicates live in an open registry keyed by condition name;
// any key without a registered predicate falls through to the default
// field evaluator, so new predicate kinds are additions here, never edits
// to the dispatcher.
type ConditionService struct {
	predicates map[string]ConditionFunc
}

// NewConditionService creates a condition service with the built-in
// predicates registered
func NewConditionService() *ConditionService {
	s := &ConditionService{
		predicates: make(map[string]ConditionFunc),
	}

	s.Register("has_email", requirePayloadField("email"))
	s.Register("has_phone", requirePayloadField("phone"))

	return s
}

// Register adds or replaces a named predicate
func (s *ConditionService) Register(name string, fn ConditionFunc) {
	s.predicates[name] = fn
}

// Matches evaluates all conditions against the context. An empty condition
// set always matches; present conditions are ANDed.
func (s *ConditionService) Matches(conditions models.ConditionSet, tc *models.TriggerContext) (bool, error) {
	for key, value := range conditions {
		fn, ok := s.predicates[key]
		if !ok {
			fn = fieldEvaluator(key)
		}

		pass, err := fn(value, tc)
		if err != nil {
			return false, fmt.Errorf("condition %q: %w", key, err)
		}
		if !pass {
			return false, nil
		}
	}

	return true, nil
}

// requirePayloadField builds a presence predicate: the condition passes
// only when the payload carries a non-empty value for the field. A false
// or nil expectation disables the check.
func requirePayloadField(field string) ConditionFunc {
	return func(value any, tc *models.TriggerContext) (bool, error) {
		required, err := asBool(value)
		if err != nil {
			return false, err
		}
		if !required {
			return true, nil
		}
		return tc.Data.Has(field), nil
	}
}

// fieldEvaluator builds the default set-membership predicate for a payload
// field. An absent field passes: absence is not a contradiction, only a
// present value outside the configured set fails.
func fieldEvaluator(field string) ConditionFunc {
	return func(value any, tc *models.TriggerContext) (bool, error) {
		actual := tc.Data.Get(field)
		if actual == "" {
			return true, nil
		}

		switch expected := value.(type) {
		case string:
			return actual == expected, nil
		case []string:
			return containsString(expected, actual), nil
		case []any:
			members := make([]string, 0, len(expected))
			for _, m := range expected {
				s, ok := m.(string)
				if !ok {
					return false, fmt.Errorf("set member %v is not a string", m)
				}
				members = append(members, s)
			}
			return containsString(members, actual), nil
		default:
			return false, fmt.Errorf("unsupported condition value type %T", value)
		}
	}
}

func asBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", value)
	}
}

func containsString(set []string, s string) bool {
	for _, member := range set {
		if member == s {
			return true
		}
	}
	return false
}
