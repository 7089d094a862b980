// pdp/engine/condition_evaluator_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toolgate/api/model"
)

func testAttrs() map[string]interface{} {
	return map[string]interface{}{
		"user": map[string]interface{}{
			"sub":    "alice",
			"email":  "alice@example.com",
			"roles":  []string{"developer", "oncall"},
			"groups": []string{"platform"},
		},
		"tool_type":     "github",
		"action":        "merge",
		"environment":   "production",
		"approvals":     float64(2),
		"risk_score":    7,
		"resource_name": "payments-service",
	}
}

func TestConditionEvaluator_EmptyConditionsMatch(t *testing.T) {
	ce := NewConditionEvaluator()
	result := ce.Evaluate(nil, testAttrs())
	assert.True(t, result.Matched)
}

func TestConditionEvaluator_ScalarEquality(t *testing.T) {
	ce := NewConditionEvaluator()

	result := ce.Evaluate(model.ConditionMap{"environment": "production"}, testAttrs())
	assert.True(t, result.Matched)
	assert.Equal(t, "all conditions met", result.Reason)

	result = ce.Evaluate(model.ConditionMap{"environment": "staging"}, testAttrs())
	assert.False(t, result.Matched)
	assert.Contains(t, result.Reason, `"environment"`)
}

func TestConditionEvaluator_DottedPaths(t *testing.T) {
	ce := NewConditionEvaluator()

	result := ce.Evaluate(model.ConditionMap{"user.sub": "alice"}, testAttrs())
	assert.True(t, result.Matched)

	// Missing path segments never match
	result = ce.Evaluate(model.ConditionMap{"user.department": "payments"}, testAttrs())
	assert.False(t, result.Matched)

	result = ce.Evaluate(model.ConditionMap{"user.sub.nested": "x"}, testAttrs())
	assert.False(t, result.Matched)
}

func TestConditionEvaluator_ListMembership(t *testing.T) {
	ce := NewConditionEvaluator()

	result := ce.Evaluate(model.ConditionMap{
		"environment": []interface{}{"staging", "production"},
	}, testAttrs())
	assert.True(t, result.Matched)

	result = ce.Evaluate(model.ConditionMap{
		"environment": []interface{}{"staging", "development"},
	}, testAttrs())
	assert.False(t, result.Matched)
}

func TestConditionEvaluator_OperatorObjects(t *testing.T) {
	ce := NewConditionEvaluator()

	result := ce.Evaluate(model.ConditionMap{
		"action": map[string]interface{}{"$in": []interface{}{"merge", "approve"}},
	}, testAttrs())
	assert.True(t, result.Matched)

	result = ce.Evaluate(model.ConditionMap{
		"action": map[string]interface{}{"$eq": "merge"},
	}, testAttrs())
	assert.True(t, result.Matched)

	result = ce.Evaluate(model.ConditionMap{
		"action": map[string]interface{}{"$eq": "delete"},
	}, testAttrs())
	assert.False(t, result.Matched)
}

func TestConditionEvaluator_NumericWidening(t *testing.T) {
	ce := NewConditionEvaluator()

	// JSON-decoded expectations arrive as float64; context may carry ints.
	result := ce.Evaluate(model.ConditionMap{"risk_score": float64(7)}, testAttrs())
	assert.True(t, result.Matched)

	result = ce.Evaluate(model.ConditionMap{"approvals": 2}, testAttrs())
	assert.True(t, result.Matched)

	result = ce.Evaluate(model.ConditionMap{"approvals": 3}, testAttrs())
	assert.False(t, result.Matched)
}

func TestConditionEvaluator_DeterministicFirstFailure(t *testing.T) {
	ce := NewConditionEvaluator()

	conditions := model.ConditionMap{
		"zz_last":   "nope",
		"aa_first":  "nope",
		"mm_middle": "nope",
	}
	// Keys are checked sorted, so the cited failure is always the same.
	for i := 0; i < 10; i++ {
		result := ce.Evaluate(conditions, testAttrs())
		assert.False(t, result.Matched)
		assert.Contains(t, result.Reason, `"aa_first"`)
	}
}
