// pdp/engine/rule_evaluator_test.go
package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/toolgate/api/model"
	pdp_model "github.com/toolgate/api/pdp/model"
)

func newTestRuleEvaluator() *RuleEvaluator {
	return NewRuleEvaluator(NewConditionEvaluator(), 9, 17)
}

func testContext(mutate func(*pdp_model.EnforcementRequest)) *pdp_model.EvaluationContext {
	req := testRequest()
	if mutate != nil {
		mutate(req)
	}
	// Tuesday 10:00 UTC, inside the default business-hours window.
	ts := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	return pdp_model.NewEvaluationContext(req, "github", ts)
}

func TestRuleEvaluator_ActionApplicability(t *testing.T) {
	re := newTestRuleEvaluator()

	rule := testRule("r1", model.ActionAllow, "write")
	result := re.Evaluate(&rule, testContext(nil))
	assert.True(t, result.Matched)

	result = re.Evaluate(&rule, testContext(func(req *pdp_model.EnforcementRequest) {
		req.Action = "delete"
	}))
	assert.False(t, result.Matched)
	assert.Contains(t, result.Reason, `action "delete" not covered`)
}

func TestRuleEvaluator_WildcardAction(t *testing.T) {
	re := newTestRuleEvaluator()

	rule := model.Rule{RuleID: "r1", Enabled: true, Action: model.ActionList{model.ActionDeny, "*"}}
	for _, action := range []string{"read", "write", "delete", "admin"} {
		result := re.Evaluate(&rule, testContext(func(req *pdp_model.EnforcementRequest) {
			req.Action = action
		}))
		assert.True(t, result.Matched, "action %s", action)
	}
}

func TestRuleEvaluator_ResourceType(t *testing.T) {
	re := newTestRuleEvaluator()

	rule := testRule("r1", model.ActionAllow, "write")
	rule.ResourceType = "repository"
	result := re.Evaluate(&rule, testContext(nil))
	assert.True(t, result.Matched)

	rule.ResourceType = "workflow"
	result = re.Evaluate(&rule, testContext(nil))
	assert.False(t, result.Matched)
	assert.Contains(t, result.Reason, "resource type")
}

func TestRuleEvaluator_GlobPatterns(t *testing.T) {
	re := newTestRuleEvaluator()

	t.Run("resource pattern", func(t *testing.T) {
		rule := testRule("r1", model.ActionAllow, "write")
		rule.ResourcePattern = "payments-*"
		assert.True(t, re.Evaluate(&rule, testContext(nil)).Matched)

		rule.ResourcePattern = "billing-*"
		result := re.Evaluate(&rule, testContext(nil))
		assert.False(t, result.Matched)
		assert.Contains(t, result.Reason, "pattern")
	})

	t.Run("user pattern matches sub or email", func(t *testing.T) {
		rule := testRule("r1", model.ActionAllow, "write")
		rule.UserPattern = "*@example.com"
		assert.True(t, re.Evaluate(&rule, testContext(nil)).Matched)

		rule.UserPattern = "bob*"
		assert.False(t, re.Evaluate(&rule, testContext(nil)).Matched)
	})

	t.Run("group pattern", func(t *testing.T) {
		rule := testRule("r1", model.ActionAllow, "write")
		rule.GroupPattern = "platform-*"
		result := re.Evaluate(&rule, testContext(func(req *pdp_model.EnforcementRequest) {
			req.User.Groups = []string{"platform-eng"}
		}))
		assert.True(t, result.Matched)
	})

	t.Run("malformed pattern never matches", func(t *testing.T) {
		rule := testRule("r1", model.ActionAllow, "write")
		rule.ResourcePattern = "payments-["
		assert.False(t, re.Evaluate(&rule, testContext(nil)).Matched)
	})
}

func TestRuleEvaluator_RoleRequirements(t *testing.T) {
	re := newTestRuleEvaluator()

	rule := testRule("r1", model.ActionAllow, "write")
	rule.RoleRequirements = model.StringList{"admin", "developer"}

	// Any-match semantics: one overlapping role suffices.
	result := re.Evaluate(&rule, testContext(nil))
	assert.True(t, result.Matched)

	result = re.Evaluate(&rule, testContext(func(req *pdp_model.EnforcementRequest) {
		req.User.Roles = []string{"viewer"}
	}))
	assert.False(t, result.Matched)
	assert.Contains(t, result.Reason, "required roles")
}

func TestRuleEvaluator_BusinessHours(t *testing.T) {
	re := newTestRuleEvaluator()

	rule := testRule("r1", model.ActionAllow, "write")
	rule.TimeRestrictions = &model.TimeRestrictions{BusinessHoursOnly: true}

	evalAt := func(ts time.Time) pdp_model.RuleEvaluationResult {
		req := testRequest()
		ectx := pdp_model.NewEvaluationContext(req, "github", ts)
		return re.Evaluate(&rule, ectx)
	}

	// Tuesday 10:00 is inside the window.
	assert.True(t, evalAt(time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)).Matched)

	// Saturday 10:00 fails even inside the hour window.
	saturday := evalAt(time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC))
	assert.False(t, saturday.Matched)
	assert.Contains(t, saturday.Reason, "business days")

	// Tuesday 17:00 is already outside; the end hour is exclusive.
	assert.False(t, evalAt(time.Date(2026, time.March, 3, 17, 0, 0, 0, time.UTC)).Matched)
	assert.False(t, evalAt(time.Date(2026, time.March, 3, 8, 59, 0, 0, time.UTC)).Matched)
}

func TestRuleEvaluator_MidnightStartWindow(t *testing.T) {
	// A configured 00-06 window is taken literally; the zero start hour must
	// not be mistaken for "unset".
	re := NewRuleEvaluator(NewConditionEvaluator(), 0, 6)

	rule := testRule("r1", model.ActionAllow, "write")
	rule.TimeRestrictions = &model.TimeRestrictions{BusinessHoursOnly: true}

	evalAt := func(hour int) bool {
		ectx := pdp_model.NewEvaluationContext(testRequest(), "github",
			time.Date(2026, time.March, 3, hour, 0, 0, 0, time.UTC))
		return re.Evaluate(&rule, ectx).Matched
	}

	assert.True(t, evalAt(0))
	assert.True(t, evalAt(5))
	assert.False(t, evalAt(6))
	assert.False(t, evalAt(10))
}

func TestRuleEvaluator_UnsetWindowFallsBackToDefaults(t *testing.T) {
	re := NewRuleEvaluator(NewConditionEvaluator(), 0, 0)

	rule := testRule("r1", model.ActionAllow, "write")
	rule.TimeRestrictions = &model.TimeRestrictions{BusinessHoursOnly: true}

	ectx := pdp_model.NewEvaluationContext(testRequest(), "github",
		time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC))
	assert.True(t, re.Evaluate(&rule, ectx).Matched)

	ectx = pdp_model.NewEvaluationContext(testRequest(), "github",
		time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC))
	assert.False(t, re.Evaluate(&rule, ectx).Matched)
}

func TestRuleEvaluator_CustomHourWindow(t *testing.T) {
	re := newTestRuleEvaluator()

	start, end := 6, 22
	rule := testRule("r1", model.ActionAllow, "write")
	rule.TimeRestrictions = &model.TimeRestrictions{
		BusinessHoursOnly: true,
		StartHour:         &start,
		EndHour:           &end,
	}

	req := testRequest()
	ectx := pdp_model.NewEvaluationContext(req, "github", time.Date(2026, time.March, 3, 21, 0, 0, 0, time.UTC))
	assert.True(t, re.Evaluate(&rule, ectx).Matched)
}

func TestRuleEvaluator_ValidityBounds(t *testing.T) {
	re := newTestRuleEvaluator()

	from := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	rule := testRule("r1", model.ActionAllow, "write")
	rule.TimeRestrictions = &model.TimeRestrictions{ValidFrom: &from, ValidUntil: &until}

	evalAt := func(ts time.Time) bool {
		ectx := pdp_model.NewEvaluationContext(testRequest(), "github", ts)
		return re.Evaluate(&rule, ectx).Matched
	}

	assert.False(t, evalAt(time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)))
	assert.True(t, evalAt(time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC)))
	// The until bound is exclusive.
	assert.False(t, evalAt(until))
}

func TestRuleEvaluator_Environment(t *testing.T) {
	re := newTestRuleEvaluator()

	rule := testRule("r1", model.ActionDeny, "write")
	rule.Environment = "production"

	// "payments-service" derives no environment; "prod" in the name does.
	result := re.Evaluate(&rule, testContext(nil))
	assert.False(t, result.Matched)

	result = re.Evaluate(&rule, testContext(func(req *pdp_model.EnforcementRequest) {
		req.ResourceName = "payments-prod-cluster"
	}))
	assert.True(t, result.Matched)
}

func TestRuleEvaluator_ConditionsRunFirst(t *testing.T) {
	re := newTestRuleEvaluator()

	rule := testRule("r1", model.ActionAllow, "write")
	rule.ResourceType = "workflow" // would also fail
	rule.Conditions = model.ConditionMap{"tool_type": "gitlab"}

	result := re.Evaluate(&rule, testContext(nil))
	assert.False(t, result.Matched)
	// The condition failure is cited, not the resource type mismatch.
	assert.Contains(t, result.Reason, "tool_type")
}

func TestRuleEvaluator_ValuesCapturedForAudit(t *testing.T) {
	re := newTestRuleEvaluator()

	rule := testRule("r1", model.ActionAllow, "write")
	result := re.Evaluate(&rule, testContext(nil))

	assert.Equal(t, "write", result.Values["action"])
	assert.Equal(t, "repository", result.Values["resource_type"])
	assert.Contains(t, result.Values, "timestamp")
}
