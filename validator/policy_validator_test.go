// validator/policy_validator_test.go
package validator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	toolgate_errors "github.com/toolgate/api/errors"
	"github.com/toolgate/api/model"
)

type fakeToolResolver struct {
	tools map[string]*model.ToolIntegration
}

func (f *fakeToolResolver) GetTool(ctx context.Context, slug string) (*model.ToolIntegration, error) {
	if tool, ok := f.tools[slug]; ok {
		return tool, nil
	}
	return nil, toolgate_errors.ErrToolNotFound
}

func newTestValidator() *PolicyValidator {
	return NewPolicyValidator(&fakeToolResolver{tools: map[string]*model.ToolIntegration{
		"github-main": {Slug: "github-main", Type: "github", Enabled: true},
		"tf-cloud":    {Slug: "tf-cloud", Type: "terraform", Enabled: true},
	}})
}

func validPolicy() model.Policy {
	return model.Policy{
		PolicyID: "p1",
		Name:     "require developer role for writes",
		Type:     model.PolicyTypeAccessControl,
		Priority: 400,
		Enabled:  true,
		Rules: []model.Rule{
			{
				RuleID:           "r1",
				Name:             "developers may write",
				Priority:         50,
				Enabled:          true,
				Action:           model.ActionList{model.ActionAllow, "write"},
				ResourceType:     "repository",
				RoleRequirements: model.StringList{"developer"},
			},
		},
	}
}

func TestValidate_ValidPolicy(t *testing.T) {
	v := newTestValidator()
	result := v.Validate(context.Background(), ptr(validPolicy()))
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_SchemaErrors(t *testing.T) {
	v := newTestValidator()

	t.Run("missing name and type", func(t *testing.T) {
		policy := validPolicy()
		policy.Name = ""
		policy.Type = ""
		result := v.Validate(context.Background(), &policy)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors, "policy name is required")
		assert.Contains(t, result.Errors, "policy type is required")
	})

	t.Run("unknown policy type", func(t *testing.T) {
		policy := validPolicy()
		policy.Type = "firewall"
		result := v.Validate(context.Background(), &policy)
		assert.False(t, result.Valid)
	})

	t.Run("priority out of range", func(t *testing.T) {
		for _, priority := range []int{0, -5, 1001} {
			policy := validPolicy()
			policy.Priority = priority
			result := v.Validate(context.Background(), &policy)
			assert.False(t, result.Valid, "priority %d", priority)
		}
	})

	t.Run("no rules", func(t *testing.T) {
		policy := validPolicy()
		policy.Rules = nil
		result := v.Validate(context.Background(), &policy)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors, "policy must define at least one rule")
	})

	t.Run("unknown rule action", func(t *testing.T) {
		policy := validPolicy()
		policy.Rules[0].Action = model.ActionList{"obliterate"}
		result := v.Validate(context.Background(), &policy)
		assert.False(t, result.Valid)
	})
}

func TestValidate_BusinessLogic(t *testing.T) {
	v := newTestValidator()

	t.Run("inverted effective window is an error", func(t *testing.T) {
		policy := validPolicy()
		from := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
		until := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
		policy.EffectiveFrom = &from
		policy.EffectiveUntil = &until
		result := v.Validate(context.Background(), &policy)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors, "effective_from must precede effective_until")
	})

	t.Run("expired policy is a warning not an error", func(t *testing.T) {
		policy := validPolicy()
		until := time.Now().Add(-24 * time.Hour)
		policy.EffectiveUntil = &until
		result := v.Validate(context.Background(), &policy)
		assert.True(t, result.Valid)
		require.NotEmpty(t, result.Warnings)
	})

	t.Run("duplicate rule priorities warn", func(t *testing.T) {
		policy := validPolicy()
		second := policy.Rules[0]
		second.RuleID = "r2"
		second.Name = "second rule"
		policy.Rules = append(policy.Rules, second)
		result := v.Validate(context.Background(), &policy)
		assert.True(t, result.Valid)
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("tool_scope without tool_id", func(t *testing.T) {
		policy := validPolicy()
		policy.ToolScope = "organization"
		result := v.Validate(context.Background(), &policy)
		assert.False(t, result.Valid)
	})
}

func TestValidate_SecurityChecks(t *testing.T) {
	v := newTestValidator()

	t.Run("unconditional allow warns but passes", func(t *testing.T) {
		policy := validPolicy()
		policy.Rules[0].RoleRequirements = nil
		policy.Rules[0].Conditions = nil
		result := v.Validate(context.Background(), &policy)
		assert.True(t, result.Valid)
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("malformed hour window is an error", func(t *testing.T) {
		policy := validPolicy()
		start, end := 18, 9
		policy.Rules[0].TimeRestrictions = &model.TimeRestrictions{
			BusinessHoursOnly: true,
			StartHour:         &start,
			EndHour:           &end,
		}
		result := v.Validate(context.Background(), &policy)
		assert.False(t, result.Valid)
	})

	t.Run("empty non-nil role_requirements warns", func(t *testing.T) {
		policy := validPolicy()
		policy.Rules[0].RoleRequirements = model.StringList{}
		result := v.Validate(context.Background(), &policy)
		assert.True(t, result.Valid)
		assert.NotEmpty(t, result.Warnings)
	})
}

func TestValidate_ToolSpecificChecks(t *testing.T) {
	v := newTestValidator()

	t.Run("unknown tool reference", func(t *testing.T) {
		policy := validPolicy()
		policy.ToolID = ptrStr("nonexistent")
		result := v.Validate(context.Background(), &policy)
		assert.False(t, result.Valid)
	})

	t.Run("resource type unknown to tool", func(t *testing.T) {
		policy := validPolicy()
		policy.ToolID = ptrStr("github-main")
		policy.Rules[0].ResourceType = "workspace" // terraform concept
		result := v.Validate(context.Background(), &policy)
		assert.False(t, result.Valid)
	})

	t.Run("role unknown to tool", func(t *testing.T) {
		policy := validPolicy()
		policy.ToolID = ptrStr("github-main")
		policy.Rules[0].RoleRequirements = model.StringList{"cluster-admin"}
		result := v.Validate(context.Background(), &policy)
		assert.False(t, result.Valid)
	})

	t.Run("valid github policy", func(t *testing.T) {
		policy := validPolicy()
		policy.ToolID = ptrStr("github-main")
		result := v.Validate(context.Background(), &policy)
		assert.True(t, result.Valid)
	})

	t.Run("low-priority production destroy gets a recommendation", func(t *testing.T) {
		policy := validPolicy()
		policy.ToolID = ptrStr("tf-cloud")
		policy.Priority = 400
		policy.Rules[0].ResourceType = "infrastructure"
		policy.Rules[0].Action = model.ActionList{model.ActionDeny, "destroy"}
		policy.Rules[0].Environment = "production"
		policy.Rules[0].RoleRequirements = model.StringList{"operator"}
		result := v.Validate(context.Background(), &policy)
		assert.True(t, result.Valid)
		assert.NotEmpty(t, result.Recommendations)
	})
}

func TestValidate_PerformanceWarnings(t *testing.T) {
	v := newTestValidator()

	policy := validPolicy()
	base := policy.Rules[0]
	for i := 1; i < 25; i++ {
		rule := base
		rule.RuleID = ""
		rule.Name = "generated rule"
		rule.Priority = i + 51
		policy.Rules = append(policy.Rules, rule)
	}
	// 25 rules bust the size threshold.
	result := v.Validate(context.Background(), &policy)
	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)
}

func TestValidate_ComplianceChecks(t *testing.T) {
	v := newTestValidator()

	policy := validPolicy()
	policy.ComplianceFramework = "SOX"
	policy.Type = model.PolicyTypeAccessControl
	result := v.Validate(context.Background(), &policy)
	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)
	assert.NotEmpty(t, result.Recommendations)
}

func ptr(p model.Policy) *model.Policy { return &p }
func ptrStr(s string) *string          { return &s }
