// validator/policy_validator.go
package validator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/toolgate/api/model"
)

// ValidationResult aggregates every finding from a validation pass. A policy
// is rejected iff at least one error was produced; warnings and
// recommendations never block activation.
type ValidationResult struct {
	Valid           bool     `json:"valid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

func (r *ValidationResult) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) addWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) addRecommendation(format string, args ...interface{}) {
	r.Recommendations = append(r.Recommendations, fmt.Sprintf(format, args...))
}

// ToolResolver looks up tool integrations for tool-specific checks.
type ToolResolver interface {
	GetTool(ctx context.Context, slug string) (*model.ToolIntegration, error)
}

// PolicyValidator lints a candidate policy document before it may become
// active. All check groups run; findings are aggregated, never short-circuited.
type PolicyValidator struct {
	tools ToolResolver
}

func NewPolicyValidator(tools ToolResolver) *PolicyValidator {
	return &PolicyValidator{tools: tools}
}

var validPolicyTypes = map[string]bool{
	model.PolicyTypeAccessControl: true,
	model.PolicyTypeCompliance:    true,
	model.PolicyTypeSecurity:      true,
	model.PolicyTypeGovernance:    true,
	model.PolicyTypeWorkflow:      true,
}

var validRuleActions = map[string]bool{
	model.ActionAllow:           true,
	model.ActionDeny:            true,
	model.ActionAudit:           true,
	model.ActionAlert:           true,
	model.ActionRequireApproval: true,
	model.ActionLog:             true,
}

// Validate runs schema, business, security, tool-specific, performance and
// compliance checks in order and returns all findings.
func (v *PolicyValidator) Validate(ctx context.Context, policy *model.Policy) ValidationResult {
	result := ValidationResult{
		Errors:          []string{},
		Warnings:        []string{},
		Recommendations: []string{},
	}

	v.checkSchema(policy, &result)
	v.checkBusinessLogic(policy, &result)
	v.checkSecurity(policy, &result)
	v.checkToolSpecific(ctx, policy, &result)
	v.checkPerformance(policy, &result)
	v.checkCompliance(policy, &result)

	result.Valid = len(result.Errors) == 0
	return result
}

func (v *PolicyValidator) checkSchema(policy *model.Policy, result *ValidationResult) {
	if policy.Name == "" {
		result.addError("policy name is required")
	}
	if policy.Type == "" {
		result.addError("policy type is required")
	} else if !validPolicyTypes[policy.Type] {
		result.addError("unknown policy type %q", policy.Type)
	}
	if policy.Priority < 1 || policy.Priority > 1000 {
		result.addError("policy priority %d outside valid range 1-1000", policy.Priority)
	}
	if len(policy.Rules) == 0 {
		result.addError("policy must define at least one rule")
	}

	for i := range policy.Rules {
		rule := &policy.Rules[i]
		label := rule.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if rule.Name == "" {
			result.addError("rule %s: name is required", label)
		}
		if rule.Priority < 1 || rule.Priority > 100 {
			result.addError("rule %s: priority %d outside valid range 1-100", label, rule.Priority)
		}
		decision := rule.Action.Decision()
		if decision == "" {
			result.addError("rule %s: action is required", label)
		} else if !validRuleActions[decision] {
			result.addError("rule %s: unknown action %q", label, decision)
		}
	}
}

func (v *PolicyValidator) checkBusinessLogic(policy *model.Policy, result *ValidationResult) {
	seenPriorities := make(map[int]string)
	for i := range policy.Rules {
		rule := &policy.Rules[i]
		if other, dup := seenPriorities[rule.Priority]; dup {
			result.addWarning("rules %q and %q share priority %d; evaluation order between them is unspecified", other, rule.Name, rule.Priority)
		} else {
			seenPriorities[rule.Priority] = rule.Name
		}
	}

	if policy.EffectiveFrom != nil && policy.EffectiveUntil != nil && !policy.EffectiveFrom.Before(*policy.EffectiveUntil) {
		result.addError("effective_from must precede effective_until")
	}
	if policy.EffectiveUntil != nil && policy.EffectiveUntil.Before(time.Now()) {
		result.addWarning("policy is already expired (effective_until %s)", policy.EffectiveUntil.Format(time.RFC3339))
	}
	if policy.ToolScope != "" && policy.ToolID == nil {
		result.addError("tool_scope set without tool_id")
	}
}

func (v *PolicyValidator) checkSecurity(policy *model.Policy, result *ValidationResult) {
	hasAllow := false
	hasDeny := false

	for i := range policy.Rules {
		rule := &policy.Rules[i]
		decision := rule.Action.Decision()
		switch decision {
		case model.ActionAllow:
			hasAllow = true
		case model.ActionDeny:
			hasDeny = true
		}

		// A maximally permissive allow rule is legal but worth flagging.
		if decision == model.ActionAllow && len(rule.Conditions) == 0 && len(rule.RoleRequirements) == 0 {
			result.addWarning("rule %q allows without any conditions or role requirements", rule.Name)
		}

		if rule.RoleRequirements != nil && len(rule.RoleRequirements) == 0 {
			result.addWarning("rule %q has an empty role_requirements array; use null to mean unrestricted", rule.Name)
		}

		if tr := rule.TimeRestrictions; tr != nil {
			if tr.StartHour != nil && (*tr.StartHour < 0 || *tr.StartHour > 23) {
				result.addError("rule %q: start_hour %d out of range", rule.Name, *tr.StartHour)
			}
			if tr.EndHour != nil && (*tr.EndHour < 0 || *tr.EndHour > 24) {
				result.addError("rule %q: end_hour %d out of range", rule.Name, *tr.EndHour)
			}
			if tr.StartHour != nil && tr.EndHour != nil && *tr.StartHour >= *tr.EndHour {
				result.addError("rule %q: business-hours window start %d not before end %d", rule.Name, *tr.StartHour, *tr.EndHour)
			}
			if tr.ValidFrom != nil && tr.ValidUntil != nil && !tr.ValidFrom.Before(*tr.ValidUntil) {
				result.addError("rule %q: valid_from must precede valid_until", rule.Name)
			}
		}
	}

	if hasAllow && hasDeny {
		result.addWarning("policy mixes allow and deny rules; outcome depends on the combining algorithm")
	}
}

func (v *PolicyValidator) checkToolSpecific(ctx context.Context, policy *model.Policy, result *ValidationResult) {
	if policy.ToolID == nil || v.tools == nil {
		return
	}
	tool, err := v.tools.GetTool(ctx, *policy.ToolID)
	if err != nil || tool == nil {
		result.addError("tool_id %q does not reference a known tool integration", *policy.ToolID)
		return
	}
	capability, ok := model.CapabilitiesForType(tool.Type)
	if !ok {
		result.addWarning("no capability table for tool type %q; skipping tool-specific checks", tool.Type)
		return
	}

	for i := range policy.Rules {
		rule := &policy.Rules[i]
		if rule.ResourceType != "" && !containsString(capability.ResourceTypes, rule.ResourceType) {
			result.addError("rule %q: resource type %q unknown to %s", rule.Name, rule.ResourceType, tool.Type)
		}
		for _, action := range rule.Action {
			if action == "*" || validRuleActions[action] {
				continue
			}
			if !containsString(capability.Actions, action) {
				result.addError("rule %q: action %q unknown to %s", rule.Name, action, tool.Type)
			}
		}
		for _, role := range rule.RoleRequirements {
			if !containsString(capability.Roles, role) {
				result.addError("rule %q: role %q unknown to %s", rule.Name, role, tool.Type)
			}
		}

		// Destroying production infrastructure should never hinge on a
		// low-priority policy.
		if tool.Type == "terraform" && rule.ResourceType == "infrastructure" &&
			rule.Action.MatchesAction("destroy") && rule.Environment == "production" && policy.Priority < 900 {
			result.addRecommendation("production infrastructure-destroy rules should carry priority >= 900 (policy has %d)", policy.Priority)
		}
	}
}

func (v *PolicyValidator) checkPerformance(policy *model.Policy, result *ValidationResult) {
	if len(policy.Rules) > 20 {
		result.addWarning("policy has %d rules; evaluation cost grows linearly, consider splitting", len(policy.Rules))
	}
	for i := range policy.Rules {
		rule := &policy.Rules[i]
		if len(rule.Conditions) > 10 {
			result.addWarning("rule %q has %d conditions; consider consolidating", rule.Name, len(rule.Conditions))
		}
	}
}

func (v *PolicyValidator) checkCompliance(policy *model.Policy, result *ValidationResult) {
	framework := strings.ToUpper(policy.ComplianceFramework)
	if framework == "" {
		return
	}
	if framework == "SOX" && policy.Type != model.PolicyTypeCompliance && policy.Type != model.PolicyTypeGovernance {
		result.addWarning("SOX policies should be of type compliance or governance, got %q", policy.Type)
	}
	if policy.Description == "" {
		result.addRecommendation("%s policies should cite the regulatory requirement they implement in the description", framework)
	}
	if policy.RiskLevel == "" {
		result.addRecommendation("compliance policies should declare a risk_level")
	}
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
