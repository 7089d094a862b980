// pdp/engine/rule_evaluator.go
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/toolgate/api/model"
	pdp_model "github.com/toolgate/api/pdp/model"
)

// Default business-hours window, local time.
const (
	defaultBusinessHoursStart = 9
	defaultBusinessHoursEnd   = 17
)

// RuleEvaluator matches a single rule's structural predicates plus its
// conditions against an evaluation context. Side-effect free; safe for
// concurrent use.
type RuleEvaluator struct {
	conditions         *ConditionEvaluator
	businessHoursStart int
	businessHoursEnd   int
}

// NewRuleEvaluator falls back to the default window when none is configured.
// The end hour is exclusive, so every configured window has a positive end;
// end <= 0 means unset. A zero start hour is a literal midnight start.
func NewRuleEvaluator(conditions *ConditionEvaluator, businessHoursStart, businessHoursEnd int) *RuleEvaluator {
	if businessHoursEnd <= 0 {
		businessHoursStart = defaultBusinessHoursStart
		businessHoursEnd = defaultBusinessHoursEnd
	}
	return &RuleEvaluator{
		conditions:         conditions,
		businessHoursStart: businessHoursStart,
		businessHoursEnd:   businessHoursEnd,
	}
}

// Evaluate runs the rule's checks in order, short-circuiting on the first
// failure. Each check contributes a reason fragment for audit/debugging.
func (re *RuleEvaluator) Evaluate(rule *model.Rule, ectx *pdp_model.EvaluationContext) pdp_model.RuleEvaluationResult {
	result := pdp_model.RuleEvaluationResult{
		RuleID: rule.RuleID,
		Values: map[string]interface{}{
			"action":        ectx.Action,
			"resource_type": ectx.ResourceType,
			"environment":   ectx.Environment,
			"roles":         ectx.User.Roles,
			"timestamp":     ectx.Timestamp,
		},
	}
	var trail []string

	// 1. Attribute conditions
	if len(rule.Conditions) > 0 {
		cond := re.conditions.Evaluate(rule.Conditions, ectx.AttributeMap())
		if !cond.Matched {
			result.Reason = cond.Reason
			return result
		}
		trail = append(trail, cond.Reason)
	}

	// 2. Resource type
	if rule.ResourceType != "" {
		if rule.ResourceType != ectx.ResourceType {
			result.Reason = fmt.Sprintf("resource type %q does not match required %q", ectx.ResourceType, rule.ResourceType)
			return result
		}
		trail = append(trail, fmt.Sprintf("resource type %q matched", rule.ResourceType))
	}

	// Resource/user/group glob patterns
	if ok, reason := re.matchPatterns(rule, ectx); !ok {
		result.Reason = reason
		return result
	}

	// 3. Action applicability. The rule's action field doubles as its decision
	// value; here it gates whether the rule applies to the attempted action.
	if !rule.Action.MatchesAction(ectx.Action) {
		result.Reason = fmt.Sprintf("action %q not covered by rule actions %v", ectx.Action, []string(rule.Action))
		return result
	}
	trail = append(trail, fmt.Sprintf("action %q applicable", ectx.Action))

	// 4. Role requirements: any-match semantics, empty list means unrestricted
	if len(rule.RoleRequirements) > 0 {
		if !anyRoleMatches(rule.RoleRequirements, ectx.User.Roles) {
			result.Reason = fmt.Sprintf("user roles %v do not satisfy required roles %v", ectx.User.Roles, []string(rule.RoleRequirements))
			return result
		}
		trail = append(trail, "role requirement satisfied")
	}

	// 5. Time restrictions
	if rule.TimeRestrictions != nil {
		if ok, reason := re.checkTimeRestrictions(rule.TimeRestrictions, ectx.Timestamp); !ok {
			result.Reason = reason
			return result
		}
		trail = append(trail, "time restrictions satisfied")
	}

	// 6. Environment
	if rule.Environment != "" {
		if rule.Environment != ectx.Environment {
			result.Reason = fmt.Sprintf("environment %q does not match required %q", ectx.Environment, rule.Environment)
			return result
		}
		trail = append(trail, fmt.Sprintf("environment %q matched", rule.Environment))
	}

	result.Matched = true
	if len(trail) == 0 {
		result.Reason = "rule matched"
	} else {
		result.Reason = strings.Join(trail, "; ")
	}
	return result
}

func (re *RuleEvaluator) matchPatterns(rule *model.Rule, ectx *pdp_model.EvaluationContext) (bool, string) {
	if rule.ResourcePattern != "" {
		if !globMatchesAny(rule.ResourcePattern, ectx.ResourceName, ectx.ResourceID) {
			return false, fmt.Sprintf("resource does not match pattern %q", rule.ResourcePattern)
		}
	}
	if rule.UserPattern != "" {
		if !globMatchesAny(rule.UserPattern, ectx.User.Sub, ectx.User.Email) {
			return false, fmt.Sprintf("user does not match pattern %q", rule.UserPattern)
		}
	}
	if rule.GroupPattern != "" {
		if !globMatchesAny(rule.GroupPattern, ectx.User.Groups...) {
			return false, fmt.Sprintf("no group matches pattern %q", rule.GroupPattern)
		}
	}
	return true, ""
}

func globMatchesAny(pattern string, candidates ...string) bool {
	g, err := glob.Compile(pattern)
	if err != nil {
		// Malformed patterns never match; the validator flags them upstream.
		return false
	}
	for _, c := range candidates {
		if c != "" && g.Match(c) {
			return true
		}
	}
	return false
}

func anyRoleMatches(required model.StringList, roles []string) bool {
	for _, want := range required {
		for _, have := range roles {
			if want == have {
				return true
			}
		}
	}
	return false
}

// checkTimeRestrictions applies the business-hours window and the absolute
// validity bounds against the context timestamp's local time.
func (re *RuleEvaluator) checkTimeRestrictions(tr *model.TimeRestrictions, ts time.Time) (bool, string) {
	if tr.ValidFrom != nil && ts.Before(*tr.ValidFrom) {
		return false, fmt.Sprintf("rule not valid before %s", tr.ValidFrom.Format(time.RFC3339))
	}
	if tr.ValidUntil != nil && !ts.Before(*tr.ValidUntil) {
		return false, fmt.Sprintf("rule not valid after %s", tr.ValidUntil.Format(time.RFC3339))
	}
	if tr.BusinessHoursOnly {
		start := re.businessHoursStart
		end := re.businessHoursEnd
		if tr.StartHour != nil {
			start = *tr.StartHour
		}
		if tr.EndHour != nil {
			end = *tr.EndHour
		}
		weekday := ts.Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			return false, fmt.Sprintf("outside business days (%s)", weekday)
		}
		hour := ts.Hour()
		if hour < start || hour >= end {
			return false, fmt.Sprintf("outside business hours (%02d:00, window %02d-%02d)", hour, start, end)
		}
	}
	return true, ""
}
