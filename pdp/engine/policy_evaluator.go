// pdp/engine/policy_evaluator.go
package engine

import (
	"fmt"

	"github.com/toolgate/api/model"
	pdp_model "github.com/toolgate/api/pdp/model"
)

// PolicyEvaluator evaluates one policy against a context: policy-level
// conditions first, then each enabled rule in store order. Rule decisions
// within the policy are combined with the same algorithm used across
// policies; a separate per-policy knob is deliberately not introduced.
type PolicyEvaluator struct {
	conditions *ConditionEvaluator
	rules      *RuleEvaluator
}

func NewPolicyEvaluator(conditions *ConditionEvaluator, rules *RuleEvaluator) *PolicyEvaluator {
	return &PolicyEvaluator{conditions: conditions, rules: rules}
}

// Evaluate returns the policy's resolved decision, or an unmatched result
// when the policy conditions are unmet or no rule matched.
func (pe *PolicyEvaluator) Evaluate(policy *model.Policy, ectx *pdp_model.EvaluationContext, algorithm string) pdp_model.PolicyEvaluationResult {
	result := pdp_model.PolicyEvaluationResult{
		PolicyID:   policy.PolicyID,
		PolicyName: policy.Name,
		PolicyType: policy.Type,
		Priority:   policy.Priority,
	}

	if len(policy.Conditions) > 0 {
		cond := pe.conditions.Evaluate(policy.Conditions, ectx.AttributeMap())
		if !cond.Matched {
			result.Reason = fmt.Sprintf("policy conditions not met: %s", cond.Reason)
			return result
		}
	}

	var policyDecision string
	for i := range policy.Rules {
		rule := &policy.Rules[i]
		if !rule.Enabled {
			continue
		}

		ruleResult := pe.rules.Evaluate(rule, ectx)
		if !ruleResult.Matched {
			continue
		}

		decision := rule.Action.Decision()
		result.MatchedRules = append(result.MatchedRules, pdp_model.MatchedRule{
			PolicyID: policy.PolicyID,
			RuleID:   rule.RuleID,
			Name:     rule.Name,
			Action:   decision,
			Reason:   ruleResult.Reason,
		})

		if policyDecision == "" {
			policyDecision = decision
		} else {
			policyDecision = combineDecisions(policyDecision, decision, algorithm)
		}

		// Early termination: under deny_overrides no later rule in this
		// policy can change the outcome once a deny landed.
		if algorithm == model.CombiningDenyOverrides && decision == model.ActionDeny {
			break
		}
	}

	if len(result.MatchedRules) == 0 {
		result.Reason = "no rules matched"
		return result
	}

	result.Matched = true
	result.Decision = policyDecision
	result.Reason = fmt.Sprintf("%d rule(s) matched, decision %s", len(result.MatchedRules), policyDecision)
	return result
}

// combineDecisions folds a new rule decision into the running one using the
// globally configured combining algorithm.
func combineDecisions(current, next, algorithm string) string {
	switch algorithm {
	case model.CombiningDenyOverrides:
		if current == model.ActionDeny || next == model.ActionDeny {
			return model.ActionDeny
		}
		return current
	case model.CombiningPermitOverrides:
		if current == model.ActionAllow || next == model.ActionAllow {
			return model.ActionAllow
		}
		return current
	case model.CombiningFirstApplicable:
		return current
	default:
		return current
	}
}
