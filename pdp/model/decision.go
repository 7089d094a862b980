// pdp/model/decision.go
package model

import "time"

// Decision values the engine can return. Rule-level decision values (audit,
// alert, require_approval, log) surface through matched rules; the final
// decision collapses to allow, deny or error.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
	DecisionError = "error"
)

// PolicyRef identifies the policy that determined the baseline decision.
type PolicyRef struct {
	PolicyID string `json:"policy_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
}

// MatchedRule summarizes one rule match for audit replay.
type MatchedRule struct {
	PolicyID string `json:"policy_id"`
	RuleID   string `json:"rule_id"`
	Name     string `json:"name"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

// EvaluationSummary carries the counts behind a decision.
type EvaluationSummary struct {
	PoliciesEvaluated  int    `json:"policies_evaluated"`
	PoliciesMatched    int    `json:"policies_matched"`
	RulesMatched       int    `json:"rules_matched"`
	CombiningAlgorithm string `json:"combining_algorithm"`
}

// PolicyDecision is the immutable result of one evaluation. Cached decisions
// are returned byte-for-byte equal for the cache TTL window.
type PolicyDecision struct {
	Decision          string            `json:"decision"`
	Reason            string            `json:"reason"`
	ConfidenceScore   float64           `json:"confidence_score"`
	EvaluationID      string            `json:"evaluation_id"`
	Timestamp         time.Time         `json:"timestamp"`
	PrimaryPolicy     *PolicyRef        `json:"primary_policy,omitempty"`
	MatchedRules      []MatchedRule     `json:"matched_rules"`
	EvaluationSummary EvaluationSummary `json:"evaluation_summary"`
}

// PolicyEvaluationResult is the outcome of evaluating one policy.
type PolicyEvaluationResult struct {
	PolicyID     string
	PolicyName   string
	PolicyType   string
	Priority     int
	Matched      bool
	Decision     string // empty when no rule matched
	Reason       string
	MatchedRules []MatchedRule
}

// RuleEvaluationResult is the outcome of evaluating one rule.
type RuleEvaluationResult struct {
	RuleID  string
	Matched bool
	Reason  string
	Values  map[string]interface{} // values the checks ran against, for audit replay
}

// ConditionEvaluationResult is the outcome of evaluating a condition set.
type ConditionEvaluationResult struct {
	Matched bool
	Reason  string
}
