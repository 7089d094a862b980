// pdp/model/result.go
package model

import "time"

// EnforcementResult is the append-only audit record written once per
// enforcement call, cache hit or miss.
type EnforcementResult struct {
	CorrelationID     string        `json:"correlation_id"`
	UserID            string        `json:"user_id"`
	UserEmail         string        `json:"user_email,omitempty"`
	ToolSlug          string        `json:"tool_slug"`
	Action            string        `json:"action"`
	ResourceType      string        `json:"resource_type,omitempty"`
	ResourceID        string        `json:"resource_id,omitempty"`
	ResourceName      string        `json:"resource_name,omitempty"`
	Decision          string        `json:"decision"`
	Reason            string        `json:"reason"`
	ConfidenceScore   float64       `json:"confidence_score"`
	EvaluationID      string        `json:"evaluation_id"`
	PoliciesEvaluated []string      `json:"policies_evaluated"`
	RulesMatched      []string      `json:"rules_matched"`
	CacheHit          bool          `json:"cache_hit"`
	EvaluationTime    time.Duration `json:"evaluation_duration_ns"`
	Error             string        `json:"error,omitempty"`
	Timestamp         time.Time     `json:"timestamp"`
}

// EnforcementHistoryFilter narrows an enforcement history query.
type EnforcementHistoryFilter struct {
	UserID   string    `json:"user_id,omitempty" form:"user_id"`
	ToolSlug string    `json:"tool_slug,omitempty" form:"tool_slug"`
	Decision string    `json:"decision,omitempty" form:"decision"`
	From     time.Time `json:"from,omitempty" form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       time.Time `json:"to,omitempty" form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit    int       `json:"limit,omitempty" form:"limit"`
}
