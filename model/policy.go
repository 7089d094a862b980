// model/policy.go
package model

import (
	"encoding/json"
	"time"
)

// Policy types
const (
	PolicyTypeAccessControl = "access_control"
	PolicyTypeCompliance    = "compliance"
	PolicyTypeSecurity      = "security"
	PolicyTypeGovernance    = "governance"
	PolicyTypeWorkflow      = "workflow"
)

// Rule actions. The action field is both the decision value a matched rule
// contributes and the applicability filter checked against the request action.
const (
	ActionAllow           = "allow"
	ActionDeny            = "deny"
	ActionAudit           = "audit"
	ActionAlert           = "alert"
	ActionRequireApproval = "require_approval"
	ActionLog             = "log"
)

// Combining algorithms
const (
	CombiningDenyOverrides   = "deny_overrides"
	CombiningPermitOverrides = "permit_overrides"
	CombiningFirstApplicable = "first_applicable"
)

type Policy struct {
	PolicyID            string       `json:"policy_id" gorm:"primaryKey;column:policy_id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	Type                string       `json:"type"` // access_control, compliance, security, governance, workflow
	Category            string       `json:"category"`
	ToolID              *string      `json:"tool_id,omitempty" gorm:"index"` // tool slug; nil applies to all tools
	ToolScope           string       `json:"tool_scope,omitempty"`
	ScopeIdentifier     string       `json:"scope_identifier,omitempty"`
	Priority            int          `json:"priority"` // 1-1000, higher wins
	Enabled             bool         `json:"enabled"`
	Rules               []Rule       `json:"rules" gorm:"foreignKey:PolicyID;references:PolicyID"`
	Conditions          ConditionMap `json:"conditions,omitempty" gorm:"serializer:json"`
	ComplianceFramework string       `json:"compliance_framework,omitempty"`
	RiskLevel           string       `json:"risk_level,omitempty"`
	EffectiveFrom       *time.Time   `json:"effective_from,omitempty"`
	EffectiveUntil      *time.Time   `json:"effective_until,omitempty"`
	Version             int          `json:"version"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// InEffect reports whether the policy's effective window contains the given
// instant. Unset bounds are open-ended.
func (p *Policy) InEffect(now time.Time) bool {
	if p.EffectiveFrom != nil && now.Before(*p.EffectiveFrom) {
		return false
	}
	if p.EffectiveUntil != nil && !now.Before(*p.EffectiveUntil) {
		return false
	}
	return true
}

type Rule struct {
	RuleID           string            `json:"rule_id" gorm:"primaryKey;column:rule_id"`
	PolicyID         string            `json:"policy_id" gorm:"index"`
	Name             string            `json:"name"`
	Priority         int               `json:"priority"` // 1-100, storage ordering only
	Enabled          bool              `json:"enabled"`
	Action           ActionList        `json:"action" gorm:"serializer:json"`
	ResourceType     string            `json:"resource_type,omitempty"`
	ResourcePattern  string            `json:"resource_pattern,omitempty"`
	UserPattern      string            `json:"user_pattern,omitempty"`
	GroupPattern     string            `json:"group_pattern,omitempty"`
	RoleRequirements StringList        `json:"role_requirements,omitempty" gorm:"serializer:json"`
	TimeRestrictions *TimeRestrictions `json:"time_restrictions,omitempty" gorm:"serializer:json"`
	Environment      string            `json:"environment,omitempty"`
	Conditions       ConditionMap      `json:"conditions,omitempty" gorm:"serializer:json"`
}

// ConditionMap maps dotted attribute paths to expected values. A value may be
// a scalar (strict equality), a list (membership) or an operator object
// ({"$eq": v} / {"$in": [...]}).
type ConditionMap map[string]interface{}

type StringList []string

// ActionList accepts either a single JSON string or an array of strings. A
// single decision value is the common case; lists (optionally containing "*")
// widen the applicability match.
type ActionList []string

func (a *ActionList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = ActionList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*a = ActionList(list)
	return nil
}

func (a ActionList) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}

// Decision returns the decision value a matched rule contributes.
func (a ActionList) Decision() string {
	if len(a) == 0 {
		return ""
	}
	return a[0]
}

// MatchesAction reports whether the rule applies to the request action.
func (a ActionList) MatchesAction(action string) bool {
	for _, v := range a {
		if v == action || v == "*" {
			return true
		}
	}
	return false
}

type TimeRestrictions struct {
	BusinessHoursOnly bool       `json:"business_hours_only,omitempty"`
	StartHour         *int       `json:"start_hour,omitempty"` // default 9
	EndHour           *int       `json:"end_hour,omitempty"`   // default 17
	ValidFrom         *time.Time `json:"valid_from,omitempty"`
	ValidUntil        *time.Time `json:"valid_until,omitempty"`
}

type PolicySearchCriteria struct {
	Name        string  `json:"name,omitempty"`
	Type        string  `json:"type,omitempty"`
	ToolID      *string `json:"tool_id,omitempty"`
	MinPriority int     `json:"min_priority,omitempty"`
	MaxPriority int     `json:"max_priority,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
	Limit       int     `json:"limit,omitempty"`
	Offset      int     `json:"offset,omitempty"`
}
