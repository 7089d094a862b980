// pdp/model/context.go
package model

import (
	"strings"
	"time"
)

// EvaluationContext is the ephemeral attribute bag a single enforcement
// request is evaluated against. Built per request, never persisted.
type EvaluationContext struct {
	User         UserIdentity
	ToolSlug     string
	ToolType     string
	Action       string
	ResourceType string
	ResourceID   string
	ResourceName string
	Timestamp    time.Time
	Environment  string
	Attributes   map[string]interface{}
}

// NewEvaluationContext builds the context from the request plus tool metadata.
// Caller-supplied attributes are merged in last and may shadow derived keys.
func NewEvaluationContext(req *EnforcementRequest, toolType string, now time.Time) *EvaluationContext {
	ctx := &EvaluationContext{
		User:         req.User,
		ToolSlug:     req.ToolSlug,
		ToolType:     toolType,
		Action:       req.Action,
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		ResourceName: req.ResourceName,
		Timestamp:    now,
		Environment:  deriveEnvironment(req.ResourceName, req.ResourceID),
		Attributes:   make(map[string]interface{}, len(req.Attributes)),
	}
	for k, v := range req.Attributes {
		ctx.Attributes[k] = v
	}
	return ctx
}

// deriveEnvironment guesses the target environment from resource naming.
func deriveEnvironment(resourceName, resourceID string) string {
	for _, s := range []string{resourceName, resourceID} {
		lower := strings.ToLower(s)
		switch {
		case strings.Contains(lower, "prod"):
			return "production"
		case strings.Contains(lower, "stage"):
			return "staging"
		case strings.Contains(lower, "dev"):
			return "development"
		}
	}
	return "unknown"
}

// AttributeMap flattens the context into the nested map the condition
// evaluator resolves dotted paths against. Caller attributes sit at the top
// level alongside the derived keys.
func (c *EvaluationContext) AttributeMap() map[string]interface{} {
	attrs := map[string]interface{}{
		"user": map[string]interface{}{
			"sub":    c.User.Sub,
			"email":  c.User.Email,
			"roles":  c.User.Roles,
			"groups": c.User.Groups,
		},
		"tool_slug":     c.ToolSlug,
		"tool_type":     c.ToolType,
		"action":        c.Action,
		"resource_type": c.ResourceType,
		"resource_id":   c.ResourceID,
		"resource_name": c.ResourceName,
		"environment":   c.Environment,
		"timestamp":     c.Timestamp,
	}
	for k, v := range c.Attributes {
		attrs[k] = v
	}
	return attrs
}
