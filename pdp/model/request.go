// pdp/model/request.go
package model

// UserIdentity is the authenticated caller as asserted by the SSO proxy.
type UserIdentity struct {
	Sub    string   `json:"sub"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	Groups []string `json:"groups"`
}

// EnforcementRequest describes one tool-access attempt to be judged.
type EnforcementRequest struct {
	User         UserIdentity           `json:"user"`
	ToolSlug     string                 `json:"tool_slug" binding:"required"`
	Action       string                 `json:"action" binding:"required"`
	ResourceType string                 `json:"resource_type,omitempty"`
	ResourceID   string                 `json:"resource_id,omitempty"`
	ResourceName string                 `json:"resource_name,omitempty"`
	Attributes   map[string]interface{} `json:"attributes,omitempty"`
}
