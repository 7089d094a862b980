// model/tool.go
package model

import "time"

// ToolIntegration describes one DevOps tool behind the SSO broker.
type ToolIntegration struct {
	Slug        string    `json:"slug" gorm:"primaryKey"`
	Name        string    `json:"name"`
	Type        string    `json:"type"` // github, gitlab, jenkins, terraform, kubernetes, argocd
	BaseURL     string    `json:"base_url"`
	Environment string    `json:"environment,omitempty"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToolCapability lists what a tool type understands. The policy validator
// rejects rules that reference resource types, actions or roles unknown to
// the target tool.
type ToolCapability struct {
	ResourceTypes []string `json:"resource_types"`
	Actions       []string `json:"actions"`
	Roles         []string `json:"roles"`
}

var toolCapabilities = map[string]ToolCapability{
	"github": {
		ResourceTypes: []string{"repository", "branch", "pull_request", "workflow", "secret", "organization"},
		Actions:       []string{"read", "write", "delete", "merge", "approve", "admin"},
		Roles:         []string{"admin", "maintainer", "developer", "viewer"},
	},
	"gitlab": {
		ResourceTypes: []string{"project", "branch", "merge_request", "pipeline", "variable", "group"},
		Actions:       []string{"read", "write", "delete", "merge", "approve", "admin"},
		Roles:         []string{"owner", "maintainer", "developer", "reporter", "guest"},
	},
	"jenkins": {
		ResourceTypes: []string{"job", "build", "node", "credential", "view"},
		Actions:       []string{"read", "build", "configure", "delete", "admin"},
		Roles:         []string{"admin", "developer", "viewer"},
	},
	"terraform": {
		ResourceTypes: []string{"workspace", "run", "state", "variable", "module", "infrastructure"},
		Actions:       []string{"read", "plan", "apply", "destroy", "admin"},
		Roles:         []string{"admin", "operator", "developer", "viewer"},
	},
	"kubernetes": {
		ResourceTypes: []string{"namespace", "deployment", "pod", "service", "configmap", "secret"},
		Actions:       []string{"get", "list", "create", "update", "delete", "exec"},
		Roles:         []string{"cluster-admin", "admin", "edit", "view"},
	},
	"argocd": {
		ResourceTypes: []string{"application", "project", "repository", "cluster"},
		Actions:       []string{"get", "sync", "create", "update", "delete", "override"},
		Roles:         []string{"admin", "operator", "readonly"},
	},
}

// CapabilitiesForType returns the capability table for a tool type.
func CapabilitiesForType(toolType string) (ToolCapability, bool) {
	cap, ok := toolCapabilities[toolType]
	return cap, ok
}
