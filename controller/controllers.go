// controller/controllers.go
package controller

import (
	"github.com/toolgate/api/audit"
	"github.com/toolgate/api/service"
)

type Controllers struct {
	Enforcement *EnforcementController
	Policy      *PolicyController
	Tool        *ToolController
}

func InitializeControllers(services *service.Services, engine Enforcer, auditService audit.Service) *Controllers {
	return &Controllers{
		Enforcement: NewEnforcementController(engine, auditService),
		Policy:      NewPolicyController(services.Policy),
		Tool:        NewToolController(services.Tool),
	}
}
