// service/services.go
package service

import (
	"gorm.io/gorm"

	"github.com/toolgate/api/dao"
	"github.com/toolgate/api/util"
	"github.com/toolgate/api/validator"
)

type Services struct {
	Policy IPolicyService
	Tool   IToolService
}

func InitializeServices(
	db *gorm.DB,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, *dao.PolicyDAO, *dao.ToolDAO, error) {
	policyDAO := dao.NewPolicyDAO(db)
	toolDAO := dao.NewToolDAO(db)
	policyValidator := validator.NewPolicyValidator(toolDAO)

	services := &Services{
		Policy: NewPolicyService(policyDAO, policyValidator, cacheService, notificationSvc, eventBus),
		Tool:   NewToolService(toolDAO, cacheService, notificationSvc, eventBus),
	}

	return services, policyDAO, toolDAO, nil
}
