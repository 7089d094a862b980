// util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/toolgate/api/logging"
	"github.com/toolgate/api/model"
)

type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyPolicyChange(ctx context.Context, changeType string, policy model.Policy) error {
	switch changeType {
	case "created":
		logger.Info("NOTIFICATION: New policy created",
			zap.String("policyID", policy.PolicyID),
			zap.String("policyName", policy.Name))
	case "updated":
		logger.Info("NOTIFICATION: Policy updated",
			zap.String("policyID", policy.PolicyID),
			zap.String("policyName", policy.Name))
	case "deleted":
		logger.Info("NOTIFICATION: Policy deleted",
			zap.String("policyID", policy.PolicyID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}

func (n *NotificationService) NotifyToolChange(ctx context.Context, changeType string, tool model.ToolIntegration) error {
	logger.Info("NOTIFICATION: Tool integration change",
		zap.String("changeType", changeType),
		zap.String("slug", tool.Slug),
		zap.String("name", tool.Name))
	return nil
}

func (n *NotificationService) NotifyAdmins(ctx context.Context, message string) error {
	logger.Info("Notifying admins", zap.String("message", message))
	return nil
}
