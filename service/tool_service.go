// service/tool_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/toolgate/api/dao"
	logger "github.com/toolgate/api/logging"
	"github.com/toolgate/api/model"
	"github.com/toolgate/api/util"
)

// IToolService is the tool-directory contract consumed by the controllers.
type IToolService interface {
	CreateTool(ctx context.Context, tool model.ToolIntegration, userID string) (*model.ToolIntegration, error)
	UpdateTool(ctx context.Context, tool model.ToolIntegration, userID string) (*model.ToolIntegration, error)
	DeleteTool(ctx context.Context, slug string, userID string) error
	GetTool(ctx context.Context, slug string) (*model.ToolIntegration, error)
	ListTools(ctx context.Context, limit int, offset int) ([]*model.ToolIntegration, error)
	GetToolCapabilities(ctx context.Context, slug string) (model.ToolCapability, error)
}

// ToolService handles business logic for the tool integration directory.
type ToolService struct {
	toolDAO         *dao.ToolDAO
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

// NewToolService creates a new instance of ToolService
func NewToolService(toolDAO *dao.ToolDAO, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus) *ToolService {
	service := &ToolService{
		toolDAO:         toolDAO,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe("tool.changed", service.handleToolChanged)

	return service
}

func (s *ToolService) handleToolChanged(ctx context.Context, event util.Event) error {
	payload, ok := event.Payload.(toolChangeEvent)
	if !ok {
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}
	if err := s.notificationSvc.NotifyToolChange(ctx, payload.changeType, payload.tool); err != nil {
		logger.Warn("Failed to send tool change notification",
			zap.Error(err), zap.String("slug", payload.tool.Slug))
	}
	return nil
}

type toolChangeEvent struct {
	changeType string
	tool       model.ToolIntegration
}

// CreateTool registers a new tool integration
func (s *ToolService) CreateTool(ctx context.Context, tool model.ToolIntegration, userID string) (*model.ToolIntegration, error) {
	tool.CreatedAt = time.Now()
	tool.UpdatedAt = time.Now()

	if err := s.toolDAO.CreateTool(ctx, &tool); err != nil {
		logger.Error("Error creating tool integration", zap.Error(err), zap.String("slug", tool.Slug), zap.String("userID", userID))
		return nil, err
	}

	s.invalidateCaches(ctx, tool.Slug)
	s.eventBus.Publish(ctx, "tool.changed", toolChangeEvent{changeType: "created", tool: tool})

	logger.Info("Tool integration created", zap.String("slug", tool.Slug), zap.String("userID", userID))
	return &tool, nil
}

// UpdateTool updates an existing tool integration
func (s *ToolService) UpdateTool(ctx context.Context, tool model.ToolIntegration, userID string) (*model.ToolIntegration, error) {
	tool.UpdatedAt = time.Now()

	if err := s.toolDAO.UpdateTool(ctx, &tool); err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx, tool.Slug)
	s.eventBus.Publish(ctx, "tool.changed", toolChangeEvent{changeType: "updated", tool: tool})

	logger.Info("Tool integration updated", zap.String("slug", tool.Slug), zap.String("userID", userID))
	return &tool, nil
}

// DeleteTool removes a tool integration. Policies scoped to the tool are
// kept; without the tool row they simply never match an enforcement request.
func (s *ToolService) DeleteTool(ctx context.Context, slug string, userID string) error {
	tool, err := s.toolDAO.GetTool(ctx, slug)
	if err != nil {
		return err
	}

	if err := s.toolDAO.DeleteTool(ctx, slug); err != nil {
		return err
	}

	s.invalidateCaches(ctx, slug)
	s.eventBus.Publish(ctx, "tool.changed", toolChangeEvent{changeType: "deleted", tool: *tool})

	logger.Info("Tool integration deleted", zap.String("slug", slug), zap.String("userID", userID))
	return nil
}

// GetTool retrieves a tool integration by slug
func (s *ToolService) GetTool(ctx context.Context, slug string) (*model.ToolIntegration, error) {
	return s.toolDAO.GetTool(ctx, slug)
}

// ListTools retrieves the tool directory with pagination
func (s *ToolService) ListTools(ctx context.Context, limit int, offset int) ([]*model.ToolIntegration, error) {
	return s.toolDAO.ListTools(ctx, limit, offset)
}

// GetToolCapabilities returns the known action/resource-type surface for a
// registered tool, derived from its type.
func (s *ToolService) GetToolCapabilities(ctx context.Context, slug string) (model.ToolCapability, error) {
	tool, err := s.toolDAO.GetTool(ctx, slug)
	if err != nil {
		return model.ToolCapability{}, err
	}
	cap, ok := model.CapabilitiesForType(tool.Type)
	if !ok {
		return model.ToolCapability{}, fmt.Errorf("no capability table for tool type %q", tool.Type)
	}
	return cap, nil
}

func (s *ToolService) invalidateCaches(ctx context.Context, slug string) {
	patterns := []string{
		fmt.Sprintf("policies:%s:*", slug),
		fmt.Sprintf("policy_decision:*:%s:*", slug),
	}
	for _, pattern := range patterns {
		if err := s.cacheService.DeleteByPattern(ctx, pattern); err != nil {
			logger.Warn("Failed to invalidate cache", zap.Error(err), zap.String("pattern", pattern))
		}
	}
}
