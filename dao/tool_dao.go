// dao/tool_dao.go
package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	toolgate_errors "github.com/toolgate/api/errors"
	"github.com/toolgate/api/model"
)

type ToolDAO struct {
	db *gorm.DB
}

func NewToolDAO(db *gorm.DB) *ToolDAO {
	return &ToolDAO{db: db}
}

func (dao *ToolDAO) CreateTool(ctx context.Context, tool *model.ToolIntegration) error {
	if err := dao.db.WithContext(ctx).Create(tool).Error; err != nil {
		return fmt.Errorf("failed to create tool integration: %w", err)
	}
	return nil
}

func (dao *ToolDAO) UpdateTool(ctx context.Context, tool *model.ToolIntegration) error {
	result := dao.db.WithContext(ctx).Model(&model.ToolIntegration{}).
		Where("slug = ?", tool.Slug).
		Updates(tool)
	if result.Error != nil {
		return fmt.Errorf("failed to update tool integration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return toolgate_errors.ErrToolNotFound
	}
	return nil
}

func (dao *ToolDAO) DeleteTool(ctx context.Context, slug string) error {
	result := dao.db.WithContext(ctx).Where("slug = ?", slug).Delete(&model.ToolIntegration{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete tool integration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return toolgate_errors.ErrToolNotFound
	}
	return nil
}

func (dao *ToolDAO) GetTool(ctx context.Context, slug string) (*model.ToolIntegration, error) {
	var tool model.ToolIntegration
	err := dao.db.WithContext(ctx).First(&tool, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, toolgate_errors.ErrToolNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tool integration: %w", err)
	}
	return &tool, nil
}

func (dao *ToolDAO) ListTools(ctx context.Context, limit, offset int) ([]*model.ToolIntegration, error) {
	var tools []*model.ToolIntegration
	err := dao.db.WithContext(ctx).
		Order("slug").
		Limit(limit).Offset(offset).
		Find(&tools).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tool integrations: %w", err)
	}
	return tools, nil
}
