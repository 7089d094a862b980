// dao/policy_dao.go
package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	toolgate_errors "github.com/toolgate/api/errors"
	logger "github.com/toolgate/api/logging"
	"github.com/toolgate/api/model"
)

type PolicyDAO struct {
	db *gorm.DB
}

func NewPolicyDAO(db *gorm.DB) *PolicyDAO {
	return &PolicyDAO{db: db}
}

func (dao *PolicyDAO) CreatePolicy(ctx context.Context, policy *model.Policy) error {
	if err := dao.db.WithContext(ctx).Create(policy).Error; err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}
	return nil
}

// UpdatePolicy replaces the policy row and its rule set in one transaction.
func (dao *PolicyDAO) UpdatePolicy(ctx context.Context, policy *model.Policy) error {
	return dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("policy_id = ?", policy.PolicyID).Delete(&model.Rule{}).Error; err != nil {
			return fmt.Errorf("failed to replace policy rules: %w", err)
		}
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(policy).Error; err != nil {
			return fmt.Errorf("failed to update policy: %w", err)
		}
		return nil
	})
}

func (dao *PolicyDAO) DeletePolicy(ctx context.Context, policyID string) error {
	return dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("policy_id = ?", policyID).Delete(&model.Rule{}).Error; err != nil {
			return fmt.Errorf("failed to delete policy rules: %w", err)
		}
		result := tx.Where("policy_id = ?", policyID).Delete(&model.Policy{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete policy: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return toolgate_errors.ErrPolicyNotFound
		}
		return nil
	})
}

func (dao *PolicyDAO) GetPolicy(ctx context.Context, policyID string) (*model.Policy, error) {
	var policy model.Policy
	err := dao.db.WithContext(ctx).
		Preload("Rules", orderRulesByPriority).
		First(&policy, "policy_id = ?", policyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, toolgate_errors.ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	return &policy, nil
}

func (dao *PolicyDAO) ListPolicies(ctx context.Context, limit, offset int) ([]*model.Policy, error) {
	var policies []*model.Policy
	err := dao.db.WithContext(ctx).
		Preload("Rules", orderRulesByPriority).
		Order("priority DESC").
		Limit(limit).Offset(offset).
		Find(&policies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	return policies, nil
}

func (dao *PolicyDAO) SearchPolicies(ctx context.Context, criteria model.PolicySearchCriteria) ([]*model.Policy, error) {
	query := dao.db.WithContext(ctx).Preload("Rules", orderRulesByPriority)

	if criteria.Name != "" {
		query = query.Where("name ILIKE ?", "%"+criteria.Name+"%")
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}
	if criteria.ToolID != nil {
		query = query.Where("tool_id = ?", *criteria.ToolID)
	}
	if criteria.MinPriority > 0 {
		query = query.Where("priority >= ?", criteria.MinPriority)
	}
	if criteria.MaxPriority > 0 {
		query = query.Where("priority <= ?", criteria.MaxPriority)
	}
	if criteria.Enabled != nil {
		query = query.Where("enabled = ?", *criteria.Enabled)
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = 100
	}

	var policies []*model.Policy
	if err := query.Order("priority DESC").Limit(limit).Offset(criteria.Offset).Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to search policies: %w", err)
	}
	return policies, nil
}

// GetPoliciesForEvaluation returns enabled policies inside their effective
// window that apply to the tool (or to all tools), sorted by policy priority
// descending, each carrying its enabled rules sorted by rule priority
// descending. Action and resource type are matched per rule during
// evaluation, not here.
func (dao *PolicyDAO) GetPoliciesForEvaluation(ctx context.Context, toolSlug, action, resourceType string) ([]*model.Policy, error) {
	start := time.Now()
	now := time.Now()

	var policies []*model.Policy
	err := dao.db.WithContext(ctx).
		Preload("Rules", func(db *gorm.DB) *gorm.DB {
			return db.Where("enabled = ?", true).Order("priority DESC")
		}).
		Where("enabled = ?", true).
		Where("tool_id IS NULL OR tool_id = ?", toolSlug).
		Where("effective_from IS NULL OR effective_from <= ?", now).
		Where("effective_until IS NULL OR effective_until > ?", now).
		Order("priority DESC").
		Find(&policies).Error
	if err != nil {
		logger.Error("Failed to retrieve policies for evaluation",
			zap.Error(err),
			zap.String("tool", toolSlug),
			zap.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to retrieve policies for evaluation: %w", err)
	}

	logger.Debug("Retrieved policies for evaluation",
		zap.String("tool", toolSlug),
		zap.String("action", action),
		zap.String("resourceType", resourceType),
		zap.Int("count", len(policies)),
		zap.Duration("duration", time.Since(start)))
	return policies, nil
}

func orderRulesByPriority(db *gorm.DB) *gorm.DB {
	return db.Order("priority DESC")
}
