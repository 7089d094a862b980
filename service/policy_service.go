// service/policy_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/toolgate/api/dao"
	toolgate_errors "github.com/toolgate/api/errors"
	logger "github.com/toolgate/api/logging"
	"github.com/toolgate/api/model"
	"github.com/toolgate/api/util"
	"github.com/toolgate/api/validator"
)

// IPolicyService is the authoring-path contract consumed by the controllers.
type IPolicyService interface {
	CreatePolicy(ctx context.Context, policy model.Policy, userID string) (*model.Policy, error)
	UpdatePolicy(ctx context.Context, policy model.Policy, userID string) (*model.Policy, error)
	DeletePolicy(ctx context.Context, policyID string, userID string) error
	GetPolicy(ctx context.Context, policyID string) (*model.Policy, error)
	ListPolicies(ctx context.Context, limit int, offset int) ([]*model.Policy, error)
	SearchPolicies(ctx context.Context, criteria model.PolicySearchCriteria) ([]*model.Policy, error)
	ValidatePolicy(ctx context.Context, policy model.Policy) validator.ValidationResult
	BulkCreatePolicies(ctx context.Context, policies []model.Policy, userID string) ([]string, error)
}

// ValidationError carries the full validation findings to the transport layer.
type ValidationError struct {
	Result validator.ValidationResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("policy validation failed: %s", strings.Join(e.Result.Errors, "; "))
}

func (e *ValidationError) Unwrap() error {
	return toolgate_errors.ErrPolicyValidation
}

// PolicyCache is the slice of the cache facade the authoring path touches.
// Satisfied by util.CacheService.
type PolicyCache interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// PolicyService handles business logic for policy authoring. Every write
// validates first, bumps the version, invalidates the decision and policy-set
// caches by pattern, and publishes a change event.
type PolicyService struct {
	policyDAO       *dao.PolicyDAO
	policyValidator *validator.PolicyValidator
	cacheService    PolicyCache
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

// NewPolicyService creates a new instance of PolicyService
func NewPolicyService(policyDAO *dao.PolicyDAO, policyValidator *validator.PolicyValidator, cacheService PolicyCache, notificationSvc *util.NotificationService, eventBus *util.EventBus) *PolicyService {
	service := &PolicyService{
		policyDAO:       policyDAO,
		policyValidator: policyValidator,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	// Set up event subscriptions
	eventBus.Subscribe("policy.created", service.handlePolicyChanged("created"))
	eventBus.Subscribe("policy.updated", service.handlePolicyChanged("updated"))
	eventBus.Subscribe("policy.deleted", service.handlePolicyChanged("deleted"))

	return service
}

func (s *PolicyService) handlePolicyChanged(changeType string) util.EventHandler {
	return func(ctx context.Context, event util.Event) error {
		policy, ok := event.Payload.(model.Policy)
		if !ok {
			return fmt.Errorf("invalid event payload type: %T", event.Payload)
		}
		logger.Info("Policy change event received",
			zap.String("changeType", changeType),
			zap.String("policyID", policy.PolicyID))

		if err := s.notificationSvc.NotifyPolicyChange(ctx, changeType, policy); err != nil {
			logger.Warn("Failed to send policy change notification",
				zap.Error(err), zap.String("policyID", policy.PolicyID))
		}
		return nil
	}
}

// ValidatePolicy runs the authoring validator without persisting anything.
func (s *PolicyService) ValidatePolicy(ctx context.Context, policy model.Policy) validator.ValidationResult {
	return s.policyValidator.Validate(ctx, &policy)
}

// CreatePolicy handles the creation of a new policy
func (s *PolicyService) CreatePolicy(ctx context.Context, policy model.Policy, userID string) (*model.Policy, error) {
	result := s.policyValidator.Validate(ctx, &policy)
	if !result.Valid {
		return nil, &ValidationError{Result: result}
	}

	if policy.PolicyID == "" {
		policy.PolicyID = uuid.NewString()
	}
	for i := range policy.Rules {
		if policy.Rules[i].RuleID == "" {
			policy.Rules[i].RuleID = uuid.NewString()
		}
		policy.Rules[i].PolicyID = policy.PolicyID
	}
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = time.Now()
	policy.Version = 1

	if err := s.policyDAO.CreatePolicy(ctx, &policy); err != nil {
		logger.Error("Error creating policy", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("failed to create policy: %w", err)
	}

	s.invalidateCaches(ctx, policy.ToolID)
	s.eventBus.Publish(ctx, "policy.created", policy)

	logger.Info("Policy created successfully",
		zap.String("policyID", policy.PolicyID),
		zap.String("userID", userID))
	return &policy, nil
}

// UpdatePolicy handles updates to an existing policy
func (s *PolicyService) UpdatePolicy(ctx context.Context, policy model.Policy, userID string) (*model.Policy, error) {
	result := s.policyValidator.Validate(ctx, &policy)
	if !result.Valid {
		return nil, &ValidationError{Result: result}
	}

	oldPolicy, err := s.policyDAO.GetPolicy(ctx, policy.PolicyID)
	if err != nil {
		if errors.Is(err, toolgate_errors.ErrPolicyNotFound) {
			return nil, toolgate_errors.ErrPolicyNotFound
		}
		logger.Error("Error retrieving existing policy", zap.Error(err), zap.String("policyID", policy.PolicyID))
		return nil, err
	}

	for i := range policy.Rules {
		if policy.Rules[i].RuleID == "" {
			policy.Rules[i].RuleID = uuid.NewString()
		}
		policy.Rules[i].PolicyID = policy.PolicyID
	}
	policy.CreatedAt = oldPolicy.CreatedAt
	policy.UpdatedAt = time.Now()
	policy.Version = oldPolicy.Version + 1

	if err := s.policyDAO.UpdatePolicy(ctx, &policy); err != nil {
		logger.Error("Error updating policy", zap.Error(err), zap.String("policyID", policy.PolicyID), zap.String("userID", userID))
		return nil, fmt.Errorf("failed to update policy: %w", err)
	}

	// Invalidate for both the old and new scope in case the tool binding moved
	s.invalidateCaches(ctx, oldPolicy.ToolID)
	if !sameToolScope(oldPolicy.ToolID, policy.ToolID) {
		s.invalidateCaches(ctx, policy.ToolID)
	}
	s.eventBus.Publish(ctx, "policy.updated", policy)

	logger.Info("Policy updated successfully",
		zap.String("policyID", policy.PolicyID),
		zap.Int("version", policy.Version),
		zap.String("userID", userID))
	return &policy, nil
}

// DeletePolicy handles the deletion of a policy
func (s *PolicyService) DeletePolicy(ctx context.Context, policyID string, userID string) error {
	policy, err := s.policyDAO.GetPolicy(ctx, policyID)
	if err != nil {
		return err
	}

	if err := s.policyDAO.DeletePolicy(ctx, policyID); err != nil {
		logger.Error("Error deleting policy", zap.Error(err), zap.String("policyID", policyID), zap.String("userID", userID))
		return err
	}

	s.invalidateCaches(ctx, policy.ToolID)
	s.eventBus.Publish(ctx, "policy.deleted", *policy)

	logger.Info("Policy deleted successfully", zap.String("policyID", policyID), zap.String("userID", userID))
	return nil
}

// GetPolicy retrieves a policy by its ID
func (s *PolicyService) GetPolicy(ctx context.Context, policyID string) (*model.Policy, error) {
	policy, err := s.policyDAO.GetPolicy(ctx, policyID)
	if err != nil {
		if errors.Is(err, toolgate_errors.ErrPolicyNotFound) {
			return nil, toolgate_errors.ErrPolicyNotFound
		}
		logger.Error("Error retrieving policy", zap.Error(err), zap.String("policyID", policyID))
		return nil, toolgate_errors.ErrInternalServer
	}
	return policy, nil
}

// ListPolicies retrieves all policies, possibly with pagination
func (s *PolicyService) ListPolicies(ctx context.Context, limit int, offset int) ([]*model.Policy, error) {
	policies, err := s.policyDAO.ListPolicies(ctx, limit, offset)
	if err != nil {
		logger.Error("Error listing policies", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	return policies, nil
}

// SearchPolicies searches for policies based on given criteria
func (s *PolicyService) SearchPolicies(ctx context.Context, criteria model.PolicySearchCriteria) ([]*model.Policy, error) {
	policies, err := s.policyDAO.SearchPolicies(ctx, criteria)
	if err != nil {
		logger.Error("Error searching policies", zap.Error(err), zap.Any("criteria", criteria))
		return nil, fmt.Errorf("failed to search policies: %w", err)
	}
	return policies, nil
}

// BulkCreatePolicies creates multiple policies in parallel
func (s *PolicyService) BulkCreatePolicies(ctx context.Context, policies []model.Policy, userID string) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(10)
	policyIDs := make([]string, len(policies))

	for i, policy := range policies {
		i, policy := i, policy
		g.Go(func() error {
			createdPolicy, err := s.CreatePolicy(ctx, policy, userID)
			if err != nil {
				return err
			}
			policyIDs[i] = createdPolicy.PolicyID
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Error in bulk create policies", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("failed to bulk create policies: %w", err)
	}

	logger.Info("Bulk create policies completed", zap.Int("count", len(policyIDs)), zap.String("userID", userID))
	return policyIDs, nil
}

// invalidateCaches drops memoized policy sets and decisions affected by a
// write. Scoped writes flush only the tool's patterns; tool-agnostic writes
// flush everything. Idempotent and safe to race with readers.
func (s *PolicyService) invalidateCaches(ctx context.Context, toolID *string) {
	patterns := []string{"policies:*", "policy_decision:*"}
	if toolID != nil {
		patterns = []string{
			fmt.Sprintf("policies:%s:*", *toolID),
			fmt.Sprintf("policy_decision:*:%s:*", *toolID),
		}
	}
	for _, pattern := range patterns {
		if err := s.cacheService.DeleteByPattern(ctx, pattern); err != nil {
			logger.Warn("Failed to invalidate cache", zap.Error(err), zap.String("pattern", pattern))
		}
	}
}

func sameToolScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
