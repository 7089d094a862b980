// controller/policy_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	toolgate_errors "github.com/toolgate/api/errors"
	"github.com/toolgate/api/middleware"
	"github.com/toolgate/api/model"
	"github.com/toolgate/api/service"
	"github.com/toolgate/api/util"
	helper_util "github.com/toolgate/api/util/helper"
)

type PolicyController struct {
	policyService service.IPolicyService
}

func NewPolicyController(policyService service.IPolicyService) *PolicyController {
	return &PolicyController{
		policyService: policyService,
	}
}

// RegisterRoutes registers the API routes
func (pc *PolicyController) RegisterRoutes(r *gin.RouterGroup) {
	policies := r.Group("/policies")
	{
		policies.POST("", pc.CreatePolicy)
		policies.PUT("/:id", pc.UpdatePolicy)
		policies.DELETE("/:id", pc.DeletePolicy)
		policies.GET("/:id", pc.GetPolicy)
		policies.GET("", pc.ListPolicies)
		policies.POST("/search", pc.SearchPolicies)
		policies.POST("/validate", pc.ValidatePolicy)
		policies.POST("/bulk", pc.BulkCreatePolicies)
	}
}

// CreatePolicy endpoint
func (pc *PolicyController) CreatePolicy(c *gin.Context) {
	var policy model.Policy
	if err := c.ShouldBindJSON(&policy); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid policy data", toolgate_errors.ErrInvalidPolicyData)
		return
	}
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", toolgate_errors.ErrUnauthorized)
		return
	}

	createdPolicy, err := pc.policyService.CreatePolicy(c, policy, user.Sub)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusUnprocessableEntity, validationErr.Result)
		case errors.Is(err, toolgate_errors.ErrPolicyConflict):
			util.RespondWithError(c, http.StatusConflict, "Policy already exists", err)
		case errors.Is(err, toolgate_errors.ErrDatabaseOperation):
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create policy", toolgate_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, createdPolicy)
}

// UpdatePolicy endpoint
func (pc *PolicyController) UpdatePolicy(c *gin.Context) {
	policyID := c.Param("id")
	var policy model.Policy
	if err := c.ShouldBindJSON(&policy); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid policy data", err)
		return
	}
	policy.PolicyID = policyID
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	updatedPolicy, err := pc.policyService.UpdatePolicy(c, policy, user.Sub)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusUnprocessableEntity, validationErr.Result)
		case errors.Is(err, toolgate_errors.ErrPolicyNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Policy not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update policy", err)
		}
		return
	}

	c.JSON(http.StatusOK, updatedPolicy)
}

// DeletePolicy endpoint
func (pc *PolicyController) DeletePolicy(c *gin.Context) {
	policyID := c.Param("id")
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := pc.policyService.DeletePolicy(c, policyID, user.Sub); err != nil {
		if errors.Is(err, toolgate_errors.ErrPolicyNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Policy not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete policy", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetPolicy endpoint
func (pc *PolicyController) GetPolicy(c *gin.Context) {
	policyID := c.Param("id")

	policy, err := pc.policyService.GetPolicy(c, policyID)
	if err != nil {
		if errors.Is(err, toolgate_errors.ErrPolicyNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Policy not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve policy", err)
		}
		return
	}

	c.JSON(http.StatusOK, policy)
}

// ListPolicies endpoint
func (pc *PolicyController) ListPolicies(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	policies, err := pc.policyService.ListPolicies(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}

	c.JSON(http.StatusOK, policies)
}

// SearchPolicies endpoint
func (pc *PolicyController) SearchPolicies(c *gin.Context) {
	var criteria model.PolicySearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid search criteria", toolgate_errors.ErrInvalidSearchCriteria)
		return
	}

	policies, err := pc.policyService.SearchPolicies(c, criteria)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to search policies", err)
		return
	}

	c.JSON(http.StatusOK, policies)
}

// ValidatePolicy endpoint runs the authoring validator without persisting.
// Always responds 200; the body carries errors, warnings and recommendations.
func (pc *PolicyController) ValidatePolicy(c *gin.Context) {
	var policy model.Policy
	if err := c.ShouldBindJSON(&policy); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid policy data", toolgate_errors.ErrInvalidPolicyData)
		return
	}

	result := pc.policyService.ValidatePolicy(c, policy)
	c.JSON(http.StatusOK, result)
}

// BulkCreatePolicies endpoint
func (pc *PolicyController) BulkCreatePolicies(c *gin.Context) {
	var policies []model.Policy
	if err := c.ShouldBindJSON(&policies); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid policy data", toolgate_errors.ErrInvalidPolicyData)
		return
	}
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", toolgate_errors.ErrUnauthorized)
		return
	}

	policyIDs, err := pc.policyService.BulkCreatePolicies(c, policies, user.Sub)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusUnprocessableEntity, validationErr.Result)
			return
		}
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to bulk create policies", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"policy_ids": policyIDs})
}
