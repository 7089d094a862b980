// controller/enforcement_controller.go
package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toolgate/api/audit"
	toolgate_errors "github.com/toolgate/api/errors"
	"github.com/toolgate/api/middleware"
	pdp_model "github.com/toolgate/api/pdp/model"
	"github.com/toolgate/api/util"
)

// AdminGroup gates the authoring surface and unrestricted history queries.
const AdminGroup = "toolgate-admin"

// Enforcer is the decision-point contract consumed by the enforcement
// endpoint. Enforce never errors; failures surface as deny decisions.
type Enforcer interface {
	Enforce(ctx context.Context, req *pdp_model.EnforcementRequest) *pdp_model.PolicyDecision
}

type EnforcementController struct {
	engine       Enforcer
	auditService audit.Service
}

func NewEnforcementController(engine Enforcer, auditService audit.Service) *EnforcementController {
	return &EnforcementController{
		engine:       engine,
		auditService: auditService,
	}
}

// RegisterRoutes registers the API routes
func (ec *EnforcementController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/enforce", ec.Enforce)
	r.GET("/enforcement/history", ec.GetEnforcementHistory)
}

// Enforce endpoint judges one tool-access request. The response is always
// 200: deny is a decision, not an HTTP failure. The caller-supplied user
// block is ignored in favor of the authenticated identity.
func (ec *EnforcementController) Enforce(c *gin.Context) {
	var req pdp_model.EnforcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid enforcement request", err)
		return
	}

	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", toolgate_errors.ErrUnauthorized)
		return
	}
	req.User = user

	decision := ec.engine.Enforce(c, &req)
	c.JSON(http.StatusOK, decision)
}

// GetEnforcementHistory endpoint. Admins may query any user's records;
// everyone else is restricted to their own.
func (ec *EnforcementController) GetEnforcementHistory(c *gin.Context) {
	var filter pdp_model.EnforcementHistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid history filter", err)
		return
	}

	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", toolgate_errors.ErrUnauthorized)
		return
	}

	isAdmin := middleware.UserInAnyGroup(user, AdminGroup)
	results, err := ec.auditService.GetEnforcementHistory(c, filter, user, isAdmin)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve enforcement history", err)
		return
	}

	c.JSON(http.StatusOK, results)
}
