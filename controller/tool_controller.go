// controller/tool_controller.go
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

type ToolController struct {
	toolService service.IToolService
}

func NewToolController(toolService service.IToolService) *ToolController {
	return &ToolController{
		toolService: toolService,
	}
}

// RegisterRoutes registers the API routes
func (tc *ToolController) RegisterRoutes(r *gin.RouterGroup) {
	tools := r.Group("/tools")
	{
		tools.POST("", tc.CreateTool)
		tools.PUT("/:slug", tc.UpdateTool)
		tools.DELETE("/:slug", tc.DeleteTool)
		tools.GET("/:slug", tc.GetTool)
		tools.GET("", tc.ListTools)
		tools.GET("/:slug/capabilities", tc.GetToolCapabilities)
	}
}

// CreateTool endpoint
func (tc *ToolController) CreateTool(c *gin.Context) {
	var tool model.ToolIntegration
	if err := c.ShouldBindJSON(&tool); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid tool data", toolgate_errors.ErrInvalidToolData)
		return
	}
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", toolgate_errors.ErrUnauthorized)
		return
	}

	createdTool, err := tc.toolService.CreateTool(c, tool, user.Sub)
	if err != nil {
		if errors.Is(err, toolgate_errors.ErrToolConflict) {
			util.RespondWithError(c, http.StatusConflict, "Tool already exists", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create tool", err)
		}
		return
	}

	c.JSON(http.StatusCreated, createdTool)
}

// UpdateTool endpoint
func (tc *ToolController) UpdateTool(c *gin.Context) {
	slug := c.Param("slug")
	var tool model.ToolIntegration
	if err := c.ShouldBindJSON(&tool); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid tool data", err)
		return
	}
	tool.Slug = slug
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	updatedTool, err := tc.toolService.UpdateTool(c, tool, user.Sub)
	if err != nil {
		if errors.Is(err, toolgate_errors.ErrToolNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Tool not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update tool", err)
		}
		return
	}

	c.JSON(http.StatusOK, updatedTool)
}

// DeleteTool endpoint
func (tc *ToolController) DeleteTool(c *gin.Context) {
	slug := c.Param("slug")
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := tc.toolService.DeleteTool(c, slug, user.Sub); err != nil {
		if errors.Is(err, toolgate_errors.ErrToolNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Tool not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete tool", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTool endpoint
func (tc *ToolController) GetTool(c *gin.Context) {
	slug := c.Param("slug")

	tool, err := tc.toolService.GetTool(c, slug)
	if err != nil {
		if errors.Is(err, toolgate_errors.ErrToolNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Tool not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tool", err)
		}
		return
	}

	c.JSON(http.StatusOK, tool)
}

// ListTools endpoint
func (tc *ToolController) ListTools(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	tools, err := tc.toolService.ListTools(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list tools", err)
		return
	}

	c.JSON(http.StatusOK, tools)
}

// GetToolCapabilities endpoint
func (tc *ToolController) GetToolCapabilities(c *gin.Context) {
	slug := c.Param("slug")

	capabilities, err := tc.toolService.GetToolCapabilities(c, slug)
	if err != nil {
		if errors.Is(err, toolgate_errors.ErrToolNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Tool not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tool capabilities", err)
		}
		return
	}

	c.JSON(http.StatusOK, capabilities)
}
