// router/router.go

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/toolgate/api/controller"
	"github.com/toolgate/api/middleware"
)

// SetupRouter wires the HTTP surface. Every route requires an SSO identity;
// the authoring routes additionally require admin group membership.
func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	// Liveness probe sits outside the auth chain.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.Use(middleware.SSOAuth())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	api := router.Group("/api/v1")
	controllers.Enforcement.RegisterRoutes(api)

	admin := api.Group("")
	admin.Use(middleware.RequireGroup(controller.AdminGroup))
	controllers.Policy.RegisterRoutes(admin)
	controllers.Tool.RegisterRoutes(admin)

	return router
}
