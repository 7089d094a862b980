package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/toolgate/api/audit"
	"github.com/toolgate/api/config"
	"github.com/toolgate/api/controller"
	"github.com/toolgate/api/db"
	logger "github.com/toolgate/api/logging"
	"github.com/toolgate/api/pdp/engine"
	"github.com/toolgate/api/router"
	"github.com/toolgate/api/service"
	"github.com/toolgate/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Postgres
	if err := db.InitPostgres(); err != nil {
		logger.Fatal("Failed to initialize Postgres", zap.Error(err))
	}
	defer db.ClosePostgres()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize utilities
	cacheService := util.NewCacheService()
	notificationService := util.NewNotificationService()

	// Initialize audit pipeline
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize Elasticsearch", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository, 1000)
	defer auditService.Close()

	// Initialize services
	services, policyDAO, toolDAO, err := service.InitializeServices(db.DB, cacheService, notificationService, eventBus)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// Initialize the decision engine
	engineConfig := engine.Config{
		CombiningAlgorithm: config.GetString("enforcement.combiningAlgorithm"),
		DefaultDecision:    config.GetString("enforcement.defaultDecision"),
		CacheEnabled:       config.GetBool("enforcement.cacheEnabled"),
		DecisionCacheTTL:   config.GetDuration("enforcement.decisionCacheTTL"),
		PolicyCacheTTL:     config.GetDuration("enforcement.policyCacheTTL"),
		BusinessHoursStart: config.GetInt("enforcement.businessHoursStart"),
		BusinessHoursEnd:   config.GetInt("enforcement.businessHoursEnd"),
	}
	decisionEngine := engine.NewDecisionEngine(policyDAO, toolDAO, cacheService, auditService, engineConfig)

	// Initialize controllers
	controllers := controller.InitializeControllers(services, decisionEngine, auditService)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	r := router.SetupRouter(controllers, 100, time.Minute) // 100 requests per minute

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: r,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
