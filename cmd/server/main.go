package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/craftora/collab/internal/handlers"
	"github.com/craftora/collab/internal/middleware"
	"github.com/craftora/collab/internal/repositories"
	"github.com/craftora/collab/internal/services"
	"github.com/craftora/collab/pkg/config"
	"github.com/craftora/collab/pkg/database"
	"github.com/craftora/collab/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(config.AppConfig.Log.Level)
	gin.SetMode(config.AppConfig.Server.Mode)

	// Initialize database; the handle is passed into every repository
	db, err := database.New(config.AppConfig.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize dependencies
	collaborationRepo := repositories.NewCollaborationRepository(db)
	requirementRepo := repositories.NewRequirementRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	authService := services.NewAuthorizationService(applicationRepo)
	fulfillmentService := services.NewFulfillmentService(db, collaborationRepo, requirementRepo, applicationRepo, authService)
	collaborationService := services.NewCollaborationService(db, collaborationRepo, requirementRepo, applicationRepo, authService)

	// Initialize router
	router := gin.Default()
	router.Use(middleware.ActorMiddleware())

	setupRoutes(router, db, collaborationService, fulfillmentService)

	// Setup server
	server := &http.Server{
		Addr:         ":" + config.AppConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}

func setupRoutes(router *gin.Engine, db *sql.DB, collaborationService *services.CollaborationService, fulfillmentService *services.FulfillmentService) {
	// Initialize handlers
	collaborationHandler := handlers.NewCollaborationHandler(collaborationService, fulfillmentService)
	applicationHandler := handlers.NewApplicationHandler(fulfillmentService, collaborationService)
	healthHandler := handlers.NewHealthHandler(db)

	// Public routes
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/collaborations", collaborationHandler.List)
	router.GET("/collaborations/:id", collaborationHandler.Get)

	// Routes requiring an actor identity
	authed := router.Group("/")
	authed.Use(middleware.AuthRequired())
	{
		authed.POST("/collaborations", collaborationHandler.Create)
		authed.GET("/collaborations/mine", collaborationHandler.ListMine)
		authed.POST("/collaborations/:id/status", collaborationHandler.UpdateStatus)
		authed.DELETE("/collaborations/:id", collaborationHandler.Delete)

		authed.POST("/collaborations/:id/requirements", collaborationHandler.AddRequirement)
		authed.PATCH("/collaborations/:id/requirements/:rid", collaborationHandler.EditRequirement)
		authed.DELETE("/collaborations/:id/requirements/:rid", collaborationHandler.DeleteRequirement)

		authed.POST("/collaborations/:id/requirements/:rid/apply", applicationHandler.Apply)
		authed.POST("/collaborations/:id/requirements/:rid/applications/:aid/accept", applicationHandler.Accept)
		authed.POST("/collaborations/:id/requirements/:rid/applications/:aid/reject", applicationHandler.Reject)

		authed.GET("/applications/user/:uid", applicationHandler.ListByUser)
		authed.GET("/collaborations/:id/applications/export", collaborationHandler.ExportApplications)
	}
}
