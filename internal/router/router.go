// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pharmatrace/pharmatrace-backend/internal/config"
	"github.com/pharmatrace/pharmatrace-backend/internal/handlers"
	"github.com/pharmatrace/pharmatrace-backend/internal/middleware"
	"github.com/pharmatrace/pharmatrace-backend/internal/services"
	"github.com/pharmatrace/pharmatrace-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Storage service unavailable, uploads disabled")
	}

	authService := services.NewAuthService(db, cfg)
	registryService := services.NewRegistryService(db)
	medicineService := services.NewMedicineService(db)
	provenanceService := services.NewProvenanceService(db)
	stageService := services.NewStageService(db, provenanceService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	participantHandler := handlers.NewParticipantHandler(registryService)
	medicineHandler := handlers.NewMedicineHandler(medicineService, storageService)
	stageHandler := handlers.NewStageHandler(stageService)
	trackHandler := handlers.NewTrackHandler(provenanceService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Participant registry routes
		participants := v1.Group("/participants")
		{
			participants.GET("/:role", participantHandler.List)
			participants.GET("/:role/count", participantHandler.Count)
			participants.GET("/:role/:id", participantHandler.Get)

			protected := participants.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/:role", participantHandler.Register)
				protected.PUT("/:role/:id/toggle", participantHandler.Toggle)
			}
		}

		// Medicine ledger routes
		medicines := v1.Group("/medicines")
		{
			medicines.GET("", medicineHandler.List)
			medicines.GET("/count", medicineHandler.Count)
			medicines.GET("/:id", medicineHandler.Get)
			medicines.GET("/:id/documents", medicineHandler.ListDocuments)

			protected := medicines.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", medicineHandler.Create)
				protected.POST("/:id/documents", middleware.UploadRateLimit(), medicineHandler.UploadDocument)

				// Custody transitions, strictly in chain order
				protected.PUT("/:id/supply", stageHandler.SupplyRawMaterial)
				protected.PUT("/:id/manufacture", stageHandler.Manufacture)
				protected.PUT("/:id/distribute", stageHandler.Distribute)
				protected.PUT("/:id/retail", stageHandler.Retail)
				protected.PUT("/:id/sell", stageHandler.MarkSold)
			}
		}

		// Public provenance routes. OptionalAuth lets audit entries attribute
		// verification scans from logged-in callers.
		track := v1.Group("/track")
		track.Use(middleware.OptionalAuth())
		{
			track.GET("/:id", trackHandler.Trace)
			track.GET("/:id/stage", trackHandler.StageLabel)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", cfg.Storage.LocalPath)
	}

	return r
}
