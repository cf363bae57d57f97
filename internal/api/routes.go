package api

import (
	"net/http"
	"time"

	"trainmate/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services bundles everything SetupRoutes needs.
type Services struct {
	Auth           service.AuthService
	Client         service.ClientService
	TrainingPlan   service.TrainingPlanService
	Appointment    service.AppointmentService
	Anthropometric service.AnthropometricService
	Document       service.DocumentService
	Alert          service.AlertService
	Sharing        service.SharingService
}

// SetupRoutes mounts the full API surface on router.
func SetupRoutes(router *gin.Engine, allowedOrigins []string, svcs Services) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := NewAuthHandler(svcs.Auth)
	clientHandler := NewClientHandler(svcs.Client)
	planHandler := NewTrainingPlanHandler(svcs.TrainingPlan, svcs.Sharing)
	appointmentHandler := NewAppointmentHandler(svcs.Appointment)
	anthroHandler := NewAnthropometricHandler(svcs.Anthropometric)
	documentHandler := NewDocumentHandler(svcs.Document)
	alertHandler := NewAlertHandler(svcs.Alert)

	authMiddleware := AuthMiddleware(svcs.Auth.GetJWTSecret())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Read-only view opened from a shared link; no authentication.
		apiV1.GET("/public/plans/:planId", planHandler.GetSharedPlan)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		clientGroup := protected.Group("/clients")
		{
			clientGroup.POST("", clientHandler.CreateClient)
			clientGroup.GET("", clientHandler.GetClients)
			clientGroup.GET("/:clientId", clientHandler.GetClient)
			clientGroup.PUT("/:clientId", clientHandler.UpdateClient)
			clientGroup.DELETE("/:clientId", clientHandler.DeleteClient)

			clientGroup.GET("/:clientId/plans", planHandler.GetClientTrainingPlans)
			clientGroup.GET("/:clientId/appointments", appointmentHandler.GetClientAppointments)

			clientGroup.POST("/:clientId/anthropometric", anthroHandler.CreateRecord)
			clientGroup.GET("/:clientId/anthropometric", anthroHandler.GetClientRecords)

			clientGroup.POST("/:clientId/documents/upload", documentHandler.RequestUpload)
			clientGroup.POST("/:clientId/documents", documentHandler.ConfirmUpload)
			clientGroup.GET("/:clientId/documents", documentHandler.GetClientDocuments)
		}

		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreateTrainingPlan)
			planGroup.GET("", planHandler.GetTrainingPlans)
			planGroup.GET("/:planId", planHandler.GetTrainingPlan)
			planGroup.PUT("/:planId", planHandler.UpdateTrainingPlan)
			planGroup.DELETE("/:planId", planHandler.DeleteTrainingPlan)
			planGroup.GET("/:planId/pdf", planHandler.SharePlanPDF)
			planGroup.POST("/:planId/send", planHandler.SharePlanEmail)
		}

		protected.PATCH("/exercises/:exerciseId/completed", planHandler.SetExerciseCompleted)

		appointmentGroup := protected.Group("/appointments")
		{
			appointmentGroup.POST("", appointmentHandler.CreateAppointment)
			appointmentGroup.GET("", appointmentHandler.GetAppointments)
			appointmentGroup.PUT("/:appointmentId", appointmentHandler.UpdateAppointment)
			appointmentGroup.DELETE("/:appointmentId", appointmentHandler.DeleteAppointment)
		}

		documentGroup := protected.Group("/documents")
		{
			documentGroup.GET("/:documentId/download", documentHandler.GetDocumentDownloadURL)
			documentGroup.DELETE("/:documentId", documentHandler.DeleteDocument)
		}

		alertGroup := protected.Group("/alerts")
		{
			alertGroup.GET("", alertHandler.GetAlerts)
			alertGroup.PATCH("/:alertId/read", alertHandler.MarkAlertRead)
			alertGroup.POST("/read-all", alertHandler.MarkAllAlertsRead)
		}

		anthroGroup := protected.Group("/anthropometric")
		{
			anthroGroup.DELETE("/:recordId", anthroHandler.DeleteRecord)
		}
	}
}
