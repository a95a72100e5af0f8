package routes

import (
	"icancare-server/internal/config"
	"icancare-server/internal/handlers"
	"icancare-server/internal/middleware"
	"icancare-server/internal/models"
	"icancare-server/internal/summarize"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	SetupRoutesWithAuth(router, db, cfg, authHandler)
}

// SetupRoutesWithAuth wires routes with a caller-supplied AuthHandler. Tests
// use this to stub the Google token verifier.
func SetupRoutesWithAuth(router *gin.Engine, db *gorm.DB, cfg *config.Config, authHandler *handlers.AuthHandler) {
	doctorHandler := handlers.NewDoctorHandler(db)
	caseHandler := handlers.NewCaseHandler(db)
	chatHandler := handlers.NewChatHandler(db)
	measurementHandler := handlers.NewMeasurementHandler(db)
	documentHandler := handlers.NewDocumentHandler(db, summarize.NewClient(cfg.Summarizer.URL, cfg.Summarizer.APIKey))
	meetingHandler := handlers.NewMeetingHandler(db)
	forumHandler := handlers.NewForumHandler(db)

	api := router.Group("/api")

	// Public signup/login per role. Admin accounts are provisioned directly
	// and have no signup or Google route, only password login.
	for _, role := range []models.Role{models.RolePatient, models.RoleDoctor} {
		public := api.Group("/" + string(role))
		public.POST("/signup", authHandler.Signup(role))
		public.POST("/login", authHandler.Login(role))
		public.POST("/google-login", authHandler.GoogleLogin(role))
	}
	api.POST("/admin/login", authHandler.Login(models.RoleAdmin))
	api.POST("/auth/refresh-token", authHandler.RefreshToken)

	// Authenticated routes
	private := api.Group("")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		private.POST("/auth/logout", authHandler.Logout)

		for _, role := range []models.Role{models.RolePatient, models.RoleDoctor} {
			profile := private.Group("/"+string(role), middleware.RoleAuthMiddleware(role))
			profile.GET("/profile", authHandler.GetProfile)
			profile.POST("/complete-profile", authHandler.CompleteProfile)
		}

		// Doctor directory and the admin approval workflow
		private.GET("/doctor/list", doctorHandler.ListApprovedForPatients)
		adminDoctor := private.Group("/doctor", middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminDoctor.GET("/pending", doctorHandler.ListPending)
			adminDoctor.GET("/approved", doctorHandler.ListApproved)
			adminDoctor.PUT("/approve/:id", doctorHandler.Approve)
		}

		// Cases
		caseRoutes := private.Group("/case")
		{
			caseRoutes.POST("/create", middleware.RoleAuthMiddleware(models.RolePatient), caseHandler.CreateCase)
			caseRoutes.GET("/patient-cases", middleware.RoleAuthMiddleware(models.RolePatient), caseHandler.GetPatientCases)
			caseRoutes.GET("/doctor/accepted", middleware.RoleAuthMiddleware(models.RoleDoctor), caseHandler.GetDoctorAcceptedCases)
			caseRoutes.GET("/doctor/pending", middleware.RoleAuthMiddleware(models.RoleDoctor), caseHandler.GetDoctorPendingCases)
			caseRoutes.POST("/add-doctor", caseHandler.AddDoctor)
			caseRoutes.PUT("/updatePrimaryDoctor", caseHandler.UpdatePrimaryDoctor)

			caseRoutes.POST("/:id/respond", middleware.RoleAuthMiddleware(models.RoleDoctor), caseHandler.Respond)
			caseRoutes.PUT("/:id/rename", middleware.RoleAuthMiddleware(models.RolePatient), caseHandler.Rename)
			caseRoutes.POST("/:id/feedback", middleware.RoleAuthMiddleware(models.RolePatient), caseHandler.AddFeedback)

			// Measurement logs: two named series over one handler
			caseRoutes.GET("/:id/lymph-logs", measurementHandler.List(models.SeriesLymph))
			caseRoutes.POST("/:id/lymph-log", middleware.RoleAuthMiddleware(models.RoleDoctor), measurementHandler.Append(models.SeriesLymph))
			caseRoutes.GET("/:id/p2-logs", measurementHandler.List(models.SeriesP2))
			caseRoutes.POST("/:id/p2-log", middleware.RoleAuthMiddleware(models.RoleDoctor), measurementHandler.Append(models.SeriesP2))

			// Meetings
			caseRoutes.POST("/:id/meeting", middleware.RoleAuthMiddleware(models.RoleDoctor), meetingHandler.Schedule)
			caseRoutes.GET("/:id/meetings", meetingHandler.ListForCase)
		}

		// Chat
		chatRoutes := private.Group("/chat")
		{
			chatRoutes.GET("/:caseId", chatHandler.GetMessages)
			chatRoutes.POST("/:caseId/message", chatHandler.PostMessage)
			chatRoutes.POST("/:caseId/message/:msgId/tags", chatHandler.SetTag)
			chatRoutes.GET("/doctor/:caseId", middleware.RoleAuthMiddleware(models.RoleDoctor), chatHandler.GetDoctorMessages)
			chatRoutes.POST("/doctor/:caseId/message", middleware.RoleAuthMiddleware(models.RoleDoctor), chatHandler.PostDoctorMessage)
		}

		// Documents
		documentRoutes := private.Group("/documents")
		{
			documentRoutes.POST("/upload", documentHandler.Upload)
			documentRoutes.GET("/:caseId", documentHandler.ListForCase)
			documentRoutes.GET("/download/:id", documentHandler.Download)
			documentRoutes.GET("/summary/:id", documentHandler.Summary)
		}

		// Doctor forum
		forumRoutes := private.Group("/forum", middleware.RoleAuthMiddleware(models.RoleDoctor))
		{
			forumRoutes.GET("/posts", forumHandler.ListPosts)
			forumRoutes.POST("/posts", forumHandler.CreatePost)
			forumRoutes.GET("/posts/:id", forumHandler.GetPost)
			forumRoutes.POST("/posts/:id/replies", forumHandler.CreateReply)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
