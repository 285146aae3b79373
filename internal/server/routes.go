package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/middleware"
	v1 "github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/v1"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
)

func (s *Server) SetupRoutes() {
	cfg := s.deps.Config

	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.deps.Logger))
	s.router.Use(middleware.Tracing("intern-progress-analyzer"))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, s.deps.Logger)
		s.router.Use(limiter.Middleware())
	}

	// Liveness probe, public.
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := v1.NewAuthHandler(s.deps.Repo, s.deps.Auth, s.deps.OTP, s.deps.Logger)
	providerHandler := v1.NewProviderHandler(s.deps.Registry, s.deps.Health)
	reportHandler := v1.NewReportHandler(s.deps.Reports)
	projectHandler := v1.NewProjectHandler(s.deps.Repo, s.deps.Logger)
	internHandler := v1.NewInternHandler(s.deps.Repo, s.deps.Logger)
	supervisorHandler := v1.NewSupervisorHandler(s.deps.Repo, s.deps.Logger)
	adminHandler := v1.NewAdminHandler(s.deps.Repo, s.deps.Auth, s.deps.Logger)

	apiGroup := s.router.Group("/api/v1")

	// Public auth surface.
	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/send-otp", authHandler.SendOTP)
		authGroup.POST("/verify-otp", authHandler.VerifyOTP)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
	}

	// Everything below requires a valid token.
	authed := apiGroup.Group("")
	authed.Use(middleware.Auth(s.deps.Auth))
	{
		authed.GET("/auth/me", authHandler.Me)

		// AI surface: report generation is for supervisors and admins;
		// provider visibility is open to any authenticated user.
		aiGroup := authed.Group("/ai")
		{
			aiGroup.GET("/providers", providerHandler.ListProviders)
			aiGroup.GET("/health", providerHandler.CheckHealth)
			aiGroup.GET("/health/:provider", providerHandler.CheckProviderHealth)

			staff := aiGroup.Group("")
			staff.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleSupervisor))
			{
				staff.POST("/generate-report", reportHandler.GenerateReport)
				staff.POST("/cost-estimate", reportHandler.EstimateCost)
				staff.GET("/reports/history", reportHandler.History)
				staff.GET("/reports/:id", reportHandler.GetReport)
				staff.POST("/reports/:id/archive", reportHandler.ArchiveReport)
				staff.POST("/feedback", reportHandler.SubmitFeedback)
			}
		}

		// Intern logbook surface.
		internGroup := authed.Group("/intern")
		internGroup.Use(middleware.RequireRoles(model.RoleIntern))
		{
			internGroup.POST("/logbook", internHandler.CreateLogbookEntry)
			internGroup.GET("/logbook", internHandler.ListLogbookEntries)
			internGroup.GET("/projects", internHandler.MyProjects)
		}

		// Intern oversight for supervisors and admins.
		supervisorGroup := authed.Group("/supervisor")
		supervisorGroup.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleSupervisor))
		{
			supervisorGroup.GET("/interns", supervisorHandler.ListInterns)
			supervisorGroup.GET("/logbook/:id", supervisorHandler.InternLogbook)
		}

		// Project management for supervisors and admins.
		projectGroup := authed.Group("/projects")
		projectGroup.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleSupervisor))
		{
			projectGroup.POST("", projectHandler.CreateProject)
			projectGroup.GET("", projectHandler.ListProjects)
			projectGroup.GET("/:id", projectHandler.GetProject)
			projectGroup.PUT("/:id/status", projectHandler.UpdateStatus)
			projectGroup.POST("/assign", projectHandler.AssignIntern)
			projectGroup.POST("/remove", projectHandler.RemoveIntern)
		}

		// Account administration.
		adminGroup := authed.Group("/admin")
		adminGroup.Use(middleware.RequireRoles(model.RoleAdmin))
		{
			adminGroup.POST("/users", adminHandler.CreateUser)
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.GET("/users/:id", adminHandler.GetUser)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}
}
