package server

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/auth"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/config"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/otp"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/report"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/middleware"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Repo     store.Repository
	Registry *ai.Registry
	Health   *report.HealthChecker
	Reports  *report.Service
	Auth     *auth.Service
	OTP      *otp.Service
}

type Server struct {
	router *gin.Engine
	deps   Deps
}

func New(deps Deps) *Server {
	if deps.Config.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(ginzap.RecoveryWithZap(deps.Logger, true))
	engine.Use(middleware.Logger(deps.Logger))

	s := &Server{
		router: engine,
		deps:   deps,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
