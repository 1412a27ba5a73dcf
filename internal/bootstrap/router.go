package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	httpapi "github.com/issuetracker/issue-tracker-backend/internal/api/http"
	"github.com/issuetracker/issue-tracker-backend/internal/api/http/middleware"
	issueshttp "github.com/issuetracker/issue-tracker-backend/internal/issues/http"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/repository"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Store          repository.ProjectStore
	Log            zerolog.Logger
	StoreTimeout   time.Duration
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	StrictStatus   bool
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log))
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	if dep.RateLimitRPS > 0 {
		api.Use(middleware.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))
	}

	issueService := service.NewIssueService(dep.Store, service.WithTimeout(dep.StoreTimeout))
	issueHandler := issueshttp.New(issueService, dep.Log, issueshttp.WithStrictStatus(dep.StrictStatus))
	issueHandler.Register(api)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "X-Request-Id")
	cfg.ExposeHeaders = []string{"X-Request-Id"}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
