package http

import (
	"context"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/handoff/internal/config"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	handoffHTTP "github.com/allisson/handoff/internal/handoff/http"
	"github.com/allisson/handoff/internal/metrics"
)

// SetupRouter builds the gin engine. ctx bounds the rate limiters' background cleanup.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	handoffHandler *handoffHTTP.HandoffHandler,
	sessionMiddleware gin.HandlerFunc,
	metricsProvider *metrics.Provider,
) {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(RequestContextMiddleware())
	router.Use(CustomLoggerMiddleware(s.logger))

	corsMiddleware := createCORSMiddleware(corsSettings{
		enabled:      cfg.CORSEnabled,
		extraOrigins: cfg.CORSAllowOrigins,
		baseDomain:   cfg.BaseDomain,
		scheme:       cfg.RestoreScheme,
	}, s.logger)
	if corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	signInLimit := passthrough
	if cfg.RateLimitSignInEnabled {
		signInLimit = handoffHTTP.RateLimitMiddleware(
			ctx, "sign_in", cfg.RateLimitSignInRequestsPerSec, cfg.RateLimitSignInBurst, s.logger,
		)
	}
	restoreLimit := passthrough
	if cfg.RateLimitRestoreEnabled {
		restoreLimit = handoffHTTP.RateLimitMiddleware(
			ctx, "restore", cfg.RateLimitRestoreRequestsPerSec, cfg.RateLimitRestoreBurst, s.logger,
		)
	}

	router.GET(handoffDomain.RestorePath, restoreLimit, handoffHandler.RestoreHandler)

	v1 := router.Group("/v1/auth")
	{
		v1.POST("/sign-in", signInLimit, handoffHandler.SignInHandler)
		v1.POST("/session", signInLimit, handoffHandler.SessionHandler)
		v1.POST("/handoff-tokens", signInLimit, handoffHandler.IssueTokenHandler)
		v1.POST("/sign-out", handoffHandler.SignOutHandler)
		v1.GET("/me", sessionMiddleware, handoffHandler.MeHandler)
	}

	s.router = router
}

func passthrough(c *gin.Context) {
	c.Next()
}
