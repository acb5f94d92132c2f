package http

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// corsSettings selects which origins may call the API from script with credentials.
type corsSettings struct {
	enabled bool
	// extraOrigins is a comma-separated list of origins outside the base domain.
	extraOrigins string
	baseDomain   string
	scheme       string
}

// createCORSMiddleware returns nil when CORS is disabled or nothing would be allowed.
//
// The central sign-in page calls POST /v1/auth/session and /v1/auth/handoff-tokens on a
// tenant origin, so every "<scheme>://<label>.<baseDomain>" origin is accepted. Credentials
// are allowed because those endpoints set host-only session cookies.
func createCORSMiddleware(settings corsSettings, logger *slog.Logger) gin.HandlerFunc {
	if !settings.enabled {
		return nil
	}

	origins := parseOrigins(settings.extraOrigins)
	if len(origins) == 0 && settings.baseDomain == "" {
		logger.Warn("CORS enabled but neither a base domain nor origins are configured")
		return nil
	}

	logger.Info("CORS enabled",
		slog.String("base_domain", settings.baseDomain),
		slog.Any("extra_origins", origins))

	return cors.New(cors.Config{
		AllowOrigins:    origins,
		AllowOriginFunc: tenantOriginMatcher(settings.scheme, settings.baseDomain),
		AllowMethods:    []string{"GET", "POST"},
		AllowHeaders:    []string{"Accept", "Content-Type"},
		ExposeHeaders:   []string{"X-Request-Id"},
		// Credentials are required for the Set-Cookie of the session endpoints.
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// tenantOriginMatcher accepts origins that are exactly one label under baseDomain and use
// scheme. Paths, user info and nested labels are rejected.
func tenantOriginMatcher(scheme, baseDomain string) func(origin string) bool {
	return func(origin string) bool {
		if baseDomain == "" {
			return false
		}
		u, err := url.Parse(origin)
		if err != nil || u.User != nil || (u.Path != "" && u.Path != "/") {
			return false
		}
		if !strings.EqualFold(u.Scheme, scheme) {
			return false
		}
		_, ok := handoffDomain.SubdomainOf(u.Host, baseDomain)
		return ok
	}
}

func parseOrigins(originsStr string) []string {
	if originsStr == "" {
		return nil
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
