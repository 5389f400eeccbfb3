package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/gameglass/internal/config"
)

// productionOrigins are always allowed outside development.
var productionOrigins = []string{
	"https://playmatatu.com",
	"https://glass.playmatatu.com",
}

// CORSMiddleware returns a CORS middleware configured for the environment
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	log.Printf("[CORS] Environment: %s, FrontendURL: %s", cfg.Environment, cfg.FrontendURL)

	corsConfig := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization",
			"Accept", "Cache-Control", "X-Requested-With",
		},
		ExposeHeaders: []string{
			"Content-Length", "X-Viewer-Count",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour, // Cache preflight responses
	}

	// Configure allowed origins based on environment
	if cfg.Environment == "development" {
		corsConfig.AllowOriginFunc = isLocalOrigin
	} else {
		corsConfig.AllowOrigins = allowedOrigins(cfg)
		log.Printf("[CORS] Production allowed origins: %v", corsConfig.AllowOrigins)
	}

	return cors.New(corsConfig)
}

// WebSocketOriginCheck validates WebSocket upgrade origins
func WebSocketOriginCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only check for WebSocket upgrade requests
		if !strings.Contains(strings.ToLower(c.GetHeader("Connection")), "upgrade") ||
			strings.ToLower(c.GetHeader("Upgrade")) != "websocket" {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "WebSocket origin required"})
			return
		}

		var allowed bool
		if cfg.Environment == "development" {
			allowed = isLocalOrigin(origin)
		} else {
			for _, o := range allowedOrigins(cfg) {
				if origin == o {
					allowed = true
					break
				}
			}
		}

		if !allowed {
			log.Printf("[WS] Rejected upgrade from origin %s", origin)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "WebSocket origin not allowed"})
			return
		}

		c.Next()
	}
}

func isLocalOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:") ||
		strings.HasPrefix(origin, "http://127.0.0.1:")
}

func allowedOrigins(cfg *config.Config) []string {
	origins := append([]string{}, productionOrigins...)
	if cfg.FrontendURL != "" {
		origins = append(origins, cfg.FrontendURL)
	}
	return origins
}
