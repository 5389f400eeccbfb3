package api

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/gameglass/internal/api/handlers"
	"github.com/playmatatu/gameglass/internal/config"
	"github.com/playmatatu/gameglass/internal/middleware"
	"github.com/playmatatu/gameglass/internal/texture"
	"github.com/playmatatu/gameglass/internal/ws"
	"github.com/redis/go-redis/v9"
)

// TexturePath is where texture URLs handed to the renderer point.
const TexturePath = "/api/v1/textures"

// Deps are the services the HTTP surface needs. Redis, Cooldown and
// Presentations may be nil; without a Cooldown one is built on Redis.
type Deps struct {
	Config        *config.Config
	Scene         handlers.SceneController
	Hub           *ws.Hub
	Textures      *texture.Generator
	Presentations handlers.PresentationLister
	Redis         *redis.Client
	Cooldown      handlers.Cooldown
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	cfg := d.Config
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled (textures override)")
	}

	requireAdmin := middleware.RequireAdmin(cfg.JWTSecret)

	cooldown := d.Cooldown
	if cooldown == nil {
		cooldown = handlers.NewRedisCooldown(d.Redis, time.Duration(cfg.WinSequenceCooldownSecs)*time.Second)
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(d.Hub))

		// Scene control
		scene := v1.Group("/scene")
		{
			scene.GET("", handlers.GetScene(d.Scene))
			scene.GET("/wind", handlers.GetWind(d.Scene))
			scene.POST("/wind/toggle", handlers.ToggleWind(d.Scene))
			scene.POST("/reveal", handlers.ShowReveal(d.Scene))
			scene.POST("/win-sequence", handlers.RunWinSequence(d.Scene, cooldown))
			scene.POST("/reset", requireAdmin, handlers.ResetScene(d.Scene))
			scene.GET("/ws", middleware.WebSocketOriginCheck(cfg), handlers.HandleViewerWebSocket(d.Hub))
		}

		// Ball label textures
		textures := v1.Group("/textures")
		{
			textures.GET("/number/:n", handlers.NumberTexture(d.Textures))
			textures.GET("/win", handlers.WinTexture(d.Textures))
		}

		// Operator endpoints
		admin := v1.Group("/admin")
		{
			admin.POST("/login", handlers.AdminLogin(cfg))
			admin.GET("/presentations", requireAdmin, handlers.ListPresentations(d.Presentations))
		}
	}
}
