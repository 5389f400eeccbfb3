package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playmatatu/gameglass/internal/api"
	"github.com/playmatatu/gameglass/internal/api/handlers"
	"github.com/playmatatu/gameglass/internal/config"
	"github.com/playmatatu/gameglass/internal/database"
	"github.com/playmatatu/gameglass/internal/glass"
	"github.com/playmatatu/gameglass/internal/migrations"
	"github.com/playmatatu/gameglass/internal/presenter"
	"github.com/playmatatu/gameglass/internal/redis"
	"github.com/playmatatu/gameglass/internal/render"
	"github.com/playmatatu/gameglass/internal/texture"
	"github.com/playmatatu/gameglass/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	params, err := cfg.SimParams()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Presentation audit log (optional)
	var store *database.PresentationStore
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if cfg.MigrateOnStart {
			log.Println("↗ Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
		store = database.NewPresentationStore(db)
	} else {
		log.Println("[DB] DATABASE_URL not set; popup presentations will not be recorded")
	}

	// Redis (optional)
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		rdb, err = redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
	} else {
		log.Println("[REDIS] REDIS_URL not set; running single-instance without rate limiting")
	}

	// Viewer fan-out
	var driver *glass.Driver
	hub := ws.NewHub(func(ctx context.Context) (interface{}, error) {
		return driver.Snapshot(ctx)
	})
	bus := ws.NewEventBus(rdb, hub)

	var recorder presenter.Recorder
	var lister handlers.PresentationLister
	if store != nil {
		recorder, lister = store, store
	}
	popups := presenter.New(bus, recorder)

	// Simulation collaborators
	textures := texture.NewGenerator(cfg.TextureSize, api.TexturePath)
	logFrames := render.LogSink(uint64(cfg.FrameRate) * 60)
	renderer := render.NewSceneRenderer(func(f render.Frame) {
		logFrames(f)
		if hub.ClientCount() > 0 {
			hub.Broadcast(ws.TypeFrame, f)
		}
	}, cfg.BroadcastEvery, cfg.MaxRenderNodes)

	sim, err := glass.NewSimulation(params,
		glass.WithRenderer(renderer),
		glass.WithTextures(textures),
		glass.WithPresenter(popups),
		glass.WithEventSink(bus.SceneEvents()),
	)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}
	driver = glass.NewDriver(sim, cfg.FrameRate)

	go hub.Run(ctx)
	go bus.Run(ctx)
	go popups.Run(ctx)
	go func() {
		if err := driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[GLASS] Driver exited: %v", err)
		}
	}()

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, api.Deps{
		Config:        cfg,
		Scene:         driver,
		Hub:           hub,
		Textures:      textures,
		Presentations: lister,
		Redis:         rdb,
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		log.Printf("Starting Game Glass server on port %s (%d balls, %d fps)", port, params.BallCount, cfg.FrameRate)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
