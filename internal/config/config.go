package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/playmatatu/gameglass/internal/glass"
)

type Config struct {
	// Environment
	Environment string

	// Database (optional; presentation audit log)
	DatabaseURL    string
	MigrateOnStart bool

	// Redis (optional; event fan-out and rate limiting)
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Simulation
	ContainerRadius  float64
	BallRadius       float64
	BallCount        int
	FrameRate        int
	BroadcastEvery   int
	MaxRenderNodes   int
	WindDurationMs   int
	RevealDurationMs int
	RevealBufferMs   int
	WindStrength     float64
	Seed             int64

	// Textures
	TextureSize int

	// Win sequence rate limit per client IP
	WinSequenceCooldownSecs int

	// Security
	JWTSecret         string
	AdminTokenHash    string
	SessionTimeoutMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation
		ContainerRadius:  getEnvFloat("GLASS_CONTAINER_RADIUS", 330),
		BallRadius:       getEnvFloat("GLASS_BALL_RADIUS", 45),
		BallCount:        getEnvInt("GLASS_BALL_COUNT", 40),
		FrameRate:        getEnvInt("GLASS_FPS", 60),
		BroadcastEvery:   getEnvInt("GLASS_BROADCAST_EVERY", 2),
		MaxRenderNodes:   getEnvInt("GLASS_MAX_RENDER_NODES", 0),
		WindDurationMs:   getEnvInt("GLASS_WIND_DURATION_MS", 2000),
		RevealDurationMs: getEnvInt("GLASS_REVEAL_DURATION_MS", 1500),
		RevealBufferMs:   getEnvInt("GLASS_REVEAL_BUFFER_MS", 300),
		WindStrength:     getEnvFloat("GLASS_WIND_STRENGTH", 0.6),
		Seed:             int64(getEnvInt("GLASS_SEED", 0)),

		// Textures
		TextureSize: getEnvInt("TEXTURE_SIZE", 512),

		WinSequenceCooldownSecs: getEnvInt("WIN_SEQUENCE_COOLDOWN_SECONDS", 5),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		AdminTokenHash:    getEnv("ADMIN_TOKEN_HASH", ""),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 240),
	}
}

// SimParams converts the simulation settings and validates them. A zero seed
// is replaced by the current time.
func (c *Config) SimParams() (glass.Params, error) {
	p := glass.DefaultParams()
	p.ContainerRadius = c.ContainerRadius
	p.BallRadius = c.BallRadius
	p.BallCount = c.BallCount
	p.Wind = glass.DefaultWind(c.ContainerRadius)
	p.Wind.Strength = c.WindStrength
	p.WindDuration = time.Duration(c.WindDurationMs) * time.Millisecond
	p.RevealDuration = time.Duration(c.RevealDurationMs) * time.Millisecond
	p.RevealBuffer = time.Duration(c.RevealBufferMs) * time.Millisecond
	p.Seed = c.Seed
	if p.Seed == 0 {
		p.Seed = time.Now().UnixNano()
	}

	if err := p.Validate(); err != nil {
		return glass.Params{}, fmt.Errorf("simulation config: %w", err)
	}
	return p, nil
}

// SessionTTL is the lifetime of an admin JWT.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTimeoutMin) * time.Minute
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
