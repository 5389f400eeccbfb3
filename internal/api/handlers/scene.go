package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/gameglass/internal/glass"
	"github.com/redis/go-redis/v9"
)

const commandTimeout = 2 * time.Second

// SceneController is the control surface of the running simulation.
// *glass.Driver implements it.
type SceneController interface {
	ToggleWind(ctx context.Context) (bool, error)
	IsWindActive(ctx context.Context) (bool, error)
	ShowRevealBall(ctx context.Context) error
	ResetScene(ctx context.Context) error
	RunWinSequence(ctx context.Context, popupID string, amount *float64, currency string) (<-chan glass.SequenceOutcome, error)
	Snapshot(ctx context.Context) (glass.Snapshot, error)
}

func commandContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), commandTimeout)
}

// abortScene maps driver errors to HTTP responses.
func abortScene(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, glass.ErrSequenceInFlight):
		status, msg = http.StatusConflict, "win sequence already running"
	case errors.Is(err, glass.ErrDriverStopped):
		status, msg = http.StatusServiceUnavailable, "simulation not running"
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "simulation busy"
	case errors.Is(err, context.Canceled):
		status, msg = 499, "request cancelled"
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s failed: %v", op, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// GetScene returns the current snapshot.
func GetScene(scene SceneController) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := commandContext(c)
		defer cancel()

		snap, err := scene.Snapshot(ctx)
		if err != nil {
			abortScene(c, "snapshot", err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// GetWind reports whether the wind is on.
func GetWind(scene SceneController) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := commandContext(c)
		defer cancel()

		active, err := scene.IsWindActive(ctx)
		if err != nil {
			abortScene(c, "wind status", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"active": active})
	}
}

// ToggleWind flips the wind.
func ToggleWind(scene SceneController) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := commandContext(c)
		defer cancel()

		active, err := scene.ToggleWind(ctx)
		if err != nil {
			abortScene(c, "toggle wind", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"active": active})
	}
}

// ShowReveal creates the reveal ball if it is not already shown.
func ShowReveal(scene SceneController) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := commandContext(c)
		defer cancel()

		if err := scene.ShowRevealBall(ctx); err != nil {
			abortScene(c, "show reveal", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ResetScene respawns every ball and cancels any running win sequence.
func ResetScene(scene SceneController) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := commandContext(c)
		defer cancel()

		if err := scene.ResetScene(ctx); err != nil {
			abortScene(c, "reset", err)
			return
		}
		log.Printf("[API] Scene reset by %s", c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

type winSequenceRequest struct {
	PopupID  string   `json:"popup_id" binding:"required"`
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
}

// Cooldown throttles win sequences per client. Acquire reports false while the
// client is still cooling down; Release hands the slot back.
type Cooldown interface {
	Acquire(ctx context.Context, client string) (bool, error)
	Release(ctx context.Context, client string)
}

// RedisCooldown keeps one expiring key per client.
type RedisCooldown struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCooldown returns nil when there is no Redis or no cooldown.
func NewRedisCooldown(rdb *redis.Client, ttl time.Duration) Cooldown {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &RedisCooldown{rdb: rdb, ttl: ttl}
}

func cooldownKey(client string) string {
	return fmt.Sprintf("win_seq_rate:%s", client)
}

func (r *RedisCooldown) Acquire(ctx context.Context, client string) (bool, error) {
	return r.rdb.SetNX(ctx, cooldownKey(client), "1", r.ttl).Result()
}

func (r *RedisCooldown) Release(ctx context.Context, client string) {
	if err := r.rdb.Del(ctx, cooldownKey(client)).Err(); err != nil {
		log.Printf("[REDIS] Failed to release cooldown for %s: %v", client, err)
	}
}

// RunWinSequence starts wind -> reveal -> popup -> reset. With ?wait=true the
// response is sent when the sequence completes or is cancelled. A request the
// driver rejects does not use up the client's cooldown.
func RunWinSequence(scene SceneController, cooldown Cooldown) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req winSequenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "popup_id required"})
			return
		}

		// Rate limit per client IP
		client := c.ClientIP()
		acquired := false
		if cooldown != nil {
			ok, err := cooldown.Acquire(c.Request.Context(), client)
			if err == nil && !ok {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "win sequence rate limit exceeded"})
				return
			}
			// ignore Redis errors and proceed
			acquired = err == nil
		}

		ctx, cancel := commandContext(c)
		done, err := scene.RunWinSequence(ctx, req.PopupID, req.Amount, req.Currency)
		cancel()
		if err != nil {
			if acquired {
				cooldown.Release(c.Request.Context(), client)
			}
			abortScene(c, "win sequence", err)
			return
		}

		if c.Query("wait") != "true" {
			c.JSON(http.StatusAccepted, gin.H{"status": "started", "popup_id": req.PopupID})
			return
		}

		select {
		case outcome := <-done:
			c.JSON(http.StatusOK, gin.H{"status": outcome.String(), "popup_id": req.PopupID})
		case <-c.Request.Context().Done():
			// Client went away; the sequence keeps running.
		}
	}
}
