package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/gameglass/internal/config"
	"github.com/playmatatu/gameglass/internal/middleware"
	"github.com/playmatatu/gameglass/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// PresentationLister reads the popup audit log.
type PresentationLister interface {
	Recent(ctx context.Context, limit int) ([]models.PopupPresentation, error)
}

// AdminLogin exchanges the operator token for a session JWT.
func AdminLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Token string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		if cfg.AdminTokenHash == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin login not configured"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(cfg.AdminTokenHash), []byte(strings.TrimSpace(req.Token))); err != nil {
			log.Printf("[ADMIN] Login failed from %s", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, exp, err := middleware.IssueAdminToken(cfg.JWTSecret, cfg.SessionTTL())
		if err != nil {
			log.Printf("[ADMIN] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		log.Printf("[ADMIN] Login from %s", c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp.Format(time.RFC3339)})
	}
}

// ListPresentations returns the most recent win popups.
func ListPresentations(store PresentationLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "presentation log not configured"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		rows, err := store.Recent(c.Request.Context(), limit)
		if err != nil {
			log.Printf("[ADMIN] list presentations: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		out := make([]gin.H, 0, len(rows))
		for _, p := range rows {
			out = append(out, gin.H{
				"id":           p.ID,
				"popup_id":     p.PopupID,
				"amount":       p.AmountValue(),
				"currency":     p.Currency,
				"presented_at": p.PresentedAt.Format(time.RFC3339),
			})
		}
		c.JSON(http.StatusOK, gin.H{"presentations": out})
	}
}
