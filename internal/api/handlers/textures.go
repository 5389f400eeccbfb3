package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/gameglass/internal/texture"
)

const textureCacheControl = "public, max-age=86400"

// NumberTexture serves the PNG label of a ball number.
func NumberTexture(gen *texture.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := strconv.Atoi(c.Param("n"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "number must be an integer"})
			return
		}

		png, err := gen.NumberPNG(n)
		if err != nil {
			if errors.Is(err, texture.ErrOutOfRange) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "number must be between 10 and 99"})
				return
			}
			log.Printf("[API] number texture %d: %v", n, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Header("Cache-Control", textureCacheControl)
		c.Data(http.StatusOK, "image/png", png)
	}
}

// WinTexture serves the PNG label of the reveal ball.
func WinTexture(gen *texture.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		png, err := gen.WinPNG()
		if err != nil {
			log.Printf("[API] win texture: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Header("Cache-Control", textureCacheControl)
		c.Data(http.StatusOK, "image/png", png)
	}
}
