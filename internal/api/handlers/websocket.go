package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/gameglass/internal/ws"
)

// HandleViewerWebSocket streams frames, popups and scene events to a viewer.
func HandleViewerWebSocket(hub *ws.Hub) gin.HandlerFunc {
	return hub.ServeWS
}
