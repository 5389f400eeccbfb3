package ws

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var viewerSeq uint64

func nextViewerID() string {
	return fmt.Sprintf("viewer-%d", atomic.AddUint64(&viewerSeq, 1))
}

// ServeWS upgrades a request to a viewer connection. The viewer immediately
// receives the current scene and then the live frame stream.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		id:   nextViewerID(),
		send: make(chan []byte, sendBuffer),
	}

	// Queued before the pumps start so the first message is the full scene.
	client.handleMessage(Message{Type: "get_state"})

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
