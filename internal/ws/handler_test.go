package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/gameglass/internal/glass"
)

func startHub(t *testing.T, state StateFunc) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(state)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

func waitForViewers(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("viewers = %d, want %d", hub.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestViewerReceivesStateOnConnect(t *testing.T) {
	_, srv := startHub(t, func(ctx context.Context) (interface{}, error) {
		return map[string]int{"frame": 7}, nil
	})
	conn := dial(t, srv)

	msg := readMessage(t, conn)
	if msg.Type != TypeState {
		t.Fatalf("first message type = %q, want %q", msg.Type, TypeState)
	}
	var state map[string]int
	json.Unmarshal(msg.Data, &state)
	if state["frame"] != 7 {
		t.Errorf("state = %v", state)
	}
}

func TestStateErrorIsReported(t *testing.T) {
	_, srv := startHub(t, func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("driver stopped")
	})
	conn := dial(t, srv)

	if msg := readMessage(t, conn); msg.Type != TypeError {
		t.Errorf("type = %q, want error", msg.Type)
	}
}

func TestBroadcastReachesViewers(t *testing.T) {
	hub, srv := startHub(t, nil)
	a := dial(t, srv)
	b := dial(t, srv)
	readMessage(t, a) // state unavailable
	readMessage(t, b)
	waitForViewers(t, hub, 2)

	hub.Broadcast(TypeFrame, map[string]int{"seq": 3})
	for _, conn := range []*websocket.Conn{a, b} {
		if msg := readMessage(t, conn); msg.Type != TypeFrame {
			t.Errorf("type = %q, want frame", msg.Type)
		}
	}
}

func TestGetStateAndUnknownMessages(t *testing.T) {
	calls := 0
	_, srv := startHub(t, func(ctx context.Context) (interface{}, error) {
		calls++
		return calls, nil
	})
	conn := dial(t, srv)
	readMessage(t, conn)

	conn.WriteJSON(Message{Type: "get_state"})
	msg := readMessage(t, conn)
	if msg.Type != TypeState || string(msg.Data) != "2" {
		t.Errorf("get_state reply = %s %s", msg.Type, msg.Data)
	}

	conn.WriteJSON(Message{Type: "take_shot"})
	if msg := readMessage(t, conn); msg.Type != TypeError {
		t.Errorf("unknown message reply type = %q, want error", msg.Type)
	}
}

func TestViewerDisconnectUnregisters(t *testing.T) {
	hub, srv := startHub(t, nil)
	conn := dial(t, srv)
	readMessage(t, conn)
	waitForViewers(t, hub, 1)

	conn.Close()
	waitForViewers(t, hub, 0)
}

func TestEventBusWithoutRedisDeliversLocally(t *testing.T) {
	hub, srv := startHub(t, nil)
	conn := dial(t, srv)
	readMessage(t, conn)
	waitForViewers(t, hub, 1)

	bus := NewEventBus(nil, hub)
	bus.Run(context.Background()) // returns immediately without redis
	bus.SceneEvents().Publish(glass.Event{Type: glass.EventWindChanged, Generation: 4})

	msg := readMessage(t, conn)
	if msg.Type != TypeSceneEvent {
		t.Fatalf("type = %q, want scene_event", msg.Type)
	}
	var e glass.Event
	json.Unmarshal(msg.Data, &e)
	if e.Type != glass.EventWindChanged || e.Generation != 4 {
		t.Errorf("event = %+v", e)
	}
}
