package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/playmatatu/gameglass/internal/config"
)

const secret = "test-secret"

func adminRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireAdmin(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("admin_subject")})
	})
	return r
}

func TestRequireAdmin(t *testing.T) {
	valid, _, err := IssueAdminToken(secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	expired, _, _ := IssueAdminToken(secret, -time.Minute)
	foreign, _, _ := IssueAdminToken("other-secret", time.Hour)
	wrongSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "player",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"wrong subject", "Bearer " + wrongSubject, http.StatusUnauthorized},
	}

	r := adminRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestParseAdminTokenRejectsNone(t *testing.T) {
	token, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: AdminSubject}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := ParseAdminToken(secret, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestWebSocketOriginCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		env    string
		origin string
		want   int
	}{
		{"dev localhost", "development", "http://localhost:5173", http.StatusOK},
		{"dev foreign", "development", "https://evil.example", http.StatusForbidden},
		{"missing origin", "development", "", http.StatusBadRequest},
		{"prod frontend", "production", "https://viewer.example", http.StatusOK},
		{"prod known", "production", "https://playmatatu.com", http.StatusOK},
		{"prod localhost", "production", "http://localhost:5173", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Environment: tt.env, FrontendURL: "https://viewer.example"}
			r := gin.New()
			r.GET("/ws", WebSocketOriginCheck(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			req.Header.Set("Connection", "Upgrade")
			req.Header.Set("Upgrade", "websocket")
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestWebSocketOriginCheckIgnoresPlainRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", WebSocketOriginCheck(&config.Config{Environment: "production"}), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
