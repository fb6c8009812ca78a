package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/cache"
	"github.com/rentalhub/marketplace-backend/internal/common/jwt"
	"github.com/rentalhub/marketplace-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers map[string]*models.User

func (f fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type failingUsers struct{}

func (failingUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, errors.New("connection refused")
}

func newJWT() *jwt.Manager {
	return jwt.NewManager(&jwt.Config{Secret: "test-secret", AccessExpireTime: time.Hour, Issuer: "test"})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func authRouter(m *jwt.Manager, users UserLookup, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Authenticate(m, users)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetRole(c), "email": GetEmail(c)})
	})
	r.GET("/me", handlers...)
	return r
}

func TestAuthenticate(t *testing.T) {
	m := newJWT()
	users := fakeUsers{
		"u1": {ID: "u1", Email: "a@example.com", Role: models.RoleClient, Status: models.UserStatusActive},
		"u2": {ID: "u2", Email: "b@example.com", Role: models.RoleAgent, Status: models.UserStatusPending},
	}
	r := authRouter(m, users)

	tokenFor := func(id, role string) string {
		tok, err := m.IssueToken(id, id+"@example.com", role)
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authentication token is missing or malformed."},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Authentication token is missing or malformed."},
		{"bad token", "Bearer not-a-token", http.StatusUnauthorized, "Invalid or expired token."},
		{"unknown user", "Bearer " + tokenFor("ghost", "client"), http.StatusUnauthorized, "User not found."},
		{"inactive user", "Bearer " + tokenFor("u2", "agent"), http.StatusForbidden, "User account is pending."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}

	t.Run("active user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor("u1", "client"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "u1", body["user_id"])
		assert.Equal(t, "client", body["role"])
		assert.Equal(t, "a@example.com", body["email"])
	})
}

func TestAuthenticate_LookupFailureIsServerError(t *testing.T) {
	m := newJWT()
	r := authRouter(m, failingUsers{})

	tok, err := m.IssueToken("u1", "a@example.com", "client")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["message"])
}

func TestRequireRoles(t *testing.T) {
	m := newJWT()
	users := fakeUsers{
		"c": {ID: "c", Email: "c@example.com", Role: models.RoleClient, Status: models.UserStatusActive},
		"a": {ID: "a", Email: "a@example.com", Role: models.RoleAdmin, Status: models.UserStatusActive},
	}
	r := authRouter(m, users, RequireAdmin())

	call := func(id string) *httptest.ResponseRecorder {
		tok, err := m.IssueToken(id, "", "")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call("c")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not have permission to perform this action.", decode(t, w)["message"])

	assert.Equal(t, http.StatusOK, call("a").Code)
}

func TestRequireRoles_WithoutAuthenticate(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireClient(), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(zap.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["message"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.Request.RemoteAddr) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "10.0.0.1", w.Body.String())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(&CORSConfig{AllowOrigins: []string{"https://app.example.com"}, AllowMethods: []string{"GET"}, MaxAge: 600}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	store := cache.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	r := gin.New()
	r.POST("/login", AuthRateLimit(store, 2, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.True(t, mr.Exists("ratelimit:auth:192.0.2.1"))
}

func TestRateLimit_RedisDownFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	store := cache.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	mr.Close()

	r := gin.New()
	r.POST("/login", AuthRateLimit(store, 1, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
