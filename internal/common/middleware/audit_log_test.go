package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

type memoryAudit struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (m *memoryAudit) Create(ctx context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryAudit) wait(t *testing.T, n int) []*models.AuditLog {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		if len(m.entries) >= n {
			out := append([]*models.AuditLog(nil), m.entries...)
			m.mu.Unlock()
			return out
		}
		m.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d audit entries", n)
	return nil
}

func (m *memoryAudit) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func auditRouter(store *memoryAudit, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "admin-1")
		c.Set("role", role)
	})
	r.Use(NewAuditLogger(store, nil).Log())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.PATCH("/api/v1/admin/agents/:id/approve", ok)
	r.POST("/api/v1/accommodations", ok)
	r.GET("/api/v1/admin/users", ok)
	r.POST("/api/v1/admin/users", ok)
	return r
}

func TestAuditLogger_RecordsAdminMutations(t *testing.T) {
	store := &memoryAudit{}
	r := auditRouter(store, "admin")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/agents/abc/approve", nil)
	req.Header.Set("User-Agent", "test-agent")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := store.wait(t, 1)
	e := entries[0]
	assert.Equal(t, "admin-1", e.AdminUserID)
	assert.Equal(t, "approve", e.Action)
	assert.Equal(t, "agent", e.ResourceType)
	require.NotNil(t, e.ResourceID)
	assert.Equal(t, "abc", *e.ResourceID)
	assert.Equal(t, http.StatusOK, e.StatusCode)
	require.NotNil(t, e.UserAgent)
	assert.Equal(t, "test-agent", *e.UserAgent)
}

func TestAuditLogger_MasksSensitiveFields(t *testing.T) {
	store := &memoryAudit{}
	r := auditRouter(store, "admin")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users",
		strings.NewReader(`{"email":"x@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	e := store.wait(t, 1)[0]
	assert.Equal(t, "create", e.Action)
	assert.Equal(t, "user", e.ResourceType)
	require.NotNil(t, e.RequestBody)
	assert.Contains(t, *e.RequestBody, `"password":"***"`)
	assert.NotContains(t, *e.RequestBody, "secret123")
}

func TestAuditLogger_SkipsReadsAndNonAdmins(t *testing.T) {
	store := &memoryAudit{}
	r := auditRouter(store, "admin")
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil))

	clientStore := &memoryAudit{}
	rc := auditRouter(clientStore, "client")
	rc.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/accommodations", nil))

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, store.count())
	assert.Zero(t, clientStore.count())
}

func TestResourceFor(t *testing.T) {
	assert.Equal(t, "booking", resourceFor("/api/v1/admin/bookings/:id/status"))
	assert.Equal(t, "accommodation", resourceFor("/api/v1/accommodations/:id"))
	assert.Equal(t, "inquiry", resourceFor("/api/v1/inquiries"))
	assert.Equal(t, "contact", resourceFor("/api/v1/contact/:id/status"))
	assert.Equal(t, "commission", resourceFor("/api/v1/admin/commissions"))
}
