// Package middleware holds middleware that depends on stores or telemetry.
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

const maxAuditBody = 2048

// AuditWriter persists audit entries.
type AuditWriter interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// AuditLogger records mutating admin requests in audit_logs.
type AuditLogger struct {
	repo    AuditWriter
	logger  *zap.Logger
	timeout time.Duration
}

// NewAuditLogger creates an AuditLogger
func NewAuditLogger(repo AuditWriter, logger *zap.Logger) *AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogger{repo: repo, logger: logger, timeout: 5 * time.Second}
}

// routeActions names actions that the HTTP method alone does not describe.
var routeActions = map[string]string{
	"PATCH /api/v1/admin/agents/:id/approve":     "approve",
	"PATCH /api/v1/admin/agents/:id/reject":      "reject",
	"PATCH /api/v1/admin/bookings/:id/status":    "update_status",
	"PATCH /api/v1/admin/commissions/:id/status": "update_status",
	"PATCH /api/v1/admin/reviews/:id/status":     "update_status",
	"PATCH /api/v1/admin/payments/:id/status":    "update_status",
	"PATCH /api/v1/contact/:id/status":           "update_status",
}

var sensitiveFields = []string{"password", "token", "secret", "api_key"}

// Log records every POST/PUT/PATCH/DELETE made by an admin. The entry is written
// after the handler ran, in its own goroutine, with a detached context.
func (l *AuditLogger) Log() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isMutating(c.Request.Method) {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil && strings.HasPrefix(c.ContentType(), "application/json") {
			body, _ = io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		c.Next()

		if c.GetString("role") != string(models.RoleAdmin) {
			return
		}
		entry := l.buildEntry(c, body)
		go l.write(entry)
	}
}

func (l *AuditLogger) buildEntry(c *gin.Context, body []byte) *models.AuditLog {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}

	entry := &models.AuditLog{
		AdminUserID:  c.GetString("user_id"),
		Action:       actionFor(c.Request.Method, route),
		ResourceType: resourceFor(route),
		Method:       c.Request.Method,
		Path:         c.Request.URL.Path,
		IP:           c.ClientIP(),
		StatusCode:   c.Writer.Status(),
	}
	if id := c.Param("id"); id != "" {
		entry.ResourceID = &id
	}
	if ua := c.Request.UserAgent(); ua != "" {
		if len(ua) > 255 {
			ua = ua[:255]
		}
		entry.UserAgent = &ua
	}
	if filtered := filterBody(body); filtered != "" {
		entry.RequestBody = &filtered
	}
	return entry
}

func (l *AuditLogger) write(entry *models.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	if err := l.repo.Create(ctx, entry); err != nil {
		l.logger.Warn("audit log write failed",
			zap.String("admin_user_id", entry.AdminUserID),
			zap.String("path", entry.Path),
			zap.Error(err),
		)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func actionFor(method, route string) string {
	if action, ok := routeActions[method+" "+route]; ok {
		return action
	}
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	}
	return "unknown"
}

// resourceFor returns the first path segment after the version and the optional
// admin prefix, singularised: /api/v1/admin/bookings/:id/status -> booking.
func resourceFor(route string) string {
	segments := strings.Split(strings.Trim(route, "/"), "/")
	for i := 0; i < len(segments); i++ {
		seg := segments[i]
		if seg == "api" || seg == "v1" || seg == "admin" || seg == "" {
			continue
		}
		switch {
		case strings.HasSuffix(seg, "ies"):
			return strings.TrimSuffix(seg, "ies") + "y"
		case strings.HasSuffix(seg, "s"):
			return strings.TrimSuffix(seg, "s")
		}
		return seg
	}
	return "unknown"
}

// filterBody masks sensitive keys and truncates the JSON text.
func filterBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return ""
	}
	out, err := json.Marshal(maskSensitive(data))
	if err != nil {
		return ""
	}
	if len(out) > maxAuditBody {
		out = out[:maxAuditBody]
	}
	return string(out)
}

func maskSensitive(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				result[key] = "***"
			} else {
				result[key] = maskSensitive(value)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = maskSensitive(item)
		}
		return result
	default:
		return data
	}
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveFields {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
