package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	c, w := setupTest()
	Success(c, map[string]interface{}{"id": "abc"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc", body["data"].(map[string]interface{})["id"])
	_, hasMessage := body["message"]
	assert.False(t, hasMessage)
}

func TestCreated(t *testing.T) {
	c, w := setupTest()
	Created(c, "Accommodation created", gin.H{"id": "x"})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Accommodation created", body["message"])
}

func TestSuccessWithMessage_NoData(t *testing.T) {
	c, w := setupTest()
	SuccessWithMessage(c, "Booking cancelled successfully", nil)

	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	_, hasData := body["data"]
	assert.False(t, hasData)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c *gin.Context)
		status int
		msg    string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "bad") }, http.StatusBadRequest, "bad"},
		{"unauthorized default", func(c *gin.Context) { Unauthorized(c, "") }, http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", func(c *gin.Context) { Forbidden(c, "nope") }, http.StatusForbidden, "nope"},
		{"not found default", func(c *gin.Context) { NotFound(c, "") }, http.StatusNotFound, "Not found"},
		{"internal default", func(c *gin.Context) { InternalError(c, "") }, http.StatusInternalServerError, "Internal server error"},
		{"too many", func(c *gin.Context) { TooManyRequests(c, "") }, http.StatusTooManyRequests, "Too many requests, please try again later"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := setupTest()
			tt.call(c)
			assert.Equal(t, tt.status, w.Code)
			body := parseBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.msg, body["message"])
		})
	}
}

func TestAbortWithError(t *testing.T) {
	c, w := setupTest()
	AbortWithError(c, http.StatusForbidden, "denied")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}
