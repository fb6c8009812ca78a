// Package handler holds helpers shared by the HTTP handlers: error mapping,
// caller identity and parameter parsing.
package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/logger"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
	"github.com/rentalhub/marketplace-backend/internal/middleware"
)

// HandleError writes the failure envelope for err and reports whether it did.
// 5xx causes are logged and never sent to the client.
//
//	result, err := svc.DoSomething(ctx)
//	if handler.HandleError(c, err) {
//	    return
//	}
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	appErr := errors.GetAppError(err)
	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("code", appErr.Code),
			zap.Error(err),
		)
		response.InternalError(c, "")
		return true
	}
	response.Error(c, status, appErr.Message)
	return true
}

// MustSucceed writes err or a 200 with data. Callers return right after.
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// MustSucceedWithMessage like MustSucceed with a message
func MustSucceedWithMessage(c *gin.Context, err error, message string, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.SuccessWithMessage(c, message, data)
}

// RequireUserID returns the authenticated user id or writes 401.
func RequireUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "Authentication token is missing or malformed.")
		return "", false
	}
	return userID, true
}

// ParseID reads the "id" path parameter, which must be a UUID.
func ParseID(c *gin.Context, resourceName string) (string, bool) {
	return ParseParamID(c, "id", resourceName)
}

// ParseParamID reads a UUID path parameter; a malformed id is reported as not found.
func ParseParamID(c *gin.Context, paramName, resourceName string) (string, bool) {
	id := c.Param(paramName)
	if _, err := uuid.Parse(id); err != nil {
		response.NotFound(c, resourceName+" not found")
		return "", false
	}
	return id, true
}

// BindJSON binds the request body or writes 400 with the binding error.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// QueryInt reads an integer query parameter, returning def when absent or malformed.
func QueryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// FormFiles returns the uploaded files of a multipart field; non-multipart
// requests have none.
func FormFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

// FormFile returns the first file of a multipart field or nil.
func FormFile(c *gin.Context, field string) *multipart.FileHeader {
	files := FormFiles(c, field)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// BindForm binds query, form or JSON fields according to the content type, or
// writes 400.
func BindForm(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
