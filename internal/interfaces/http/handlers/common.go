// Package handlers contains the gin handlers for the API surface:
// mission intake, standalone assessments, and report generation.
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexus-advisory/nexus-intelligence/internal/interfaces/http/middleware"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
	"github.com/nexus-advisory/nexus-intelligence/pkg/types/common"
)

// respond writes the standard success envelope.
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, common.APIResponse[interface{}]{
		Success:   true,
		Data:      data,
		RequestID: middleware.GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// respondError maps an application error to its HTTP status and writes
// the standard error envelope. Server-side errors are masked.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if errors.IsServerError(code) {
		message = errors.DefaultMessageForCode(code)
	}

	c.AbortWithStatusJSON(status, common.APIResponse[interface{}]{
		Success:   false,
		Error:     &common.ErrorDetail{Code: string(code), Message: message},
		RequestID: middleware.GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// parsePagination extracts page and page_size query parameters with
// the service-side defaults.
func parsePagination(c *gin.Context) (int, int) {
	page := 1
	pageSize := 20

	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := c.Query("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return page, pageSize
}
