package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"stockpulse/internal/repository"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

// pageQuery maps 1-based page/limit query params onto the repository's
// limit/offset pagination.
func pageQuery(c *gin.Context, defaultLimit, maxLimit int) repository.PageParams {
	limit := intQuery(c, "limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	page := intQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	return repository.PageParams{Limit: limit, Offset: (page - 1) * limit}
}

func paginationMeta(page repository.PageParams, total int64) map[string]any {
	limit := page.Limit
	offset := page.Offset
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}

func tickerParam(c *gin.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
}
