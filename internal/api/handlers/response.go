package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/services"
)

// Response is the common JSON envelope
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// PaginatedData wraps a page of items with pagination metadata
type PaginatedData struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

func respond(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   code < http.StatusBadRequest,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondOK(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusOK, message, data)
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusCreated, message, data)
}

// respondError maps the service error taxonomy onto HTTP status codes.
// Unclassified errors are logged and return a generic message so internal
// detail never leaks to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		respond(c, http.StatusBadRequest, err.Error(), nil)
	case services.IsNotFound(err):
		respond(c, http.StatusNotFound, err.Error(), nil)
	case services.IsConflict(err):
		respond(c, http.StatusConflict, err.Error(), nil)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		respond(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func totalPages(total int64, limit int) int {
	if limit < 1 || total == 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
