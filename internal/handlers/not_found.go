package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type NotFoundHandler struct{}

func NewNotFoundHandler() *NotFoundHandler {
	return &NotFoundHandler{}
}

// NotFound handles requests for non-existent routes
func (h *NotFoundHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"status":    "error",
		"error":     "Route not found",
		"path":      c.Request.URL.Path,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
