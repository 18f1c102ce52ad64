package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roastivator/roastivator/internal/models"
	"github.com/roastivator/roastivator/internal/services"
)

type RoastHandler struct {
	snapshotService *services.SnapshotService
	roastService    *services.RoastService
}

func NewRoastHandler(snapshotService *services.SnapshotService, roastService *services.RoastService) *RoastHandler {
	return &RoastHandler{
		snapshotService: snapshotService,
		roastService:    roastService,
	}
}

// Roast handles GET /api/roast/:username
func (h *RoastHandler) Roast(c *gin.Context) {
	username := c.Param("username")

	// Validation failures never reach the pipeline
	if err := models.ValidateUsername(username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":    "error",
			"error":     err.Error(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	snapshot, rateLimit, err := h.snapshotService.Assemble(c.Request.Context(), username)
	if err != nil {
		status, payload := fetchErrorResponse(err)
		c.JSON(status, payload)
		return
	}

	report := h.roastService.GenerateRoast(snapshot)
	insights := h.roastService.CategoryInsights(snapshot)

	response := gin.H{
		"status":    "success",
		"timestamp": time.Now().Format(time.RFC3339),
		"report":    report,
		"severity":  models.SeverityForScore(report.Score),
		"insights":  insights,
	}
	if rateLimit != nil {
		response["rate_limit"] = rateLimit
	}

	c.JSON(http.StatusOK, response)
}

// fetchErrorResponse maps a pipeline failure to an HTTP status and JSON body
func fetchErrorResponse(err error) (int, gin.H) {
	payload := gin.H{
		"status":    "error",
		"error":     err.Error(),
		"timestamp": time.Now().Format(time.RFC3339),
	}

	var fetchErr *services.FetchError
	if !errors.As(err, &fetchErr) {
		return http.StatusInternalServerError, payload
	}

	if fetchErr.RateLimit != nil {
		payload["rate_limit"] = fetchErr.RateLimit
	}

	switch fetchErr.Kind {
	case services.ErrKindNotFound:
		return http.StatusNotFound, payload
	case services.ErrKindRateLimited, services.ErrKindForbidden:
		return http.StatusForbidden, payload
	case services.ErrKindInvalidRequest:
		return http.StatusUnprocessableEntity, payload
	case services.ErrKindUpstream:
		return http.StatusBadGateway, payload
	default:
		return http.StatusInternalServerError, payload
	}
}
