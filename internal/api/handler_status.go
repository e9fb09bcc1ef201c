package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"office-status-backend/internal/store"
)

type updateStatusRequest struct {
	StatusMessage string `json:"status_message"`
}

// UpdateStatus handles POST /status/update. The status row of the caller's
// office is upserted atomically, so concurrent updates leave a single row.
func (h *Handler) UpdateStatus(c *gin.Context) {
	rec, ok := h.currentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StatusMessage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing status_message"})
		return
	}

	if err := h.store.UpsertStatus(c.Request.Context(), rec.OfficeID, req.StatusMessage); err != nil {
		log.Error().Err(err).Int64("office_id", rec.OfficeID).Msg("upsert status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	if h.pool != nil {
		h.pool.Dispatch(rec.OfficeID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

// GetOfficeStatus handles GET /status/:office_name. The path segment arrives
// URL-decoded from the router and is trimmed before lookup.
func (h *Handler) GetOfficeStatus(c *gin.Context) {
	name := strings.TrimSpace(c.Param("office_name"))

	office, err := h.store.OfficeByName(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrOfficeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Office not found"})
			return
		}
		log.Error().Err(err).Str("office_name", name).Msg("status office lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve status"})
		return
	}

	status, err := h.store.StatusByOfficeID(c.Request.Context(), office.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Office status not found"})
			return
		}
		log.Error().Err(err).Int64("office_id", office.ID).Msg("status lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"office_name":    office.Name,
		"status_message": status.StatusMessage,
	})
}
