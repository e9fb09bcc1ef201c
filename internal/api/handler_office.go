package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"office-status-backend/internal/store"
)

type createOfficeRequest struct {
	Name string `json:"name"`
}

// CreateOffice handles POST /office/create.
func (h *Handler) CreateOffice(c *gin.Context) {
	var req createOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name"})
		return
	}

	if _, err := h.store.CreateOffice(c.Request.Context(), req.Name); err != nil {
		if errors.Is(err, store.ErrOfficeExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Office already exists"})
			return
		}
		log.Error().Err(err).Str("name", req.Name).Msg("create office")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create office"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Office created successfully"})
}

// officeResponse is the wire shape of one office in the /offices listing.
type officeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GetAvailableOffices handles GET /offices, listing offices with no users.
func (h *Handler) GetAvailableOffices(c *gin.Context) {
	offices, err := h.store.AvailableOffices(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list available offices")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve offices"})
		return
	}

	list := make([]officeResponse, 0, len(offices))
	for _, o := range offices {
		list = append(list, officeResponse{ID: o.ID, Name: o.Name})
	}
	c.JSON(http.StatusOK, gin.H{"offices": list})
}
