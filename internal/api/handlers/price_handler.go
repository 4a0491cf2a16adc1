package handlers

import (
	"errors"
	"net/http"

	"github.com/andresuchdata/salesmap/internal/domain"
	"github.com/andresuchdata/salesmap/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type PriceGroupHandler struct {
	priceService *service.PriceGroupService
}

func NewPriceGroupHandler(priceService *service.PriceGroupService) *PriceGroupHandler {
	return &PriceGroupHandler{priceService: priceService}
}

// Get returns the saved M-2 price groups
func (h *PriceGroupHandler) Get(c *gin.Context) {
	groups, err := h.priceService.Get(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load price groups")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch price groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": groups})
}

// Replace stores a new M-2 price table
func (h *PriceGroupHandler) Replace(c *gin.Context) {
	var body struct {
		Groups domain.PriceGroups `json:"groups" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"groups\": [{\"month\": 1-12, \"price\": number}]}"})
		return
	}

	if err := h.priceService.Replace(c.Request.Context(), body.Groups); err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("failed to save price groups")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save price groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": body.Groups})
}
