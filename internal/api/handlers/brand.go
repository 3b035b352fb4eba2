package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"catalog/internal/logger"
	"catalog/internal/models"
)

type BrandHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewBrandHandler(db *gorm.DB, logger *logger.Logger) *BrandHandler {
	return &BrandHandler{
		db:     db,
		logger: logger,
	}
}

func (h *BrandHandler) List(c *gin.Context) {
	var brands []models.Brand
	if err := h.db.Order("name").Find(&brands).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch brands"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": brands})
}
