package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"catalog/internal/logger"
	"catalog/internal/models"
)

type CollectionHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewCollectionHandler(db *gorm.DB, logger *logger.Logger) *CollectionHandler {
	return &CollectionHandler{
		db:     db,
		logger: logger,
	}
}

func (h *CollectionHandler) List(c *gin.Context) {
	var collections []models.Collection
	if err := h.db.Order("sort_order").Find(&collections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collections"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": collections})
}

func (h *CollectionHandler) Get(c *gin.Context) {
	collectionHandle := c.Param("handle")

	var collection models.Collection
	if err := h.db.First(&collection, "handle = ?", collectionHandle).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collection"})
		return
	}

	var products []models.Product
	err := h.db.
		Joins("JOIN collection_memberships ON collection_memberships.product_id = products.id").
		Where("collection_memberships.collection_id = ?", collection.ID).
		Order("collection_memberships.position").
		Find(&products).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collection products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"collection": collection,
			"products":   products,
		},
	})
}
