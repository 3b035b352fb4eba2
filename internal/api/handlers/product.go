package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"catalog/internal/logger"
	"catalog/internal/models"
)

type ProductHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewProductHandler(db *gorm.DB, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		db:     db,
		logger: logger,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	var products []models.Product

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	// Filters
	category := c.Query("category")
	status := c.Query("status")
	search := c.Query("search")

	query := h.db.Model(&models.Product{})

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		query = query.Where("title LIKE ? OR sku LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	if err := query.Order("title").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": products,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	productHandle := c.Param("handle")

	var product models.Product
	if err := h.db.First(&product, "handle = ?", productHandle).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	var images []models.ProductImage
	h.db.Where("product_id = ?", product.ID).Order("position").Find(&images)

	var documents []models.ProductDocument
	h.db.Where("product_id = ?", product.ID).Order("position").Find(&documents)

	var variants []models.ProductVariant
	h.db.Where("product_id = ?", product.ID).Order("position").Find(&variants)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"product":   product,
			"images":    images,
			"documents": documents,
			"variants":  variants,
		},
	})
}
