package api

import (
	"net/http"
	"strconv"
	"time"

	"oil-tracker/internal/analysis"
	"oil-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

type purchaseRequest struct {
	PurchaseDate string   `json:"purchase_date"`
	Litres       *float64 `json:"litres"`
	TotalPrice   *float64 `json:"total_price"`
	Supplier     *string  `json:"supplier"`
	Notes        *string  `json:"notes"`
}

// ListPurchases returns purchases enriched with the best market ppl recorded
// on each purchase date, the loyalty cost of not buying at it, and aggregate
// totals. A year of history covers the oldest purchase of interest.
// GET /api/v1/purchases
func (h *APIHandler) ListPurchases(c *gin.Context) {
	var purchases []models.Purchase
	if err := h.db.Order("purchase_date DESC").Limit(50).Find(&purchases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch purchases"})
		return
	}

	var history []models.OilPrice
	if err := h.db.Order("recorded_at DESC").Limit(365).Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch price history"})
		return
	}

	enriched, stats := analysis.ReconcilePurchases(purchases, history)

	c.JSON(http.StatusOK, gin.H{
		"purchases": enriched,
		"stats":     stats,
	})
}

// CreatePurchase logs a fuel purchase. Ppl is derived from litres and total
// price, never accepted from the client.
// POST /api/v1/purchases
func (h *APIHandler) CreatePurchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.PurchaseDate == "" || req.Litres == nil || req.TotalPrice == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: purchase_date, litres, total_price"})
		return
	}
	if *req.Litres <= 0 || *req.TotalPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "litres and total_price must be positive"})
		return
	}

	date, err := parsePurchaseDate(req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase_date"})
		return
	}

	purchase := models.Purchase{
		PurchaseDate: date,
		Litres:       *req.Litres,
		TotalPrice:   *req.TotalPrice,
	}
	if req.Supplier != nil {
		purchase.Supplier = *req.Supplier
	}
	if req.Notes != nil {
		purchase.Notes = *req.Notes
	}
	purchase.RecalcPpl()

	if err := h.db.Create(&purchase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add purchase"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"purchase": purchase})
}

// UpdatePurchase applies a partial update and recomputes ppl whenever litres
// or total price change, so the stored pair is never inconsistent.
// PUT /api/v1/purchases/:id
func (h *APIHandler) UpdatePurchase(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var purchase models.Purchase
	if err := h.db.First(&purchase, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		return
	}

	if req.PurchaseDate != "" {
		date, err := parsePurchaseDate(req.PurchaseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase_date"})
			return
		}
		purchase.PurchaseDate = date
	}
	if req.Litres != nil {
		if *req.Litres <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "litres must be positive"})
			return
		}
		purchase.Litres = *req.Litres
	}
	if req.TotalPrice != nil {
		if *req.TotalPrice <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "total_price must be positive"})
			return
		}
		purchase.TotalPrice = *req.TotalPrice
	}
	if req.Supplier != nil {
		purchase.Supplier = *req.Supplier
	}
	if req.Notes != nil {
		purchase.Notes = *req.Notes
	}
	purchase.RecalcPpl()

	if err := h.db.Save(&purchase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update purchase"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// DeletePurchase removes a purchase.
// DELETE /api/v1/purchases/:id
func (h *APIHandler) DeletePurchase(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result := h.db.Delete(&models.Purchase{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete purchase"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parsePurchaseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
