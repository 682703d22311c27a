package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"oil-tracker/internal/analysis"
	"oil-tracker/internal/config"
	"oil-tracker/internal/ingest"
	"oil-tracker/internal/models"
	"oil-tracker/internal/ratelimit"
	"oil-tracker/internal/services/crudeoil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type APIHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	pipeline *ingest.Pipeline
	crude    *crudeoil.Client
	limiter  *ratelimit.Limiter
	hub      *Hub
}

func SetupRoutes(r *gin.RouterGroup, db *gorm.DB, cfg *config.Config, pipeline *ingest.Pipeline, crude *crudeoil.Client) *APIHandler {
	handler := &APIHandler{
		db:       db,
		cfg:      cfg,
		pipeline: pipeline,
		crude:    crude,
		limiter:  ratelimit.New(cfg.RefreshInterval),
		hub:      NewHub(),
	}

	prices := r.Group("/prices")
	{
		prices.GET("", handler.GetPrices)
		prices.GET("/crude/history", handler.GetCrudeHistory)
	}

	purchases := r.Group("/purchases")
	{
		purchases.GET("", handler.ListPurchases)
		purchases.POST("", handler.CreatePurchase)
		purchases.PUT("/:id", handler.UpdatePurchase)
		purchases.DELETE("/:id", handler.DeletePurchase)
	}

	// Ingestion
	r.GET("/cron/scrape", handler.CronScrape)
	r.POST("/refresh", handler.Refresh)

	// Export
	r.GET("/export/prices.xlsx", handler.ExportPrices)

	return handler
}

// Hub exposes the websocket hub so the server can mount /ws outside the
// versioned API group.
func (h *APIHandler) WebsocketHub() *Hub {
	return h.hub
}

// GetPrices returns the snapshot history newest-first plus summary stats and
// the benchmark analysis block (correlation, expected price, buy signal).
// GET /api/v1/prices?limit=30
func (h *APIHandler) GetPrices(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if limit <= 0 || limit > 365 {
		limit = 30
	}

	var history []models.OilPrice
	if err := h.db.Order("recorded_at DESC").Limit(limit).Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch prices"})
		return
	}

	if len(history) == 0 {
		c.JSON(http.StatusOK, gin.H{"price_history": []gin.H{}, "stats": nil, "analysis": nil})
		return
	}

	items := make([]gin.H, 0, len(history))
	for i := range history {
		items = append(items, snapshotJSON(&history[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"price_history": items,
		"stats":         priceStats(history),
		"analysis":      h.analysisBlock(history),
	})
}

// priceStats summarizes the successful snapshots in the window: current and
// lowest cheapest price, average, and a 7-point moving average of the
// cheapest price (oldest-first, nil until enough points exist).
func priceStats(history []models.OilPrice) gin.H {
	var ok []models.OilPrice
	for _, p := range history {
		if p.ScrapeSuccess {
			ok = append(ok, p)
		}
	}
	if len(ok) == 0 {
		return nil
	}

	current := ok[0].CheapestPrice500L
	low := current
	sum := 0.0

	// oldest-first series for the moving average
	series := make([]float64, 0, len(ok))
	for i := len(ok) - 1; i >= 0; i-- {
		series = append(series, ok[i].CheapestPrice500L)
	}
	for _, p := range ok {
		if p.CheapestPrice500L < low {
			low = p.CheapestPrice500L
		}
		sum += p.CheapestPrice500L
	}

	ma := analysis.MovingAverage(series, 7)
	maJSON := make([]*float64, len(ma))
	for i, v := range ma {
		if !math.IsNaN(v) {
			value := math.Round(v*100) / 100
			maJSON[i] = &value
		}
	}

	return gin.H{
		"current_price":    current,
		"thirty_day_low":   low,
		"average_price":    math.Round(sum/float64(len(ok))*100) / 100,
		"moving_average_7": maJSON,
	}
}

// analysisBlock pairs the heating-oil ppl series with the Brent GBP series
// and derives correlation, model-expected price, and the buy signal. Every
// undefined branch degrades to nil rather than an error.
func (h *APIHandler) analysisBlock(history []models.OilPrice) gin.H {
	var ppl []float64
	var crudeGbp []*float64
	var latest *models.OilPrice

	for i := range history {
		p := &history[i]
		if !p.ScrapeSuccess {
			continue
		}
		if latest == nil {
			latest = p
		}
		ppl = append(ppl, p.CheapestPpl)
		crudeGbp = append(crudeGbp, p.BrentCrudeGbp)
	}
	if latest == nil {
		return nil
	}

	heating, crude := analysis.PairSeries(ppl, crudeGbp)

	correlation := analysis.Correlation(crude, heating)

	var expected *float64
	if latest.BrentCrudeGbp != nil {
		expected = analysis.ExpectedPrice(*latest.BrentCrudeGbp, crude, heating)
	}
	signal := analysis.BuySignal(latest.CheapestPpl, expected)

	return gin.H{
		"correlation":    correlation,
		"expected_ppl":   expected,
		"actual_ppl":     latest.CheapestPpl,
		"signal":         signal,
		"paired_samples": len(heating),
	}
}

// GetCrudeHistory proxies the benchmark history for the correlation chart.
// GET /api/v1/prices/crude/history?days=90
func (h *APIHandler) GetCrudeHistory(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "90"))
	if days <= 0 || days > 365 {
		days = 90
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	points := h.crude.FetchHistory(ctx, days)
	c.JSON(http.StatusOK, gin.H{"history": points})
}

func snapshotJSON(p *models.OilPrice) gin.H {
	item := gin.H{
		"id":                  p.ID,
		"recorded_at":         p.RecordedAt,
		"avg_price_500l":      p.AvgPrice500L,
		"cheapest_price_500l": p.CheapestPrice500L,
		"cheapest_supplier":   p.CheapestSupplier,
		"supplier_count":      p.SupplierCount,
		"avg_ppl":             p.AvgPpl,
		"cheapest_ppl":        p.CheapestPpl,
		"scrape_success":      p.ScrapeSuccess,
		"brent_crude_usd":     p.BrentCrudeUsd,
		"brent_crude_gbp":     p.BrentCrudeGbp,
		"brent_crude_change":  p.BrentCrudeChange,
	}
	suppliers, scrapeErr := p.Suppliers()
	if p.ScrapeSuccess {
		item["suppliers"] = suppliers
	} else {
		item["scrape_error"] = scrapeErr
	}
	return item
}
