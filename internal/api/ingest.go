package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CronScrape is the scheduled ingest entry point, protected by the cron
// bearer secret. One snapshot row is written whether or not the scrape
// succeeds, and the alert decision is evaluated against the previous
// successful snapshot.
// GET /api/v1/cron/scrape
func (h *APIHandler) CronScrape(c *gin.Context) {
	if h.cfg.CronSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "CRON_SECRET not configured"})
		return
	}
	if c.GetHeader("Authorization") != "Bearer "+h.cfg.CronSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	h.runIngest(c, true)
}

// Refresh is the manual ingest trigger, guarded by the minimum-interval
// limiter. Alerts are not evaluated on manual refreshes.
// POST /api/v1/refresh
func (h *APIHandler) Refresh(c *gin.Context) {
	allowed, wait := h.limiter.Allow()
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Rate limited. Try again in %d seconds.", int(wait.Seconds())+1),
		})
		return
	}

	h.runIngest(c, false)
}

func (h *APIHandler) runIngest(c *gin.Context, sendAlerts bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	result, err := h.pipeline.Run(ctx, sendAlerts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	summary := result.Summary
	data := gin.H{
		"id":                  result.Snapshot.ID,
		"recorded_at":         result.Snapshot.RecordedAt,
		"supplier_count":      len(summary.Suppliers),
		"avg_price_500l":      summary.AvgPrice500L,
		"cheapest_price_500l": summary.CheapestPrice500L,
		"cheapest_supplier":   summary.CheapestSupplier,
		"avg_ppl":             summary.AvgPpl,
		"cheapest_ppl":        summary.CheapestPpl,
		"previous_price":      result.PreviousPrice,
		"previous_ppl":        result.PreviousPpl,
	}
	if result.Crude != nil {
		data["crude_oil"] = gin.H{
			"price_usd":      result.Crude.Price,
			"price_gbp":      result.Crude.PriceGBP,
			"change":         result.Crude.Change,
			"change_percent": result.Crude.ChangePercent,
		}
	} else {
		data["crude_oil"] = nil
	}
	if result.Alert != nil {
		data["ppl_change"] = result.Alert.Change
		alert := gin.H{"reason": result.Alert.Reason, "sent": false}
		if result.Email != nil {
			alert["sent"] = result.Email.Sent
			if result.Email.Error != "" {
				alert["error"] = result.Email.Error
			}
		}
		data["email_alert"] = alert
	}

	h.hub.Broadcast(gin.H{"type": "snapshot", "data": snapshotJSON(&result.Snapshot)})

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
