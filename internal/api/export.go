package api

import (
	"fmt"
	"net/http"
	"strconv"

	"oil-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportPrices streams the snapshot history as a spreadsheet.
// GET /api/v1/export/prices.xlsx?limit=365
func (h *APIHandler) ExportPrices(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "365"))
	if limit <= 0 || limit > 1000 {
		limit = 365
	}

	var history []models.OilPrice
	if err := h.db.Order("recorded_at DESC").Limit(limit).Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch prices"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	headers := []string{"Recorded At", "Avg Price 500L", "Cheapest Price 500L", "Cheapest Supplier",
		"Supplier Count", "Avg PPL", "Cheapest PPL", "Brent Crude USD", "Brent Crude GBP", "Scrape Success"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hd)
	}

	for i, p := range history {
		row := i + 2
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), p.RecordedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), p.AvgPrice500L)
		f.SetCellValue(sheet, "C"+fmt.Sprint(row), p.CheapestPrice500L)
		f.SetCellValue(sheet, "D"+fmt.Sprint(row), p.CheapestSupplier)
		f.SetCellValue(sheet, "E"+fmt.Sprint(row), p.SupplierCount)
		f.SetCellValue(sheet, "F"+fmt.Sprint(row), p.AvgPpl)
		f.SetCellValue(sheet, "G"+fmt.Sprint(row), p.CheapestPpl)
		if p.BrentCrudeUsd != nil {
			f.SetCellValue(sheet, "H"+fmt.Sprint(row), *p.BrentCrudeUsd)
		}
		if p.BrentCrudeGbp != nil {
			f.SetCellValue(sheet, "I"+fmt.Sprint(row), *p.BrentCrudeGbp)
		}
		f.SetCellValue(sheet, "J"+fmt.Sprint(row), p.ScrapeSuccess)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=oil-prices.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write file"})
	}
}
