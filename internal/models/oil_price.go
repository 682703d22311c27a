package models

import (
	"encoding/json"
	"time"
)

// SupplierQuote is one supplier row parsed from the price comparison page.
// Price and ppl come from different fragments of the same column and are not
// cross-checked against each other.
type SupplierQuote struct {
	Name      string  `json:"name"`
	Price500L float64 `json:"price500L"`
	Ppl500L   float64 `json:"ppl500L"`
}

// ScrapeFailedSentinel is stored as CheapestSupplier on failure snapshots.
const ScrapeFailedSentinel = "SCRAPE_FAILED"

// OilPrice stores one scrape snapshot, success or failure. One row is written
// per scrape invocation so the series never has silent gaps.
type OilPrice struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	RecordedAt        time.Time `json:"recorded_at" gorm:"index"`
	AvgPrice500L      float64   `json:"avg_price_500l" gorm:"type:decimal(10,2)"`
	CheapestPrice500L float64   `json:"cheapest_price_500l" gorm:"type:decimal(10,2)"`
	CheapestSupplier  string    `json:"cheapest_supplier" gorm:"not null"`
	SupplierCount     int       `json:"supplier_count"`
	AvgPpl            float64   `json:"avg_ppl" gorm:"type:decimal(10,2)"`
	CheapestPpl       float64   `json:"cheapest_ppl" gorm:"type:decimal(10,2)"`
	// Ordered supplier list on success, {"error": "..."} payload on failure.
	SuppliersRaw  string `json:"-" gorm:"type:json"`
	ScrapeSuccess bool   `json:"scrape_success" gorm:"default:true"`
	// Brent Crude enrichment, each independently nullable
	BrentCrudeUsd    *float64  `json:"brent_crude_usd" gorm:"type:decimal(10,2)"`
	BrentCrudeGbp    *float64  `json:"brent_crude_gbp" gorm:"type:decimal(10,2)"`
	BrentCrudeChange *float64  `json:"brent_crude_change" gorm:"type:decimal(10,2)"`
	CreatedAt        time.Time `json:"created_at"`
}

func (OilPrice) TableName() string {
	return "oil_prices"
}

// SetSuppliers serializes the ordered quote list into SuppliersRaw.
func (p *OilPrice) SetSuppliers(quotes []SupplierQuote) error {
	raw, err := json.Marshal(quotes)
	if err != nil {
		return err
	}
	p.SuppliersRaw = string(raw)
	return nil
}

// SetScrapeError records a failure payload in place of the supplier list.
func (p *OilPrice) SetScrapeError(msg string) {
	raw, _ := json.Marshal(map[string]string{"error": msg})
	p.SuppliersRaw = string(raw)
}

// Suppliers decodes SuppliersRaw. Failure snapshots return an empty list and
// the stored error message.
func (p *OilPrice) Suppliers() ([]SupplierQuote, string) {
	if !p.ScrapeSuccess {
		var payload map[string]string
		if err := json.Unmarshal([]byte(p.SuppliersRaw), &payload); err == nil {
			return nil, payload["error"]
		}
		return nil, ""
	}
	var quotes []SupplierQuote
	if err := json.Unmarshal([]byte(p.SuppliersRaw), &quotes); err != nil {
		return nil, ""
	}
	return quotes, ""
}
