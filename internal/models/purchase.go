package models

import "time"

// Purchase is a user-logged fuel purchase, independent of the scraped series.
// Ppl is denormalized and recomputed whenever litres or total price change.
type Purchase struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	PurchaseDate time.Time `json:"purchase_date" gorm:"index;not null"`
	Litres       float64   `json:"litres" gorm:"type:decimal(10,2);not null"`
	TotalPrice   float64   `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Ppl          float64   `json:"ppl" gorm:"type:decimal(10,2)"`
	Supplier     string    `json:"supplier"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// RecalcPpl keeps the stored ppl consistent with litres and total price.
func (p *Purchase) RecalcPpl() {
	if p.Litres > 0 {
		p.Ppl = p.TotalPrice / p.Litres * 100
	} else {
		p.Ppl = 0
	}
}
