package analysis

import (
	"time"

	"oil-tracker/internal/models"
)

// ReconciledPurchase is a purchase annotated with the best market price
// recorded on its calendar date. The three derived fields are nil when no
// snapshot exists for that date.
type ReconciledPurchase struct {
	models.Purchase
	BestPpl       *float64 `json:"best_ppl"`
	PplDifference *float64 `json:"ppl_difference"`
	LoyaltyCost   *float64 `json:"loyalty_cost"`
}

type PurchaseStats struct {
	TotalPurchases   int     `json:"total_purchases"`
	TotalSpent       float64 `json:"total_spent"`
	TotalLitres      float64 `json:"total_litres"`
	TotalLoyaltyCost float64 `json:"total_loyalty_cost"`
	AveragePpl       float64 `json:"average_ppl"`
}

// BestPplByDate indexes the history by UTC calendar date. History is expected
// newest-first; the first snapshot seen for a date wins, so with same-day
// duplicates the comparison is against that snapshot's cheapest ppl, not the
// minimum across the day. Failure snapshots carry zeroed ppl and are skipped.
func BestPplByDate(history []models.OilPrice) map[string]float64 {
	byDate := make(map[string]float64, len(history))
	for _, p := range history {
		if !p.ScrapeSuccess {
			continue
		}
		key := p.RecordedAt.UTC().Format("2006-01-02")
		if _, ok := byDate[key]; !ok {
			byDate[key] = p.CheapestPpl
		}
	}
	return byDate
}

// ReconcilePurchases annotates each purchase with the best ppl recorded on
// its purchase date and the resulting loyalty cost, and computes aggregate
// totals. Purchases with no matching snapshot keep nil derived fields but
// still count toward spend and litres.
func ReconcilePurchases(purchases []models.Purchase, history []models.OilPrice) ([]ReconciledPurchase, PurchaseStats) {
	byDate := BestPplByDate(history)

	enriched := make([]ReconciledPurchase, 0, len(purchases))
	stats := PurchaseStats{TotalPurchases: len(purchases)}

	for _, purchase := range purchases {
		rp := ReconciledPurchase{Purchase: purchase}

		if bestPpl, ok := byDate[dateKey(purchase.PurchaseDate)]; ok {
			diff := purchase.Ppl - bestPpl
			cost := diff * purchase.Litres / 100
			rp.BestPpl = &bestPpl
			rp.PplDifference = &diff
			rp.LoyaltyCost = &cost
			stats.TotalLoyaltyCost += cost
		}

		stats.TotalSpent += purchase.TotalPrice
		stats.TotalLitres += purchase.Litres
		enriched = append(enriched, rp)
	}

	if stats.TotalLitres > 0 {
		stats.AveragePpl = stats.TotalSpent / stats.TotalLitres * 100
	}
	return enriched, stats
}

func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
