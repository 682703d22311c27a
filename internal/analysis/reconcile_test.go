package analysis

import (
	"math"
	"testing"
	"time"

	"oil-tracker/internal/models"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func snapshot(recordedAt time.Time, cheapestPpl float64, success bool) models.OilPrice {
	p := models.OilPrice{
		RecordedAt:    recordedAt,
		CheapestPpl:   cheapestPpl,
		ScrapeSuccess: success,
	}
	if !success {
		p.CheapestSupplier = models.ScrapeFailedSentinel
	}
	return p
}

func TestReconcilePurchases_LoyaltyCost(t *testing.T) {
	history := []models.OilPrice{
		snapshot(day(2026, time.March, 10, 9), 60, true),
	}
	purchases := []models.Purchase{
		{PurchaseDate: day(2026, time.March, 10, 0), Litres: 500, TotalPrice: 325, Ppl: 65},
	}

	enriched, stats := ReconcilePurchases(purchases, history)
	if len(enriched) != 1 {
		t.Fatalf("got %d enriched purchases, want 1", len(enriched))
	}

	p := enriched[0]
	if p.BestPpl == nil || *p.BestPpl != 60 {
		t.Fatalf("bestPpl = %v, want 60", p.BestPpl)
	}
	if p.PplDifference == nil || math.Abs(*p.PplDifference-5) > 1e-9 {
		t.Errorf("pplDifference = %v, want 5", p.PplDifference)
	}
	// (65-60) * 500 / 100 = £25 overpaid
	if p.LoyaltyCost == nil || math.Abs(*p.LoyaltyCost-25) > 1e-9 {
		t.Errorf("loyaltyCost = %v, want 25", p.LoyaltyCost)
	}
	if math.Abs(stats.TotalLoyaltyCost-25) > 1e-9 {
		t.Errorf("totalLoyaltyCost = %v, want 25", stats.TotalLoyaltyCost)
	}
}

func TestReconcilePurchases_NegativeCostWhenBeatingBest(t *testing.T) {
	// The scrape can miss a cheaper supplier, so beating the recorded best
	// is possible and reported as-is.
	history := []models.OilPrice{
		snapshot(day(2026, time.March, 10, 9), 60, true),
	}
	purchases := []models.Purchase{
		{PurchaseDate: day(2026, time.March, 10, 0), Litres: 300, TotalPrice: 174, Ppl: 58},
	}

	enriched, _ := ReconcilePurchases(purchases, history)
	if enriched[0].LoyaltyCost == nil || math.Abs(*enriched[0].LoyaltyCost-(-6)) > 1e-9 {
		t.Errorf("loyaltyCost = %v, want -6", enriched[0].LoyaltyCost)
	}
}

func TestReconcilePurchases_GapStillCountsInTotals(t *testing.T) {
	history := []models.OilPrice{
		snapshot(day(2026, time.March, 11, 9), 60, true),
	}
	purchases := []models.Purchase{
		{PurchaseDate: day(2026, time.March, 10, 0), Litres: 500, TotalPrice: 325, Ppl: 65},
	}

	enriched, stats := ReconcilePurchases(purchases, history)
	p := enriched[0]
	if p.BestPpl != nil || p.PplDifference != nil || p.LoyaltyCost != nil {
		t.Errorf("derived fields = %v/%v/%v, want all nil on reconciliation gap", p.BestPpl, p.PplDifference, p.LoyaltyCost)
	}
	if stats.TotalSpent != 325 || stats.TotalLitres != 500 {
		t.Errorf("totals = %v/%v, want gap purchase still counted", stats.TotalSpent, stats.TotalLitres)
	}
	if stats.TotalLoyaltyCost != 0 {
		t.Errorf("totalLoyaltyCost = %v, want 0", stats.TotalLoyaltyCost)
	}
	// 325 / 500 * 100 = 65
	if math.Abs(stats.AveragePpl-65) > 1e-9 {
		t.Errorf("averagePpl = %v, want 65", stats.AveragePpl)
	}
}

func TestReconcilePurchases_NoPurchases(t *testing.T) {
	_, stats := ReconcilePurchases(nil, nil)
	if stats.TotalPurchases != 0 || stats.AveragePpl != 0 {
		t.Errorf("stats = %+v, want zero values with no division by zero", stats)
	}
}

func TestBestPplByDate_FirstMatchNewestFirst(t *testing.T) {
	// Two snapshots on the same calendar day, newest first: the first one
	// encountered wins, even though the later iteration entry is cheaper.
	history := []models.OilPrice{
		snapshot(day(2026, time.March, 10, 18), 61, true),
		snapshot(day(2026, time.March, 10, 6), 59, true),
	}

	byDate := BestPplByDate(history)
	if got := byDate["2026-03-10"]; got != 61 {
		t.Errorf("best ppl = %v, want 61 (first snapshot encountered newest-first)", got)
	}
}

func TestBestPplByDate_SkipsFailureSnapshots(t *testing.T) {
	history := []models.OilPrice{
		snapshot(day(2026, time.March, 10, 18), 0, false),
		snapshot(day(2026, time.March, 10, 6), 59, true),
	}

	byDate := BestPplByDate(history)
	if got := byDate["2026-03-10"]; got != 59 {
		t.Errorf("best ppl = %v, want 59 (failure snapshot zeroes must not win)", got)
	}
}
