package models

import (
	"math"
	"testing"
)

func TestOilPrice_SuppliersRoundTrip(t *testing.T) {
	quotes := []SupplierQuote{
		{Name: "Alpha", Price500L: 275.50, Ppl500L: 55.1},
		{Name: "Beta", Price500L: 270.00, Ppl500L: 54.0},
	}

	p := OilPrice{ScrapeSuccess: true}
	if err := p.SetSuppliers(quotes); err != nil {
		t.Fatalf("SetSuppliers returned error: %v", err)
	}

	got, scrapeErr := p.Suppliers()
	if scrapeErr != "" {
		t.Errorf("scrapeErr = %q, want empty on success", scrapeErr)
	}
	if len(got) != 2 {
		t.Fatalf("got %d quotes, want 2", len(got))
	}
	for i, q := range quotes {
		if got[i] != q {
			t.Errorf("quote[%d] = %+v, want %+v (order must be preserved)", i, got[i], q)
		}
	}
}

func TestOilPrice_FailureSnapshot(t *testing.T) {
	p := OilPrice{
		CheapestSupplier: ScrapeFailedSentinel,
		ScrapeSuccess:    false,
	}
	p.SetScrapeError("no suppliers found - page structure may have changed")

	if p.ScrapeSuccess {
		t.Error("failure snapshot must expose scrape_success = false")
	}
	if p.CheapestSupplier != ScrapeFailedSentinel {
		t.Errorf("cheapestSupplier = %q, want sentinel", p.CheapestSupplier)
	}

	suppliers, scrapeErr := p.Suppliers()
	if len(suppliers) != 0 {
		t.Errorf("suppliers = %v, want none on failure", suppliers)
	}
	if scrapeErr != "no suppliers found - page structure may have changed" {
		t.Errorf("scrapeErr = %q, want the stored error payload", scrapeErr)
	}
	if p.AvgPrice500L != 0 || p.CheapestPrice500L != 0 || p.AvgPpl != 0 || p.CheapestPpl != 0 {
		t.Error("failure snapshot numerics must stay zeroed")
	}
}

func TestPurchase_RecalcPpl(t *testing.T) {
	p := Purchase{Litres: 500, TotalPrice: 325}
	p.RecalcPpl()
	// 325 / 500 * 100 = 65
	if math.Abs(p.Ppl-65) > 1e-9 {
		t.Errorf("ppl = %v, want 65", p.Ppl)
	}

	p.TotalPrice = 350
	p.RecalcPpl()
	if math.Abs(p.Ppl-70) > 1e-9 {
		t.Errorf("ppl after update = %v, want 70", p.Ppl)
	}
}

func TestPurchase_RecalcPplZeroLitres(t *testing.T) {
	p := Purchase{Litres: 0, TotalPrice: 100, Ppl: 42}
	p.RecalcPpl()
	if p.Ppl != 0 {
		t.Errorf("ppl = %v, want 0 when litres is 0", p.Ppl)
	}
}
