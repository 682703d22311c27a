// Package ingest runs one scrape-and-persist cycle. Exactly one snapshot row
// is written per run, success or failure, so the time series records gaps
// instead of skipping them. Scheduling and rate limiting live with callers.
package ingest

import (
	"context"
	"log"
	"time"

	"oil-tracker/internal/analysis"
	"oil-tracker/internal/models"
	"oil-tracker/internal/services/crudeoil"
	"oil-tracker/internal/services/mailer"
	"oil-tracker/internal/services/scraper"

	"gorm.io/gorm"
)

type Pipeline struct {
	DB      *gorm.DB
	Scraper *scraper.Scraper
	Crude   *crudeoil.Client
	Mailer  *mailer.Mailer

	// Cheapest-ppl change (pence) that triggers an alert
	PplChangeThreshold float64
}

// Result reports one completed run.
type Result struct {
	Snapshot      models.OilPrice
	Summary       *scraper.Summary
	Crude         *crudeoil.CrudeOilData
	PreviousPrice *float64
	PreviousPpl   *float64
	Alert         *analysis.AlertDecision
	Email         *mailer.Result
}

// Run scrapes the market page and the benchmark concurrently, persists the
// snapshot, and (when sendAlerts is set) evaluates and dispatches the price
// alert. The benchmark being unreachable never fails the run. A scrape
// failure persists a failure snapshot and is returned as the error.
func (p *Pipeline) Run(ctx context.Context, sendAlerts bool) (*Result, error) {
	crudeCh := make(chan *crudeoil.CrudeOilData, 1)
	go func() {
		crudeCh <- p.Crude.FetchCurrent(ctx)
	}()

	quotes, scrapeErr := p.Scraper.Fetch(ctx)
	crude := <-crudeCh

	if scrapeErr != nil {
		snapshot := p.insertFailure(scrapeErr)
		return &Result{Snapshot: snapshot, Crude: crude}, scrapeErr
	}

	summary, err := scraper.Aggregate(quotes)
	if err != nil {
		snapshot := p.insertFailure(err)
		return &Result{Snapshot: snapshot, Crude: crude}, err
	}

	// Previous successful snapshot for day-over-day comparison
	var previousPrice, previousPpl *float64
	var previous models.OilPrice
	if err := p.DB.Where("scrape_success = ?", true).
		Order("recorded_at DESC").
		First(&previous).Error; err == nil {
		previousPrice = &previous.CheapestPrice500L
		previousPpl = &previous.CheapestPpl
	}

	snapshot := models.OilPrice{
		RecordedAt:        time.Now().UTC(),
		AvgPrice500L:      summary.AvgPrice500L,
		CheapestPrice500L: summary.CheapestPrice500L,
		CheapestSupplier:  summary.CheapestSupplier,
		SupplierCount:     len(summary.Suppliers),
		AvgPpl:            summary.AvgPpl,
		CheapestPpl:       summary.CheapestPpl,
		ScrapeSuccess:     true,
	}
	if err := snapshot.SetSuppliers(summary.Suppliers); err != nil {
		snapshot.SetScrapeError(err.Error())
	}
	if crude != nil {
		snapshot.BrentCrudeUsd = &crude.Price
		snapshot.BrentCrudeGbp = &crude.PriceGBP
		snapshot.BrentCrudeChange = &crude.Change
	}

	if err := p.DB.Create(&snapshot).Error; err != nil {
		return nil, err
	}

	result := &Result{
		Snapshot:      snapshot,
		Summary:       summary,
		Crude:         crude,
		PreviousPrice: previousPrice,
		PreviousPpl:   previousPpl,
	}

	if sendAlerts {
		decision := analysis.ShouldSendAlert(summary.CheapestPpl, previousPpl, p.PplChangeThreshold)
		result.Alert = &decision

		if decision.ShouldSend {
			log.Printf("Price alert triggered: %.1fp/L (reason: %s)", summary.CheapestPpl, decision.Reason)
			email := p.Mailer.SendPriceAlert(mailer.PriceAlertData{
				CurrentPrice:     summary.CheapestPrice500L,
				PreviousPrice:    previousPrice,
				CheapestSupplier: summary.CheapestSupplier,
				AvgPrice:         summary.AvgPrice500L,
				Top5Suppliers:    summary.Suppliers,
				RecordedAt:       snapshot.RecordedAt,
			})
			result.Email = &email
			if email.Sent {
				log.Println("Price alert email sent")
			} else {
				log.Printf("Price alert email not sent: %s", email.Error)
			}
		} else {
			log.Printf("No alert needed: %.1fp/L (threshold: %.1fp change)", summary.CheapestPpl, p.PplChangeThreshold)
		}
	}

	return result, nil
}

// insertFailure writes the failure snapshot. The numerics are zeroed and the
// supplier field carries the sentinel marker. A failed insert here is only
// logged; the original scrape error is what callers need to see.
func (p *Pipeline) insertFailure(cause error) models.OilPrice {
	snapshot := models.OilPrice{
		RecordedAt:       time.Now().UTC(),
		CheapestSupplier: models.ScrapeFailedSentinel,
		ScrapeSuccess:    false,
	}
	snapshot.SetScrapeError(cause.Error())

	if err := p.DB.Create(&snapshot).Error; err != nil {
		log.Printf("Failed to log scrape failure: %v", err)
	}
	return snapshot
}
