// Package crudeoil fetches the Brent Crude benchmark from Yahoo Finance.
// Brent is the reference commodity for UK heating oil. Every failure path
// returns nil rather than an error: snapshot creation must never block on the
// benchmark being reachable.
package crudeoil

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// BZ=F is Brent Crude Futures, GBPUSD=X the exchange rate
	brentURL = "https://query1.finance.yahoo.com/v8/finance/chart/BZ=F"
	fxURL    = "https://query1.finance.yahoo.com/v8/finance/chart/GBPUSD=X"

	userAgent = "Mozilla/5.0 (compatible; OilPriceTracker/1.0)"

	// FallbackGBPRate converts USD to GBP when the FX fetch is unavailable.
	FallbackGBPRate = 0.79
)

// CrudeOilData is one benchmark observation.
type CrudeOilData struct {
	Price         float64   `json:"price"`     // USD per barrel
	PriceGBP      float64   `json:"price_gbp"` // converted
	Change        float64   `json:"change"`    // daily change in USD
	ChangePercent float64   `json:"change_percent"`
	Timestamp     time.Time `json:"timestamp"`
}

// HistoryPoint is one daily close for the correlation series.
type HistoryPoint struct {
	Date     string  `json:"date"`
	Price    float64 `json:"price"`
	PriceGBP float64 `json:"price_gbp"`
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
				Currency           string  `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type Client struct {
	client *resty.Client
}

func New() *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Client{client: client}
}

// FetchCurrent returns the current Brent price with daily change, or nil when
// the quote service is unavailable or returns an unusable payload.
func (c *Client) FetchCurrent(ctx context.Context) *CrudeOilData {
	var payload yahooChartResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		SetQueryParams(map[string]string{"interval": "1d", "range": "1d"}).
		SetResult(&payload).
		Get(brentURL)
	if err != nil || resp.IsError() {
		return nil
	}
	if payload.Chart.Error != nil || len(payload.Chart.Result) == 0 {
		return nil
	}

	meta := payload.Chart.Result[0].Meta
	change := meta.RegularMarketPrice - meta.PreviousClose
	changePercent := 0.0
	if meta.PreviousClose != 0 {
		changePercent = change / meta.PreviousClose * 100
	}

	rate := c.fetchGBPUSDRate(ctx)

	return &CrudeOilData{
		Price:         round2(meta.RegularMarketPrice),
		PriceGBP:      round2(convertToGBP(meta.RegularMarketPrice, rate)),
		Change:        round2(change),
		ChangePercent: round2(changePercent),
		Timestamp:     time.Now(),
	}
}

// FetchHistory returns up to days of daily Brent closes with GBP conversion
// at the current rate. Empty on any failure.
func (c *Client) FetchHistory(ctx context.Context, days int) []HistoryPoint {
	var payload yahooChartResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    formatRange(days),
		}).
		SetResult(&payload).
		Get(brentURL)
	if err != nil || resp.IsError() {
		return nil
	}
	if payload.Chart.Error != nil || len(payload.Chart.Result) == 0 {
		return nil
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	closes := result.Indicators.Quote[0].Close

	rate := c.fetchGBPUSDRate(ctx)

	points := make([]HistoryPoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] <= 0 {
			continue
		}
		points = append(points, HistoryPoint{
			Date:     time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Price:    round2(closes[i]),
			PriceGBP: round2(convertToGBP(closes[i], rate)),
		})
	}
	return points
}

// convertToGBP divides by the fetched GBPUSD rate (USD per pound). When the
// rate is unavailable the fallback constant is a multiplier, not a divisor.
func convertToGBP(usd float64, rate *float64) float64 {
	if rate != nil && *rate != 0 {
		return usd / *rate
	}
	return usd * FallbackGBPRate
}

func (c *Client) fetchGBPUSDRate(ctx context.Context) *float64 {
	var payload yahooChartResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		SetQueryParams(map[string]string{"interval": "1d", "range": "1d"}).
		SetResult(&payload).
		Get(fxURL)
	if err != nil || resp.IsError() {
		return nil
	}
	if payload.Chart.Error != nil || len(payload.Chart.Result) == 0 {
		return nil
	}

	rate := payload.Chart.Result[0].Meta.RegularMarketPrice
	return &rate
}

func formatRange(days int) string {
	if days <= 0 {
		days = 90
	}
	return strconv.Itoa(days) + "d"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
