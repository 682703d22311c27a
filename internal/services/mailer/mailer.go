// Package mailer sends the price-alert email. The decision of whether to
// alert is made upstream; this package only templates and delivers.
package mailer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"oil-tracker/internal/models"

	gomail "gopkg.in/gomail.v2"
)

type Config struct {
	Host string
	Port int
	User string
	Pass string
	To   string
}

// Configured reports whether SMTP delivery is usable. An unconfigured mailer
// skips alerts instead of failing the ingest run.
func (c Config) Configured() bool {
	return c.User != "" && c.Pass != "" && c.To != ""
}

// PriceAlertData is the notification payload handed over by the ingest path.
type PriceAlertData struct {
	CurrentPrice     float64
	PreviousPrice    *float64
	CheapestSupplier string
	AvgPrice         float64
	Top5Suppliers    []models.SupplierQuote
	RecordedAt       time.Time
}

type Result struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

type Mailer struct {
	cfg  Config
	send func(m *gomail.Message) error
}

func New(cfg Config) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	return &Mailer{
		cfg:  cfg,
		send: func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

// SendPriceAlert delivers the alert email. Missing SMTP configuration is
// reported as a non-sent result, not an error.
func (m *Mailer) SendPriceAlert(data PriceAlertData) Result {
	if !m.cfg.Configured() {
		return Result{Sent: false, Error: "Email configuration missing (SMTP_USER, SMTP_PASS, or ALERT_EMAIL)"}
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.User, "Oil Price Tracker")
	msg.SetHeader("To", m.cfg.To)
	msg.SetHeader("Subject", Subject(data.CurrentPrice, data.PreviousPrice))
	msg.SetBody("text/html", HTMLBody(data))

	if err := m.send(msg); err != nil {
		return Result{Sent: false, Error: err.Error()}
	}
	return Result{Sent: true}
}

// Subject encodes the headline price and the day-over-day direction.
func Subject(current float64, previous *float64) string {
	priceStr := fmt.Sprintf("£%.0f", current)
	if previous != nil {
		diff := current - *previous
		if diff < 0 {
			return fmt.Sprintf("Oil Price Alert: %s (down £%.0f from yesterday)", priceStr, math.Abs(diff))
		}
		if diff > 0 {
			return fmt.Sprintf("Oil Price Alert: %s (up £%.0f from yesterday)", priceStr, diff)
		}
	}
	return "Oil Price Alert: " + priceStr
}

func priceDiffLine(current float64, previous *float64) string {
	if previous == nil {
		return ""
	}
	diff := current - *previous
	if diff < 0 {
		return fmt.Sprintf("Down £%.0f from yesterday", math.Abs(diff))
	}
	if diff > 0 {
		return fmt.Sprintf("Up £%.0f from yesterday", diff)
	}
	return "No change from yesterday"
}

// HTMLBody renders the alert: headline cheapest price, diff vs yesterday,
// savings against the average, and the five cheapest suppliers.
func HTMLBody(data PriceAlertData) string {
	top5 := make([]models.SupplierQuote, len(data.Top5Suppliers))
	copy(top5, data.Top5Suppliers)
	sort.SliceStable(top5, func(i, j int) bool { return top5[i].Price500L < top5[j].Price500L })
	if len(top5) > 5 {
		top5 = top5[:5]
	}

	var rows strings.Builder
	for i, s := range top5 {
		fmt.Fprintf(&rows, `<tr>
  <td style="padding:8px 12px;">%d. %s</td>
  <td style="padding:8px 12px;text-align:right;font-weight:600;">£%.0f</td>
  <td style="padding:8px 12px;text-align:right;color:#6b7280;">%.2fp/L</td>
</tr>`, i+1, s.Name, s.Price500L, s.Ppl500L)
	}

	diffLine := priceDiffLine(data.CurrentPrice, data.PreviousPrice)
	savings := data.AvgPrice - data.CurrentPrice
	dateStr := data.RecordedAt.Format("Monday, 2 January 2006")

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family:-apple-system,Segoe UI,Roboto,Arial,sans-serif;background:#f3f4f6;margin:0;padding:20px;">
  <div style="max-width:600px;margin:0 auto;background:#ffffff;border-radius:12px;overflow:hidden;border:1px solid #e5e7eb;">
    <div style="background:#1e40af;color:#ffffff;padding:24px;text-align:center;">
      <h1 style="margin:0;font-size:22px;">Oil Price Alert</h1>
      <p style="margin:8px 0 0 0;color:#bfdbfe;font-size:13px;">%s</p>
    </div>
    <div style="padding:28px 24px;text-align:center;">
      <p style="margin:0 0 4px 0;color:#6b7280;font-size:13px;text-transform:uppercase;">Cheapest 500L Price</p>
      <h2 style="margin:0;font-size:42px;">£%.0f</h2>
      <p style="margin:10px 0 0 0;font-weight:600;">%s</p>
    </div>
    <div style="padding:0 24px 16px 24px;text-align:center;color:#374151;">
      <p style="margin:0;">Best supplier: <strong>%s</strong> &middot; £%.0f below average</p>
    </div>
    <div style="padding:0 24px 24px 24px;">
      <h3 style="font-size:16px;">Top 5 Cheapest Suppliers</h3>
      <table width="100%%" style="border-collapse:collapse;border:1px solid #e5e7eb;">%s</table>
    </div>
    <div style="padding:16px;text-align:center;color:#9ca3af;font-size:12px;background:#f9fafb;">
      Data sourced from cheapestoil.co.uk &middot; Oil Price Tracker - Northern Ireland
    </div>
  </div>
</body>
</html>`, dateStr, data.CurrentPrice, diffLine, data.CheapestSupplier, savings, rows.String())
}
