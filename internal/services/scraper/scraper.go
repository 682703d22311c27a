package scraper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"oil-tracker/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (compatible; OilPriceScraper/1.0)"

// ErrNoSuppliers indicates the page fetched fine but produced zero usable
// rows, i.e. the markup contract was violated rather than the network.
var ErrNoSuppliers = errors.New("no suppliers found - page structure may have changed")

var (
	entityRe = regexp.MustCompile(`&#(\d+);`)
	priceRe  = regexp.MustCompile(`£?([\d.]+)`)
	pplRe    = regexp.MustCompile(`([\d.]+)\s*ppl`)
)

type Scraper struct {
	url    string
	client *resty.Client
}

func New(url string) *Scraper {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Scraper{
		url:    url,
		client: client,
	}
}

// Fetch downloads the market page and parses it into supplier quotes.
// Any non-2xx response is an error carrying the HTTP status.
func (s *Scraper) Fetch(ctx context.Context) ([]models.SupplierQuote, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch page: %d %s", resp.StatusCode(), resp.Status())
	}

	return ParseSuppliers(string(resp.Body()))
}

// ParseSuppliers extracts supplier quotes from the page HTML, in source
// order. Rows missing a supplier name, missing the desktop price columns, or
// with an unparseable price or ppl are silently dropped. Zero surviving rows
// is ErrNoSuppliers.
func ParseSuppliers(html string) ([]models.SupplierQuote, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var suppliers []models.SupplierQuote

	// Supplier rows alternate between two style variants
	doc.Find(".pricegrid, .pricegridalt").Each(func(_ int, row *goquery.Selection) {
		name := strings.TrimSpace(row.Find("a.pricegridsupplier").Text())
		if name == "" {
			return
		}

		// Desktop-only price columns, ordered 300L, 500L, 900L. The mobile
		// rendering duplicates the same data and must not be counted.
		columns := row.Find(".col_15p.d-none.d-md-inline")
		if columns.Length() < 2 {
			return
		}
		col500L := columns.Eq(1)

		// Own text only: the ppl sub-value lives in a child element and must
		// not contaminate the price string.
		priceText := strings.TrimSpace(ownText(col500L))
		pplText := strings.TrimSpace(col500L.Find(".pp").Text())

		price := ParsePrice(priceText)
		ppl := ParsePpl(pplText)
		if price == nil || ppl == nil {
			return
		}

		suppliers = append(suppliers, models.SupplierQuote{
			Name:      name,
			Price500L: *price,
			Ppl500L:   *ppl,
		})
	})

	if len(suppliers) == 0 {
		return nil, ErrNoSuppliers
	}
	return suppliers, nil
}

// ownText returns the selection's text with child-element text removed.
func ownText(s *goquery.Selection) string {
	clone := s.Clone()
	clone.Children().Remove()
	return clone.Text()
}

// DecodeEntities resolves numeric HTML character escapes like &#49; -> "1".
func DecodeEntities(text string) string {
	return entityRe.ReplaceAllStringFunc(text, func(m string) string {
		code, err := strconv.Atoi(entityRe.FindStringSubmatch(m)[1])
		if err != nil {
			return m
		}
		return string(rune(code))
	})
}

// ParsePrice extracts a price like "£193.50" -> 193.50, decoding numeric
// entities first. Returns nil when no decimal number is present.
func ParsePrice(priceText string) *float64 {
	decoded := DecodeEntities(priceText)
	match := priceRe.FindStringSubmatch(decoded)
	if match == nil {
		return nil
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	return &value
}

// ParsePpl extracts a unit price like "58.8 ppl *" -> 58.8, decoding numeric
// entities first. The number must precede the ppl marker; trailing footnote
// symbols are ignored.
func ParsePpl(pplText string) *float64 {
	match := pplRe.FindStringSubmatch(DecodeEntities(pplText))
	if match == nil {
		return nil
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	return &value
}

// Summary holds the aggregate statistics for one scrape.
type Summary struct {
	Suppliers         []models.SupplierQuote
	AvgPrice500L      float64
	CheapestPrice500L float64
	CheapestSupplier  string
	AvgPpl            float64
	CheapestPpl       float64
}

// Aggregate reduces the quote set to summary statistics. Cheapest supplier is
// the first quote at the minimum price in source order; cheapest ppl is
// computed independently and may belong to a different supplier.
func Aggregate(quotes []models.SupplierQuote) (*Summary, error) {
	if len(quotes) == 0 {
		return nil, ErrNoSuppliers
	}

	var sumPrice, sumPpl float64
	cheapestPrice := quotes[0].Price500L
	cheapestSupplier := quotes[0].Name
	cheapestPpl := quotes[0].Ppl500L

	for _, q := range quotes {
		sumPrice += q.Price500L
		sumPpl += q.Ppl500L
		if q.Price500L < cheapestPrice {
			cheapestPrice = q.Price500L
			cheapestSupplier = q.Name
		}
		if q.Ppl500L < cheapestPpl {
			cheapestPpl = q.Ppl500L
		}
	}

	n := float64(len(quotes))
	return &Summary{
		Suppliers:         quotes,
		AvgPrice500L:      round2(sumPrice / n),
		CheapestPrice500L: cheapestPrice,
		CheapestSupplier:  cheapestSupplier,
		AvgPpl:            round2(sumPpl / n),
		CheapestPpl:       cheapestPpl,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
