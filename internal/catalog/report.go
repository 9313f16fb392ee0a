package catalog

import (
	"sort"
	"time"

	"github.com/coronelbarros/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the highest positive stock still flagged as low.
const LowStockThreshold = 3

const reportTopN = 5

// CategoryStats aggregates one category of the inventory report.
type CategoryStats struct {
	Category   enums.ProductCategory `json:"category"`
	Name       string                `json:"name"`
	Count      int                   `json:"count"`
	TotalValue decimal.Decimal       `json:"total_value"`
	AvgPrice   decimal.Decimal       `json:"avg_price"`
}

// InventoryReport is the admin dashboard snapshot of the catalog.
type InventoryReport struct {
	GeneratedAt          time.Time       `json:"generated_at"`
	TotalProducts        int             `json:"total_products"`
	TotalValue           decimal.Decimal `json:"total_value"`
	AvgPrice             decimal.Decimal `json:"avg_price"`
	LowStockCount        int             `json:"low_stock_count"`
	OutOfStockCount      int             `json:"out_of_stock_count"`
	NewProductsThisMonth int             `json:"new_products_this_month"`
	Categories           []CategoryStats `json:"categories"`
	TopProducts          []Product       `json:"top_products"`
	RecentProducts       []Product       `json:"recent_products"`
}

// BuildInventoryReport aggregates products, which must be ordered newest
// first. Stock value is price times units on hand.
func BuildInventoryReport(products []Product, now time.Time) InventoryReport {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	report := InventoryReport{
		GeneratedAt:   now,
		TotalProducts: len(products),
		TotalValue:    decimal.Zero,
		AvgPrice:      decimal.Zero,
	}

	type bucket struct {
		count      int
		totalValue decimal.Decimal
		priceSum   decimal.Decimal
	}
	buckets := map[enums.ProductCategory]*bucket{}
	priceSum := decimal.Zero

	for _, p := range products {
		value := p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
		report.TotalValue = report.TotalValue.Add(value)
		priceSum = priceSum.Add(p.Price)

		switch {
		case p.Stock == 0:
			report.OutOfStockCount++
		case p.Stock <= LowStockThreshold:
			report.LowStockCount++
		}
		if !p.CreatedAt.Before(monthStart) {
			report.NewProductsThisMonth++
		}

		b, ok := buckets[p.Category]
		if !ok {
			b = &bucket{totalValue: decimal.Zero, priceSum: decimal.Zero}
			buckets[p.Category] = b
		}
		b.count++
		b.totalValue = b.totalValue.Add(value)
		b.priceSum = b.priceSum.Add(p.Price)
	}

	if len(products) > 0 {
		report.AvgPrice = priceSum.Div(decimal.NewFromInt(int64(len(products)))).Round(2)
	}

	report.Categories = make([]CategoryStats, 0, len(buckets))
	for category, b := range buckets {
		report.Categories = append(report.Categories, CategoryStats{
			Category:   category,
			Name:       category.DisplayName(),
			Count:      b.count,
			TotalValue: b.totalValue,
			AvgPrice:   b.priceSum.Div(decimal.NewFromInt(int64(b.count))).Round(2),
		})
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		a, b := report.Categories[i], report.Categories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})

	top := make([]Product, len(products))
	copy(top, products)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Price.GreaterThan(top[j].Price) })
	report.TopProducts = head(top, reportTopN)
	report.RecentProducts = head(products, reportTopN)

	return report
}

func head(products []Product, n int) []Product {
	if len(products) < n {
		n = len(products)
	}
	out := make([]Product, n)
	copy(out, products[:n])
	return out
}
