package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/coronelbarros/storefront/pkg/db/models"
	"github.com/coronelbarros/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// PlaceholderImage is served for products without a main picture.
const PlaceholderImage = "/placeholder.jpg"

// Product is the storefront view of a catalog row. Prices are decimals so
// cart arithmetic never drifts.
type Product struct {
	ID            string                `json:"id"`
	Code          string                `json:"code"`
	Name          string                `json:"name"`
	Brand         string                `json:"brand"`
	Price         decimal.Decimal       `json:"price"`
	OriginalPrice *decimal.Decimal      `json:"original_price,omitempty"`
	Category      enums.ProductCategory `json:"category"`
	Image         string                `json:"image"`
	Images        []string              `json:"images,omitempty"`
	Description   string                `json:"description"`
	Compatibility []string              `json:"compatibility"`
	Specs         map[string]string     `json:"specs"`
	Stock         int                   `json:"stock"`
	IsNew         bool                  `json:"is_new"`
	CreatedAt     time.Time             `json:"created_at"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// toProduct maps a row onto the storefront shape, filling every optional
// column with its neutral value.
func toProduct(row models.Product) Product {
	p := Product{
		ID:            row.ID,
		Code:          deref(row.Code),
		Name:          row.Name,
		Brand:         deref(row.Brand),
		Price:         row.Price,
		Category:      row.Category,
		Image:         deref(row.ImageURL),
		Images:        parseImages(row.Images),
		Description:   deref(row.Description),
		Compatibility: []string(row.Compatibility),
		Specs:         map[string]string(row.Specs),
		CreatedAt:     row.CreatedAt,
	}
	if p.Image == "" {
		p.Image = PlaceholderImage
	}
	if row.OriginalPrice != nil && row.OriginalPrice.IsPositive() {
		op := *row.OriginalPrice
		p.OriginalPrice = &op
	}
	if p.Compatibility == nil {
		p.Compatibility = []string{}
	}
	if p.Specs == nil {
		p.Specs = map[string]string{}
	}
	if row.Stock != nil && *row.Stock > 0 {
		p.Stock = *row.Stock
	}
	if row.IsNew != nil {
		p.IsNew = *row.IsNew
	}
	return p
}

// parseImages accepts a JSON array, a JSON string holding an array, or junk.
// Junk and empty arrays yield nil.
func parseImages(raw *string) []string {
	if raw == nil {
		return nil
	}
	text := strings.TrimSpace(*raw)
	if text == "" {
		return nil
	}

	var images []string
	if err := json.Unmarshal([]byte(text), &images); err != nil {
		var inner string
		if json.Unmarshal([]byte(text), &inner) != nil {
			return nil
		}
		if json.Unmarshal([]byte(inner), &images) != nil {
			return nil
		}
	}
	if len(images) == 0 {
		return nil
	}
	return images
}

func encodeImages(images []string) *string {
	if len(images) == 0 {
		return nil
	}
	b, err := json.Marshal(images)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
