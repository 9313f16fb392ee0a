package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/coronelbarros/storefront/pkg/db/types"
	"github.com/coronelbarros/storefront/pkg/enums"
)

// Product is one catalog row. Images is kept as raw text because legacy rows
// hold either a JSON array or a JSON-encoded string of one.
type Product struct {
	ID            string                `gorm:"column:id;type:text;primaryKey"`
	Code          *string               `gorm:"column:code"`
	Name          string                `gorm:"column:name;not null"`
	Brand         *string               `gorm:"column:brand"`
	Price         decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice *decimal.Decimal      `gorm:"column:original_price;type:numeric(12,2)"`
	Category      enums.ProductCategory `gorm:"column:category;not null"`
	ImageURL      *string               `gorm:"column:image_url"`
	Images        *string               `gorm:"column:images;type:text"`
	Description   *string               `gorm:"column:description"`
	Compatibility dbtypes.StringList    `gorm:"column:compatibility;type:text;not null;default:'[]'"`
	Specs         dbtypes.StringMap     `gorm:"column:specs;type:text;not null;default:'{}'"`
	Stock         *int                  `gorm:"column:stock"`
	IsNew         *bool                 `gorm:"column:is_new"`
	SearchKey     string                `gorm:"column:search_key;not null;default:''"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate assigns a UUID in Go so SQLite and Postgres behave the same.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps search_key in step with name, code and brand. Folding
// happens here because SQLite's LOWER only handles ASCII.
func (p *Product) BeforeSave(*gorm.DB) error {
	p.SearchKey = SearchKey(p.Name, deref(p.Code), deref(p.Brand))
	return nil
}

// SearchKey is the lowercase haystack product search matches against.
func SearchKey(name, code, brand string) string {
	return strings.ToLower(strings.Join([]string{name, code, brand}, " "))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
