package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coronelbarros/storefront/pkg/enums"
)

// Promotion is an admin-managed discount campaign. Dates are stored at
// midnight UTC; EndDate is inclusive.
type Promotion struct {
	ID              string                 `gorm:"column:id;type:text;primaryKey"`
	Name            string                 `gorm:"column:name;not null"`
	Description     *string                `gorm:"column:description"`
	DiscountPercent int                    `gorm:"column:discount_percent;not null"`
	StartDate       time.Time              `gorm:"column:start_date;not null"`
	EndDate         time.Time              `gorm:"column:end_date;not null"`
	IsActive        bool                   `gorm:"column:is_active;not null;default:true"`
	BannerURL       *string                `gorm:"column:banner_url"`
	Category        *enums.ProductCategory `gorm:"column:category"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (Promotion) TableName() string { return "promotions" }

func (p *Promotion) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
