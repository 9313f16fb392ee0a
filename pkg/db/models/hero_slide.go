package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HeroSlide is a banner on the storefront home carousel.
type HeroSlide struct {
	ID              string    `gorm:"column:id;type:text;primaryKey"`
	Position        int       `gorm:"column:position;not null;default:0"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
	BackgroundImage string    `gorm:"column:background_image;not null"`
	TagText         string    `gorm:"column:tag_text"`
	TitlePrefix     string    `gorm:"column:title_prefix"`
	TitleHighlight  string    `gorm:"column:title_highlight"`
	TitleSuffix     string    `gorm:"column:title_suffix"`
	Description     string    `gorm:"column:description"`
	PrimaryText     string    `gorm:"column:button_primary_text"`
	PrimaryLink     string    `gorm:"column:button_primary_link"`
	SecondaryText   *string   `gorm:"column:button_secondary_text"`
	SecondaryLink   *string   `gorm:"column:button_secondary_link"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (HeroSlide) TableName() string { return "hero_slides" }

func (h *HeroSlide) BeforeCreate(*gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
