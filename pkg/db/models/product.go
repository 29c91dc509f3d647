package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a storefront catalog listing.
type Product struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	SKU             string         `gorm:"column:sku;not null;uniqueIndex"`
	Slug            string         `gorm:"column:slug;not null;uniqueIndex"`
	Title           string         `gorm:"column:title;not null"`
	Description     string         `gorm:"column:description;not null;default:''"`
	Category        string         `gorm:"column:category;not null"`
	Brand           string         `gorm:"column:brand;not null;default:''"`
	PriceCents      int64          `gorm:"column:price_cents;not null"`
	DiscountPercent int            `gorm:"column:discount_percent;not null;default:0"`
	Stock           int            `gorm:"column:stock;not null;default:0"`
	Tags            pq.StringArray `gorm:"column:tags;type:text[]"`
	Images          pq.StringArray `gorm:"column:images;type:text[]"`
	Colors          pq.StringArray `gorm:"column:colors;type:text[]"`
	Models          pq.StringArray `gorm:"column:models;type:text[]"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
