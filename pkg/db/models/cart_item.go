package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one merge line in a cart. Lines are keyed by
// (cart_id, product_id, color, model); an omitted color is stored as
// "transparent" and an omitted model as the empty string so the
// composite unique index holds for products without variants.
type CartItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID         uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_line,priority:1"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_line,priority:2"`
	Color          string    `gorm:"column:color;not null;default:'transparent';uniqueIndex:idx_cart_items_line,priority:3"`
	Model          string    `gorm:"column:model;not null;default:'';uniqueIndex:idx_cart_items_line,priority:4"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
