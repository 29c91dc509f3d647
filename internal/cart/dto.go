package cart

import (
	"time"

	"github.com/google/uuid"
)

// AddItemInput is the payload for merging a line into the user's cart.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Color     string    `json:"color,omitempty"`
	Model     string    `json:"model,omitempty"`
}

// QuantityAction selects the direction of a single-step quantity change.
type QuantityAction string

const (
	ActionIncrement QuantityAction = "increment"
	ActionDecrement QuantityAction = "decrement"
)

func (a QuantityAction) IsValid() bool {
	return a == ActionIncrement || a == ActionDecrement
}

// UpdateQuantityInput identifies a cart line, the delta size, and the
// direction to apply it in. Quantity defaults to 1 when omitted.
type UpdateQuantityInput struct {
	ProductID uuid.UUID      `json:"product_id" validate:"required"`
	Color     string         `json:"color,omitempty"`
	Model     string         `json:"model,omitempty"`
	Quantity  int            `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Action    QuantityAction `json:"action" validate:"required,oneof=increment decrement"`
}

// RemoveItemInput identifies the cart line to delete.
type RemoveItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Color     string    `json:"color,omitempty"`
	Model     string    `json:"model,omitempty"`
}

// LineDTO is one cart line joined with its current product data.
type LineDTO struct {
	ItemID         uuid.UUID `json:"item_id"`
	ProductID      uuid.UUID `json:"product_id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Image          string    `json:"image,omitempty"`
	Color          string    `json:"color,omitempty"`
	Model          string    `json:"model,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
	AvailableStock int       `json:"available_stock"`
}

// CartDTO is the full cart view returned to the storefront. UpdatedAt
// reflects the cart's last activity and is absent for the empty view.
type CartDTO struct {
	CartID          *uuid.UUID `json:"cart_id"`
	Items           []LineDTO  `json:"items"`
	TotalItems      int        `json:"total_items"`
	TotalPriceCents int64      `json:"total_price_cents"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// AddItemResult echoes the merged line alongside the cart identity.
type AddItemResult struct {
	CartID      uuid.UUID `json:"cart_id"`
	TotalItems  int       `json:"total_items"`
	UpdatedLine LineDTO   `json:"updated_product"`
}

// UpdateQuantityResult returns the line after the step was applied.
type UpdateQuantityResult struct {
	CartID      uuid.UUID `json:"cart_id"`
	TotalItems  int       `json:"total_items"`
	UpdatedLine LineDTO   `json:"updated_product"`
}

// InsufficientStockDetails is attached to validation errors when a
// requested quantity exceeds what remains on hand.
type InsufficientStockDetails struct {
	ProductID      uuid.UUID `json:"product_id"`
	AvailableStock int       `json:"available_stock"`
}
