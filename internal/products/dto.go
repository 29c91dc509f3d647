package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/kofimensah/emporium-backend/pkg/db/models"
	"github.com/kofimensah/emporium-backend/pkg/types"
)

// ProductDTO is the transport shape for catalog reads.
type ProductDTO struct {
	ID                  uuid.UUID `json:"id"`
	SKU                 string    `json:"sku"`
	Slug                string    `json:"slug"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Category            string    `json:"category"`
	Brand               string    `json:"brand,omitempty"`
	PriceCents          int64     `json:"price_cents"`
	DiscountPercent     int       `json:"discount_percent"`
	EffectivePriceCents int64     `json:"effective_price_cents"`
	Stock               int       `json:"stock"`
	Tags                []string  `json:"tags"`
	Images              []string  `json:"images"`
	Colors              []string  `json:"colors"`
	Models              []string  `json:"models"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ProductListResult bundles one page of products with its envelope.
type ProductListResult struct {
	Products   []ProductDTO     `json:"products"`
	Pagination types.Pagination `json:"pagination"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Title           string
	Description     string
	Category        string
	Brand           string
	PriceCents      int64
	DiscountPercent int
	Stock           int
	Tags            []string
	Images          []string
	Colors          []string
	Models          []string
	IsActive        *bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Title           *string
	Description     *string
	Category        *string
	Brand           *string
	PriceCents      *int64
	DiscountPercent *int
	Stock           *int
	Tags            *[]string
	Images          *[]string
	Colors          *[]string
	Models          *[]string
	IsActive        *bool
}

// FromModel maps the persistence model onto the transport DTO.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:                  p.ID,
		SKU:                 p.SKU,
		Slug:                p.Slug,
		Title:               p.Title,
		Description:         p.Description,
		Category:            p.Category,
		Brand:               p.Brand,
		PriceCents:          p.PriceCents,
		DiscountPercent:     p.DiscountPercent,
		EffectivePriceCents: EffectiveUnitPriceCents(p.PriceCents, p.DiscountPercent),
		Stock:               p.Stock,
		Tags:                append([]string(nil), p.Tags...),
		Images:              append([]string(nil), p.Images...),
		Colors:              append([]string(nil), p.Colors...),
		Models:              append([]string(nil), p.Models...),
		IsActive:            p.IsActive,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
