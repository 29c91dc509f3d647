package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kofimensah/emporium-backend/internal/products"
	"github.com/kofimensah/emporium-backend/pkg/db/models"
	pkgerrors "github.com/kofimensah/emporium-backend/pkg/errors"
)

// DefaultLineColor is stored when the client omits a color so the
// composite line key stays non-null.
const DefaultLineColor = "transparent"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the cart consistency operations. Every mutation and
// read reprices lines from the current product data; stored unit prices
// are snapshots, never the source of truth.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*AddItemResult, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, input UpdateQuantityInput) (*UpdateQuantityResult, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, input RemoveItemInput) error
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, productRepo productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: productRepo,
	}, nil
}

// AddItem merges the requested quantity into the (product, color, model)
// line, creating the cart and the line as needed.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*AddItemResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	color := strings.TrimSpace(input.Color)
	model := strings.TrimSpace(input.Model)

	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if err := validateVariant(product, color, model); err != nil {
		return nil, err
	}
	color = normalizeColor(color)

	unitPrice := products.EffectiveUnitPriceCents(product.PriceCents, product.DiscountPercent)

	var result *AddItemResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.GetOrCreate(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		line, err := repo.FindLine(ctx, cart.ID, product.ID, color, model)
		switch {
		case err == nil:
			ok, adjErr := repo.AdjustLineQuantity(ctx, line.ID, input.Quantity, unitPrice)
			if adjErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, adjErr, "merge cart line")
			}
			if !ok {
				return insufficientStock(product)
			}
			line.Quantity += input.Quantity

		case errors.Is(err, gorm.ErrRecordNotFound):
			if input.Quantity > product.Stock {
				return insufficientStock(product)
			}
			line = &models.CartItem{
				CartID:         cart.ID,
				ProductID:      product.ID,
				Color:          color,
				Model:          model,
				Quantity:       input.Quantity,
				UnitPriceCents: unitPrice,
			}
			if err := repo.CreateLine(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
			}

		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
		}

		if err := repo.Touch(ctx, cart.ID, time.Now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
		}

		totalItems, err := repo.SumQuantities(ctx, cart.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum cart quantities")
		}

		result = &AddItemResult{
			CartID:      cart.ID,
			TotalItems:  totalItems,
			UpdatedLine: buildLineDTO(line, product, unitPrice),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateQuantity applies a quantity delta to an existing line in the
// requested direction. The bounds check and the write happen in one
// conditional UPDATE.
func (s *service) UpdateQuantity(ctx context.Context, userID uuid.UUID, input UpdateQuantityInput) (*UpdateQuantityResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action must be increment or decrement")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	color := normalizeColor(strings.TrimSpace(input.Color))
	model := strings.TrimSpace(input.Model)

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	unitPrice := products.EffectiveUnitPriceCents(product.PriceCents, product.DiscountPercent)

	line, err := s.repo.FindLine(ctx, cart.ID, product.ID, color, model)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	delta := input.Quantity
	if delta == 0 {
		delta = 1
	}
	if input.Action == ActionDecrement {
		delta = -delta
	}

	ok, err := s.repo.AdjustLineQuantity(ctx, line.ID, delta, unitPrice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust cart line")
	}
	if !ok {
		if input.Action == ActionDecrement {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot drop below 1; remove the item instead")
		}
		return nil, insufficientStock(product)
	}
	line.Quantity += delta

	if err := s.repo.Touch(ctx, cart.ID, time.Now().UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
	}

	totalItems, err := s.repo.SumQuantities(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum cart quantities")
	}

	return &UpdateQuantityResult{
		CartID:      cart.ID,
		TotalItems:  totalItems,
		UpdatedLine: buildLineDTO(line, product, unitPrice),
	}, nil
}

// RemoveItem deletes the identified line from the user's cart.
func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, input RemoveItemInput) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	deleted, err := s.repo.DeleteLine(ctx, cart.ID, input.ProductID, normalizeColor(strings.TrimSpace(input.Color)), strings.TrimSpace(input.Model))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	if err := s.repo.Touch(ctx, cart.ID, time.Now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
	}
	return nil
}

// GetCart returns the priced cart view. A user without a cart gets an
// empty view with zero totals rather than an error.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CartDTO{Items: []LineDTO{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	records, err := s.repo.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	view := &CartDTO{
		CartID:    &cart.ID,
		Items:     make([]LineDTO, 0, len(records)),
		UpdatedAt: &cart.UpdatedAt,
	}
	for _, rec := range records {
		unitPrice := products.EffectiveUnitPriceCents(rec.PriceCents, rec.DiscountPercent)
		line := LineDTO{
			ItemID:         rec.ItemID,
			ProductID:      rec.ProductID,
			Title:          rec.Title,
			Slug:           rec.Slug,
			Image:          firstImage(rec.Images),
			Color:          rec.Color,
			Model:          rec.Model,
			Quantity:       rec.Quantity,
			UnitPriceCents: unitPrice,
			LineTotalCents: unitPrice * int64(rec.Quantity),
			AvailableStock: rec.Stock,
		}
		view.Items = append(view.Items, line)
		view.TotalItems += rec.Quantity
		view.TotalPriceCents += line.LineTotalCents
	}
	return view, nil
}

// Clear drops the user's cart entirely. Clearing an absent cart is a no-op.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if err := s.repo.DeleteCart(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	return product, nil
}

func validateVariant(product *models.Product, color, model string) error {
	if color != "" && len(product.Colors) > 0 && !containsFold(product.Colors, color) {
		return pkgerrors.New(pkgerrors.CodeValidation, "color is not offered for this product")
	}
	if model != "" && len(product.Models) > 0 && !containsFold(product.Models, model) {
		return pkgerrors.New(pkgerrors.CodeValidation, "model is not offered for this product")
	}
	return nil
}

func normalizeColor(color string) string {
	if color == "" {
		return DefaultLineColor
	}
	return color
}

func containsFold(values []string, needle string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), needle) {
			return true
		}
	}
	return false
}

func insufficientStock(product *models.Product) error {
	available := product.Stock
	if available < 0 {
		available = 0
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock").
		WithDetails(InsufficientStockDetails{
			ProductID:      product.ID,
			AvailableStock: available,
		})
}

func buildLineDTO(line *models.CartItem, product *models.Product, unitPrice int64) LineDTO {
	return LineDTO{
		ItemID:         line.ID,
		ProductID:      product.ID,
		Title:          product.Title,
		Slug:           product.Slug,
		Image:          firstImage(product.Images),
		Color:          line.Color,
		Model:          line.Model,
		Quantity:       line.Quantity,
		UnitPriceCents: unitPrice,
		LineTotalCents: unitPrice * int64(line.Quantity),
		AvailableStock: product.Stock,
	}
}

func firstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}
