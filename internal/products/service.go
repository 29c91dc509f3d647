package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kofimensah/emporium-backend/pkg/db/models"
	pkgerrors "github.com/kofimensah/emporium-backend/pkg/errors"
	"github.com/kofimensah/emporium-backend/pkg/pagination"
	"github.com/kofimensah/emporium-backend/pkg/types"
)

// Service exposes catalog read and admin management operations.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

type service struct {
	repo  *Repository
	cache *DetailCache
}

// NewService constructs a product service instance.
func NewService(repo *Repository, cache *DetailCache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, cache: cache}, nil
}

// ListProducts returns one catalog page with its pagination envelope.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	rows, total, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	params := input.Pagination.Normalize()
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}

	return &ProductListResult{
		Products: dtos,
		Pagination: types.Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: pagination.TotalPages(total, params.Limit),
		},
	}, nil
}

// GetBySlug reads a single product, served from cache when fresh.
func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	if cached, err := s.cache.Get(ctx, slug); err == nil && cached != nil {
		return cached, nil
	}

	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	dto := FromModel(product)
	// Cache write failures don't affect the response.
	_ = s.cache.Put(ctx, slug, dto)
	return dto, nil
}

// CreateProduct inserts a new listing, deriving its SKU and slug from the title.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &models.Product{
		ID:              uuid.New(),
		SKU:             generateSKU(input.Title, input.PriceCents, input.Category),
		Slug:            Slugify(input.Title),
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Category:        strings.ToLower(strings.TrimSpace(input.Category)),
		Brand:           strings.TrimSpace(input.Brand),
		PriceCents:      input.PriceCents,
		DiscountPercent: input.DiscountPercent,
		Stock:           input.Stock,
		Tags:            lowered(input.Tags),
		Images:          append([]string(nil), input.Images...),
		Colors:          append([]string(nil), input.Colors...),
		Models:          append([]string(nil), input.Models...),
		IsActive:        isActive,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product with same title already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(created), nil
}

// UpdateProduct applies the provided field changes. The slug stays stable
// even when the title changes so stored links keep working.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	applyUpdate(product, input)
	if product.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if product.DiscountPercent < 0 || product.DiscountPercent > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	if product.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	_ = s.cache.Invalidate(ctx, updated.Slug)
	return FromModel(updated), nil
}

// DeleteProduct removes the listing and its cache entry.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}

	_ = s.cache.Invalidate(ctx, product.Slug)
	return nil
}

func validateProductInput(input CreateProductInput) error {
	if len(strings.TrimSpace(input.Title)) < 3 {
		return pkgerrors.New(pkgerrors.CodeValidation, "title must be at least 3 characters")
	}
	if strings.TrimSpace(input.Category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.PriceCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	return nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if input.Title != nil {
		product.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = strings.ToLower(strings.TrimSpace(*input.Category))
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.DiscountPercent != nil {
		product.DiscountPercent = *input.DiscountPercent
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Tags != nil {
		product.Tags = lowered(*input.Tags)
	}
	if input.Images != nil {
		product.Images = append([]string(nil), (*input.Images)...)
	}
	if input.Colors != nil {
		product.Colors = append([]string(nil), (*input.Colors)...)
	}
	if input.Models != nil {
		product.Models = append([]string(nil), (*input.Models)...)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}

// generateSKU derives a stable prefix-based SKU from title, price, and
// category, with a short random tail to keep it unique.
func generateSKU(title string, priceCents int64, category string) string {
	titlePrefix := upperPrefix(title, 3)
	pricePrefix := upperPrefix(strconv.FormatInt(priceCents/100, 10), 3)
	categoryPrefix := upperPrefix(category, 3)
	tail := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("%s-%s-%s-%s", titlePrefix, pricePrefix, categoryPrefix, tail)
}

func upperPrefix(value string, n int) string {
	value = strings.TrimSpace(value)
	if len(value) > n {
		value = value[:n]
	}
	if value == "" {
		value = "X"
	}
	return strings.ToUpper(value)
}

// Slugify lowercases the title and collapses anything that is not a
// letter or digit into single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
