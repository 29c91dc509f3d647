package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kofimensah/emporium-backend/pkg/db/models"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a product by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads a product by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// AdjustStock decrements stock by qty only when enough stock remains.
// Returns gorm.ErrRecordNotFound semantics via the affected row count.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns one page of products matching the provided filters,
// together with the total row count for the pagination envelope.
func (r *Repository) List(ctx context.Context, input ListProductsInput) ([]models.Product, int64, error) {
	params := input.Pagination.Normalize()

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	qb = applyFilters(qb, input.Filters)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := input.SortBy
	if order == "" {
		order = "created_at"
	}
	if input.SortDesc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	var rows []models.Product
	err := qb.
		Order(order).
		Order("id DESC").
		Limit(params.Limit).
		Offset(input.Pagination.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func applyFilters(qb *gorm.DB, filters ListFilters) *gorm.DB {
	if !filters.IncludeInactive {
		qb = qb.Where("is_active = ?", true)
	}
	if filters.Title != "" {
		qb = qb.Where("LOWER(title) LIKE ?", likePattern(filters.Title))
	}
	if filters.Category != "" {
		qb = qb.Where("LOWER(category) = ?", strings.ToLower(filters.Category))
	}
	if filters.Brand != "" {
		qb = qb.Where("LOWER(brand) = ?", strings.ToLower(filters.Brand))
	}
	if len(filters.Tags) > 0 {
		qb = qb.Where("tags && ?", pq.Array(lowered(filters.Tags)))
	}
	if len(filters.Models) > 0 {
		qb = qb.Where("models && ?", pq.Array(lowered(filters.Models)))
	}
	if filters.PriceMinCents != nil {
		qb = qb.Where("price_cents >= ?", *filters.PriceMinCents)
	}
	if filters.PriceMaxCents != nil {
		qb = qb.Where("price_cents <= ?", *filters.PriceMaxCents)
	}
	if filters.DiscountMin != nil {
		qb = qb.Where("discount_percent >= ?", *filters.DiscountMin)
	}
	if filters.InStock != nil {
		if *filters.InStock {
			qb = qb.Where("stock > 0")
		} else {
			qb = qb.Where("stock = 0")
		}
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := likePattern(search)
		qb = qb.Where(
			"(LOWER(title) LIKE ? OR LOWER(category) LIKE ? OR LOWER(description) LIKE ? OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE LOWER(tag) LIKE ?))",
			pattern, pattern, pattern, pattern,
		)
	}
	return qb
}

func likePattern(value string) string {
	return "%" + strings.ToLower(strings.TrimSpace(value)) + "%"
}

func lowered(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}
