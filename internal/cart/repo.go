package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kofimensah/emporium-backend/pkg/db/models"
)

// Repository persists carts and their merge lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByUser loads the user's cart without its lines.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreate returns the user's cart, creating an empty one when absent.
// The generated ID lives in Attrs so the lookup matches on user_id alone.
func (r *Repository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Attrs(models.Cart{ID: uuid.New(), UserID: userID}).
		FirstOrCreate(&cart).
		Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Touch refreshes the cart's updated_at so the expiry job sees activity.
func (r *Repository) Touch(ctx context.Context, cartID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("updated_at", at).Error
}

// FindLine loads one merge line by its composite key.
func (r *Repository) FindLine(ctx context.Context, cartID, productID uuid.UUID, color, model string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND color = ? AND model = ?", cartID, productID, color, model).
		First(&item).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateLine inserts a new merge line.
func (r *Repository) CreateLine(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// AdjustLineQuantity applies delta to the line quantity in a single
// conditional UPDATE. The statement only fires when the resulting
// quantity stays within [1, current product stock], which closes the
// read-modify-write window between concurrent mutations. It also
// refreshes the snapshot unit price. Returns true when a row changed.
func (r *Repository) AdjustLineQuantity(ctx context.Context, lineID uuid.UUID, delta int, unitPriceCents int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", lineID).
		Where("quantity + ? >= 1", delta).
		Where("quantity + ? <= (SELECT stock FROM products WHERE products.id = cart_items.product_id)", delta).
		UpdateColumns(map[string]any{
			"quantity":         gorm.Expr("quantity + ?", delta),
			"unit_price_cents": unitPriceCents,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteLine removes one merge line. Returns true when a row was deleted.
func (r *Repository) DeleteLine(ctx context.Context, cartID, productID uuid.UUID, color, model string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND color = ? AND model = ?", cartID, productID, color, model).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteCart removes the cart and, via FK cascade, its lines.
func (r *Repository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", cartID).Delete(&models.Cart{}).Error
}

// DeleteLines clears all lines for the cart without dropping the cart row.
func (r *Repository) DeleteLines(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// lineRecord is the scan target for the cart/products join.
type lineRecord struct {
	ItemID          uuid.UUID
	ProductID       uuid.UUID
	Title           string
	Slug            string
	Images          pq.StringArray `gorm:"type:text[]"`
	Color           string
	Model           string
	Quantity        int
	PriceCents      int64
	DiscountPercent int
	Stock           int
}

// ListLines returns the cart's lines joined with current product data,
// ordered by insertion time.
func (r *Repository) ListLines(ctx context.Context, cartID uuid.UUID) ([]lineRecord, error) {
	var rows []lineRecord
	err := r.db.WithContext(ctx).
		Table("cart_items ci").
		Select("ci.id AS item_id, ci.product_id, p.title, p.slug, p.images, ci.color, ci.model, ci.quantity, p.price_cents, p.discount_percent, p.stock").
		Joins("JOIN products p ON p.id = ci.product_id").
		Where("ci.cart_id = ?", cartID).
		Order("ci.created_at ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SumQuantities totals the quantity column across the cart's lines.
func (r *Repository) SumQuantities(ctx context.Context, cartID uuid.UUID) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("SUM(quantity)").
		Scan(&total).
		Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// DeleteEmptyBefore removes carts that have no lines left and were last
// touched before the cutoff. Returns the number of carts dropped.
func (r *Repository) DeleteEmptyBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM cart_items ci WHERE ci.cart_id = carts.id)").
		Delete(&models.Cart{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteIdleBefore removes carts whose updated_at predates the cutoff.
// Lines go with them via FK cascade. Returns the number of carts dropped.
func (r *Repository) DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&models.Cart{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
