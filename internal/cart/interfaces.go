package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kofimensah/emporium-backend/pkg/db/models"
)

// CartRepository is the persistence surface the service depends on.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Touch(ctx context.Context, cartID uuid.UUID, at time.Time) error
	FindLine(ctx context.Context, cartID, productID uuid.UUID, color, model string) (*models.CartItem, error)
	CreateLine(ctx context.Context, item *models.CartItem) error
	AdjustLineQuantity(ctx context.Context, lineID uuid.UUID, delta int, unitPriceCents int64) (bool, error)
	DeleteLine(ctx context.Context, cartID, productID uuid.UUID, color, model string) (bool, error)
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
	ListLines(ctx context.Context, cartID uuid.UUID) ([]lineRecord, error)
	SumQuantities(ctx context.Context, cartID uuid.UUID) (int, error)
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteEmptyBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// repositoryAdapter lets the concrete *Repository satisfy CartRepository
// while keeping WithTx covariant.
type repositoryAdapter struct {
	*Repository
}

// NewCartRepository wraps the concrete repository in the service-facing interface.
func NewCartRepository(db *gorm.DB) CartRepository {
	return repositoryAdapter{Repository: NewRepository(db)}
}

func (a repositoryAdapter) WithTx(tx *gorm.DB) CartRepository {
	return repositoryAdapter{Repository: a.Repository.WithTx(tx)}
}
