package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kofimensah/emporium-backend/internal/cart"
	pkgerrors "github.com/kofimensah/emporium-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartReader interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error)
}

// StockAdjuster decrements product stock conditionally inside a transaction.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
}

// CartRepoFactory binds a cart repository to the supplied transaction.
type CartRepoFactory func(tx *gorm.DB) cart.CartRepository

// StockRepoFactory binds a stock adjuster to the supplied transaction.
type StockRepoFactory func(tx *gorm.DB) StockAdjuster

// ConfirmResult summarizes the converted cart.
type ConfirmResult struct {
	Reference       string    `json:"reference"`
	TotalItems      int       `json:"total_items"`
	TotalPriceCents int64     `json:"total_price_cents"`
	ConfirmedAt     time.Time `json:"confirmed_at"`
}

// Service converts a cart into a confirmed order: stock is decremented
// per line and the cart is dropped, all inside one transaction.
type Service interface {
	Confirm(ctx context.Context, userID uuid.UUID) (*ConfirmResult, error)
}

// ServiceParams bundle the checkout dependencies.
type ServiceParams struct {
	TX         txRunner
	Carts      cartReader
	CartRepos  CartRepoFactory
	StockRepos StockRepoFactory
}

type service struct {
	tx         txRunner
	carts      cartReader
	cartRepos  CartRepoFactory
	stockRepos StockRepoFactory
}

// NewService builds a checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.TX == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if params.CartRepos == nil {
		return nil, fmt.Errorf("cart repo factory required")
	}
	if params.StockRepos == nil {
		return nil, fmt.Errorf("stock repo factory required")
	}
	return &service{
		tx:         params.TX,
		carts:      params.Carts,
		cartRepos:  params.CartRepos,
		stockRepos: params.StockRepos,
	}, nil
}

func (s *service) Confirm(ctx context.Context, userID uuid.UUID) (*ConfirmResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}

	view, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if view.CartID == nil || len(view.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepos(tx)
		stockRepo := s.stockRepos(tx)

		for _, line := range view.Items {
			ok, err := stockRepo.AdjustStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock at confirmation").
					WithDetails(cart.InsufficientStockDetails{ProductID: line.ProductID})
			}
		}

		return cartRepo.DeleteCart(ctx, *view.CartID)
	})
	if err != nil {
		return nil, err
	}

	return &ConfirmResult{
		Reference:       uuid.NewString(),
		TotalItems:      view.TotalItems,
		TotalPriceCents: view.TotalPriceCents,
		ConfirmedAt:     now,
	}, nil
}
