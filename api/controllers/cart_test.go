package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kofimensah/emporium-backend/api/middleware"
	cartsvc "github.com/kofimensah/emporium-backend/internal/cart"
	pkgerrors "github.com/kofimensah/emporium-backend/pkg/errors"
	"github.com/kofimensah/emporium-backend/pkg/logger"
)

type stubCartService struct {
	addFn    func(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.AddItemResult, error)
	updateFn func(ctx context.Context, userID uuid.UUID, input cartsvc.UpdateQuantityInput) (*cartsvc.UpdateQuantityResult, error)
	removeFn func(ctx context.Context, userID uuid.UUID, input cartsvc.RemoveItemInput) error
	getFn    func(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error)
	clearFn  func(ctx context.Context, userID uuid.UUID) error
}

func (s *stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.AddItemResult, error) {
	return s.addFn(ctx, userID, input)
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, input cartsvc.UpdateQuantityInput) (*cartsvc.UpdateQuantityResult, error) {
	return s.updateFn(ctx, userID, input)
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID uuid.UUID, input cartsvc.RemoveItemInput) error {
	return s.removeFn(ctx, userID, input)
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.getFn(ctx, userID)
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.clearFn(ctx, userID)
}

func testControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	return r.WithContext(middleware.WithUserID(r.Context(), userID.String()))
}

func TestCartAddItemSuccess(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	var gotInput cartsvc.AddItemInput

	svc := &stubCartService{
		addFn: func(ctx context.Context, uid uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.AddItemResult, error) {
			if uid != userID {
				t.Fatalf("expected user %s, got %s", userID, uid)
			}
			gotInput = input
			return &cartsvc.AddItemResult{CartID: uuid.New(), TotalItems: 2}, nil
		},
	}

	body := `{"product_id":"` + productID.String() + `","quantity":2,"color":"black"}`
	rec := httptest.NewRecorder()
	CartAddItem(svc, testControllerLogger())(rec, authedRequest("POST", "/api/v1/cart", body, userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotInput.ProductID != productID || gotInput.Quantity != 2 || gotInput.Color != "black" {
		t.Fatalf("unexpected input: %+v", gotInput)
	}
}

func TestCartAddItemMissingIdentity(t *testing.T) {
	svc := &stubCartService{}
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/cart", strings.NewReader(`{}`))

	CartAddItem(svc, testControllerLogger())(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCartAddItemInvalidBody(t *testing.T) {
	svc := &stubCartService{}
	rec := httptest.NewRecorder()

	CartAddItem(svc, testControllerLogger())(rec, authedRequest("POST", "/api/v1/cart", `{"quantity":0}`, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCartAddItemInsufficientStock(t *testing.T) {
	productID := uuid.New()
	svc := &stubCartService{
		addFn: func(ctx context.Context, uid uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.AddItemResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock").
				WithDetails(cartsvc.InsufficientStockDetails{ProductID: productID, AvailableStock: 1})
		},
	}

	body := `{"product_id":"` + productID.String() + `","quantity":5}`
	rec := httptest.NewRecorder()
	CartAddItem(svc, testControllerLogger())(rec, authedRequest("POST", "/api/v1/cart", body, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var payload struct {
		Error struct {
			Message string `json:"message"`
			Details struct {
				ProductID      string `json:"product_id"`
				AvailableStock int    `json:"available_stock"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Error.Message != "insufficient stock" {
		t.Fatalf("unexpected message: %s", payload.Error.Message)
	}
	if payload.Error.Details.ProductID != productID.String() || payload.Error.Details.AvailableStock != 1 {
		t.Fatalf("unexpected details: %+v", payload.Error.Details)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	svc := &stubCartService{
		updateFn: func(ctx context.Context, uid uuid.UUID, input cartsvc.UpdateQuantityInput) (*cartsvc.UpdateQuantityResult, error) {
			if input.Action != cartsvc.ActionDecrement {
				t.Fatalf("expected decrement, got %s", input.Action)
			}
			return &cartsvc.UpdateQuantityResult{TotalItems: 1}, nil
		},
	}

	body := `{"product_id":"` + uuid.NewString() + `","action":"decrement"}`
	rec := httptest.NewRecorder()
	CartUpdateQuantity(svc, testControllerLogger())(rec, authedRequest("PATCH", "/api/v1/cart", body, uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCartUpdateQuantityAcceptsStepSize(t *testing.T) {
	productID := uuid.New()
	var gotInput cartsvc.UpdateQuantityInput
	svc := &stubCartService{
		updateFn: func(ctx context.Context, uid uuid.UUID, input cartsvc.UpdateQuantityInput) (*cartsvc.UpdateQuantityResult, error) {
			gotInput = input
			return &cartsvc.UpdateQuantityResult{TotalItems: 5}, nil
		},
	}

	body := `{"product_id":"` + productID.String() + `","quantity":3,"action":"increment"}`
	rec := httptest.NewRecorder()
	CartUpdateQuantity(svc, testControllerLogger())(rec, authedRequest("PATCH", "/api/v1/cart", body, uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotInput.ProductID != productID || gotInput.Quantity != 3 || gotInput.Action != cartsvc.ActionIncrement {
		t.Fatalf("unexpected input: %+v", gotInput)
	}
}

func TestCartUpdateQuantityRejectsUnknownAction(t *testing.T) {
	svc := &stubCartService{}
	body := `{"product_id":"` + uuid.NewString() + `","action":"double"}`
	rec := httptest.NewRecorder()

	CartUpdateQuantity(svc, testControllerLogger())(rec, authedRequest("PATCH", "/api/v1/cart", body, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartRemoveItem(t *testing.T) {
	svc := &stubCartService{
		removeFn: func(ctx context.Context, uid uuid.UUID, input cartsvc.RemoveItemInput) error {
			return nil
		},
	}

	body := `{"product_id":"` + uuid.NewString() + `"}`
	rec := httptest.NewRecorder()
	CartRemoveItem(svc, testControllerLogger())(rec, authedRequest("DELETE", "/api/v1/cart", body, uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "removed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCartRemoveItemNotFound(t *testing.T) {
	svc := &stubCartService{
		removeFn: func(ctx context.Context, uid uuid.UUID, input cartsvc.RemoveItemInput) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
		},
	}

	body := `{"product_id":"` + uuid.NewString() + `"}`
	rec := httptest.NewRecorder()
	CartRemoveItem(svc, testControllerLogger())(rec, authedRequest("DELETE", "/api/v1/cart", body, uuid.New()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCartGet(t *testing.T) {
	cartID := uuid.New()
	svc := &stubCartService{
		getFn: func(ctx context.Context, uid uuid.UUID) (*cartsvc.CartDTO, error) {
			return &cartsvc.CartDTO{CartID: &cartID, Items: []cartsvc.LineDTO{}, TotalItems: 0}, nil
		},
	}

	rec := httptest.NewRecorder()
	CartGet(svc, testControllerLogger())(rec, authedRequest("GET", "/api/v1/cart", "", uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), cartID.String()) {
		t.Fatalf("expected cart id in body: %s", rec.Body.String())
	}
}

func TestCartClear(t *testing.T) {
	cleared := false
	svc := &stubCartService{
		clearFn: func(ctx context.Context, uid uuid.UUID) error {
			cleared = true
			return nil
		},
	}

	rec := httptest.NewRecorder()
	CartClear(svc, testControllerLogger())(rec, authedRequest("POST", "/api/v1/cart/clear", "", uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !cleared {
		t.Fatal("expected clear to be invoked")
	}
}

func TestCartNilServiceGuard(t *testing.T) {
	rec := httptest.NewRecorder()
	CartGet(nil, testControllerLogger())(rec, authedRequest("GET", "/api/v1/cart", "", uuid.New()))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
