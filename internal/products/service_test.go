package products

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/kofimensah/emporium-backend/pkg/errors"
	"github.com/kofimensah/emporium-backend/pkg/pagination"
)

// The products table carries text[] columns, which sqlite cannot create
// through AutoMigrate. The raw DDL mirrors the real schema closely
// enough for the repository queries under test.
const productsTestDDL = `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  slug TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL,
  brand TEXT NOT NULL DEFAULT '',
  price_cents INTEGER NOT NULL,
  discount_percent INTEGER NOT NULL DEFAULT 0,
  stock INTEGER NOT NULL DEFAULT 0,
  tags TEXT,
  images TEXT,
  colors TEXT,
  models TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`

func newProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Exec(productsTestDDL).Error; err != nil {
		t.Fatalf("create products table: %v", err)
	}
	return db
}

func newProductsTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(newProductsTestDB(t))
	svc, err := NewService(repo, NewDetailCache(nil, 0))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Wireless Headphones", "wireless-headphones"},
		{"  USB-C  Cable (2m) ", "usb-c-cable-2m"},
		{"Déjà Vu", "déjà-vu"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerateSKU(t *testing.T) {
	sku := generateSKU("Wireless Headphones", 12999, "electronics")
	parts := strings.Split(sku, "-")
	if len(parts) != 4 {
		t.Fatalf("expected 4 SKU segments, got %q", sku)
	}
	if parts[0] != "WIR" || parts[1] != "129" || parts[2] != "ELE" {
		t.Fatalf("unexpected SKU prefixes: %q", sku)
	}
	if len(parts[3]) != 4 {
		t.Fatalf("expected 4-char random tail, got %q", parts[3])
	}

	if other := generateSKU("Wireless Headphones", 12999, "electronics"); other == sku {
		t.Fatal("expected SKU tails to differ between calls")
	}
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newProductsTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateProduct(ctx, CreateProductInput{
		Title:           "Wireless Headphones",
		Description:     "Over-ear, 30h battery",
		Category:        "Electronics",
		Brand:           "Acme",
		PriceCents:      12999,
		DiscountPercent: 10,
		Stock:           25,
		Tags:            []string{"Audio", "Wireless"},
		Colors:          []string{"black", "silver"},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if dto.Slug != "wireless-headphones" {
		t.Fatalf("unexpected slug: %s", dto.Slug)
	}
	if dto.Category != "electronics" {
		t.Fatalf("expected lowered category, got %s", dto.Category)
	}
	if dto.Tags[0] != "audio" {
		t.Fatalf("expected lowered tags, got %v", dto.Tags)
	}
	if dto.EffectivePriceCents != 11699 {
		t.Fatalf("expected effective price 11699, got %d", dto.EffectivePriceCents)
	}
	if !dto.IsActive {
		t.Fatal("expected product active by default")
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newProductsTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"short title", CreateProductInput{Title: "ab", Category: "x", PriceCents: 100}},
		{"missing category", CreateProductInput{Title: "Widget", PriceCents: 100}},
		{"zero price", CreateProductInput{Title: "Widget", Category: "x", PriceCents: 0}},
		{"discount out of range", CreateProductInput{Title: "Widget", Category: "x", PriceCents: 100, DiscountPercent: 101}},
		{"negative stock", CreateProductInput{Title: "Widget", Category: "x", PriceCents: 100, Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateProductDuplicateTitleConflicts(t *testing.T) {
	svc, _ := newProductsTestService(t)
	ctx := context.Background()

	input := CreateProductInput{Title: "Desk Lamp", Category: "home", PriceCents: 4500}
	if _, err := svc.CreateProduct(ctx, input); err != nil {
		t.Fatalf("create product: %v", err)
	}

	_, err := svc.CreateProduct(ctx, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate slug, got %v", err)
	}
}

func TestGetBySlug(t *testing.T) {
	svc, _ := newProductsTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Title: "Desk Lamp", Category: "home", PriceCents: 4500})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	found, err := svc.GetBySlug(ctx, "Desk-Lamp")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected product %s, got %s", created.ID, found.ID)
	}

	_, err = svc.GetBySlug(ctx, "missing-product")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProductKeepsSlugStable(t *testing.T) {
	svc, _ := newProductsTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Title: "Desk Lamp", Category: "home", PriceCents: 4500})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	newTitle := "Adjustable Desk Lamp"
	newPrice := int64(5500)
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Title: &newTitle, PriceCents: &newPrice})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Title != newTitle {
		t.Fatalf("expected updated title, got %s", updated.Title)
	}
	if updated.Slug != created.Slug {
		t.Fatalf("slug should stay stable, got %s", updated.Slug)
	}
	if updated.PriceCents != newPrice {
		t.Fatalf("expected price %d, got %d", newPrice, updated.PriceCents)
	}
}

func TestUpdateProductRejectsBadValues(t *testing.T) {
	svc, _ := newProductsTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Title: "Desk Lamp", Category: "home", PriceCents: 4500})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	badDiscount := 150
	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductInput{DiscountPercent: &badDiscount})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newProductsTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Title: "Desk Lamp", Category: "home", PriceCents: 4500})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := svc.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	err = svc.DeleteProduct(ctx, created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestAdjustStock(t *testing.T) {
	svc, repo := newProductsTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Title: "Desk Lamp", Category: "home", PriceCents: 4500, Stock: 3})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	ok, err := repo.AdjustStock(ctx, created.ID, 2)
	if err != nil {
		t.Fatalf("adjust stock: %v", err)
	}
	if !ok {
		t.Fatal("expected decrement within stock to succeed")
	}

	ok, err = repo.AdjustStock(ctx, created.ID, 2)
	if err != nil {
		t.Fatalf("adjust stock: %v", err)
	}
	if ok {
		t.Fatal("expected decrement past stock to be refused")
	}

	reloaded, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Stock != 1 {
		t.Fatalf("expected stock 1, got %d", reloaded.Stock)
	}
}

func TestListProductsBasicFilters(t *testing.T) {
	svc, _ := newProductsTestService(t)
	ctx := context.Background()

	for _, input := range []CreateProductInput{
		{Title: "Desk Lamp", Category: "home", PriceCents: 4500},
		{Title: "Floor Lamp", Category: "home", PriceCents: 8900},
		{Title: "Wireless Mouse", Category: "electronics", PriceCents: 2500},
	} {
		if _, err := svc.CreateProduct(ctx, input); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	result, err := svc.ListProducts(ctx, ListProductsInput{
		Filters:    ListFilters{Category: "home"},
		SortBy:     "price_cents",
		Pagination: pagination.Params{Page: 1, Limit: 10},
	})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(result.Products) != 2 {
		t.Fatalf("expected 2 home products, got %d", len(result.Products))
	}
	if result.Products[0].PriceCents > result.Products[1].PriceCents {
		t.Fatal("expected ascending price order")
	}
	if result.Pagination.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Pagination.Total)
	}
	if result.Pagination.TotalPages != 1 {
		t.Fatalf("expected 1 page, got %d", result.Pagination.TotalPages)
	}
}
