package products

import (
	"net/url"
	"testing"
)

func TestParseListInput(t *testing.T) {
	values := url.Values{}
	values.Set("q", " headphones ")
	values.Set("category", "electronics")
	values.Set("tags", "audio, wireless,,")
	values.Set("price_min", "1000")
	values.Set("price_max", "20000")
	values.Set("in_stock", "true")
	values.Set("sort_by", "price")
	values.Set("sort_order", "asc")

	input := ParseListInput(values)

	if input.Filters.Search != "headphones" {
		t.Fatalf("unexpected search: %q", input.Filters.Search)
	}
	if input.Filters.Category != "electronics" {
		t.Fatalf("unexpected category: %q", input.Filters.Category)
	}
	if len(input.Filters.Tags) != 2 || input.Filters.Tags[1] != "wireless" {
		t.Fatalf("unexpected tags: %v", input.Filters.Tags)
	}
	if input.Filters.PriceMinCents == nil || *input.Filters.PriceMinCents != 1000 {
		t.Fatalf("unexpected price_min: %v", input.Filters.PriceMinCents)
	}
	if input.Filters.InStock == nil || !*input.Filters.InStock {
		t.Fatalf("unexpected in_stock: %v", input.Filters.InStock)
	}
	if input.SortBy != "price_cents" {
		t.Fatalf("sort_by should map through the whitelist, got %q", input.SortBy)
	}
	if input.SortDesc {
		t.Fatal("sort_order=asc should not be descending")
	}
}

func TestParseListInputDefaults(t *testing.T) {
	input := ParseListInput(url.Values{})

	if input.SortBy != "created_at" {
		t.Fatalf("expected created_at default sort, got %q", input.SortBy)
	}
	if !input.SortDesc {
		t.Fatal("expected descending sort by default")
	}
	if input.Filters.InStock != nil {
		t.Fatal("in_stock should stay unset when absent")
	}
}

func TestParseListInputRejectsUnknownSortColumn(t *testing.T) {
	values := url.Values{}
	values.Set("sort_by", "password_hash")

	input := ParseListInput(values)
	if input.SortBy != "created_at" {
		t.Fatalf("unknown sort columns must fall back to created_at, got %q", input.SortBy)
	}
}
