package products

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kofimensah/emporium-backend/pkg/pagination"
)

// Sortable columns accepted by the list endpoint. Anything else falls
// back to created_at.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price_cents",
	"title":      "title",
	"updated_at": "updated_at",
}

// ListFilters captures the optional predicates for catalog listing.
type ListFilters struct {
	Search          string
	Title           string
	Category        string
	Brand           string
	Tags            []string
	Models          []string
	PriceMinCents   *int64
	PriceMaxCents   *int64
	DiscountMin     *int
	InStock         *bool
	IncludeInactive bool
}

// ListProductsInput bundles filters, sorting, and pagination for one page.
type ListProductsInput struct {
	Filters    ListFilters
	SortBy     string
	SortDesc   bool
	Pagination pagination.Params
}

// ParseListInput extracts filter and sort parameters from the request
// query string. Pagination is validated separately at the boundary;
// callers set it on the returned input.
func ParseListInput(values url.Values) ListProductsInput {
	input := ListProductsInput{
		Filters: ListFilters{
			Search:   strings.TrimSpace(values.Get("q")),
			Title:    strings.TrimSpace(values.Get("title")),
			Category: strings.TrimSpace(values.Get("category")),
			Brand:    strings.TrimSpace(values.Get("brand")),
			Tags:     splitCSV(values.Get("tags")),
			Models:   splitCSV(values.Get("models")),
		},
	}

	if v := strings.TrimSpace(values.Get("price_min")); v != "" {
		if cents, err := strconv.ParseInt(v, 10, 64); err == nil && cents >= 0 {
			input.Filters.PriceMinCents = &cents
		}
	}
	if v := strings.TrimSpace(values.Get("price_max")); v != "" {
		if cents, err := strconv.ParseInt(v, 10, 64); err == nil && cents >= 0 {
			input.Filters.PriceMaxCents = &cents
		}
	}
	if v := strings.TrimSpace(values.Get("discount_min")); v != "" {
		if pct, err := strconv.Atoi(v); err == nil && pct >= 0 {
			input.Filters.DiscountMin = &pct
		}
	}
	if v := strings.TrimSpace(values.Get("in_stock")); v != "" {
		inStock := v == "true"
		input.Filters.InStock = &inStock
	}

	if by, ok := sortColumns[strings.TrimSpace(values.Get("sort_by"))]; ok {
		input.SortBy = by
	} else {
		input.SortBy = "created_at"
	}
	input.SortDesc = strings.TrimSpace(values.Get("sort_order")) != "asc"

	return input
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
