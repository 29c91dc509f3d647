package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kofimensah/emporium-backend/api/responses"
	"github.com/kofimensah/emporium-backend/api/validators"
	productsvc "github.com/kofimensah/emporium-backend/internal/products"
	pkgerrors "github.com/kofimensah/emporium-backend/pkg/errors"
	"github.com/kofimensah/emporium-backend/pkg/logger"
)

type createProductRequest struct {
	Title           string   `json:"title" validate:"required,min=3"`
	Description     string   `json:"description"`
	Category        string   `json:"category" validate:"required"`
	Brand           string   `json:"brand"`
	PriceCents      int64    `json:"price_cents" validate:"required,min=1"`
	DiscountPercent int      `json:"discount_percent" validate:"omitempty,min=0,max=100"`
	Stock           int      `json:"stock" validate:"omitempty,min=0"`
	Tags            []string `json:"tags,omitempty"`
	Images          []string `json:"images,omitempty"`
	Colors          []string `json:"colors,omitempty"`
	Models          []string `json:"models,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

func (r createProductRequest) toInput() productsvc.CreateProductInput {
	return productsvc.CreateProductInput{
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		Brand:           r.Brand,
		PriceCents:      r.PriceCents,
		DiscountPercent: r.DiscountPercent,
		Stock:           r.Stock,
		Tags:            r.Tags,
		Images:          r.Images,
		Colors:          r.Colors,
		Models:          r.Models,
		IsActive:        r.IsActive,
	}
}

type updateProductRequest struct {
	Title           *string   `json:"title,omitempty" validate:"omitempty,min=3"`
	Description     *string   `json:"description,omitempty"`
	Category        *string   `json:"category,omitempty"`
	Brand           *string   `json:"brand,omitempty"`
	PriceCents      *int64    `json:"price_cents,omitempty" validate:"omitempty,min=1"`
	DiscountPercent *int      `json:"discount_percent,omitempty" validate:"omitempty,min=0,max=100"`
	Stock           *int      `json:"stock,omitempty" validate:"omitempty,min=0"`
	Tags            *[]string `json:"tags,omitempty"`
	Images          *[]string `json:"images,omitempty"`
	Colors          *[]string `json:"colors,omitempty"`
	Models          *[]string `json:"models,omitempty"`
	IsActive        *bool     `json:"is_active,omitempty"`
}

func (r updateProductRequest) toInput() productsvc.UpdateProductInput {
	return productsvc.UpdateProductInput{
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		Brand:           r.Brand,
		PriceCents:      r.PriceCents,
		DiscountPercent: r.DiscountPercent,
		Stock:           r.Stock,
		Tags:            r.Tags,
		Images:          r.Images,
		Colors:          r.Colors,
		Models:          r.Models,
		IsActive:        r.IsActive,
	}
}

func productIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}

// AdminCreateProduct handles catalog product creation.
func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct applies a partial update to an existing product.
func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a product from the catalog.
func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
