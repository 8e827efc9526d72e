package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/merawaalameetha/meetha-backend/api/middleware"
	"github.com/merawaalameetha/meetha-backend/api/responses"
	"github.com/merawaalameetha/meetha-backend/api/validators"
	product "github.com/merawaalameetha/meetha-backend/internal/products"
	"github.com/merawaalameetha/meetha-backend/pkg/enums"
	pkgerrors "github.com/merawaalameetha/meetha-backend/pkg/errors"
	"github.com/merawaalameetha/meetha-backend/pkg/logger"
)

const maxSearchLen = 100

// ProductList returns active catalog products matching the query filters.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		filters, err := parseProductFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// ProductDetail returns one active product with its vendor summary.
func ProductDetail(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		detail, err := svc.GetProduct(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// VendorProductList returns the calling vendor's own listings, inactive ones included.
func VendorProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		// a missing or malformed claim falls through as uuid.Nil and is refused by the service
		vendorID, _ := uuid.Parse(middleware.VendorIDFromContext(r.Context()))
		listings, err := svc.ListVendorProducts(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listings)
	}
}

func parseProductFilters(r *http.Request) (product.ProductListFilters, error) {
	var filters product.ProductListFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseProductCategory(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid category").
				WithDetails(map[string]any{"allowed": enums.ProductCategories()})
		}
		filters.Category = &category
	}

	filters.Search = validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLen)

	minPrice, err := validators.ParseQueryDecimal(r, "minPrice")
	if err != nil {
		return filters, err
	}
	maxPrice, err := validators.ParseQueryDecimal(r, "maxPrice")
	if err != nil {
		return filters, err
	}
	filters.MinPrice = minPrice
	filters.MaxPrice = maxPrice
	return filters, nil
}
