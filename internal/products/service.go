package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/merawaalameetha/meetha-backend/pkg/db"
	"github.com/merawaalameetha/meetha-backend/pkg/db/models"
	pkgerrors "github.com/merawaalameetha/meetha-backend/pkg/errors"
)

type productRepository interface {
	ListActive(ctx context.Context, filters ProductListFilters) ([]models.Product, error)
	FindActiveByID(ctx context.Context, id string) (*models.Product, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error)
}

// Service exposes the read side of the catalog.
type Service interface {
	ListProducts(ctx context.Context, filters ProductListFilters) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id string) (*ProductDTO, error)
	GetActiveProduct(ctx context.Context, id string) (*models.Product, error)
	ListVendorProducts(ctx context.Context, vendorID uuid.UUID) ([]VendorProductDTO, error)
}

type service struct {
	repo productRepository
}

// NewService builds the catalog service.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, filters ProductListFilters) ([]ProductDTO, error) {
	if filters.MinPrice.Valid && filters.MaxPrice.Valid && filters.MinPrice.Decimal.GreaterThan(filters.MaxPrice.Decimal) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minPrice must not exceed maxPrice")
	}
	products, err := s.repo.ListActive(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to fetch products")
	}
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, NewProductDTO(&products[i]))
	}
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*ProductDTO, error) {
	product, err := s.GetActiveProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewProductDTO(product)
	return &dto, nil
}

// GetActiveProduct returns NOT_FOUND for unknown or inactive listings.
func (s *service) GetActiveProduct(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to fetch product")
	}
	return product, nil
}

func (s *service) ListVendorProducts(ctx context.Context, vendorID uuid.UUID) ([]VendorProductDTO, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor account required")
	}
	products, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to fetch vendor products")
	}
	out := make([]VendorProductDTO, 0, len(products))
	for i := range products {
		out = append(out, VendorProductDTO{
			ProductDTO: NewProductDTO(&products[i]),
			IsActive:   products[i].IsActive,
		})
	}
	return out, nil
}
