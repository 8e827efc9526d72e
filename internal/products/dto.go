package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merawaalameetha/meetha-backend/pkg/db/models"
	_ "github.com/merawaalameetha/meetha-backend/pkg/types"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	Category    string              `json:"category"`
	ImageURL    string              `json:"imageUrl"`
	MinOrderKg  decimal.Decimal     `json:"minOrderKg"`
	MaxOrderKg  decimal.NullDecimal `json:"maxOrderKg"`
	VendorID    uuid.UUID           `json:"vendorId"`
	VendorName  string              `json:"vendorName"`
	City        string              `json:"city"`
	State       string              `json:"state"`
	Occasions   []string            `json:"occasions"`
	CreatedAt   time.Time           `json:"createdAt"`
	Vendor      *VendorSummaryDTO   `json:"vendor,omitempty"`
}

// VendorProductDTO is a listing as its owning vendor sees it.
type VendorProductDTO struct {
	ProductDTO
	IsActive bool `json:"isActive"`
}

// VendorSummaryDTO surfaces the vendor account behind a listing.
type VendorSummaryDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// NewProductDTO builds a DTO from the persisted model. The vendor summary is
// included only when the association was loaded.
func NewProductDTO(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    string(p.Category),
		ImageURL:    p.ImageURL,
		MinOrderKg:  p.MinOrderKg,
		MaxOrderKg:  p.MaxOrderKg,
		VendorID:    p.VendorID,
		VendorName:  p.VendorName,
		City:        p.City,
		State:       p.State,
		Occasions:   append([]string{}, p.Occasions...),
		CreatedAt:   p.CreatedAt,
	}
	if p.Vendor != nil {
		dto.Vendor = &VendorSummaryDTO{
			ID:    p.Vendor.ID,
			Name:  p.Vendor.Name,
			Email: p.Vendor.Email,
		}
	}
	return dto
}
