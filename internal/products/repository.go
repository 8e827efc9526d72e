package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merawaalameetha/meetha-backend/pkg/db/models"
)

// Repository reads catalog listings.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListActive returns active products matching filters, ordered by category then name.
func (r *Repository) ListActive(ctx context.Context, filters ProductListFilters) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)

	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		qb = qb.Where(
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(vendor_name) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
	if filters.MinPrice.Valid {
		qb = qb.Where("price >= ?", filters.MinPrice.Decimal)
	}
	if filters.MaxPrice.Valid {
		qb = qb.Where("price <= ?", filters.MaxPrice.Decimal)
	}

	var products []models.Product
	if err := qb.Order("category ASC").Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindActiveByID loads an active product with its vendor summary.
func (r *Repository) FindActiveByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Vendor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByVendor returns every listing owned by vendorID, inactive ones included.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("is_active DESC").
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Upsert inserts the product or refreshes every column of an existing listing.
func (r *Repository) Upsert(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Omit("Vendor").Create(product).Error
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
