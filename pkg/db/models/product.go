package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/merawaalameetha/meetha-backend/pkg/enums"
)

// Product is a vendor's catalog listing sold by the kilogram.
type Product struct {
	ID          string                `gorm:"column:id;primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Description string                `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Category    enums.ProductCategory `gorm:"column:category;not null"`
	ImageURL    string                `gorm:"column:image_url;not null;default:''"`
	MinOrderKg  decimal.Decimal       `gorm:"column:min_order_kg;type:numeric(10,2);not null"`
	MaxOrderKg  decimal.NullDecimal   `gorm:"column:max_order_kg;type:numeric(10,2)"`
	VendorID    uuid.UUID             `gorm:"column:vendor_id;type:uuid;not null"`
	VendorName  string                `gorm:"column:vendor_name;not null"`
	City        string                `gorm:"column:city;not null"`
	State       string                `gorm:"column:state;not null"`
	Occasions   pq.StringArray        `gorm:"column:occasions;type:text[];not null;default:'{}'"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true"`
	Vendor      *User                 `gorm:"foreignKey:VendorID;references:ID"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
