package product

import (
	"github.com/shopspring/decimal"

	"github.com/merawaalameetha/meetha-backend/pkg/enums"
)

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Category *enums.ProductCategory
	Search   string
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
}
