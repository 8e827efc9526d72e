package cart

import "github.com/shopspring/decimal"

// AddItemRequest adds kilograms of a catalog product to the session cart.
type AddItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,max=200"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// UpdateQuantityRequest sets a line's kilograms; zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity *decimal.Decimal `json:"quantity" validate:"required"`
}
