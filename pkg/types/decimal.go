package types

import "github.com/shopspring/decimal"

// Prices and kilogram quantities travel as JSON numbers in API responses and persisted cart slots.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
