package cart

import "github.com/shopspring/decimal"

// StorageName is the fixed namespace every persisted cart lives under.
const StorageName = "mera-waala-meetha-cart"

// Candidate is the add-time product snapshot: a line without an identifier or quantity.
type Candidate struct {
	ProductID  string              `json:"productId"`
	Name       string              `json:"name"`
	VendorName string              `json:"vendorName"`
	City       string              `json:"city"`
	State      string              `json:"state"`
	ImageURL   string              `json:"imageUrl,omitempty"`
	Price      decimal.Decimal     `json:"price"`
	MinOrderKg decimal.Decimal     `json:"minOrderKg"`
	MaxOrderKg decimal.NullDecimal `json:"maxOrderKg"`
}

// Item is one cart line. Fields other than Quantity are frozen at add time.
type Item struct {
	ID         string              `json:"id"`
	ProductID  string              `json:"productId"`
	Name       string              `json:"name"`
	VendorName string              `json:"vendorName"`
	City       string              `json:"city"`
	State      string              `json:"state"`
	ImageURL   string              `json:"imageUrl,omitempty"`
	Price      decimal.Decimal     `json:"price"`
	Quantity   decimal.Decimal     `json:"quantity"`
	MinOrderKg decimal.Decimal     `json:"minOrderKg"`
	MaxOrderKg decimal.NullDecimal `json:"maxOrderKg"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(i.Quantity)
}

// Clamp bounds q into [MinOrderKg, MaxOrderKg]. The minimum wins if the bounds cross.
func (i Item) Clamp(q decimal.Decimal) decimal.Decimal {
	if i.MaxOrderKg.Valid && q.GreaterThan(i.MaxOrderKg.Decimal) {
		q = i.MaxOrderKg.Decimal
	}
	if q.LessThan(i.MinOrderKg) {
		q = i.MinOrderKg
	}
	return q
}

func (c Candidate) toItem(id string, quantity decimal.Decimal) Item {
	return Item{
		ID:         id,
		ProductID:  c.ProductID,
		Name:       c.Name,
		VendorName: c.VendorName,
		City:       c.City,
		State:      c.State,
		ImageURL:   c.ImageURL,
		Price:      c.Price,
		Quantity:   quantity,
		MinOrderKg: c.MinOrderKg,
		MaxOrderKg: c.MaxOrderKg,
	}
}
