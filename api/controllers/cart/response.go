package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/merawaalameetha/meetha-backend/internal/cart"
)

// ItemView is a cart line plus its derived line total.
type ItemView struct {
	cartsvc.Item
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// CartView is the response body of every cart endpoint.
type CartView struct {
	Items      []ItemView      `json:"items"`
	TotalItems decimal.Decimal `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	LineCount  int             `json:"lineCount"`
}

func newItemView(item cartsvc.Item) ItemView {
	return ItemView{Item: item, LineTotal: item.LineTotal()}
}

func newCartView(snap cartsvc.Snapshot) CartView {
	items := make([]ItemView, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, newItemView(item))
	}
	return CartView{
		Items:      items,
		TotalItems: snap.TotalItems,
		TotalPrice: snap.TotalPrice,
		LineCount:  len(items),
	}
}
