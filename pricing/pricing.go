// Package pricing computes order prices from a snapshot of catalog data.
package pricing

import (
	"food-ordering-api/models"

	"github.com/shopspring/decimal"
)

// LineItemPrice returns the dish base price plus the extras of the selected
// options.
//
// An option's own extra wins over its choices. Option or choice names that
// the dish does not define contribute nothing; they never fail the order.
func LineItemPrice(dish *models.Dish, selected []models.OrderItemOption) decimal.Decimal {
	price := dish.Price
	for _, sel := range selected {
		opt, ok := dish.Option(sel.Name)
		if !ok {
			continue
		}
		if hasExtra(opt.Extra) {
			price = price.Add(*opt.Extra)
			continue
		}
		if sel.Choice == nil {
			continue
		}
		if choice, ok := opt.Choice(*sel.Choice); ok && hasExtra(choice.Extra) {
			price = price.Add(*choice.Extra)
		}
	}
	return price
}

// OrderTotal sums line prices.
func OrderTotal(linePrices []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, linePrices...)
}

// a zero extra is treated like a missing one
func hasExtra(d *decimal.Decimal) bool {
	return d != nil && !d.IsZero()
}
