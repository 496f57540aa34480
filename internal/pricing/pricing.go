// Package pricing computes order line and total amounts. Pure arithmetic
// over captured catalog prices; no I/O, deterministic.
package pricing

import (
	"shop-backend/internal/model"
)

// Line is one priced order position. UnitPrice is a denormalized copy of
// the catalog price at construction time, so later catalog edits never
// change what a historical order charged.
type Line struct {
	Product   *model.Product
	Quantity  int32
	UnitPrice int64
}

// NewLine validates the quantity at construction, before any pricing or
// gateway work happens.
func NewLine(product *model.Product, quantity int32) (Line, error) {
	if quantity < 1 {
		return Line{}, model.ErrInvalidQuantity
	}
	return Line{
		Product:   product,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}, nil
}

// Amount is the per-line total in minor units.
func (l Line) Amount() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Total sums all line amounts into a Price. Fails with ErrInvalidPrice if
// the sum is not positive, which valid lines cannot produce.
func Total(lines []Line) (model.Price, error) {
	var sum int64
	for _, l := range lines {
		sum += l.Amount()
	}
	return model.NewPrice(sum)
}
