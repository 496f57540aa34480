package model

import "github.com/shopspring/decimal"

// Price is a positive amount of money in minor currency units. Orders store
// and compute with minor units only; the major-unit form exists for the
// acquiring service's wire format.
type Price struct {
	minor int64
}

func NewPrice(minor int64) (Price, error) {
	if minor <= 0 {
		return Price{}, ErrInvalidPrice
	}
	return Price{minor: minor}, nil
}

func (p Price) Minor() int64 {
	return p.minor
}

// Major returns the exact major-unit amount, e.g. 150000 → 1500.00.
func (p Price) Major() decimal.Decimal {
	return decimal.New(p.minor, -2)
}

// MajorString renders the amount the way the gateway expects it: two
// decimal places, no thousands separators.
func (p Price) MajorString() string {
	return p.Major().StringFixed(2)
}

// PriceFromMajor converts a major-unit amount back to minor units. The
// conversion is exact for any amount with at most two decimal places.
func PriceFromMajor(major decimal.Decimal) (Price, error) {
	minor := major.Shift(2)
	if !minor.IsInteger() {
		return Price{}, ErrInvalidPrice
	}
	return NewPrice(minor.IntPart())
}
