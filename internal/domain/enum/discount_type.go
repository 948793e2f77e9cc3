package enum

// DiscountType determines how a discount's value is interpreted:
// a fixed currency amount or a percentage of the fee's total amount.
type DiscountType string

const (
	DiscountTypeFixed      DiscountType = "fixed"
	DiscountTypePercentage DiscountType = "percentage"
)

func (t DiscountType) String() string {
	return string(t)
}

// Valid reports whether the value is one of the known discount types
func (t DiscountType) Valid() bool {
	return t == DiscountTypeFixed || t == DiscountTypePercentage
}
