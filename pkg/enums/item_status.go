package enums

import "fmt"

// ItemStatus is the stock status derived from an item's quantity. It is never
// stored independently of the quantity that produced it.
type ItemStatus string

const (
	ItemStatusInStock    ItemStatus = "in-stock"
	ItemStatusOutOfStock ItemStatus = "out-of-stock"
)

// StatusForQuantity is the single code path that derives status from quantity.
func StatusForQuantity(quantity float64) ItemStatus {
	if quantity > 0 {
		return ItemStatusInStock
	}
	return ItemStatusOutOfStock
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ItemStatus.
func (s ItemStatus) IsValid() bool {
	return s == ItemStatusInStock || s == ItemStatusOutOfStock
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	switch ItemStatus(value) {
	case ItemStatusInStock, ItemStatusOutOfStock:
		return ItemStatus(value), nil
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
