package domain

// CartLine is one product-and-quantity entry in the cart. Lines are keyed by
// ProductID: no two lines in a cart share one, and Quantity is always >= 1.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   ProductSnapshot `json:"product"`
}

// Cart is the full list of cart lines. It exists as a named type so the pure
// derivations (total, item count) can be tested independent of the store.
type Cart []CartLine

// Total returns the sum of quantity x price over all lines.
func (c Cart) Total() float64 {
	var total float64
	for _, line := range c {
		total += float64(line.Quantity) * line.Product.Price
	}
	return total
}

// ItemCount returns the sum of quantities across all lines, not the line
// count. It drives the cart badge.
func (c Cart) ItemCount() int {
	var count int
	for _, line := range c {
		count += line.Quantity
	}
	return count
}

// FindLineIndex returns the index of the line matching the given product ID,
// or -1 if not found.
func (c Cart) FindLineIndex(productID string) int {
	for i := range c {
		if c[i].ProductID == productID {
			return i
		}
	}
	return -1
}
