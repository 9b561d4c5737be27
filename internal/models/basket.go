package models

// BasketItem is one cart line with its price ladder.
// Tier prices are optional; a nil pointer means the admin did not set one and
// the valuation derives a fallback from the solo price.
type BasketItem struct {
	// ProductID identifies the product in the catalog.
	ProductID string

	// Name is the display name of the product.
	Name string

	// Quantity is the number of units (> 0).
	Quantity int64

	// SoloPrice is the unit price for a lone buyer.
	SoloPrice int64

	// MarketPrice is used when SoloPrice is missing.
	MarketPrice int64

	// BasePrice doubled is the last fallback for the solo price.
	BasePrice int64

	// Friend1Price, Friend2Price and Friend3Price are the unit prices once
	// one, two or three friends have joined.
	Friend1Price *int64
	Friend2Price *int64
	Friend3Price *int64
}

// Basket is an ordered sequence of items. It has no identity of its own.
type Basket struct {
	Items []BasketItem
}

// Clone returns a deep copy, so a group never shares tier pointers with a cart.
func (b Basket) Clone() Basket {
	items := make([]BasketItem, len(b.Items))
	for i, item := range b.Items {
		items[i] = item
		items[i].Friend1Price = clonePrice(item.Friend1Price)
		items[i].Friend2Price = clonePrice(item.Friend2Price)
		items[i].Friend3Price = clonePrice(item.Friend3Price)
	}
	return Basket{Items: items}
}

// Price returns a pointer to v, for building tier prices inline.
func Price(v int64) *int64 {
	return &v
}

func clonePrice(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
