// Package calculator holds the pure pricing and settlement rules of the
// group-buy engine. Nothing here performs I/O or reads the clock.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/sina38030/final-bahamm-sub002/internal/models"
)

// ErrInvalidTier marks a basket line whose solo price cannot be derived.
// Such a line prices at 0 and the rest of the basket is still valued.
var ErrInvalidTier = errors.New("invalid price tier")

// ErrOutOfRange is returned by CheckBasket for quantities or prices above MaxMoney.
var ErrOutOfRange = errors.New("amount out of range")

// MaxMoney bounds every price, quantity and basket total accepted from callers.
// Totals below it stay exact in float64 clients as well.
const MaxMoney int64 = 1 << 53

// maxLadderTier is the highest friend count with its own item column.
const maxLadderTier = 3

// LineValuation is the valuation of one basket line at a friend count.
type LineValuation struct {
	ProductID string
	UnitPrice int64
	Quantity  int64
	Total     int64
	// Err is ErrInvalidTier when no solo price could be derived.
	Err error
}

// Valuation is a basket priced at a given friend count.
type Valuation struct {
	FriendsJoined int
	Total         int64
	Lines         []LineValuation
}

// Invalid returns the product ids of lines that failed tier resolution.
func (v Valuation) Invalid() []string {
	var ids []string
	for _, line := range v.Lines {
		if line.Err != nil {
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}

// Valuate returns the total price of the basket when friendsJoined friends
// have paid.
func Valuate(basket models.Basket, friendsJoined int) int64 {
	return ValuateDetailed(basket, friendsJoined).Total
}

// ValuateDetailed is Valuate with a per-line breakdown.
func ValuateDetailed(basket models.Basket, friendsJoined int) Valuation {
	v := Valuation{
		FriendsJoined: friendsJoined,
		Lines:         make([]LineValuation, len(basket.Items)),
	}
	// A line whose solo total does not fit is invalid at every tier, so the
	// same lines are dropped whatever the friend count.
	var soloTotal int64
	for i, item := range basket.Items {
		qty := item.Quantity
		if qty < 0 {
			qty = 0
		}
		line := LineValuation{ProductID: item.ProductID, Quantity: qty}
		solo := SoloPrice(item)
		lineSolo, ok := mulChecked(solo, qty)
		if ok {
			var sum int64
			if sum, ok = addChecked(soloTotal, lineSolo); ok {
				soloTotal = sum
			}
		}
		if solo <= 0 || !ok {
			line.Err = ErrInvalidTier
		} else {
			line.UnitPrice = UnitPrice(item, friendsJoined)
		}
		line.Total = line.UnitPrice * qty
		v.Total += line.Total
		v.Lines[i] = line
	}
	return v
}

// SoloPrice resolves the lone-buyer unit price: SoloPrice, else MarketPrice,
// else BasePrice*2, else 0.
func SoloPrice(item models.BasketItem) int64 {
	switch {
	case item.SoloPrice > 0:
		return item.SoloPrice
	case item.MarketPrice > 0:
		return item.MarketPrice
	case item.BasePrice > 0 && item.BasePrice <= math.MaxInt64/2:
		return item.BasePrice * 2
	}
	return 0
}

// UnitPrice returns the per-unit price of an item at a friend count.
// The result never exceeds the price at a lower friend count.
func UnitPrice(item models.BasketItem, friendsJoined int) int64 {
	if friendsJoined <= 0 {
		return SoloPrice(item)
	}
	if friendsJoined > maxLadderTier {
		return 0
	}
	price := rawTierPrice(item, friendsJoined)
	if prev := UnitPrice(item, friendsJoined-1); price > prev {
		price = prev
	}
	return price
}

func rawTierPrice(item models.BasketItem, tier int) int64 {
	solo := SoloPrice(item)
	var price int64
	switch tier {
	case 1:
		if item.Friend1Price != nil {
			price = *item.Friend1Price
		} else {
			price = roundDiv(solo, 2)
		}
	case 2:
		if item.Friend2Price != nil && *item.Friend2Price > 0 {
			price = *item.Friend2Price
		} else {
			price = roundDiv(solo, 3)
		}
	case 3:
		if item.Friend3Price != nil {
			price = *item.Friend3Price
		}
	}
	if price < 0 {
		return 0
	}
	return price
}

// roundDiv divides non-negative a by positive b, rounding half up.
func roundDiv(a, b int64) int64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	q, r := a/b, a%b
	if r >= b-r {
		q++
	}
	return q
}

// CheckBasket rejects baskets whose amounts exceed MaxMoney, either per field
// or as the solo total of the whole basket.
func CheckBasket(basket models.Basket) error {
	var total int64
	for _, item := range basket.Items {
		for _, p := range []*int64{&item.Quantity, &item.SoloPrice, &item.MarketPrice, &item.BasePrice,
			item.Friend1Price, item.Friend2Price, item.Friend3Price} {
			if p != nil && *p > MaxMoney {
				return fmt.Errorf("%w: %q has a value above %d", ErrOutOfRange, item.ProductID, MaxMoney)
			}
		}
		line, ok := mulChecked(SoloPrice(item), max(item.Quantity, 0))
		if ok {
			total, ok = addChecked(total, line)
		}
		if !ok || total > MaxMoney {
			return fmt.Errorf("%w: basket total above %d", ErrOutOfRange, MaxMoney)
		}
	}
	return nil
}

// mulChecked multiplies non-negative a and b, reporting false on overflow.
func mulChecked(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

// addChecked adds non-negative a and b, reporting false on overflow.
func addChecked(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
