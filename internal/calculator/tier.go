package calculator

import (
	"errors"
	"fmt"

	"github.com/sina38030/final-bahamm-sub002/internal/models"
)

// ErrUnknownKind is returned for group kinds without a pricing policy.
var ErrUnknownKind = errors.New("unknown group kind")

// TierPolicy prices a basket for a number of paid friends.
type TierPolicy interface {
	// Kind is the group kind the policy prices.
	Kind() models.GroupKind

	// Quote returns the total basket price once friends have paid.
	Quote(basket models.Basket, friends int) int64

	// RequiredFriendsForFree is the friend count at which the basket is free.
	RequiredFriendsForFree() int

	// MaxTier is the largest friend count that still changes the price.
	MaxTier() int
}

// Regular is the per-item ladder, free at three friends.
type Regular struct{}

func (Regular) Kind() models.GroupKind { return models.GroupKindRegular }

func (Regular) Quote(basket models.Basket, friends int) int64 {
	if friends < 0 {
		friends = 0
	}
	if friends > maxLadderTier {
		friends = maxLadderTier
	}
	return Valuate(basket, friends)
}

func (Regular) RequiredFriendsForFree() int { return 3 }

func (Regular) MaxTier() int { return 3 }

// Secondary takes a quarter of the whole-basket solo value off per friend,
// free at four friends. Item tier columns are ignored.
type Secondary struct{}

func (Secondary) Kind() models.GroupKind { return models.GroupKindSecondary }

func (Secondary) Quote(basket models.Basket, friends int) int64 {
	solo := Valuate(basket, 0)
	if solo <= 0 || friends >= 4 {
		return 0
	}
	if friends < 0 {
		friends = 0
	}
	if friends > 3 {
		friends = 3
	}
	// solo*k/4 rounded half up, without forming solo*k.
	k := int64(4 - friends)
	return solo/4*k + roundDiv(solo%4*k, 4)
}

func (Secondary) RequiredFriendsForFree() int { return 4 }

func (Secondary) MaxTier() int { return 4 }

// PolicyFor returns the pricing policy of a group kind.
func PolicyFor(kind models.GroupKind) (TierPolicy, error) {
	switch kind {
	case models.GroupKindRegular:
		return Regular{}, nil
	case models.GroupKindSecondary:
		return Secondary{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// ChargedTier is the friend count a leader is charged at when starting a group.
// A regular leader who expects nobody is still charged at the one-friend tier.
func ChargedTier(kind models.GroupKind, expectedFriends int) int {
	if kind == models.GroupKindRegular && expectedFriends < 1 {
		return 1
	}
	return expectedFriends
}

// TierQuote is one row of a price ladder.
type TierQuote struct {
	Friends int
	Price   int64
}

// QuoteLadder returns the quote for every tier from 0 to the policy's max tier.
func QuoteLadder(policy TierPolicy, basket models.Basket) []TierQuote {
	ladder := make([]TierQuote, 0, policy.MaxTier()+1)
	for n := 0; n <= policy.MaxTier(); n++ {
		ladder = append(ladder, TierQuote{Friends: n, Price: policy.Quote(basket, n)})
	}
	return ladder
}
