package service

import (
	"context"
	"fmt"
	"time"

	"connectrpc.com/connect"

	"github.com/sina38030/final-bahamm-sub002/internal/calculator"
	"github.com/sina38030/final-bahamm-sub002/pkg/api"
)

// QuoteBasket prices a cart at every tier for the preview table, before any
// group exists.
func (s *GroupBuyService) QuoteBasket(ctx context.Context, req *connect.Request[api.QuoteBasketRequest]) (*connect.Response[api.QuoteBasketResponse], error) {
	start := time.Now()
	defer func() { s.metrics.QuoteDuration.Observe(time.Since(start).Seconds()) }()

	policy, err := calculator.PolicyFor(groupKind(req.Msg.Kind))
	if err != nil {
		return nil, toConnectError(err)
	}
	if len(req.Msg.Items) == 0 {
		return nil, toConnectError(fmt.Errorf("%w: basket is empty", errInvalidArgument))
	}

	basket := toModelBasket(req.Msg.Items)
	if err := calculator.CheckBasket(basket); err != nil {
		return nil, toConnectError(err)
	}
	ladder := calculator.QuoteLadder(policy, basket)
	tiers := make([]api.TierQuote, len(ladder))
	for i, q := range ladder {
		tiers[i] = api.TierQuote{Friends: q.Friends, Price: q.Price}
	}

	return connect.NewResponse(&api.QuoteBasketResponse{
		Tiers:                  tiers,
		RequiredFriendsForFree: policy.RequiredFriendsForFree(),
		InvalidProducts:        calculator.ValuateDetailed(basket, 0).Invalid(),
	}), nil
}
