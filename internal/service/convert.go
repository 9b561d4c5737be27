package service

import (
	"github.com/sina38030/final-bahamm-sub002/internal/calculator"
	"github.com/sina38030/final-bahamm-sub002/internal/models"
	"github.com/sina38030/final-bahamm-sub002/pkg/api"
)

func toModelBasket(items []api.BasketItem) models.Basket {
	basket := models.Basket{Items: make([]models.BasketItem, len(items))}
	for i, it := range items {
		basket.Items[i] = models.BasketItem{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Quantity:     it.Quantity,
			SoloPrice:    it.SoloPrice,
			MarketPrice:  it.MarketPrice,
			BasePrice:    it.BasePrice,
			Friend1Price: it.Friend1Price,
			Friend2Price: it.Friend2Price,
			Friend3Price: it.Friend3Price,
		}
	}
	return basket
}

func toAPIItems(basket models.Basket) []api.BasketItem {
	items := make([]api.BasketItem, len(basket.Items))
	for i, it := range basket.Items {
		items[i] = api.BasketItem{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Quantity:     it.Quantity,
			SoloPrice:    it.SoloPrice,
			MarketPrice:  it.MarketPrice,
			BasePrice:    it.BasePrice,
			Friend1Price: it.Friend1Price,
			Friend2Price: it.Friend2Price,
			Friend3Price: it.Friend3Price,
		}
	}
	return items
}

// toAPIGroup renders a group with its price at the current paid friend count.
func toAPIGroup(g *models.Group) *api.Group {
	out := &api.Group{
		ID:                   g.ID,
		Kind:                 string(g.Kind),
		LeaderID:             g.LeaderID,
		Status:               string(g.Status),
		Items:                toAPIItems(g.Basket),
		ExpectedFriends:      g.ExpectedFriends,
		MinJoinersForSuccess: g.MinJoinersForSuccess,
		InitialLeaderPayment: g.InitialLeaderPayment,
		PaidFriends:          g.PaidFriendCount(),
		InviteToken:          g.InviteToken,
		CreatedAt:            g.CreatedAt,
		ExpiresAt:            g.ExpiresAt,
		FinalizedAt:          g.FinalizedAt,
		Participants:         make([]api.Participant, len(g.Participants)),
	}
	if policy, err := calculator.PolicyFor(g.Kind); err == nil {
		out.CurrentPrice = policy.Quote(g.Basket, calculator.CappedPaidFriends(g, policy))
	}
	for i, p := range g.Participants {
		out.Participants[i] = api.Participant{
			ID:            p.ID,
			UserID:        p.UserID,
			Role:          string(p.Role),
			JoinedAt:      p.JoinedAt,
			Paid:          p.Paid,
			PaymentAmount: p.PaymentAmount,
			PaidAt:        p.PaidAt,
		}
	}
	return out
}

func toAPISettlement(s models.Settlement) *api.Settlement {
	instruction := calculator.Instruction(s)
	return &api.Settlement{
		GroupID:              s.GroupID,
		Status:               string(s.Status),
		FinalPrice:           s.FinalPrice,
		InitialLeaderPayment: s.InitialLeaderPayment,
		ExpectedFriends:      s.ExpectedFriends,
		PaidFriends:          s.PaidFriends,
		Delta:                s.Delta,
		Outcome:              string(s.Outcome),
		Instruction: api.PaymentInstruction{
			Required:  instruction.Required,
			Amount:    instruction.Amount,
			Direction: string(instruction.Direction),
		},
	}
}
