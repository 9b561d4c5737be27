package calculator

import (
	"errors"

	"github.com/sina38030/final-bahamm-sub002/internal/models"
)

// ErrSettlementNotReady is returned when settling a group that is still forming.
var ErrSettlementNotReady = errors.New("settlement not ready: group is still forming")

// CappedPaidFriends is the paid friend count used for pricing.
// Friends beyond the policy's max tier are recorded but do not discount further.
func CappedPaidFriends(group *models.Group, policy TierPolicy) int {
	paid := group.PaidFriendCount()
	if paid > policy.MaxTier() {
		return policy.MaxTier()
	}
	return paid
}

// Settle reconciles what the leader paid at creation with the final price of a
// terminal group.
//
// The sign of the delta is driven by expected vs actual friends, not by the
// raw price difference:
//   - fewer friends than expected: the leader can only owe more
//   - more friends than expected: the leader can only be refunded
//   - exactly as expected: settled, whatever the rounding drift
func Settle(group *models.Group, policy TierPolicy) (models.Settlement, error) {
	if !group.IsTerminal() {
		return models.Settlement{}, ErrSettlementNotReady
	}

	s := Reconcile(group.Basket, policy, group.InitialLeaderPayment, group.ExpectedFriends, CappedPaidFriends(group, policy))
	s.GroupID = group.ID
	s.Status = group.Status
	if group.Status == models.GroupStatusFailed {
		s.Outcome = models.OutcomeGroupFailed
	}
	return s, nil
}

// Reconcile computes a settlement from closed-group state alone.
func Reconcile(basket models.Basket, policy TierPolicy, initialPayment int64, expectedFriends, paidFriends int) models.Settlement {
	finalPrice := policy.Quote(basket, paidFriends)
	raw := finalPrice - initialPayment

	var delta int64
	switch {
	case paidFriends < expectedFriends:
		delta = max(0, raw)
	case paidFriends > expectedFriends:
		delta = min(0, raw)
	}

	return models.Settlement{
		FinalPrice:           finalPrice,
		InitialLeaderPayment: initialPayment,
		ExpectedFriends:      expectedFriends,
		PaidFriends:          paidFriends,
		RawDelta:             raw,
		Delta:                delta,
		Outcome:              classify(delta),
	}
}

func classify(delta int64) models.SettlementOutcome {
	switch {
	case delta > 0:
		return models.OutcomeLeaderOwes
	case delta < 0:
		return models.OutcomeRefundDue
	}
	return models.OutcomeSettled
}

// Instruction turns a settlement into the payment collaborator's instruction.
// A failed group refunds the whole initial payment.
func Instruction(s models.Settlement) models.PaymentInstruction {
	switch {
	case s.Outcome == models.OutcomeGroupFailed:
		return models.PaymentInstruction{
			Required:  s.InitialLeaderPayment > 0,
			Amount:    s.InitialLeaderPayment,
			Direction: models.DirectionRefund,
		}
	case s.Delta > 0:
		return models.PaymentInstruction{Required: true, Amount: s.Delta, Direction: models.DirectionCollect}
	case s.Delta < 0:
		return models.PaymentInstruction{Required: true, Amount: -s.Delta, Direction: models.DirectionRefund}
	}
	return models.PaymentInstruction{}
}
