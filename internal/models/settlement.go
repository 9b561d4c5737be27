package models

import "time"

// SettlementOutcome classifies the result of reconciling a closed group.
type SettlementOutcome string

const (
	// OutcomeLeaderOwes means the leader must pay Delta before the order is finalized.
	OutcomeLeaderOwes SettlementOutcome = "leader_owes"
	// OutcomeRefundDue means the leader must be refunded -Delta.
	OutcomeRefundDue SettlementOutcome = "refund_due"
	// OutcomeSettled means nothing moves.
	OutcomeSettled SettlementOutcome = "settled"
	// OutcomeGroupFailed means the group never became viable and the whole
	// initial payment is refunded.
	OutcomeGroupFailed SettlementOutcome = "group_failed"
)

// Settlement is the reconciliation of a terminal group.
// It is derived purely from the closed group and can be recomputed at any time.
type Settlement struct {
	// GroupID is the group this settlement belongs to.
	GroupID string

	// Status is the terminal status the settlement was computed for.
	Status GroupStatus

	// FinalPrice is the quote at the capped paid friend count.
	FinalPrice int64

	// InitialLeaderPayment is copied from the group.
	InitialLeaderPayment int64

	// ExpectedFriends is the tier the leader was charged for.
	ExpectedFriends int

	// PaidFriends is the capped paid friend count used for pricing.
	PaidFriends int

	// RawDelta is FinalPrice - InitialLeaderPayment before clamping.
	RawDelta int64

	// Delta is positive when the leader owes, negative when refunded.
	Delta int64

	// Outcome is the classification of Delta.
	Outcome SettlementOutcome

	// CreatedAt is when the settlement was first recorded.
	CreatedAt time.Time
}

// PaymentDirection says which way money moves.
type PaymentDirection string

const (
	DirectionCollect PaymentDirection = "collect"
	DirectionRefund  PaymentDirection = "refund"
)

// PaymentInstruction is what the engine hands to the payment collaborator.
type PaymentInstruction struct {
	Required  bool
	Amount    int64
	Direction PaymentDirection
}

// PaymentTask is a payment instruction queued for the payment collaborator.
type PaymentTask struct {
	ID          string
	GroupID     string
	Instruction PaymentInstruction
	Attempts    int
	LastError   string
	CreatedAt   time.Time
}
