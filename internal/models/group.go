package models

import "time"

// GroupKind selects the pricing curve of a group.
type GroupKind string

const (
	// GroupKindRegular uses the per-item friend ladder, free at 3 friends.
	GroupKindRegular GroupKind = "regular"
	// GroupKindSecondary refunds a quarter of the basket per friend, free at 4.
	GroupKindSecondary GroupKind = "secondary"
)

// GroupStatus is the lifecycle state of a group.
type GroupStatus string

const (
	GroupStatusForming   GroupStatus = "forming"
	GroupStatusSucceeded GroupStatus = "succeeded"
	GroupStatusFailed    GroupStatus = "failed"
)

// Group represents a purchase group started by a leader.
// A group is mutated only by participant joins and payments and by its
// finalization; it is never deleted.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Kind is the pricing curve of the group.
	Kind GroupKind

	// LeaderID is the user id of the leader.
	LeaderID string

	// Basket is the frozen copy of the leader's cart.
	Basket Basket

	// CreatedAt and ExpiresAt bound the window in which friends may join.
	CreatedAt time.Time
	ExpiresAt time.Time

	// Status moves forward only: forming -> succeeded | failed.
	Status GroupStatus

	// MinJoinersForSuccess is the number of paid friends needed to succeed (>= 1).
	MinJoinersForSuccess int

	// InitialLeaderPayment is what the leader was charged at creation.
	// It is fixed at creation and never recomputed.
	InitialLeaderPayment int64

	// ExpectedFriends is the tier the leader was charged for.
	ExpectedFriends int

	// PaymentAuthority is the opaque reference of the leader's payment.
	PaymentAuthority string

	// InviteToken is the shareable token friends use to join.
	InviteToken string

	// FinalizedAt is set when the group reaches a terminal status.
	FinalizedAt *time.Time

	// Version is bumped on every save and used for optimistic concurrency.
	Version int64

	// Participants holds the leader and every friend who joined.
	Participants []Participant
}

// IsTerminal reports whether the group has succeeded or failed.
func (g *Group) IsTerminal() bool {
	return g.Status == GroupStatusSucceeded || g.Status == GroupStatusFailed
}

// PaidFriendCount is the number of paid non-leader participants, uncapped.
func (g *Group) PaidFriendCount() int {
	n := 0
	for _, p := range g.Participants {
		if p.Role == RoleMember && p.Paid {
			n++
		}
	}
	return n
}

// FindParticipant returns the participant with the given id.
func (g *Group) FindParticipant(participantID string) (*Participant, bool) {
	for i := range g.Participants {
		if g.Participants[i].ID == participantID {
			return &g.Participants[i], true
		}
	}
	return nil, false
}

// FindParticipantByUser returns the participant for a user id.
func (g *Group) FindParticipantByUser(userID string) (*Participant, bool) {
	for i := range g.Participants {
		if g.Participants[i].UserID == userID {
			return &g.Participants[i], true
		}
	}
	return nil, false
}
