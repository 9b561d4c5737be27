package models

import "time"

// ParticipantRole distinguishes the leader from invited friends.
type ParticipantRole string

const (
	RoleLeader ParticipantRole = "leader"
	RoleMember ParticipantRole = "member"
)

// Participant is a member of a group.
// After creation only the Paid flag may change, and only from false to true.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// GroupID is the group this participant belongs to.
	GroupID string

	// UserID is the account that joined.
	UserID string

	// Role is leader or member.
	Role ParticipantRole

	// JoinedAt is when the participant was admitted.
	JoinedAt time.Time

	// Paid is set once the payment confirmation arrives.
	Paid bool

	// PaymentAmount is the amount confirmed by the payment provider.
	PaymentAmount int64

	// PaidAt is set together with Paid.
	PaidAt *time.Time
}
