// Package lifecycle implements the group state machine:
// forming -> succeeded | failed.
//
// Functions here mutate the in-memory group only. Callers are responsible
// for serializing access to a group and persisting the result.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sina38030/final-bahamm-sub002/internal/calculator"
	"github.com/sina38030/final-bahamm-sub002/internal/models"
)

// DefaultWindow is how long a group accepts friends.
const DefaultWindow = 24 * time.Hour

var (
	// ErrGroupClosed is returned for joins and payments after the group
	// reached a terminal status or its deadline.
	ErrGroupClosed = errors.New("group is closed")

	// ErrLeaderCannotJoin is returned when the leader uses their own invite.
	ErrLeaderCannotJoin = errors.New("leader cannot join own group")

	// ErrParticipantNotFound is returned for payments of unknown participants.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrInvalidGroup is returned when creation parameters are rejected.
	ErrInvalidGroup = errors.New("invalid group")
)

// NewGroupParams are the inputs of a leader checking out in group mode.
type NewGroupParams struct {
	Kind                 models.GroupKind
	LeaderID             string
	Basket               models.Basket
	ExpectedFriends      int
	MinJoinersForSuccess int
	PaymentAuthority     string
	Window               time.Duration
}

// NewGroup creates a forming group with a frozen basket and the leader
// already paid at the charged tier.
func NewGroup(params NewGroupParams, now time.Time) (*models.Group, error) {
	policy, err := calculator.PolicyFor(params.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGroup, err)
	}
	if params.LeaderID == "" {
		return nil, fmt.Errorf("%w: leader required", ErrInvalidGroup)
	}
	if len(params.Basket.Items) == 0 {
		return nil, fmt.Errorf("%w: basket is empty", ErrInvalidGroup)
	}
	for _, item := range params.Basket.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity of %q must be positive", ErrInvalidGroup, item.ProductID)
		}
	}
	if err := calculator.CheckBasket(params.Basket); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGroup, err)
	}
	if params.ExpectedFriends < 0 || params.ExpectedFriends > policy.MaxTier() {
		return nil, fmt.Errorf("%w: expected friends must be between 0 and %d", ErrInvalidGroup, policy.MaxTier())
	}
	minJoiners := params.MinJoinersForSuccess
	if minJoiners == 0 {
		minJoiners = 1
	}
	if minJoiners < 1 || minJoiners > policy.MaxTier() {
		return nil, fmt.Errorf("%w: min joiners must be between 1 and %d", ErrInvalidGroup, policy.MaxTier())
	}
	window := params.Window
	if window <= 0 {
		window = DefaultWindow
	}

	basket := params.Basket.Clone()
	charged := calculator.ChargedTier(params.Kind, params.ExpectedFriends)
	initial := policy.Quote(basket, charged)

	g := &models.Group{
		ID:                   uuid.New().String(),
		Kind:                 params.Kind,
		LeaderID:             params.LeaderID,
		Basket:               basket,
		CreatedAt:            now,
		ExpiresAt:            now.Add(window),
		Status:               models.GroupStatusForming,
		MinJoinersForSuccess: minJoiners,
		InitialLeaderPayment: initial,
		ExpectedFriends:      charged,
		PaymentAuthority:     params.PaymentAuthority,
	}
	paidAt := now
	g.Participants = []models.Participant{{
		ID:            uuid.New().String(),
		GroupID:       g.ID,
		UserID:        params.LeaderID,
		Role:          models.RoleLeader,
		JoinedAt:      now,
		Paid:          true,
		PaymentAmount: initial,
		PaidAt:        &paidAt,
	}}
	return g, nil
}

// IsOpen reports whether the group still admits joins and payments.
func IsOpen(g *models.Group, now time.Time) bool {
	return g.Status == models.GroupStatusForming && now.Before(g.ExpiresAt)
}

// Join admits a friend. Joining twice returns the existing participant.
func Join(g *models.Group, userID string, now time.Time) (*models.Participant, error) {
	if !IsOpen(g, now) {
		return nil, ErrGroupClosed
	}
	if userID == g.LeaderID {
		return nil, ErrLeaderCannotJoin
	}
	if p, ok := g.FindParticipantByUser(userID); ok {
		return p, nil
	}
	g.Participants = append(g.Participants, models.Participant{
		ID:       uuid.New().String(),
		GroupID:  g.ID,
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: now,
	})
	return &g.Participants[len(g.Participants)-1], nil
}

// MarkPaid records a friend's payment confirmation. It reports false when the
// payment was already recorded, so a redelivered confirmation is a no-op.
func MarkPaid(g *models.Group, participantID string, amount int64, now time.Time) (bool, error) {
	p, ok := g.FindParticipant(participantID)
	if !ok {
		return false, ErrParticipantNotFound
	}
	if p.Paid {
		return false, nil
	}
	if !IsOpen(g, now) {
		return false, ErrGroupClosed
	}
	paidAt := now
	p.Paid = true
	p.PaymentAmount = amount
	p.PaidAt = &paidAt
	return true, nil
}

// Finalize evaluates the group once. A forming group succeeds as soon as the
// paid friends reach the max tier; otherwise it is decided at its deadline.
// Terminal groups are never re-evaluated. It reports whether the status changed.
func Finalize(g *models.Group, now time.Time) (bool, error) {
	if g.IsTerminal() {
		return false, nil
	}
	policy, err := calculator.PolicyFor(g.Kind)
	if err != nil {
		return false, err
	}

	paid := g.PaidFriendCount()
	switch {
	case paid >= policy.MaxTier():
		g.Status = models.GroupStatusSucceeded
	case now.Before(g.ExpiresAt):
		return false, nil
	case paid >= g.MinJoinersForSuccess:
		g.Status = models.GroupStatusSucceeded
	default:
		g.Status = models.GroupStatusFailed
	}
	finalizedAt := now
	g.FinalizedAt = &finalizedAt
	return true, nil
}

// Remaining is the server-side time left before the deadline, never negative.
func Remaining(g *models.Group, now time.Time) time.Duration {
	if g.IsTerminal() || !now.Before(g.ExpiresAt) {
		return 0
	}
	return g.ExpiresAt.Sub(now)
}
