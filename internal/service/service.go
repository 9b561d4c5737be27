// Package service implements the Connect GroupBuyService.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sina38030/final-bahamm-sub002/internal/ack"
	"github.com/sina38030/final-bahamm-sub002/internal/calculator"
	"github.com/sina38030/final-bahamm-sub002/internal/invite"
	"github.com/sina38030/final-bahamm-sub002/internal/lifecycle"
	"github.com/sina38030/final-bahamm-sub002/internal/metrics"
	"github.com/sina38030/final-bahamm-sub002/internal/models"
	"github.com/sina38030/final-bahamm-sub002/internal/storage"
	"github.com/sina38030/final-bahamm-sub002/pkg/api/apiconnect"
)

// maxSaveAttempts bounds the reload-and-retry loop on version conflicts.
const maxSaveAttempts = 5

// Ensure GroupBuyService implements the Connect handler interface.
var _ apiconnect.GroupBuyServiceHandler = (*GroupBuyService)(nil)

// GroupBuyService implements the Connect GroupBuyService.
type GroupBuyService struct {
	store   storage.Store
	acks    ack.Store
	linker  *invite.Linker
	metrics *metrics.Metrics
	window  time.Duration
	now     func() time.Time
	locks   *groupLocks
}

// Option configures a GroupBuyService.
type Option func(*GroupBuyService)

// WithClock replaces the server clock. Deadlines are always evaluated
// against this clock, never against client time.
func WithClock(now func() time.Time) Option {
	return func(s *GroupBuyService) { s.now = now }
}

// WithWindow sets how long new groups accept friends.
func WithWindow(d time.Duration) Option {
	return func(s *GroupBuyService) { s.window = d }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *GroupBuyService) { s.metrics = m }
}

func WithAckStore(a ack.Store) Option {
	return func(s *GroupBuyService) { s.acks = a }
}

// NewGroupBuyService creates a new GroupBuyService with the given storage backend.
func NewGroupBuyService(store storage.Store, linker *invite.Linker, opts ...Option) *GroupBuyService {
	s := &GroupBuyService{
		store:  store,
		linker: linker,
		window: lifecycle.DefaultWindow,
		now:    func() time.Time { return time.Now().UTC() },
		locks:  newGroupLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.acks == nil {
		s.acks = ack.NewMemoryStore()
	}
	return s
}

// mutation changes a loaded group and reports whether it must be saved.
type mutation func(g *models.Group, now time.Time) (bool, error)

// update applies fn to the current state of a group and saves it.
// Calls for the same group are serialized in process; the stored version
// guards against writers elsewhere, in which case the group is reloaded and
// fn applied again. A forming -> terminal transition records the settlement.
func (s *GroupBuyService) update(ctx context.Context, groupID string, fn mutation) (*models.Group, time.Time, error) {
	unlock := s.locks.lock(groupID)
	defer unlock()

	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		g, err := s.store.GetGroup(ctx, groupID)
		if err != nil {
			return nil, time.Time{}, err
		}

		now := s.now()
		wasTerminal := g.IsTerminal()
		changed, err := fn(g, now)
		if err != nil {
			return g, now, err
		}
		if !changed {
			return g, now, nil
		}

		err = s.store.SaveGroup(ctx, g)
		if errors.Is(err, storage.ErrConflict) {
			slog.Warn("Group changed concurrently, retrying", "group_id", groupID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, now, err
		}

		if !wasTerminal && g.IsTerminal() {
			slog.Info("Group finalized",
				"group_id", g.ID,
				"status", g.Status,
				"paid_friends", g.PaidFriendCount(),
			)
			s.metrics.Finalized(g.Kind, g.Status)
			if _, err := s.recordSettlement(ctx, g); err != nil {
				return nil, now, err
			}
		}
		return g, now, nil
	}
	return nil, time.Time{}, fmt.Errorf("failed to save group %s after %d attempts: %w", groupID, maxSaveAttempts, storage.ErrConflict)
}

// load returns a group after evaluating its deadline, so readers never see a
// forming group past its expiry.
func (s *GroupBuyService) load(ctx context.Context, groupID string) (*models.Group, time.Time, error) {
	return s.update(ctx, groupID, lifecycle.Finalize)
}

// recordSettlement computes the settlement of a terminal group and stores it
// with its payment instruction. Recording is idempotent per group.
func (s *GroupBuyService) recordSettlement(ctx context.Context, g *models.Group) (models.Settlement, error) {
	policy, err := calculator.PolicyFor(g.Kind)
	if err != nil {
		return models.Settlement{}, err
	}
	settlement, err := calculator.Settle(g, policy)
	if err != nil {
		return models.Settlement{}, err
	}
	if g.FinalizedAt != nil {
		settlement.CreatedAt = *g.FinalizedAt
	}

	instruction := calculator.Instruction(settlement)
	recorded, err := s.store.RecordSettlement(ctx, &settlement, instruction)
	if err != nil {
		return models.Settlement{}, fmt.Errorf("failed to record settlement: %w", err)
	}
	if recorded {
		slog.Info("Settlement recorded",
			"group_id", g.ID,
			"outcome", settlement.Outcome,
			"delta", settlement.Delta,
			"instruction_amount", instruction.Amount,
			"instruction_direction", instruction.Direction,
		)
		s.metrics.Settled(settlement.Outcome)
	}
	return settlement, nil
}
