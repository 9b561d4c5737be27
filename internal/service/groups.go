package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/sina38030/final-bahamm-sub002/internal/calculator"
	"github.com/sina38030/final-bahamm-sub002/internal/invite"
	"github.com/sina38030/final-bahamm-sub002/internal/lifecycle"
	"github.com/sina38030/final-bahamm-sub002/internal/middleware"
	"github.com/sina38030/final-bahamm-sub002/internal/models"
	"github.com/sina38030/final-bahamm-sub002/internal/storage"
	"github.com/sina38030/final-bahamm-sub002/pkg/api"
)

func groupKind(kind string) models.GroupKind {
	if kind == "" {
		return models.GroupKindRegular
	}
	return models.GroupKind(kind)
}

func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", errUnauthenticated
	}
	return userID, nil
}

// CreateGroup starts a group for the caller with a frozen copy of their basket.
func (s *GroupBuyService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"kind", req.Msg.Kind,
		"items_count", len(req.Msg.Items),
		"expected_friends", req.Msg.ExpectedFriends,
	)

	leaderID, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	group, err := lifecycle.NewGroup(lifecycle.NewGroupParams{
		Kind:                 groupKind(req.Msg.Kind),
		LeaderID:             leaderID,
		Basket:               toModelBasket(req.Msg.Items),
		ExpectedFriends:      req.Msg.ExpectedFriends,
		MinJoinersForSuccess: req.Msg.MinJoinersForSuccess,
		PaymentAuthority:     req.Msg.PaymentAuthority,
		Window:               s.window,
	}, s.now())
	if err != nil {
		slog.Warn("CreateGroup rejected", "leader_id", leaderID, "error", err)
		return nil, toConnectError(err)
	}

	if group.InviteToken, err = invite.Issue(group); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.GroupsCreated.WithLabelValues(string(group.Kind)).Inc()

	slog.Info("Group created",
		"group_id", group.ID,
		"leader_id", leaderID,
		"initial_payment", group.InitialLeaderPayment,
		"expires_at", group.ExpiresAt,
	)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup returns a group with the server time and the seconds left before
// its deadline. An expired forming group is finalized on read.
func (s *GroupBuyService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, now, err := s.load(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{
		Group:            toAPIGroup(group),
		ServerTime:       now,
		RemainingSeconds: int64(lifecycle.Remaining(group, now) / time.Second),
	}), nil
}

// ListGroups returns the groups the caller leads, newest first.
func (s *GroupBuyService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	leaderID, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("ListGroups request received", "leader_id", leaderID)

	groups, err := s.store.ListGroupsByLeader(ctx, leaderID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}

	slog.Info("ListGroups successful", "count", len(out))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// JoinGroup adds the caller to the group behind an invite token.
// Joining again returns the existing participant.
func (s *GroupBuyService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("JoinGroup request received", "user_id", userID)

	groupID, slice, err := invite.Resolve(req.Msg.InviteToken)
	if err != nil {
		s.metrics.Joins.WithLabelValues("rejected").Inc()
		return nil, toConnectError(err)
	}

	var participantID string
	var joined bool
	group, _, err := s.update(ctx, groupID, func(g *models.Group, now time.Time) (bool, error) {
		if !invite.Matches(g, slice) {
			return false, invite.ErrTokenNotFound
		}
		before := len(g.Participants)
		p, err := lifecycle.Join(g, userID, now)
		if err != nil {
			return false, err
		}
		participantID = p.ID
		joined = len(g.Participants) > before
		return joined, nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		err = invite.ErrTokenNotFound
	}
	if err != nil {
		s.metrics.Joins.WithLabelValues("rejected").Inc()
		slog.Warn("JoinGroup rejected", "group_id", groupID, "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	if joined {
		s.metrics.Joins.WithLabelValues("joined").Inc()
		slog.Info("Friend joined", "group_id", groupID, "participant_id", participantID)
	} else {
		s.metrics.Joins.WithLabelValues("rejoined").Inc()
	}

	return connect.NewResponse(&api.JoinGroupResponse{
		Group:         toAPIGroup(group),
		ParticipantID: participantID,
	}), nil
}

// ConfirmPayment records a friend's payment. Redelivered confirmations are
// no-ops. The group succeeds at once when the last tier is reached.
func (s *GroupBuyService) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	slog.Info("ConfirmPayment request received",
		"group_id", req.Msg.GroupID,
		"participant_id", req.Msg.ParticipantID,
		"amount", req.Msg.Amount,
	)

	userID, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Amount < 0 {
		return nil, toConnectError(fmt.Errorf("%w: amount must not be negative", errInvalidArgument))
	}

	var recorded bool
	group, _, err := s.update(ctx, req.Msg.GroupID, func(g *models.Group, now time.Time) (bool, error) {
		p, ok := g.FindParticipant(req.Msg.ParticipantID)
		if !ok || p.Role != models.RoleMember {
			return false, lifecycle.ErrParticipantNotFound
		}
		if p.UserID != userID {
			return false, errNotParticipant
		}
		changed, err := lifecycle.MarkPaid(g, req.Msg.ParticipantID, req.Msg.Amount, now)
		if err != nil {
			return false, err
		}
		recorded = changed
		finalized, err := lifecycle.Finalize(g, now)
		if err != nil {
			return false, err
		}
		return changed || finalized, nil
	})
	if err != nil {
		s.metrics.PaymentsConfirmed.WithLabelValues("rejected").Inc()
		slog.Warn("ConfirmPayment rejected", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	if recorded {
		s.metrics.PaymentsConfirmed.WithLabelValues("recorded").Inc()
	} else {
		s.metrics.PaymentsConfirmed.WithLabelValues("duplicate").Inc()
	}

	return connect.NewResponse(&api.ConfirmPaymentResponse{
		Group:    toAPIGroup(group),
		Recorded: recorded,
	}), nil
}

// FinalizeGroup evaluates a group's deadline. Terminal groups are returned
// with their settlement; finalizing again changes nothing.
func (s *GroupBuyService) FinalizeGroup(ctx context.Context, req *connect.Request[api.FinalizeGroupRequest]) (*connect.Response[api.FinalizeGroupResponse], error) {
	slog.Info("FinalizeGroup request received", "group_id", req.Msg.GroupID)

	if _, err := callerID(ctx); err != nil {
		return nil, toConnectError(err)
	}

	group, _, err := s.load(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("FinalizeGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.FinalizeGroupResponse{Group: toAPIGroup(group)}
	if group.IsTerminal() {
		// Recording is idempotent; this also repairs a settlement lost after
		// the status was saved.
		settlement, err := s.recordSettlement(ctx, group)
		if err != nil {
			return nil, toConnectError(err)
		}
		resp.Settlement = toAPISettlement(settlement)
	}
	return connect.NewResponse(resp), nil
}

// SettleGroup returns the settlement of a closed group to its leader.
// It is recomputed from the closed group on every call.
func (s *GroupBuyService) SettleGroup(ctx context.Context, req *connect.Request[api.SettleGroupRequest]) (*connect.Response[api.SettleGroupResponse], error) {
	slog.Info("SettleGroup request received", "group_id", req.Msg.GroupID)

	userID, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	group, _, err := s.load(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if group.LeaderID != userID {
		return nil, toConnectError(errNotLeader)
	}

	policy, err := calculator.PolicyFor(group.Kind)
	if err != nil {
		return nil, toConnectError(err)
	}
	settlement, err := calculator.Settle(group, policy)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("SettleGroup successful",
		"group_id", group.ID,
		"outcome", settlement.Outcome,
		"delta", settlement.Delta,
	)
	return connect.NewResponse(&api.SettleGroupResponse{Settlement: toAPISettlement(settlement)}), nil
}
