package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/sina38030/final-bahamm-sub002/internal/invite"
	"github.com/sina38030/final-bahamm-sub002/internal/lifecycle"
	"github.com/sina38030/final-bahamm-sub002/internal/storage"
	"github.com/sina38030/final-bahamm-sub002/pkg/api"
)

// maxQRSize caps the edge length of rendered QR codes.
const maxQRSize = 1024

// GetInvite returns the invite token of a group with its share links and QR code.
// Any participant may share the group.
func (s *GroupBuyService) GetInvite(ctx context.Context, req *connect.Request[api.GetInviteRequest]) (*connect.Response[api.GetInviteResponse], error) {
	slog.Info("GetInvite request received", "group_id", req.Msg.GroupID)

	userID, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.QRSize < 0 || req.Msg.QRSize > maxQRSize {
		return nil, toConnectError(fmt.Errorf("%w: qr size must be between 0 and %d", errInvalidArgument, maxQRSize))
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, ok := group.FindParticipantByUser(userID); !ok {
		return nil, toConnectError(errNotParticipant)
	}

	token := group.InviteToken
	if token == "" {
		if token, err = invite.Issue(group); err != nil {
			return nil, toConnectError(err)
		}
	}

	png, err := s.linker.QRCode(token, req.Msg.QRSize)
	if err != nil {
		slog.Error("GetInvite QR failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	shareURLs := make(map[string]string, len(invite.Channels))
	for channel, link := range s.linker.ShareURLs(token) {
		shareURLs[string(channel)] = link
	}

	return connect.NewResponse(&api.GetInviteResponse{
		Token:     token,
		InviteURL: s.linker.InviteURL(token),
		ShareURLs: shareURLs,
		QRPng:     png,
		Message:   invite.Message,
	}), nil
}

// ResolveInvite returns the group behind a token. Tokens keep resolving
// after the group closed; Open tells whether it still admits friends.
func (s *GroupBuyService) ResolveInvite(ctx context.Context, req *connect.Request[api.ResolveInviteRequest]) (*connect.Response[api.ResolveInviteResponse], error) {
	slog.Info("ResolveInvite request received")

	groupID, slice, err := invite.Resolve(req.Msg.InviteToken)
	if err != nil {
		return nil, toConnectError(err)
	}

	group, now, err := s.load(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		err = invite.ErrTokenNotFound
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	if !invite.Matches(group, slice) {
		return nil, toConnectError(invite.ErrTokenNotFound)
	}

	return connect.NewResponse(&api.ResolveInviteResponse{
		Group:            toAPIGroup(group),
		Open:             lifecycle.IsOpen(group, now),
		RemainingSeconds: int64(lifecycle.Remaining(group, now) / time.Second),
	}), nil
}

// AcknowledgeEvent marks an event, such as a settlement dialog, as seen by
// the caller. FirstTime is true only once per event.
func (s *GroupBuyService) AcknowledgeEvent(ctx context.Context, req *connect.Request[api.AcknowledgeEventRequest]) (*connect.Response[api.AcknowledgeEventResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Event == "" {
		return nil, toConnectError(fmt.Errorf("%w: event is required", errInvalidArgument))
	}

	first, err := s.acks.Acknowledge(ctx, userID, req.Msg.Event)
	if err != nil {
		slog.Error("AcknowledgeEvent failed", "user_id", userID, "event", req.Msg.Event, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AcknowledgeEventResponse{FirstTime: first}), nil
}
