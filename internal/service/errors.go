package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/sina38030/final-bahamm-sub002/internal/calculator"
	"github.com/sina38030/final-bahamm-sub002/internal/invite"
	"github.com/sina38030/final-bahamm-sub002/internal/lifecycle"
	"github.com/sina38030/final-bahamm-sub002/internal/storage"
)

var (
	errUnauthenticated = errors.New("caller is not authenticated")
	errNotParticipant  = errors.New("caller is not a participant of this group")
	errNotLeader       = errors.New("only the group leader can do this")
	errInvalidArgument = errors.New("invalid argument")
)

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, lifecycle.ErrGroupClosed),
		errors.Is(err, calculator.ErrSettlementNotReady):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, invite.ErrTokenNotFound),
		errors.Is(err, lifecycle.ErrParticipantNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, lifecycle.ErrInvalidGroup),
		errors.Is(err, lifecycle.ErrLeaderCannotJoin),
		errors.Is(err, calculator.ErrUnknownKind),
		errors.Is(err, calculator.ErrOutOfRange),
		errors.Is(err, errInvalidArgument):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, errNotParticipant),
		errors.Is(err, errNotLeader):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, errUnauthenticated):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAborted, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
