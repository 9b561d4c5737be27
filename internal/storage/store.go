// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/sina38030/final-bahamm-sub002/internal/models"
)

var (
	// ErrNotFound is returned when a group or settlement does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by SaveGroup when the group was modified
	// concurrently. Callers reload and retry.
	ErrConflict = errors.New("version conflict")
)

// Store defines the interface for group storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group with its basket and participants.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its basket and participants.
	// Returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByLeader returns the groups a user started, newest first.
	ListGroupsByLeader(ctx context.Context, leaderID string) ([]*models.Group, error)

	// SaveGroup writes status, finalization and participant changes if the
	// stored version still matches group.Version, then bumps the version.
	// Returns ErrConflict otherwise.
	SaveGroup(ctx context.Context, group *models.Group) error

	// RecordSettlement stores the settlement of a group once, together with
	// its payment instruction when one is required. It reports false if a
	// settlement was already recorded for the group.
	RecordSettlement(ctx context.Context, settlement *models.Settlement, instruction models.PaymentInstruction) (bool, error)

	// GetSettlement returns the recorded settlement of a group.
	GetSettlement(ctx context.Context, groupID string) (*models.Settlement, error)

	// PendingPayments returns payment tasks waiting for dispatch.
	PendingPayments(ctx context.Context, limit int) ([]models.PaymentTask, error)

	// MarkPaymentSent marks a payment task as handed to the gateway.
	MarkPaymentSent(ctx context.Context, taskID string) error

	// MarkPaymentFailed records a failed dispatch attempt.
	MarkPaymentFailed(ctx context.Context, taskID string, errMsg string) error

	// Close releases any resources held by the store.
	Close() error
}
