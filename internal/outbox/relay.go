// Package outbox hands queued payment instructions to the payment collaborator.
// Settlements queue a task in the same transaction that records them; the
// relay polls those tasks and dispatches them, so a crash between the two
// never loses an instruction.
package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/sina38030/final-bahamm-sub002/internal/models"
)

// Store is the subset of storage.Store the relay needs.
type Store interface {
	PendingPayments(ctx context.Context, limit int) ([]models.PaymentTask, error)
	MarkPaymentSent(ctx context.Context, taskID string) error
	MarkPaymentFailed(ctx context.Context, taskID string, errMsg string) error
}

// Gateway executes payment instructions. Dispatch must be safe to retry:
// a task is sent again when marking it sent fails.
type Gateway interface {
	Dispatch(ctx context.Context, task models.PaymentTask) error
}

// LogGateway only logs the instructions it receives.
type LogGateway struct {
	log *slog.Logger
}

func NewLogGateway(log *slog.Logger) *LogGateway {
	return &LogGateway{log: log}
}

func (g *LogGateway) Dispatch(_ context.Context, task models.PaymentTask) error {
	g.log.Info("Payment instruction dispatched",
		"task_id", task.ID,
		"group_id", task.GroupID,
		"direction", task.Instruction.Direction,
		"amount", task.Instruction.Amount,
	)
	return nil
}

type Relay struct {
	log       *slog.Logger
	store     Store
	gateway   Gateway
	batchSize int
	interval  time.Duration
}

func NewRelay(log *slog.Logger, store Store, gateway Gateway, interval time.Duration) *Relay {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Relay{
		log:       log,
		store:     store,
		gateway:   gateway,
		batchSize: 50,
		interval:  interval,
	}
}

// Run dispatches pending tasks on every tick until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Outbox relay stopping")
			return nil
		case <-t.C:
			if _, err := r.DispatchPending(ctx); err != nil {
				r.log.Error("Outbox relay tick failed", "error", err)
			}
		}
	}
}

// DispatchPending sends one batch of pending tasks and returns how many were
// handed to the gateway. Failed tasks stay pending with their error recorded.
func (r *Relay) DispatchPending(ctx context.Context) (int, error) {
	tasks, err := r.store.PendingPayments(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, task := range tasks {
		if err := r.gateway.Dispatch(ctx, task); err != nil {
			r.log.Warn("Payment dispatch failed",
				"task_id", task.ID,
				"group_id", task.GroupID,
				"attempts", task.Attempts+1,
				"error", err,
			)
			if err := r.store.MarkPaymentFailed(ctx, task.ID, err.Error()); err != nil {
				r.log.Error("Failed to record dispatch failure", "task_id", task.ID, "error", err)
			}
			continue
		}
		if err := r.store.MarkPaymentSent(ctx, task.ID); err != nil {
			r.log.Error("Failed to mark payment sent", "task_id", task.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}
