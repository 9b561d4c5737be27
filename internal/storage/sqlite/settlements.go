package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sina38030/final-bahamm-sub002/internal/models"
	"github.com/sina38030/final-bahamm-sub002/internal/storage"
)

// RecordSettlement persists the settlement of a group once. When the
// instruction requires money to move, a payment task is queued in the same
// transaction.
func (s *SQLiteStore) RecordSettlement(ctx context.Context, settlement *models.Settlement, instruction models.PaymentInstruction) (bool, error) {
	if settlement.CreatedAt.IsZero() {
		settlement.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO settlements (group_id, status, final_price, initial_payment, expected_friends,
		 paid_friends, raw_delta, delta, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(group_id) DO NOTHING`,
		settlement.GroupID, settlement.Status, settlement.FinalPrice, settlement.InitialLeaderPayment,
		settlement.ExpectedFriends, settlement.PaidFriends, settlement.RawDelta, settlement.Delta,
		settlement.Outcome, toMillis(settlement.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check inserted rows: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if instruction.Required {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO payment_tasks (id, group_id, amount, direction, status, created_at)
			 VALUES (?, ?, ?, ?, 'pending', ?)`,
			uuid.New().String(), settlement.GroupID, instruction.Amount, instruction.Direction,
			toMillis(settlement.CreatedAt),
		)
		if err != nil {
			return false, fmt.Errorf("failed to queue payment task: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// GetSettlement retrieves the recorded settlement of a group.
func (s *SQLiteStore) GetSettlement(ctx context.Context, groupID string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT group_id, status, final_price, initial_payment, expected_friends, paid_friends,
		 raw_delta, delta, outcome, created_at
		 FROM settlements WHERE group_id = ?`,
		groupID,
	).Scan(&settlement.GroupID, &settlement.Status, &settlement.FinalPrice, &settlement.InitialLeaderPayment,
		&settlement.ExpectedFriends, &settlement.PaidFriends, &settlement.RawDelta, &settlement.Delta,
		&settlement.Outcome, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settlement %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	settlement.CreatedAt = fromMillis(createdAt)

	return settlement, nil
}

// PendingPayments returns payment tasks not yet handed to the gateway, oldest first.
func (s *SQLiteStore) PendingPayments(ctx context.Context, limit int) ([]models.PaymentTask, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, amount, direction, attempts, last_error, created_at
		 FROM payment_tasks WHERE status = 'pending' ORDER BY created_at LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.PaymentTask
	for rows.Next() {
		var task models.PaymentTask
		var lastError sql.NullString
		var createdAt int64
		if err := rows.Scan(&task.ID, &task.GroupID, &task.Instruction.Amount, &task.Instruction.Direction,
			&task.Attempts, &lastError, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment task: %w", err)
		}
		task.Instruction.Required = true
		task.LastError = lastError.String
		task.CreatedAt = fromMillis(createdAt)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment tasks: %w", err)
	}
	return tasks, nil
}

// MarkPaymentSent marks a task as dispatched.
func (s *SQLiteStore) MarkPaymentSent(ctx context.Context, taskID string) error {
	return s.updatePaymentTask(ctx,
		"UPDATE payment_tasks SET status = 'sent', attempts = attempts + 1 WHERE id = ?",
		taskID)
}

// MarkPaymentFailed records a failed attempt; the task stays pending.
func (s *SQLiteStore) MarkPaymentFailed(ctx context.Context, taskID string, errMsg string) error {
	return s.updatePaymentTask(ctx,
		"UPDATE payment_tasks SET attempts = attempts + 1, last_error = ? WHERE id = ?",
		errMsg, taskID)
}

func (s *SQLiteStore) updatePaymentTask(ctx context.Context, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update payment task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("payment task: %w", storage.ErrNotFound)
	}
	return nil
}
