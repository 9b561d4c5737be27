// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/sina38030/final-bahamm-sub002/internal/models"
	"github.com/sina38030/final-bahamm-sub002/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers; SQLite allows one at a time anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateGroup persists a new group with its basket and participants.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, kind, leader_id, created_at, expires_at, status, min_joiners,
		 initial_payment, expected_friends, payment_authority, invite_token, finalized_at, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Kind, group.LeaderID, toMillis(group.CreatedAt), toMillis(group.ExpiresAt),
		group.Status, group.MinJoinersForSuccess, group.InitialLeaderPayment, group.ExpectedFriends,
		group.PaymentAuthority, group.InviteToken, nullMillis(group.FinalizedAt), group.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, item := range group.Basket.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO basket_items (group_id, position, product_id, name, quantity, solo_price,
			 market_price, base_price, friend1_price, friend2_price, friend3_price)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			group.ID, i, item.ProductID, item.Name, item.Quantity, item.SoloPrice,
			item.MarketPrice, item.BasePrice,
			nullPrice(item.Friend1Price), nullPrice(item.Friend2Price), nullPrice(item.Friend3Price),
		)
		if err != nil {
			return fmt.Errorf("failed to insert basket item: %w", err)
		}
	}

	for _, p := range group.Participants {
		if err := upsertParticipant(ctx, tx, &p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including its basket and participants.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var createdAt, expiresAt int64
	var finalizedAt sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, kind, leader_id, created_at, expires_at, status, min_joiners, initial_payment,
		 expected_friends, payment_authority, invite_token, finalized_at, version
		 FROM groups WHERE id = ?`,
		groupID,
	).Scan(&group.ID, &group.Kind, &group.LeaderID, &createdAt, &expiresAt, &group.Status,
		&group.MinJoinersForSuccess, &group.InitialLeaderPayment, &group.ExpectedFriends,
		&group.PaymentAuthority, &group.InviteToken, &finalizedAt, &group.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.CreatedAt = fromMillis(createdAt)
	group.ExpiresAt = fromMillis(expiresAt)
	group.FinalizedAt = fromNullMillis(finalizedAt)

	if group.Basket.Items, err = s.getBasketItems(ctx, groupID); err != nil {
		return nil, err
	}
	if group.Participants, err = s.getParticipants(ctx, groupID); err != nil {
		return nil, err
	}

	return group, nil
}

func (s *SQLiteStore) getBasketItems(ctx context.Context, groupID string) ([]models.BasketItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, name, quantity, solo_price, market_price, base_price,
		 friend1_price, friend2_price, friend3_price
		 FROM basket_items WHERE group_id = ? ORDER BY position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get basket items: %w", err)
	}
	defer rows.Close()

	var items []models.BasketItem
	for rows.Next() {
		var item models.BasketItem
		var f1, f2, f3 sql.NullInt64
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.SoloPrice,
			&item.MarketPrice, &item.BasePrice, &f1, &f2, &f3); err != nil {
			return nil, fmt.Errorf("failed to scan basket item: %w", err)
		}
		item.Friend1Price = fromNullPrice(f1)
		item.Friend2Price = fromNullPrice(f2)
		item.Friend3Price = fromNullPrice(f3)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate basket items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) getParticipants(ctx context.Context, groupID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, user_id, role, joined_at, paid, payment_amount, paid_at
		 FROM participants WHERE group_id = ? ORDER BY joined_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		var joinedAt int64
		var paidAt sql.NullInt64
		if err := rows.Scan(&p.ID, &p.GroupID, &p.UserID, &p.Role, &joinedAt, &p.Paid,
			&p.PaymentAmount, &paidAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.JoinedAt = fromMillis(joinedAt)
		p.PaidAt = fromNullMillis(paidAt)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// ListGroupsByLeader returns the groups started by a leader, newest first.
func (s *SQLiteStore) ListGroupsByLeader(ctx context.Context, leaderID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM groups WHERE leader_id = ? ORDER BY created_at DESC",
		leaderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by leader: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		group, err := s.GetGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// SaveGroup writes the mutable parts of a group under an optimistic version check.
func (s *SQLiteStore) SaveGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE groups SET status = ?, finalized_at = ?, invite_token = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		group.Status, nullMillis(group.FinalizedAt), group.InviteToken, group.ID, group.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", group.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check group existence: %w", err)
		}
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrConflict)
	}

	for i := range group.Participants {
		if err := upsertParticipant(ctx, tx, &group.Participants[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	group.Version++
	return nil
}

// upsertParticipant inserts a participant or flips its paid flag.
// A paid participant is never written again.
func upsertParticipant(ctx context.Context, tx *sql.Tx, p *models.Participant) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO participants (id, group_id, user_id, role, joined_at, paid, payment_amount, paid_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     paid = excluded.paid,
		     payment_amount = excluded.payment_amount,
		     paid_at = excluded.paid_at
		 WHERE participants.paid = 0 AND excluded.paid = 1`,
		p.ID, p.GroupID, p.UserID, p.Role, toMillis(p.JoinedAt), p.Paid, p.PaymentAmount, nullMillis(p.PaidAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert participant: %w", err)
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullMillis(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

func nullPrice(p *int64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func fromNullPrice(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return models.Price(v.Int64)
}
