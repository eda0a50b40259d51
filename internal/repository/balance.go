package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seyram/expenseshare/internal/domain"
)

const balanceColumns = `id, group_id, user_id, amount, version, created_by, created_at`

type BalanceRepository struct {
	db *sql.DB
}

func NewBalanceRepository(db *sql.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) Get(ctx context.Context, q Queryer, groupID, userID uuid.UUID) (*domain.Balance, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+balanceColumns+` FROM balances
		WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	)
	b, err := scanBalance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("Get: %w", err)
	}
	return b, nil
}

// GetForUpdate takes an exclusive row lock held until the enclosing
// transaction commits or rolls back.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, groupID, userID uuid.UUID) (*domain.Balance, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+balanceColumns+` FROM balances
		WHERE group_id = $1 AND user_id = $2 FOR UPDATE`,
		groupID, userID,
	)
	b, err := scanBalance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return b, nil
}

// GetOrCreateForUpdate inserts a zero balance row when none exists, then
// locks it. A concurrent insert of the same (group, user) pair is
// absorbed by ON CONFLICT DO NOTHING and resolved by the locked re-read,
// so row creation is idempotent under racing writers.
func (r *BalanceRepository) GetOrCreateForUpdate(ctx context.Context, tx *sql.Tx, groupID, userID, createdBy uuid.UUID) (*domain.Balance, error) {
	if err := r.insertZero(ctx, tx, groupID, userID, createdBy); err != nil {
		return nil, fmt.Errorf("GetOrCreateForUpdate: %w", err)
	}
	b, err := r.GetForUpdate(ctx, tx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("GetOrCreateForUpdate: %w", err)
	}
	return b, nil
}

// GetOrCreate is the lock-free variant used by the optimistic settlement
// path: same idempotent creation, no FOR UPDATE.
func (r *BalanceRepository) GetOrCreate(ctx context.Context, tx *sql.Tx, groupID, userID, createdBy uuid.UUID) (*domain.Balance, error) {
	if err := r.insertZero(ctx, tx, groupID, userID, createdBy); err != nil {
		return nil, fmt.Errorf("GetOrCreate: %w", err)
	}
	b, err := r.Get(ctx, tx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("GetOrCreate: %w", err)
	}
	return b, nil
}

func (r *BalanceRepository) insertZero(ctx context.Context, tx *sql.Tx, groupID, userID, createdBy uuid.UUID) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO balances (id, group_id, user_id, amount, version, created_by, created_at)
		VALUES ($1, $2, $3, 0, 1, $4, $5)
		ON CONFLICT (group_id, user_id) DO NOTHING`,
		uuid.New(), groupID, userID, createdBy, time.Now().UTC(),
	)
	return err
}

// Save persists the balance at its current version and bumps the version
// by one. Zero rows affected means a concurrent writer got there first;
// under a pessimistic lock that cannot happen, so the same statement
// serves both write paths.
func (r *BalanceRepository) Save(ctx context.Context, tx *sql.Tx, b *domain.Balance) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE balances SET amount = $1, version = version + 1
		WHERE id = $2 AND version = $3`,
		b.Amount, b.ID, b.Version,
	)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Save: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Save: %w", domain.ErrVersionConflict)
	}
	b.Version++
	return nil
}

func (r *BalanceRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.Balance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+balanceColumns+` FROM balances
		WHERE group_id = $1 ORDER BY user_id`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByGroup: %w", err)
	}
	defer rows.Close()

	var balances []domain.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByGroup: scan: %w", err)
		}
		balances = append(balances, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByGroup: rows: %w", err)
	}
	return balances, nil
}

func scanBalance(s scanner) (*domain.Balance, error) {
	var b domain.Balance
	err := s.Scan(
		&b.ID, &b.GroupID, &b.UserID, &b.Amount, &b.Version,
		&b.CreatedBy, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
