package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seyram/expenseshare/internal/domain"
)

const ledgerColumns = `id, group_id, user_id, amount, currency, entry_type,
	related_id, created_by, created_at`

// LedgerRepository only ever inserts. There is no update or delete
// statement anywhere in this file on purpose.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (
			id, group_id, user_id, amount, currency, entry_type,
			related_id, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.GroupID, entry.UserID, entry.Amount, entry.Currency,
		entry.EntryType, entry.RelatedID, entry.CreatedBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// SumForGroupUser returns the ledger-derived truth for one (group, user)
// pair. Pairs with no entries sum to zero, not absent.
func (r *LedgerRepository) SumForGroupUser(ctx context.Context, q Queryer, groupID, userID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM ledger_entries
		WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("SumForGroupUser: %w", err)
	}
	return domain.Normalize(sum), nil
}

func (r *LedgerRepository) ListByGroupUser(ctx context.Context, groupID, userID uuid.UUID) ([]domain.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		WHERE group_id = $1 AND user_id = $2 ORDER BY created_at`,
		groupID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByGroupUser: %w", err)
	}
	defer rows.Close()

	return collectLedgerEntries(rows, "ListByGroupUser")
}

func (r *LedgerRepository) ListByRelatedID(ctx context.Context, relatedID uuid.UUID) ([]domain.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		WHERE related_id = $1 ORDER BY created_at`, relatedID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByRelatedID: %w", err)
	}
	defer rows.Close()

	return collectLedgerEntries(rows, "ListByRelatedID")
}

func collectLedgerEntries(rows *sql.Rows, op string) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return entries, nil
}

func scanLedgerEntry(s scanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := s.Scan(
		&e.ID, &e.GroupID, &e.UserID, &e.Amount, &e.Currency,
		&e.EntryType, &e.RelatedID, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
