package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/seyram/expenseshare/internal/domain"
)

const settlementColumns = `id, group_id, payer_id, receiver_id, amount,
	expense_id, status, created_by, created_at`

type SettlementRepository struct {
	db *sql.DB
}

func NewSettlementRepository(db *sql.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// Create accepts an Execer so the FAILED marker can be written against
// the pool after the enclosing transaction has rolled back.
func (r *SettlementRepository) Create(ctx context.Context, e Execer, s *domain.Settlement) error {
	_, err := e.ExecContext(ctx,
		`INSERT INTO settlements (
			id, group_id, payer_id, receiver_id, amount,
			expense_id, status, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.GroupID, s.PayerID, s.ReceiverID, s.Amount,
		s.ExpenseID, s.Status, s.CreatedBy, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *SettlementRepository) UpdateStatus(ctx context.Context, e Execer, id uuid.UUID, status domain.SettlementStatus) error {
	res, err := e.ExecContext(ctx,
		`UPDATE settlements SET status = $1 WHERE id = $2`, status, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateStatus: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateStatus: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *SettlementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = $1`, id,
	)
	s, err := scanSettlement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return s, nil
}

func (r *SettlementRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.Settlement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements
		WHERE group_id = $1 ORDER BY created_at DESC`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByGroup: %w", err)
	}
	defer rows.Close()

	var settlements []domain.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByGroup: scan: %w", err)
		}
		settlements = append(settlements, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByGroup: rows: %w", err)
	}
	return settlements, nil
}

func scanSettlement(s scanner) (*domain.Settlement, error) {
	var st domain.Settlement
	err := s.Scan(
		&st.ID, &st.GroupID, &st.PayerID, &st.ReceiverID, &st.Amount,
		&st.ExpenseID, &st.Status, &st.CreatedBy, &st.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
