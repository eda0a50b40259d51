package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/seyram/expenseshare/internal/domain"
)

const expenseColumns = `id, group_id, description, amount, currency, created_by, created_at`

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, tx *sql.Tx, e *domain.Expense) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, currency, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.GroupID, e.Description, e.Amount, e.Currency, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) CreateSplit(ctx context.Context, tx *sql.Tx, s *domain.ExpenseSplit) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO expense_splits (id, expense_id, user_id, amount, share_type)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.ExpenseID, s.UserID, s.Amount, s.ShareType,
	)
	if err != nil {
		return fmt.Errorf("CreateSplit: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id,
	)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		WHERE group_id = $1 ORDER BY created_at DESC`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByGroup: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByGroup: scan: %w", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByGroup: rows: %w", err)
	}
	return expenses, nil
}

func (r *ExpenseRepository) ListSplits(ctx context.Context, expenseID uuid.UUID) ([]domain.ExpenseSplit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, expense_id, user_id, amount, share_type FROM expense_splits
		WHERE expense_id = $1 ORDER BY user_id`, expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListSplits: %w", err)
	}
	defer rows.Close()

	var splits []domain.ExpenseSplit
	for rows.Next() {
		var s domain.ExpenseSplit
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.UserID, &s.Amount, &s.ShareType); err != nil {
			return nil, fmt.Errorf("ListSplits: scan: %w", err)
		}
		splits = append(splits, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListSplits: rows: %w", err)
	}
	return splits, nil
}

func scanExpense(s scanner) (*domain.Expense, error) {
	var e domain.Expense
	err := s.Scan(
		&e.ID, &e.GroupID, &e.Description, &e.Amount, &e.Currency,
		&e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
