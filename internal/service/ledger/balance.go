package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seyram/expenseshare/internal/domain"
	"github.com/seyram/expenseshare/internal/logging"
)

// Recompute returns the ledger-derived balance for one (group, user)
// pair without touching the materialized row.
func (s *Service) Recompute(ctx context.Context, groupID, userID uuid.UUID) (decimal.Decimal, error) {
	sum, err := s.ledger.SumForGroupUser(ctx, s.db, groupID, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Recompute: %w", err)
	}
	return sum, nil
}

// Reconcile overwrites the materialized balance with the ledger-derived
// truth, under the same lock discipline as any other writer.
func (s *Service) Reconcile(ctx context.Context, groupID, userID uuid.UUID) (*domain.Balance, error) {
	log := logging.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Reconcile: begin tx: %w", err)
	}
	defer tx.Rollback()

	b, err := s.balances.GetOrCreateForUpdate(ctx, tx, groupID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("Reconcile: %w", err)
	}

	sum, err := s.ledger.SumForGroupUser(ctx, tx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("Reconcile: %w", err)
	}

	b.Amount = sum
	if err := s.balances.Save(ctx, tx, b); err != nil {
		return nil, fmt.Errorf("Reconcile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Reconcile: commit: %w", err)
	}

	log.Info("balance reconciled",
		"group_id", groupID,
		"user_id", userID,
		"amount", sum,
	)

	return b, nil
}

// ReconcileGroup reconciles every pair with an existing balance row,
// locking in ascending user-id order so overlapping reconciliation runs
// cannot deadlock each other or the expense engine.
func (s *Service) ReconcileGroup(ctx context.Context, groupID uuid.UUID) error {
	log := logging.FromContext(ctx)

	existing, err := s.balances.ListByGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("ReconcileGroup: %w", err)
	}
	if len(existing) == 0 {
		return nil
	}

	userIDs := make([]uuid.UUID, 0, len(existing))
	for _, b := range existing {
		userIDs = append(userIDs, b.UserID)
	}
	sort.Slice(userIDs, func(i, j int) bool {
		return userIDs[i].String() < userIDs[j].String()
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReconcileGroup: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, userID := range userIDs {
		b, err := s.balances.GetOrCreateForUpdate(ctx, tx, groupID, userID, userID)
		if err != nil {
			return fmt.Errorf("ReconcileGroup: %w", err)
		}
		sum, err := s.ledger.SumForGroupUser(ctx, tx, groupID, userID)
		if err != nil {
			return fmt.Errorf("ReconcileGroup: %w", err)
		}
		b.Amount = sum
		if err := s.balances.Save(ctx, tx, b); err != nil {
			return fmt.Errorf("ReconcileGroup: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ReconcileGroup: commit: %w", err)
	}

	log.Info("group reconciled", "group_id", groupID, "users", len(userIDs))
	return nil
}

func (s *Service) ListBalances(ctx context.Context, groupID uuid.UUID) ([]domain.Balance, error) {
	balances, err := s.balances.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("ListBalances: %w", err)
	}
	return balances, nil
}

func (s *Service) ListLedgerEntries(ctx context.Context, groupID, userID uuid.UUID) ([]domain.LedgerEntry, error) {
	entries, err := s.ledger.ListByGroupUser(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("ListLedgerEntries: %w", err)
	}
	return entries, nil
}

func (s *Service) ListExpenses(ctx context.Context, groupID uuid.UUID) ([]domain.Expense, error) {
	expenses, err := s.expenses.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("ListExpenses: %w", err)
	}
	return expenses, nil
}
