package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seyram/expenseshare/internal/domain"
	"github.com/seyram/expenseshare/internal/logging"
)

// Settle transfers amount from payer to receiver inside a group: a
// PENDING settlement row, a zero-sum pair of ledger entries, and the two
// balance deltas applied with optimistic retry. A conflicting concurrent
// writer is detected at save time via the balance version and the whole
// read-mutate-save cycle is retried a bounded number of times. The saves
// follow the same ascending user-id order every other balance writer
// uses, so two opposite-direction settlements queue on the first row
// instead of deadlocking on each other.
func (s *Service) Settle(ctx context.Context, groupID, payerID, receiverID uuid.UUID, amount decimal.Decimal, initiatorID uuid.UUID) (*domain.Settlement, error) {
	log := logging.FromContext(ctx)

	if err := s.validateSettlement(ctx, groupID, payerID, receiverID, amount, initiatorID); err != nil {
		return nil, fmt.Errorf("Settle: %w", err)
	}

	amt := domain.Normalize(amount)
	now := time.Now().UTC()
	stl := &domain.Settlement{
		ID:         uuid.New(),
		GroupID:    groupID,
		PayerID:    payerID,
		ReceiverID: receiverID,
		Amount:     amt,
		Status:     domain.SettlementStatusPending,
		CreatedBy:  initiatorID,
		CreatedAt:  now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Settle: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.settlements.Create(ctx, tx, stl); err != nil {
		return nil, fmt.Errorf("Settle: %w", err)
	}

	// Paying down a debt moves the payer toward zero and reduces the
	// receiver's credit by the same amount.
	entries := []*domain.LedgerEntry{
		{
			ID:        uuid.New(),
			GroupID:   groupID,
			UserID:    payerID,
			Amount:    amt,
			Currency:  domain.DefaultCurrency,
			EntryType: domain.EntryTypeSettlement,
			RelatedID: stl.ID,
			CreatedBy: initiatorID,
			CreatedAt: now,
		},
		{
			ID:        uuid.New(),
			GroupID:   groupID,
			UserID:    receiverID,
			Amount:    amt.Neg(),
			Currency:  domain.DefaultCurrency,
			EntryType: domain.EntryTypeSettlement,
			RelatedID: stl.ID,
			CreatedBy: initiatorID,
			CreatedAt: now,
		},
	}
	for _, e := range entries {
		if err := s.ledger.Create(ctx, tx, e); err != nil {
			return nil, fmt.Errorf("Settle: ledger entry: %w", err)
		}
	}

	if err := s.applySettlementDeltas(ctx, tx, stl, amt); err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			// Roll back the whole event (PENDING row and ledger pair
			// included), then record the failure outside the dead
			// transaction so it stays visible to callers.
			tx.Rollback()
			s.recordFailedSettlement(ctx, stl)
			log.Warn("settlement failed after retries",
				"settlement_id", stl.ID,
				"group_id", groupID,
				"payer_id", payerID,
				"receiver_id", receiverID,
			)
			return nil, fmt.Errorf("Settle: %w", err)
		}
		return nil, fmt.Errorf("Settle: %w", err)
	}

	if err := s.settlements.UpdateStatus(ctx, tx, stl.ID, domain.SettlementStatusCompleted); err != nil {
		return nil, fmt.Errorf("Settle: %w", err)
	}
	stl.Status = domain.SettlementStatusCompleted

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Settle: commit: %w", err)
	}

	log.Info("settlement completed",
		"settlement_id", stl.ID,
		"group_id", groupID,
		"payer_id", payerID,
		"receiver_id", receiverID,
		"amount", amt,
	)

	return stl, nil
}

func (s *Service) validateSettlement(ctx context.Context, groupID, payerID, receiverID uuid.UUID, amount decimal.Decimal, initiatorID uuid.UUID) error {
	if amount.Sign() <= 0 {
		return domain.ErrInvalidAmount
	}
	if payerID == receiverID {
		return domain.ErrSelfSettlement
	}
	if err := s.requireActiveMember(ctx, groupID, initiatorID, "initiator"); err != nil {
		return err
	}
	if err := s.requireActiveMember(ctx, groupID, payerID, "payer"); err != nil {
		return err
	}
	if err := s.requireActiveMember(ctx, groupID, receiverID, "receiver"); err != nil {
		return err
	}
	return nil
}

// applySettlementDeltas runs the optimistic read-mutate-save cycle. Each
// attempt starts from a savepoint so a half-applied attempt (payer saved,
// receiver conflicted) is fully undone before the next one.
func (s *Service) applySettlementDeltas(ctx context.Context, tx *sql.Tx, stl *domain.Settlement, amt decimal.Decimal) error {
	for attempt := 1; attempt <= maxSettleAttempts; attempt++ {
		if _, err := tx.ExecContext(ctx, "SAVEPOINT settle_apply"); err != nil {
			return fmt.Errorf("applySettlementDeltas: savepoint: %w", err)
		}

		err := s.applyOnce(ctx, tx, stl, amt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return fmt.Errorf("applySettlementDeltas: %w", err)
		}

		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT settle_apply"); rbErr != nil {
			return fmt.Errorf("applySettlementDeltas: rollback to savepoint: %w", rbErr)
		}
		if attempt < maxSettleAttempts {
			time.Sleep(settleRetryBackoff)
		}
	}
	return domain.ErrVersionConflict
}

// applyOnce reads, mutates and saves both balances. The first
// successful UPDATE holds its row lock until the transaction resolves,
// so the saves must run in the same ascending user-id order the expense
// engine locks in; otherwise two settlements in opposite directions
// wait on each other forever.
func (s *Service) applyOnce(ctx context.Context, tx *sql.Tx, stl *domain.Settlement, amt decimal.Decimal) error {
	deltas := map[uuid.UUID]decimal.Decimal{
		stl.PayerID:    amt,
		stl.ReceiverID: amt.Neg(),
	}
	for _, uid := range sortedUserIDs(deltas) {
		b, err := s.balances.GetOrCreate(ctx, tx, stl.GroupID, uid, stl.CreatedBy)
		if err != nil {
			return err
		}
		b.Amount = domain.Normalize(b.Amount.Add(deltas[uid]))
		if err := s.balances.Save(ctx, tx, b); err != nil {
			return err
		}
	}
	return nil
}

// recordFailedSettlement writes the FAILED row through the pool, outside
// the rolled-back transaction, so exhausted retries stay auditable
// instead of vanishing with the rollback.
func (s *Service) recordFailedSettlement(ctx context.Context, stl *domain.Settlement) {
	log := logging.FromContext(ctx)

	stl.Status = domain.SettlementStatusFailed
	if err := s.settlements.Create(ctx, s.db, stl); err != nil {
		log.Error("could not record failed settlement",
			"settlement_id", stl.ID,
			"error", err,
		)
	}
}

// GetSettlement returns the settlement and the ledger movements it
// produced. A FAILED settlement has none: its entries rolled back with
// the transaction and only the marker row survives.
func (s *Service) GetSettlement(ctx context.Context, id uuid.UUID) (*domain.Settlement, []domain.LedgerEntry, error) {
	stl, err := s.settlements.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("GetSettlement: %w", err)
	}
	entries, err := s.ledger.ListByRelatedID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("GetSettlement: entries: %w", err)
	}
	return stl, entries, nil
}

func (s *Service) ListSettlements(ctx context.Context, groupID uuid.UUID) ([]domain.Settlement, error) {
	settlements, err := s.settlements.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("ListSettlements: %w", err)
	}
	return settlements, nil
}
