package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seyram/expenseshare/internal/domain"
	"github.com/seyram/expenseshare/internal/logging"
)

type SplitInput struct {
	UserID    uuid.UUID
	Amount    decimal.Decimal
	ShareType domain.ShareType
}

type CreateExpenseRequest struct {
	GroupID     uuid.UUID
	PayerID     uuid.UUID
	Description string
	Amount      decimal.Decimal
	Currency    domain.Currency
	Splits      []SplitInput
}

// CreateExpense records an expense with its splits, appends the resulting
// zero-sum ledger movements and applies them to the materialized
// balances, all inside one transaction. Balance rows are locked in
// ascending user-id order; the same total order across all callers is
// what rules out circular waits between overlapping expenses.
func (s *Service) CreateExpense(ctx context.Context, req CreateExpenseRequest, actorID uuid.UUID) (*domain.Expense, error) {
	log := logging.FromContext(ctx)

	if err := s.validateExpense(ctx, req, actorID); err != nil {
		return nil, fmt.Errorf("CreateExpense: %w", err)
	}

	total := domain.Normalize(req.Amount)
	deltas, err := expenseDeltas(req.PayerID, total, req.Splits)
	if err != nil {
		return nil, fmt.Errorf("CreateExpense: %w", err)
	}

	// Input passed validation, so a non-zero delta sum can only be an
	// engine bug. Abort before anything is written and leave a loud
	// trace for whoever has to chase it.
	if sum, zero := centsSum(deltas); !zero {
		log.Error("expense deltas do not sum to zero",
			"group_id", req.GroupID,
			"payer_id", req.PayerID,
			"cents_off", sum,
		)
		return nil, fmt.Errorf("CreateExpense: %w", domain.ErrZeroSumViolation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("CreateExpense: begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	exp := &domain.Expense{
		ID:          uuid.New(),
		GroupID:     req.GroupID,
		Description: req.Description,
		Amount:      total,
		Currency:    req.Currency,
		CreatedBy:   actorID,
		CreatedAt:   now,
	}
	if err := s.expenses.Create(ctx, tx, exp); err != nil {
		return nil, fmt.Errorf("CreateExpense: %w", err)
	}

	for _, sp := range req.Splits {
		split := &domain.ExpenseSplit{
			ID:        uuid.New(),
			ExpenseID: exp.ID,
			UserID:    sp.UserID,
			Amount:    domain.Normalize(sp.Amount),
			ShareType: sp.ShareType,
		}
		if err := s.expenses.CreateSplit(ctx, tx, split); err != nil {
			return nil, fmt.Errorf("CreateExpense: %w", err)
		}
	}

	ordered := sortedUserIDs(deltas)

	// Ledger first: one entry per non-zero delta.
	for _, uid := range ordered {
		delta := deltas[uid]
		if delta.IsZero() {
			continue
		}
		entry := &domain.LedgerEntry{
			ID:        uuid.New(),
			GroupID:   req.GroupID,
			UserID:    uid,
			Amount:    delta,
			Currency:  req.Currency,
			EntryType: domain.EntryTypeExpense,
			RelatedID: exp.ID,
			CreatedBy: actorID,
			CreatedAt: now,
		}
		if err := s.ledger.Create(ctx, tx, entry); err != nil {
			return nil, fmt.Errorf("CreateExpense: ledger entry: %w", err)
		}
	}

	// Lock every affected balance before mutating any of them.
	locked := make(map[uuid.UUID]*domain.Balance, len(ordered))
	for _, uid := range ordered {
		b, err := s.balances.GetOrCreateForUpdate(ctx, tx, req.GroupID, uid, actorID)
		if err != nil {
			return nil, fmt.Errorf("CreateExpense: lock balance: %w", err)
		}
		locked[uid] = b
	}

	for _, uid := range ordered {
		b := locked[uid]
		b.Amount = domain.Normalize(b.Amount.Add(deltas[uid]))
		if err := s.balances.Save(ctx, tx, b); err != nil {
			return nil, fmt.Errorf("CreateExpense: save balance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("CreateExpense: commit: %w", err)
	}

	log.Info("expense created",
		"expense_id", exp.ID,
		"group_id", exp.GroupID,
		"payer_id", req.PayerID,
		"amount", exp.Amount,
		"currency", exp.Currency,
		"participants", len(ordered),
	)

	return exp, nil
}

func (s *Service) validateExpense(ctx context.Context, req CreateExpenseRequest, actorID uuid.UUID) error {
	if req.Amount.Sign() <= 0 {
		return domain.ErrInvalidAmount
	}
	if len(req.Splits) == 0 {
		return domain.ErrEmptySplits
	}
	if !req.Currency.IsValid() {
		return domain.ErrInvalidCurrency
	}

	if err := s.requireActiveMember(ctx, req.GroupID, actorID, "actor"); err != nil {
		return err
	}
	if err := s.requireActiveMember(ctx, req.GroupID, req.PayerID, "payer"); err != nil {
		return err
	}
	for _, sp := range req.Splits {
		if !sp.ShareType.IsValid() {
			return fmt.Errorf("split for user %s: %w", sp.UserID, domain.ErrInvalidRequest)
		}
		if err := s.requireActiveMember(ctx, req.GroupID, sp.UserID, "split user"); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) requireActiveMember(ctx context.Context, groupID, userID uuid.UUID, role string) error {
	ok, err := s.members.IsActiveMember(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("membership check: %w", err)
	}
	if !ok {
		return fmt.Errorf("%s %s: %w", role, userID, domain.ErrNotGroupMember)
	}
	return nil
}

// expenseDeltas turns the split list into per-user balance deltas.
// Duplicate splits for the same user are summed first. Every non-payer
// delta is the negated share; the payer's delta is total minus their own
// share, which keeps the set zero-sum even when the payer appears in the
// splits. Fails when the splits do not sum to the total exactly in cents.
func expenseDeltas(payerID uuid.UUID, total decimal.Decimal, splits []SplitInput) (map[uuid.UUID]decimal.Decimal, error) {
	totalCents, err := domain.ToCents(total)
	if err != nil {
		return nil, err
	}

	shares := make(map[uuid.UUID]decimal.Decimal, len(splits))
	var sumCents int64
	for _, sp := range splits {
		amt := domain.Normalize(sp.Amount)
		cents, err := domain.ToCents(amt)
		if err != nil {
			return nil, err
		}
		sumCents += cents
		shares[sp.UserID] = domain.Normalize(shares[sp.UserID].Add(amt))
	}

	if sumCents != totalCents {
		return nil, fmt.Errorf("splits sum to %s, total is %s: %w",
			domain.FromCents(sumCents), domain.FromCents(totalCents), domain.ErrSplitSumMismatch)
	}

	deltas := make(map[uuid.UUID]decimal.Decimal, len(shares)+1)
	for uid, share := range shares {
		if uid == payerID {
			continue
		}
		deltas[uid] = domain.Normalize(share.Neg())
	}
	deltas[payerID] = domain.Normalize(total.Sub(shares[payerID]))

	return deltas, nil
}

// centsSum reports the delta sum in integer cents and whether it is zero.
func centsSum(deltas map[uuid.UUID]decimal.Decimal) (int64, bool) {
	var sum int64
	for _, d := range deltas {
		cents, err := domain.ToCents(d)
		if err != nil {
			return sum, false
		}
		sum += cents
	}
	return sum, sum == 0
}

func (s *Service) GetExpense(ctx context.Context, id uuid.UUID) (*domain.Expense, []domain.ExpenseSplit, error) {
	e, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("GetExpense: %w", err)
	}
	splits, err := s.expenses.ListSplits(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("GetExpense: splits: %w", err)
	}
	return e, splits, nil
}

func sortedUserIDs(deltas map[uuid.UUID]decimal.Decimal) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(deltas))
	for uid := range deltas {
		ids = append(ids, uid)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
