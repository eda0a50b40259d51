// Package ledger is the balance consistency engine: it turns expenses
// and settlements into zero-sum sets of ledger movements and keeps the
// materialized per-(group,user) balances equal to the ledger sum under
// concurrent writers.
package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seyram/expenseshare/internal/domain"
	"github.com/seyram/expenseshare/internal/repository"
)

const (
	maxSettleAttempts  = 3
	settleRetryBackoff = 50 * time.Millisecond
)

type expenseRepo interface {
	Create(ctx context.Context, tx *sql.Tx, e *domain.Expense) error
	CreateSplit(ctx context.Context, tx *sql.Tx, s *domain.ExpenseSplit) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.Expense, error)
	ListSplits(ctx context.Context, expenseID uuid.UUID) ([]domain.ExpenseSplit, error)
}

type settlementRepo interface {
	Create(ctx context.Context, e repository.Execer, s *domain.Settlement) error
	UpdateStatus(ctx context.Context, e repository.Execer, id uuid.UUID, status domain.SettlementStatus) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.Settlement, error)
}

type ledgerRepo interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error
	SumForGroupUser(ctx context.Context, q repository.Queryer, groupID, userID uuid.UUID) (decimal.Decimal, error)
	ListByGroupUser(ctx context.Context, groupID, userID uuid.UUID) ([]domain.LedgerEntry, error)
	ListByRelatedID(ctx context.Context, relatedID uuid.UUID) ([]domain.LedgerEntry, error)
}

type balanceRepo interface {
	Get(ctx context.Context, q repository.Queryer, groupID, userID uuid.UUID) (*domain.Balance, error)
	GetOrCreateForUpdate(ctx context.Context, tx *sql.Tx, groupID, userID, createdBy uuid.UUID) (*domain.Balance, error)
	GetOrCreate(ctx context.Context, tx *sql.Tx, groupID, userID, createdBy uuid.UUID) (*domain.Balance, error)
	Save(ctx context.Context, tx *sql.Tx, b *domain.Balance) error
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.Balance, error)
}

// membership is the black-box capability provided by the group
// collaborator. The engine never inspects membership storage itself.
type membership interface {
	IsActiveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

type Service struct {
	expenses    expenseRepo
	settlements settlementRepo
	ledger      ledgerRepo
	balances    balanceRepo
	members     membership
	db          *sql.DB
}

func NewService(
	expenses expenseRepo,
	settlements settlementRepo,
	ledger ledgerRepo,
	balances balanceRepo,
	members membership,
	db *sql.DB,
) *Service {
	return &Service{
		expenses:    expenses,
		settlements: settlements,
		ledger:      ledger,
		balances:    balances,
		members:     members,
		db:          db,
	}
}
