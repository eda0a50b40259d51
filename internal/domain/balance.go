package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is the materialized running total for one (group, user) pair.
// It is a derived cache of the ledger: Amount must always equal the sum
// of the pair's ledger entries, and can be rebuilt from them at any time.
// Version backs the optimistic save path; pessimistic writers rely on
// row locks instead.
type Balance struct {
	ID        uuid.UUID
	GroupID   uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal
	Version   int64
	CreatedBy uuid.UUID
	CreatedAt time.Time
}
