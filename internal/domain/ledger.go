package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypeExpense    EntryType = "EXPENSE"
	EntryTypeSettlement EntryType = "SETTLEMENT"
)

// LedgerEntry is an immutable signed monetary movement attributed to one
// (group, user) pair and one originating event. Entries are only ever
// inserted; the ledger is the audit trail every balance derives from.
type LedgerEntry struct {
	ID        uuid.UUID
	GroupID   uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal
	Currency  Currency
	EntryType EntryType
	RelatedID uuid.UUID
	CreatedBy uuid.UUID
	CreatedAt time.Time
}
