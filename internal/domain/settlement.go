package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettlementStatus string

const (
	SettlementStatusPending   SettlementStatus = "PENDING"
	SettlementStatusCompleted SettlementStatus = "COMPLETED"
	SettlementStatusFailed    SettlementStatus = "FAILED"
)

// Settlement is a direct two-party transfer clearing debt inside a group.
// PENDING -> COMPLETED on success, PENDING -> FAILED when the optimistic
// balance update exhausts its retries.
type Settlement struct {
	ID         uuid.UUID
	GroupID    uuid.UUID
	PayerID    uuid.UUID
	ReceiverID uuid.UUID
	Amount     decimal.Decimal
	ExpenseID  *uuid.UUID
	Status     SettlementStatus
	CreatedBy  uuid.UUID
	CreatedAt  time.Time
}
