package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShareType string

const (
	ShareTypeEqual   ShareType = "EQUAL"
	ShareTypeCustom  ShareType = "CUSTOM"
	ShareTypePercent ShareType = "PERCENT"
)

func (s ShareType) IsValid() bool {
	switch s {
	case ShareTypeEqual, ShareTypeCustom, ShareTypePercent:
		return true
	}
	return false
}

// Expense is created once and never updated or deleted.
type Expense struct {
	ID          uuid.UUID
	GroupID     uuid.UUID
	Description string
	Amount      decimal.Decimal
	Currency    Currency
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
}

// ExpenseSplit is one user's assigned share of an expense total. The
// splits of an expense must sum to the total exactly in cents.
type ExpenseSplit struct {
	ID        uuid.UUID
	ExpenseID uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal
	ShareType ShareType
}
