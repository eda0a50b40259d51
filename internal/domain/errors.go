package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidCurrency  = errors.New("invalid currency")
	ErrAmountOverflow   = errors.New("amount does not fit in integer cents")
	ErrEmptySplits      = errors.New("at least one split is required")
	ErrSplitSumMismatch = errors.New("split amounts must sum to the expense total")
	ErrSelfSettlement   = errors.New("payer and receiver cannot be the same user")
	ErrNotGroupMember   = errors.New("user is not an active member of the group")
	ErrNotGroupCreator  = errors.New("only the group creator may perform this action")
	ErrMemberExists     = errors.New("user is already an active member of the group")
	ErrUserExists       = errors.New("user already exists")
	ErrVersionConflict  = errors.New("optimistic lock conflict")
	ErrZeroSumViolation = errors.New("ledger deltas do not sum to zero")
)
