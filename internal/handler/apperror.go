package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount    = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInvalidCurrency  = &AppError{http.StatusBadRequest, "INVALID_CURRENCY", "Invalid currency"}
	ErrAmountOverflow   = &AppError{http.StatusBadRequest, "AMOUNT_OVERFLOW", "Amount is too large"}
	ErrEmptySplits      = &AppError{http.StatusBadRequest, "EMPTY_SPLITS", "Expense requires at least one split"}
	ErrSplitSumMismatch = &AppError{http.StatusUnprocessableEntity, "SPLIT_SUM_MISMATCH", "Split amounts do not add up to the expense total"}
	ErrSelfSettlement   = &AppError{http.StatusUnprocessableEntity, "SELF_SETTLEMENT_NOT_ALLOWED", "Cannot settle with yourself"}
	ErrNotGroupMember   = &AppError{http.StatusForbidden, "NOT_GROUP_MEMBER", "User is not an active member of this group"}
	ErrNotGroupCreator  = &AppError{http.StatusForbidden, "NOT_GROUP_CREATOR", "Only the group creator can perform this action"}
	ErrMemberExists     = &AppError{http.StatusConflict, "MEMBER_ALREADY_EXISTS", "User is already a member of this group"}
	ErrUserExists       = &AppError{http.StatusConflict, "USER_ALREADY_EXISTS", "A user with this email already exists"}
	ErrVersionConflict  = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Balance was modified concurrently, please retry"}

	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
