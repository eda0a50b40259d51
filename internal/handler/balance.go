package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seyram/expenseshare/internal/auth"
	"github.com/seyram/expenseshare/internal/domain"
	"github.com/seyram/expenseshare/internal/logging"
)

type balanceService interface {
	ListBalances(ctx context.Context, groupID uuid.UUID) ([]domain.Balance, error)
	Recompute(ctx context.Context, groupID, userID uuid.UUID) (decimal.Decimal, error)
	Reconcile(ctx context.Context, groupID, userID uuid.UUID) (*domain.Balance, error)
	ReconcileGroup(ctx context.Context, groupID uuid.UUID) error
	ListLedgerEntries(ctx context.Context, groupID, userID uuid.UUID) ([]domain.LedgerEntry, error)
}

type BalanceHandler struct {
	balances balanceService
}

func NewBalanceHandler(balances balanceService) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

type balanceDTO struct {
	GroupID uuid.UUID       `json:"group_id"`
	UserID  uuid.UUID       `json:"user_id"`
	Amount  decimal.Decimal `json:"amount"`
	Version int64           `json:"version"`
}

type ledgerEntryDTO struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	EntryType string          `json:"entry_type"`
	RelatedID uuid.UUID       `json:"related_id"`
	CreatedAt time.Time       `json:"created_at"`
}

func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	balances, err := h.balances.ListBalances(r.Context(), groupID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]balanceDTO, 0, len(balances))
	for _, b := range balances {
		dtos = append(dtos, balanceDTO{
			GroupID: b.GroupID,
			UserID:  b.UserID,
			Amount:  b.Amount,
			Version: b.Version,
		})
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

// Recomputed returns the ledger-derived balance next to the stored one
// so a caller can detect drift without mutating anything.
func (h *BalanceHandler) Recomputed(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	sum, err := h.balances.Recompute(r.Context(), groupID, userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, balanceDTO{
		GroupID: groupID,
		UserID:  userID,
		Amount:  sum,
	})
}

func (h *BalanceHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	b, err := h.balances.Reconcile(r.Context(), groupID, userID)
	if err != nil {
		log.Warn("reconcile failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, balanceDTO{
		GroupID: b.GroupID,
		UserID:  b.UserID,
		Amount:  b.Amount,
		Version: b.Version,
	})
}

func (h *BalanceHandler) ReconcileGroup(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	if err := h.balances.ReconcileGroup(r.Context(), groupID); err != nil {
		log.Warn("group reconcile failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, nil)
}

func (h *BalanceHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	entries, err := h.balances.ListLedgerEntries(r.Context(), groupID, userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]ledgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, ledgerEntryDTO{
			ID:        e.ID,
			Amount:    e.Amount,
			Currency:  string(e.Currency),
			EntryType: string(e.EntryType),
			RelatedID: e.RelatedID,
			CreatedAt: e.CreatedAt,
		})
	}
	RespondSuccess(w, http.StatusOK, dtos)
}
