package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seyram/expenseshare/internal/auth"
	"github.com/seyram/expenseshare/internal/domain"
	"github.com/seyram/expenseshare/internal/logging"
	"github.com/seyram/expenseshare/internal/service/ledger"
)

type expenseService interface {
	CreateExpense(ctx context.Context, req ledger.CreateExpenseRequest, actorID uuid.UUID) (*domain.Expense, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*domain.Expense, []domain.ExpenseSplit, error)
	ListExpenses(ctx context.Context, groupID uuid.UUID) ([]domain.Expense, error)
}

type ExpenseHandler struct {
	expenses expenseService
}

func NewExpenseHandler(expenses expenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

type splitInput struct {
	UserID    uuid.UUID       `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	ShareType string          `json:"share_type"`
}

type createExpenseRequest struct {
	PayerID     uuid.UUID       `json:"payer_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Splits      []splitInput    `json:"splits"`
}

func (r createExpenseRequest) Validate() []FieldError {
	var errs []FieldError

	if r.PayerID == uuid.Nil {
		errs = append(errs, FieldError{Field: "payer_id", Message: "required"})
	}
	if r.Amount.Sign() <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	if r.Currency == "" {
		errs = append(errs, FieldError{Field: "currency", Message: "required"})
	} else if !domain.Currency(r.Currency).IsValid() {
		errs = append(errs, FieldError{Field: "currency", Message: "must be a 3-letter currency code"})
	}
	if len(r.Splits) == 0 {
		errs = append(errs, FieldError{Field: "splits", Message: "at least one split required"})
	}
	for _, s := range r.Splits {
		if s.UserID == uuid.Nil {
			errs = append(errs, FieldError{Field: "splits", Message: "split user_id required"})
		}
		if s.ShareType != "" && !domain.ShareType(s.ShareType).IsValid() {
			errs = append(errs, FieldError{Field: "splits", Message: "invalid share_type"})
		}
	}

	return errs
}

type expenseDTO struct {
	ID          uuid.UUID       `json:"id"`
	GroupID     uuid.UUID       `json:"group_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

type splitDTO struct {
	UserID    uuid.UUID       `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	ShareType string          `json:"share_type"`
}

type expenseDetailDTO struct {
	expenseDTO
	Splits []splitDTO `json:"splits"`
}

func toExpenseDTO(e *domain.Expense) expenseDTO {
	return expenseDTO{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    string(e.Currency),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	splits := make([]ledger.SplitInput, 0, len(req.Splits))
	for _, s := range req.Splits {
		shareType := domain.ShareTypeCustom
		if s.ShareType != "" {
			shareType = domain.ShareType(s.ShareType)
		}
		splits = append(splits, ledger.SplitInput{
			UserID:    s.UserID,
			Amount:    s.Amount,
			ShareType: shareType,
		})
	}

	e, err := h.expenses.CreateExpense(r.Context(), ledger.CreateExpenseRequest{
		GroupID:     groupID,
		PayerID:     req.PayerID,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    domain.Currency(req.Currency),
		Splits:      splits,
	}, userID)
	if err != nil {
		log.Warn("expense creation failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toExpenseDTO(e))
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	expenseID, err := uuid.Parse(chi.URLParam(r, "expenseID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	e, splits, err := h.expenses.GetExpense(r.Context(), expenseID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dto := expenseDetailDTO{expenseDTO: toExpenseDTO(e)}
	for _, s := range splits {
		dto.Splits = append(dto.Splits, splitDTO{
			UserID:    s.UserID,
			Amount:    s.Amount,
			ShareType: string(s.ShareType),
		})
	}
	RespondSuccess(w, http.StatusOK, dto)
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	expenses, err := h.expenses.ListExpenses(r.Context(), groupID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]expenseDTO, 0, len(expenses))
	for i := range expenses {
		dtos = append(dtos, toExpenseDTO(&expenses[i]))
	}
	RespondSuccess(w, http.StatusOK, dtos)
}
