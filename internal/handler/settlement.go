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
)

type settlementService interface {
	Settle(ctx context.Context, groupID, payerID, receiverID uuid.UUID, amount decimal.Decimal, initiatorID uuid.UUID) (*domain.Settlement, error)
	GetSettlement(ctx context.Context, id uuid.UUID) (*domain.Settlement, []domain.LedgerEntry, error)
	ListSettlements(ctx context.Context, groupID uuid.UUID) ([]domain.Settlement, error)
}

type SettlementHandler struct {
	settlements settlementService
}

func NewSettlementHandler(settlements settlementService) *SettlementHandler {
	return &SettlementHandler{settlements: settlements}
}

type createSettlementRequest struct {
	PayerID    uuid.UUID       `json:"payer_id"`
	ReceiverID uuid.UUID       `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
}

func (r createSettlementRequest) Validate() []FieldError {
	var errs []FieldError
	if r.PayerID == uuid.Nil {
		errs = append(errs, FieldError{Field: "payer_id", Message: "required"})
	}
	if r.ReceiverID == uuid.Nil {
		errs = append(errs, FieldError{Field: "receiver_id", Message: "required"})
	}
	if r.Amount.Sign() <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	return errs
}

type settlementDTO struct {
	ID         uuid.UUID       `json:"id"`
	GroupID    uuid.UUID       `json:"group_id"`
	PayerID    uuid.UUID       `json:"payer_id"`
	ReceiverID uuid.UUID       `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	CreatedBy  uuid.UUID       `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
}

type movementDTO struct {
	UserID   uuid.UUID       `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// settlementDetailDTO adds the ledger movements the settlement
// produced. A FAILED settlement carries an empty list.
type settlementDetailDTO struct {
	settlementDTO
	Movements []movementDTO `json:"movements"`
}

func toSettlementDTO(s *domain.Settlement) settlementDTO {
	return settlementDTO{
		ID:         s.ID,
		GroupID:    s.GroupID,
		PayerID:    s.PayerID,
		ReceiverID: s.ReceiverID,
		Amount:     s.Amount,
		Status:     string(s.Status),
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt,
	}
}

func (h *SettlementHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req createSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	stl, err := h.settlements.Settle(r.Context(), groupID, req.PayerID, req.ReceiverID, req.Amount, userID)
	if err != nil {
		log.Warn("settlement failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toSettlementDTO(stl))
}

func (h *SettlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	settlementID, err := uuid.Parse(chi.URLParam(r, "settlementID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	stl, entries, err := h.settlements.GetSettlement(r.Context(), settlementID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dto := settlementDetailDTO{
		settlementDTO: toSettlementDTO(stl),
		Movements:     make([]movementDTO, 0, len(entries)),
	}
	for _, e := range entries {
		dto.Movements = append(dto.Movements, movementDTO{
			UserID:   e.UserID,
			Amount:   e.Amount,
			Currency: string(e.Currency),
		})
	}
	RespondSuccess(w, http.StatusOK, dto)
}

func (h *SettlementHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	settlements, err := h.settlements.ListSettlements(r.Context(), groupID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]settlementDTO, 0, len(settlements))
	for i := range settlements {
		dtos = append(dtos, toSettlementDTO(&settlements[i]))
	}
	RespondSuccess(w, http.StatusOK, dtos)
}
