package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/seyram/expenseshare/internal/auth"
	"github.com/seyram/expenseshare/internal/domain"
	"github.com/seyram/expenseshare/internal/logging"
)

type groupService interface {
	CreateGroup(ctx context.Context, name string, creatorID uuid.UUID) (*domain.Group, error)
	AddMember(ctx context.Context, groupID, userID, actorID uuid.UUID) error
	RemoveMember(ctx context.Context, groupID, userID, actorID uuid.UUID) error
	ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error)
	ListMembers(ctx context.Context, groupID, actorID uuid.UUID) ([]domain.GroupMember, error)
}

type GroupHandler struct {
	groups groupService
}

func NewGroupHandler(groups groupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type createGroupRequest struct {
	Name string `json:"name"`
}

func (r createGroupRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	return errs
}

type addMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

func (r addMemberRequest) Validate() []FieldError {
	var errs []FieldError
	if r.UserID == uuid.Nil {
		errs = append(errs, FieldError{Field: "user_id", Message: "required"})
	}
	return errs
}

type groupDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type memberDTO struct {
	UserID   uuid.UUID `json:"user_id"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

func toGroupDTO(g *domain.Group) groupDTO {
	return groupDTO{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	g, err := h.groups.CreateGroup(r.Context(), req.Name, userID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("group creation failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toGroupDTO(g))
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	groups, err := h.groups.ListGroupsForUser(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]groupDTO, 0, len(groups))
	for i := range groups {
		dtos = append(dtos, toGroupDTO(&groups[i]))
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
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

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	if err := h.groups.AddMember(r.Context(), groupID, req.UserID, userID); err != nil {
		logging.FromContext(r.Context()).Warn("add member failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, nil)
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
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
	memberID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	if err := h.groups.RemoveMember(r.Context(), groupID, memberID, userID); err != nil {
		logging.FromContext(r.Context()).Warn("remove member failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, nil)
}

func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.groups.ListMembers(r.Context(), groupID, userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]memberDTO, 0, len(members))
	for _, m := range members {
		dtos = append(dtos, memberDTO{
			UserID:   m.UserID,
			Status:   string(m.Status),
			JoinedAt: m.JoinedAt,
		})
	}
	RespondSuccess(w, http.StatusOK, dtos)
}
