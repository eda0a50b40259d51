package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seyram/expenseshare/internal/domain"
	"github.com/seyram/expenseshare/internal/logging"
	"github.com/seyram/expenseshare/internal/repository"
)

type groupRepo interface {
	Create(ctx context.Context, tx *sql.Tx, g *domain.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	AddMember(ctx context.Context, e repository.Execer, m *domain.GroupMember) error
	UpdateMemberStatus(ctx context.Context, groupID, userID uuid.UUID, status domain.MemberStatus) error
	IsActiveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	IsGroupCreator(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]domain.GroupMember, error)
	ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error)
}

type userGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// GroupService owns group membership. The ledger engines consume it only
// through the IsActiveMember / IsGroupCreator predicates.
type GroupService struct {
	groups groupRepo
	users  userGetter
	db     *sql.DB
}

func NewGroupService(groups groupRepo, users userGetter, db *sql.DB) *GroupService {
	return &GroupService{groups: groups, users: users, db: db}
}

// CreateGroup creates the group and joins the creator as its first
// active member in one transaction.
func (s *GroupService) CreateGroup(ctx context.Context, name string, creatorID uuid.UUID) (*domain.Group, error) {
	log := logging.FromContext(ctx)

	if name == "" {
		return nil, fmt.Errorf("CreateGroup: name: %w", domain.ErrInvalidRequest)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("CreateGroup: begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	g := &domain.Group{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: creatorID,
		CreatedAt: now,
	}
	if err := s.groups.Create(ctx, tx, g); err != nil {
		return nil, fmt.Errorf("CreateGroup: %w", err)
	}

	member := &domain.GroupMember{
		ID:       uuid.New(),
		GroupID:  g.ID,
		UserID:   creatorID,
		Status:   domain.MemberStatusActive,
		JoinedAt: now,
	}
	if err := s.groups.AddMember(ctx, tx, member); err != nil {
		return nil, fmt.Errorf("CreateGroup: add creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("CreateGroup: commit: %w", err)
	}

	log.Info("group created", "group_id", g.ID, "created_by", creatorID)
	return g, nil
}

func (s *GroupService) AddMember(ctx context.Context, groupID, userID, actorID uuid.UUID) error {
	log := logging.FromContext(ctx)

	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return fmt.Errorf("AddMember: %w", err)
	}
	if err := s.requireCreator(ctx, groupID, actorID); err != nil {
		return fmt.Errorf("AddMember: %w", err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return fmt.Errorf("AddMember: user: %w", err)
	}

	member := &domain.GroupMember{
		ID:       uuid.New(),
		GroupID:  groupID,
		UserID:   userID,
		Status:   domain.MemberStatusActive,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.groups.AddMember(ctx, s.db, member); err != nil {
		if errors.Is(err, domain.ErrMemberExists) {
			// A previously removed member rejoins by flipping back to
			// ACTIVE instead of a second row.
			if err := s.groups.UpdateMemberStatus(ctx, groupID, userID, domain.MemberStatusActive); err != nil {
				return fmt.Errorf("AddMember: reactivate: %w", err)
			}
			log.Info("member reactivated", "group_id", groupID, "user_id", userID)
			return nil
		}
		return fmt.Errorf("AddMember: %w", err)
	}

	log.Info("member added", "group_id", groupID, "user_id", userID, "actor_id", actorID)
	return nil
}

// RemoveMember deactivates the membership. Ledger entries and balances
// for the user stay untouched; removal only blocks future events.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID, actorID uuid.UUID) error {
	log := logging.FromContext(ctx)

	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("RemoveMember: %w", err)
	}
	if err := s.requireCreator(ctx, groupID, actorID); err != nil {
		return fmt.Errorf("RemoveMember: %w", err)
	}
	if g.CreatedBy == userID {
		return fmt.Errorf("RemoveMember: creator cannot leave: %w", domain.ErrInvalidRequest)
	}

	if err := s.groups.UpdateMemberStatus(ctx, groupID, userID, domain.MemberStatusInactive); err != nil {
		return fmt.Errorf("RemoveMember: %w", err)
	}

	log.Info("member removed", "group_id", groupID, "user_id", userID, "actor_id", actorID)
	return nil
}

func (s *GroupService) ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	groups, err := s.groups.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ListGroupsForUser: %w", err)
	}
	return groups, nil
}

func (s *GroupService) ListMembers(ctx context.Context, groupID, actorID uuid.UUID) ([]domain.GroupMember, error) {
	ok, err := s.groups.IsActiveMember(ctx, groupID, actorID)
	if err != nil {
		return nil, fmt.Errorf("ListMembers: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("ListMembers: %w", domain.ErrNotGroupMember)
	}

	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("ListMembers: %w", err)
	}
	return members, nil
}

func (s *GroupService) requireCreator(ctx context.Context, groupID, actorID uuid.UUID) error {
	ok, err := s.groups.IsGroupCreator(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotGroupCreator
	}
	return nil
}
