package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/seyram/expenseshare/internal/domain"
)

const groupColumns = `id, name, created_by, created_at`
const memberColumns = `id, group_id, user_id, status, joined_at`

type GroupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(ctx context.Context, tx *sql.Tx, g *domain.Group) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, created_by, created_at)
		VALUES ($1, $2, $3, $4)`,
		g.ID, g.Name, g.CreatedBy, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = $1`, id,
	)
	var g domain.Group
	if err := row.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &g, nil
}

func (r *GroupRepository) AddMember(ctx context.Context, e Execer, m *domain.GroupMember) error {
	_, err := e.ExecContext(ctx,
		`INSERT INTO group_members (id, group_id, user_id, status, joined_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.GroupID, m.UserID, m.Status, m.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("AddMember: %w", domain.ErrMemberExists)
		}
		return fmt.Errorf("AddMember: %w", err)
	}
	return nil
}

func (r *GroupRepository) UpdateMemberStatus(ctx context.Context, groupID, userID uuid.UUID, status domain.MemberStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE group_members SET status = $1 WHERE group_id = $2 AND user_id = $3`,
		status, groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateMemberStatus: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateMemberStatus: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateMemberStatus: %w", domain.ErrNotFound)
	}
	return nil
}

// IsActiveMember is the membership predicate the ledger engines consume.
func (r *GroupRepository) IsActiveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM group_members
			WHERE group_id = $1 AND user_id = $2 AND status = $3
		)`,
		groupID, userID, domain.MemberStatusActive,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("IsActiveMember: %w", err)
	}
	return exists, nil
}

func (r *GroupRepository) IsGroupCreator(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM groups WHERE id = $1 AND created_by = $2
		)`,
		groupID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("IsGroupCreator: %w", err)
	}
	return exists, nil
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]domain.GroupMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM group_members
		WHERE group_id = $1 ORDER BY joined_at`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListMembers: %w", err)
	}
	defer rows.Close()

	var members []domain.GroupMember
	for rows.Next() {
		var m domain.GroupMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Status, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("ListMembers: scan: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListMembers: rows: %w", err)
	}
	return members, nil
}

func (r *GroupRepository) ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1 AND gm.status = $2
		ORDER BY g.created_at`,
		userID, domain.MemberStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("ListGroupsForUser: %w", err)
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListGroupsForUser: scan: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListGroupsForUser: rows: %w", err)
	}
	return groups, nil
}
