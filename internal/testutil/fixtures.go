package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/seyram/expenseshare/internal/domain"
)

func SeedTestUser(t *testing.T, db *sql.DB, email, name string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

// SeedTestGroup creates a group with the given members, creator first.
// Every member is seeded ACTIVE.
func SeedTestGroup(t *testing.T, db *sql.DB, name string, creatorID uuid.UUID, memberIDs ...uuid.UUID) *domain.Group {
	t.Helper()

	g := &domain.Group{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: creatorID,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.Exec(
		`INSERT INTO groups (id, name, created_by, created_at)
		 VALUES ($1, $2, $3, $4)`,
		g.ID, g.Name, g.CreatedBy, g.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test group %s: %v", name, err)
	}

	SeedGroupMember(t, db, g.ID, creatorID)
	for _, id := range memberIDs {
		SeedGroupMember(t, db, g.ID, id)
	}
	return g
}

func SeedGroupMember(t *testing.T, db *sql.DB, groupID, userID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO group_members (id, group_id, user_id, status, joined_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		uuid.New(), groupID, userID, domain.MemberStatusActive, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("seed group member %s: %v", userID, err)
	}
}

func GetBalance(t *testing.T, db *sql.DB, groupID, userID uuid.UUID) decimal.Decimal {
	t.Helper()

	var raw string
	err := db.QueryRow(
		`SELECT amount FROM balances WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	).Scan(&raw)
	if err != nil {
		t.Fatalf("get balance %s/%s: %v", groupID, userID, err)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse balance %q: %v", raw, err)
	}
	return amount
}

func GetBalanceVersion(t *testing.T, db *sql.DB, groupID, userID uuid.UUID) int64 {
	t.Helper()

	var version int64
	err := db.QueryRow(
		`SELECT version FROM balances WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	).Scan(&version)
	if err != nil {
		t.Fatalf("get balance version %s/%s: %v", groupID, userID, err)
	}
	return version
}

func SumLedger(t *testing.T, db *sql.DB, groupID, userID uuid.UUID) decimal.Decimal {
	t.Helper()

	var raw string
	err := db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	).Scan(&raw)
	if err != nil {
		t.Fatalf("sum ledger %s/%s: %v", groupID, userID, err)
	}
	sum, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse ledger sum %q: %v", raw, err)
	}
	return sum
}

func CountLedgerEntries(t *testing.T, db *sql.DB, relatedID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM ledger_entries WHERE related_id = $1`, relatedID).Scan(&count)
	if err != nil {
		t.Fatalf("count ledger entries for %s: %v", relatedID, err)
	}
	return count
}
