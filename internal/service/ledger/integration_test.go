package ledger_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyram/expenseshare/internal/domain"
	"github.com/seyram/expenseshare/internal/repository"
	"github.com/seyram/expenseshare/internal/service/ledger"
	"github.com/seyram/expenseshare/internal/testutil"
)

func setupLedgerService(t *testing.T, db *sql.DB) *ledger.Service {
	t.Helper()
	return ledger.NewService(
		repository.NewExpenseRepository(db),
		repository.NewSettlementRepository(db),
		repository.NewLedgerRepository(db),
		repository.NewBalanceRepository(db),
		repository.NewGroupRepository(db),
		db,
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateExpense_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	payer := testutil.SeedTestUser(t, db, "payer@test.com", "Payer")
	userB := testutil.SeedTestUser(t, db, "debtor@test.com", "Debtor")
	group := testutil.SeedTestGroup(t, db, "trip", payer.ID, userB.ID)

	e, err := svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:     group.ID,
		PayerID:     payer.ID,
		Description: "dinner",
		Amount:      dec("100.00"),
		Currency:    domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: payer.ID, Amount: dec("25.00"), ShareType: domain.ShareTypeCustom},
			{UserID: userB.ID, Amount: dec("75.00"), ShareType: domain.ShareTypeCustom},
		},
	}, payer.ID)

	require.NoError(t, err)
	assert.Equal(t, "100.00", e.Amount.StringFixed(2))

	assert.Equal(t, "75.00", testutil.GetBalance(t, db, group.ID, payer.ID).StringFixed(2))
	assert.Equal(t, "-75.00", testutil.GetBalance(t, db, group.ID, userB.ID).StringFixed(2))

	// one entry per non-zero delta
	assert.Equal(t, 2, testutil.CountLedgerEntries(t, db, e.ID))

	assert.True(t, testutil.SumLedger(t, db, group.ID, payer.ID).Equal(testutil.GetBalance(t, db, group.ID, payer.ID)))
	assert.True(t, testutil.SumLedger(t, db, group.ID, userB.ID).Equal(testutil.GetBalance(t, db, group.ID, userB.ID)))
}

func TestCreateExpense_PayerCoversOwnShareOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	payer := testutil.SeedTestUser(t, db, "solo@test.com", "Solo")
	group := testutil.SeedTestGroup(t, db, "solo-group", payer.ID)

	e, err := svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:  group.ID,
		PayerID:  payer.ID,
		Amount:   dec("50.00"),
		Currency: domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: payer.ID, Amount: dec("50.00"), ShareType: domain.ShareTypeCustom},
		},
	}, payer.ID)

	require.NoError(t, err)

	// zero delta: no ledger movement, but the balance row exists at 0
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, e.ID))
	assert.Equal(t, "0.00", testutil.GetBalance(t, db, group.ID, payer.ID).StringFixed(2))
}

func TestCreateExpense_SplitSumMismatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	payer := testutil.SeedTestUser(t, db, "p@test.com", "P")
	userB := testutil.SeedTestUser(t, db, "b@test.com", "B")
	group := testutil.SeedTestGroup(t, db, "mismatch", payer.ID, userB.ID)

	_, err := svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:  group.ID,
		PayerID:  payer.ID,
		Amount:   dec("10.00"),
		Currency: domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: userB.ID, Amount: dec("9.99"), ShareType: domain.ShareTypeCustom},
		},
	}, payer.ID)
	require.ErrorIs(t, err, domain.ErrSplitSumMismatch)

	// nothing written
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM expenses WHERE group_id = $1`, group.ID).Scan(&count))
	assert.Zero(t, count)

	// exact sum is accepted
	_, err = svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:  group.ID,
		PayerID:  payer.ID,
		Amount:   dec("10.00"),
		Currency: domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: userB.ID, Amount: dec("10.00"), ShareType: domain.ShareTypeCustom},
		},
	}, payer.ID)
	require.NoError(t, err)
}

func TestCreateExpense_NonMemberRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	payer := testutil.SeedTestUser(t, db, "member@test.com", "Member")
	outsider := testutil.SeedTestUser(t, db, "outsider@test.com", "Outsider")
	group := testutil.SeedTestGroup(t, db, "closed", payer.ID)

	_, err := svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:  group.ID,
		PayerID:  payer.ID,
		Amount:   dec("20.00"),
		Currency: domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: outsider.ID, Amount: dec("20.00"), ShareType: domain.ShareTypeCustom},
		},
	}, payer.ID)
	require.ErrorIs(t, err, domain.ErrNotGroupMember)

	_, err = svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:  group.ID,
		PayerID:  payer.ID,
		Amount:   dec("20.00"),
		Currency: domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: payer.ID, Amount: dec("20.00"), ShareType: domain.ShareTypeCustom},
		},
	}, outsider.ID)
	require.ErrorIs(t, err, domain.ErrNotGroupMember)
}

func TestSettle_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	payer := testutil.SeedTestUser(t, db, "alice@test.com", "Alice")
	userB := testutil.SeedTestUser(t, db, "bob@test.com", "Bob")
	group := testutil.SeedTestGroup(t, db, "flat", payer.ID, userB.ID)

	_, err := svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:  group.ID,
		PayerID:  payer.ID,
		Amount:   dec("100.00"),
		Currency: domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: payer.ID, Amount: dec("25.00"), ShareType: domain.ShareTypeCustom},
			{UserID: userB.ID, Amount: dec("75.00"), ShareType: domain.ShareTypeCustom},
		},
	}, payer.ID)
	require.NoError(t, err)

	// Bob pays Alice back part of the debt.
	stl, err := svc.Settle(ctx, group.ID, userB.ID, payer.ID, dec("10.00"), userB.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementStatusCompleted, stl.Status)

	assert.Equal(t, "65.00", testutil.GetBalance(t, db, group.ID, payer.ID).StringFixed(2))
	assert.Equal(t, "-65.00", testutil.GetBalance(t, db, group.ID, userB.ID).StringFixed(2))

	assert.Equal(t, 2, testutil.CountLedgerEntries(t, db, stl.ID))
	assert.True(t, testutil.SumLedger(t, db, group.ID, payer.ID).Equal(testutil.GetBalance(t, db, group.ID, payer.ID)))
	assert.True(t, testutil.SumLedger(t, db, group.ID, userB.ID).Equal(testutil.GetBalance(t, db, group.ID, userB.ID)))
}

func TestSettle_SelfRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	u := testutil.SeedTestUser(t, db, "self@test.com", "Self")
	group := testutil.SeedTestGroup(t, db, "self-group", u.ID)

	_, err := svc.Settle(ctx, group.ID, u.ID, u.ID, dec("5.00"), u.ID)
	require.ErrorIs(t, err, domain.ErrSelfSettlement)
}

func TestSettle_InvalidAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	a := testutil.SeedTestUser(t, db, "a@test.com", "A")
	b := testutil.SeedTestUser(t, db, "b2@test.com", "B")
	group := testutil.SeedTestGroup(t, db, "amounts", a.ID, b.ID)

	_, err := svc.Settle(ctx, group.ID, a.ID, b.ID, dec("0.00"), a.ID)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Settle(ctx, group.ID, a.ID, b.ID, dec("-1.00"), a.ID)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestConcurrentExpenses_NoDeadlockAndLedgerMatches(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	payerA := testutil.SeedTestUser(t, db, "ca@test.com", "CA")
	payerB := testutil.SeedTestUser(t, db, "cb@test.com", "CB")
	shared := testutil.SeedTestUser(t, db, "cs@test.com", "CS")
	group := testutil.SeedTestGroup(t, db, "concurrent", payerA.ID, payerB.ID, shared.ID)

	const perPayer = 10
	var wg sync.WaitGroup
	errs := make(chan error, perPayer*2)

	run := func(payerID uuid.UUID) {
		defer wg.Done()
		for range perPayer {
			_, err := svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
				GroupID:  group.ID,
				PayerID:  payerID,
				Amount:   dec("9.00"),
				Currency: domain.DefaultCurrency,
				Splits: []ledger.SplitInput{
					{UserID: payerA.ID, Amount: dec("3.00"), ShareType: domain.ShareTypeEqual},
					{UserID: payerB.ID, Amount: dec("3.00"), ShareType: domain.ShareTypeEqual},
					{UserID: shared.ID, Amount: dec("3.00"), ShareType: domain.ShareTypeEqual},
				},
			}, payerID)
			if err != nil {
				errs <- err
			}
		}
	}

	wg.Add(2)
	go run(payerA.ID)
	go run(payerB.ID)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent expense failed: %v", err)
	}

	for _, uid := range []uuid.UUID{payerA.ID, payerB.ID, shared.ID} {
		balance := testutil.GetBalance(t, db, group.ID, uid)
		ledgerSum := testutil.SumLedger(t, db, group.ID, uid)
		assert.True(t, balance.Equal(ledgerSum),
			"user %s: balance %s != ledger sum %s", uid, balance, ledgerSum)
	}

	// each payer fronted 90.00 and owes 60.00 across the 20 expenses
	assert.Equal(t, "30.00", testutil.GetBalance(t, db, group.ID, payerA.ID).StringFixed(2))
	assert.Equal(t, "30.00", testutil.GetBalance(t, db, group.ID, payerB.ID).StringFixed(2))
	assert.Equal(t, "-60.00", testutil.GetBalance(t, db, group.ID, shared.ID).StringFixed(2))
}

func TestConcurrentSettlements_AllApplied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	a := testutil.SeedTestUser(t, db, "sa@test.com", "SA")
	b := testutil.SeedTestUser(t, db, "sb@test.com", "SB")
	group := testutil.SeedTestGroup(t, db, "settle-race", a.ID, b.ID)

	const workers = 4
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			if _, err := svc.Settle(ctx, group.ID, a.ID, b.ID, dec("1.00"), a.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent settlement failed: %v", err)
	}

	assert.Equal(t, "4.00", testutil.GetBalance(t, db, group.ID, a.ID).StringFixed(2))
	assert.Equal(t, "-4.00", testutil.GetBalance(t, db, group.ID, b.ID).StringFixed(2))
	assert.True(t, testutil.SumLedger(t, db, group.ID, a.ID).Equal(testutil.GetBalance(t, db, group.ID, a.ID)))
}

func TestConcurrentSettlements_OppositeDirections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	a := testutil.SeedTestUser(t, db, "oa@test.com", "OA")
	b := testutil.SeedTestUser(t, db, "ob@test.com", "OB")
	group := testutil.SeedTestGroup(t, db, "opposite", a.ID, b.ID)

	_, err := svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:  group.ID,
		PayerID:  a.ID,
		Amount:   dec("20.00"),
		Currency: domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: b.ID, Amount: dec("20.00"), ShareType: domain.ShareTypeCustom},
		},
	}, a.ID)
	require.NoError(t, err)

	// b pays a back while a simultaneously settles toward b: the two
	// calls touch the same balance pair in opposite directions.
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := svc.Settle(ctx, group.ID, b.ID, a.ID, dec("5.00"), b.ID); err != nil {
			errs <- err
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := svc.Settle(ctx, group.ID, a.ID, b.ID, dec("2.00"), a.ID); err != nil {
			errs <- err
		}
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("opposite-direction settlement failed: %v", err)
	}

	settlements, err := svc.ListSettlements(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, settlements, 2)
	for _, stl := range settlements {
		assert.Equal(t, domain.SettlementStatusCompleted, stl.Status)
	}

	assert.Equal(t, "17.00", testutil.GetBalance(t, db, group.ID, a.ID).StringFixed(2))
	assert.Equal(t, "-17.00", testutil.GetBalance(t, db, group.ID, b.ID).StringFixed(2))
	assert.True(t, testutil.SumLedger(t, db, group.ID, a.ID).Equal(testutil.GetBalance(t, db, group.ID, a.ID)))
	assert.True(t, testutil.SumLedger(t, db, group.ID, b.ID).Equal(testutil.GetBalance(t, db, group.ID, b.ID)))
}

// contestedBalanceRepo commits a competing version bump through the pool
// right before every save, so each optimistic attempt loses its version
// check.
type contestedBalanceRepo struct {
	*repository.BalanceRepository
	db *sql.DB
}

func (r *contestedBalanceRepo) Save(ctx context.Context, tx *sql.Tx, b *domain.Balance) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE balances SET version = version + 1 WHERE id = $1`, b.ID,
	); err != nil {
		return err
	}
	return r.BalanceRepository.Save(ctx, tx, b)
}

func TestSettle_RetryExhaustionRecordsFailed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	a := testutil.SeedTestUser(t, db, "fa@test.com", "FA")
	b := testutil.SeedTestUser(t, db, "fb@test.com", "FB")
	group := testutil.SeedTestGroup(t, db, "exhausted", a.ID, b.ID)

	_, err := svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:  group.ID,
		PayerID:  a.ID,
		Amount:   dec("30.00"),
		Currency: domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: b.ID, Amount: dec("30.00"), ShareType: domain.ShareTypeCustom},
		},
	}, a.ID)
	require.NoError(t, err)

	contested := ledger.NewService(
		repository.NewExpenseRepository(db),
		repository.NewSettlementRepository(db),
		repository.NewLedgerRepository(db),
		&contestedBalanceRepo{repository.NewBalanceRepository(db), db},
		repository.NewGroupRepository(db),
		db,
	)

	_, err = contested.Settle(ctx, group.ID, b.ID, a.ID, dec("10.00"), b.ID)
	require.ErrorIs(t, err, domain.ErrVersionConflict)

	// the marker row survives the rollback
	settlements, err := svc.ListSettlements(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.Equal(t, domain.SettlementStatusFailed, settlements[0].Status)

	stl, entries, err := svc.GetSettlement(ctx, settlements[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementStatusFailed, stl.Status)
	assert.Empty(t, entries)
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, stl.ID))

	// ledger and balances are exactly as before the attempt
	assert.Equal(t, "30.00", testutil.GetBalance(t, db, group.ID, a.ID).StringFixed(2))
	assert.Equal(t, "-30.00", testutil.GetBalance(t, db, group.ID, b.ID).StringFixed(2))
	assert.True(t, testutil.SumLedger(t, db, group.ID, a.ID).Equal(testutil.GetBalance(t, db, group.ID, a.ID)))
	assert.True(t, testutil.SumLedger(t, db, group.ID, b.ID).Equal(testutil.GetBalance(t, db, group.ID, b.ID)))
}

func TestSettle_MovementsVisibleOnDetail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	a := testutil.SeedTestUser(t, db, "ma@test.com", "MA")
	b := testutil.SeedTestUser(t, db, "mb@test.com", "MB")
	group := testutil.SeedTestGroup(t, db, "movements", a.ID, b.ID)

	stl, err := svc.Settle(ctx, group.ID, a.ID, b.ID, dec("8.00"), a.ID)
	require.NoError(t, err)

	got, entries, err := svc.GetSettlement(ctx, stl.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementStatusCompleted, got.Status)
	require.Len(t, entries, 2)

	byUser := map[uuid.UUID]string{}
	for _, e := range entries {
		byUser[e.UserID] = e.Amount.StringFixed(2)
	}
	assert.Equal(t, "8.00", byUser[a.ID])
	assert.Equal(t, "-8.00", byUser[b.ID])
}

func TestReconcileGroup_RepairsDriftedRows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	a := testutil.SeedTestUser(t, db, "ga@test.com", "GA")
	b := testutil.SeedTestUser(t, db, "gb@test.com", "GB")
	c := testutil.SeedTestUser(t, db, "gc@test.com", "GC")
	group := testutil.SeedTestGroup(t, db, "group-reconcile", a.ID, b.ID, c.ID)

	_, err := svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:  group.ID,
		PayerID:  a.ID,
		Amount:   dec("60.00"),
		Currency: domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: a.ID, Amount: dec("20.00"), ShareType: domain.ShareTypeEqual},
			{UserID: b.ID, Amount: dec("20.00"), ShareType: domain.ShareTypeEqual},
			{UserID: c.ID, Amount: dec("20.00"), ShareType: domain.ShareTypeEqual},
		},
	}, a.ID)
	require.NoError(t, err)

	// drift two of the three rows behind the ledger's back
	_, err = db.Exec(`UPDATE balances SET amount = 123.45 WHERE group_id = $1 AND user_id = $2`, group.ID, b.ID)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE balances SET amount = -999.99 WHERE group_id = $1 AND user_id = $2`, group.ID, c.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ReconcileGroup(ctx, group.ID))

	assert.Equal(t, "40.00", testutil.GetBalance(t, db, group.ID, a.ID).StringFixed(2))
	assert.Equal(t, "-20.00", testutil.GetBalance(t, db, group.ID, b.ID).StringFixed(2))
	assert.Equal(t, "-20.00", testutil.GetBalance(t, db, group.ID, c.ID).StringFixed(2))

	// a second pass is a no-op
	require.NoError(t, svc.ReconcileGroup(ctx, group.ID))
	assert.Equal(t, "40.00", testutil.GetBalance(t, db, group.ID, a.ID).StringFixed(2))
}

func TestReconcile_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	payer := testutil.SeedTestUser(t, db, "rec@test.com", "Rec")
	userB := testutil.SeedTestUser(t, db, "rec2@test.com", "Rec2")
	group := testutil.SeedTestGroup(t, db, "reconcile", payer.ID, userB.ID)

	_, err := svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:  group.ID,
		PayerID:  payer.ID,
		Amount:   dec("40.00"),
		Currency: domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: userB.ID, Amount: dec("40.00"), ShareType: domain.ShareTypeCustom},
		},
	}, payer.ID)
	require.NoError(t, err)

	// drift the materialized row behind the ledger's back
	_, err = db.Exec(`UPDATE balances SET amount = 999.99 WHERE group_id = $1 AND user_id = $2`, group.ID, payer.ID)
	require.NoError(t, err)

	b, err := svc.Reconcile(ctx, group.ID, payer.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", b.Amount.StringFixed(2))

	// a second reconcile is a no-op on the amount
	b2, err := svc.Reconcile(ctx, group.ID, payer.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", b2.Amount.StringFixed(2))
}

func TestRecompute_DoesNotMutate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	payer := testutil.SeedTestUser(t, db, "ro@test.com", "RO")
	userB := testutil.SeedTestUser(t, db, "ro2@test.com", "RO2")
	group := testutil.SeedTestGroup(t, db, "readonly", payer.ID, userB.ID)

	_, err := svc.CreateExpense(ctx, ledger.CreateExpenseRequest{
		GroupID:  group.ID,
		PayerID:  payer.ID,
		Amount:   dec("12.00"),
		Currency: domain.DefaultCurrency,
		Splits: []ledger.SplitInput{
			{UserID: userB.ID, Amount: dec("12.00"), ShareType: domain.ShareTypeCustom},
		},
	}, payer.ID)
	require.NoError(t, err)

	versionBefore := testutil.GetBalanceVersion(t, db, group.ID, payer.ID)

	sum, err := svc.Recompute(ctx, group.ID, payer.ID)
	require.NoError(t, err)
	assert.Equal(t, "12.00", sum.StringFixed(2))

	assert.Equal(t, versionBefore, testutil.GetBalanceVersion(t, db, group.ID, payer.ID))
}
