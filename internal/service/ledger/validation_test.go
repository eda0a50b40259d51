package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyram/expenseshare/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExpenseDeltas(t *testing.T) {
	payer := uuid.New()
	userB := uuid.New()
	userC := uuid.New()

	tests := []struct {
		name    string
		total   string
		splits  []SplitInput
		want    map[uuid.UUID]string
		wantErr error
	}{
		{
			name:  "payer covered in splits",
			total: "100.00",
			splits: []SplitInput{
				{UserID: payer, Amount: dec("25.00"), ShareType: domain.ShareTypeCustom},
				{UserID: userB, Amount: dec("75.00"), ShareType: domain.ShareTypeCustom},
			},
			want: map[uuid.UUID]string{
				payer: "75.00",
				userB: "-75.00",
			},
		},
		{
			name:  "payer not in splits owes nothing",
			total: "90.00",
			splits: []SplitInput{
				{UserID: userB, Amount: dec("45.00"), ShareType: domain.ShareTypeEqual},
				{UserID: userC, Amount: dec("45.00"), ShareType: domain.ShareTypeEqual},
			},
			want: map[uuid.UUID]string{
				payer: "90.00",
				userB: "-45.00",
				userC: "-45.00",
			},
		},
		{
			name:  "payer carries the whole expense",
			total: "50.00",
			splits: []SplitInput{
				{UserID: payer, Amount: dec("50.00"), ShareType: domain.ShareTypeCustom},
			},
			want: map[uuid.UUID]string{
				payer: "0.00",
			},
		},
		{
			name:  "duplicate split users are aggregated",
			total: "30.00",
			splits: []SplitInput{
				{UserID: userB, Amount: dec("10.00"), ShareType: domain.ShareTypeCustom},
				{UserID: userB, Amount: dec("5.00"), ShareType: domain.ShareTypeCustom},
				{UserID: userC, Amount: dec("15.00"), ShareType: domain.ShareTypeCustom},
			},
			want: map[uuid.UUID]string{
				payer: "30.00",
				userB: "-15.00",
				userC: "-15.00",
			},
		},
		{
			name:  "uneven three-way split",
			total: "100.00",
			splits: []SplitInput{
				{UserID: payer, Amount: dec("33.34"), ShareType: domain.ShareTypeEqual},
				{UserID: userB, Amount: dec("33.33"), ShareType: domain.ShareTypeEqual},
				{UserID: userC, Amount: dec("33.33"), ShareType: domain.ShareTypeEqual},
			},
			want: map[uuid.UUID]string{
				payer: "66.66",
				userB: "-33.33",
				userC: "-33.33",
			},
		},
		{
			name:  "splits short by a cent",
			total: "10.00",
			splits: []SplitInput{
				{UserID: userB, Amount: dec("9.99"), ShareType: domain.ShareTypeCustom},
			},
			wantErr: domain.ErrSplitSumMismatch,
		},
		{
			name:  "splits over by a cent",
			total: "10.00",
			splits: []SplitInput{
				{UserID: userB, Amount: dec("5.00"), ShareType: domain.ShareTypeCustom},
				{UserID: userC, Amount: dec("5.01"), ShareType: domain.ShareTypeCustom},
			},
			wantErr: domain.ErrSplitSumMismatch,
		},
		{
			name:  "sub-cent splits are rounded before comparison",
			total: "10.00",
			splits: []SplitInput{
				{UserID: userB, Amount: dec("4.995"), ShareType: domain.ShareTypeCustom},
				{UserID: userC, Amount: dec("5.005"), ShareType: domain.ShareTypeCustom},
			},
			// 4.995 rounds to 5.00 and 5.005 rounds to 5.00 (half-even).
			want: map[uuid.UUID]string{
				payer: "10.00",
				userB: "-5.00",
				userC: "-5.00",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deltas, err := expenseDeltas(payer, domain.Normalize(dec(tt.total)), tt.splits)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			require.Len(t, deltas, len(tt.want))
			for uid, want := range tt.want {
				got, ok := deltas[uid]
				require.True(t, ok, "missing delta for %s", uid)
				assert.Equal(t, want, got.StringFixed(2))
			}

			sum, zero := centsSum(deltas)
			assert.True(t, zero, "deltas sum to %d cents", sum)
		})
	}
}

func TestCentsSum(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	sum, zero := centsSum(map[uuid.UUID]decimal.Decimal{
		a: dec("12.34"),
		b: dec("-12.34"),
	})
	assert.True(t, zero)
	assert.Equal(t, int64(0), sum)

	sum, zero = centsSum(map[uuid.UUID]decimal.Decimal{
		a: dec("12.34"),
		b: dec("-12.33"),
	})
	assert.False(t, zero)
	assert.Equal(t, int64(1), sum)
}

func TestSortedUserIDs(t *testing.T) {
	deltas := map[uuid.UUID]decimal.Decimal{}
	for range 20 {
		deltas[uuid.New()] = decimal.Zero
	}

	ids := sortedUserIDs(deltas)
	require.Len(t, ids, 20)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1].String(), ids[i].String())
	}
}
