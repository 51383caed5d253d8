package reconciliation

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario() []ledger.Transaction {
	return []ledger.Transaction{
		debit("T3", day(3), 300, shared.CategoryMeals, "Canteen"),
		credit("T1", day(1), 500),
		debit("T2", day(2), 200, shared.CategoryFuel, "Shell"),
	}
}

func TestBuild(t *testing.T) {
	now := day(10)

	t.Run("OpenWindowReconcilesToCurrentBalance", func(t *testing.T) {
		report, err := Build(Input{History: scenario(), CurrentBalance: 1000, Now: now})
		require.NoError(t, err)

		assert.Equal(t, int64(1000), report.OpeningBalance)
		assert.Equal(t, int64(1000), report.ClosingBalance)
		assert.Equal(t, int64(500), report.Inflows)
		assert.Equal(t, int64(500), report.Outflows)
		assert.Equal(t, int64(0), report.NetMovement)
		assert.Equal(t, day(1), report.WindowStart)
		assert.Nil(t, report.WindowEnd)
		assert.Equal(t, now, report.GeneratedAt)
		assert.True(t, report.Reconciled)
		require.Len(t, report.Rows, 3)
		assert.Equal(t, "T1", report.Rows[0].ID)
		assert.Equal(t, int64(1500), report.Rows[0].ClosingBalance)
		assert.Equal(t, int64(1300), report.Rows[1].ClosingBalance)
	})

	t.Run("FromDateReconstructsOpening", func(t *testing.T) {
		report, err := Build(Input{
			History:        scenario(),
			CurrentBalance: 1000,
			Now:            now,
			Criteria:       Criteria{From: datePtr(day(2))},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1500), report.OpeningBalance)
		assert.Equal(t, int64(1000), report.ClosingBalance)
		assert.Equal(t, StartOfDay(day(2), time.UTC), report.WindowStart)
		assert.Equal(t, []string{"T2", "T3"}, []string{report.Rows[0].ID, report.Rows[1].ID})
		assert.True(t, report.Reconciled)
	})

	t.Run("BoundedWindowIsNotReconciled", func(t *testing.T) {
		report, err := Build(Input{
			History:        scenario(),
			CurrentBalance: 1000,
			Now:            now,
			Criteria:       Criteria{From: datePtr(day(1)), To: datePtr(day(2))},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1000), report.OpeningBalance)
		assert.Equal(t, int64(1300), report.ClosingBalance)
		require.NotNil(t, report.WindowEnd)
		assert.Equal(t, EndOfDay(day(2), time.UTC), *report.WindowEnd)
		assert.False(t, report.Reconciled)
	})

	t.Run("CategoryFilterKeepsWindowOpening", func(t *testing.T) {
		report, err := Build(Input{
			History:        scenario(),
			CurrentBalance: 1000,
			Now:            now,
			Criteria:       Criteria{From: datePtr(day(1)), Category: shared.CategoryMeals},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1000), report.OpeningBalance)
		assert.Equal(t, int64(700), report.ClosingBalance)
		assert.Len(t, report.Rows, 1)
		assert.False(t, report.Reconciled)
	})

	t.Run("EmptyHistory", func(t *testing.T) {
		report, err := Build(Input{CurrentBalance: 250, Now: now})
		require.NoError(t, err)

		assert.Equal(t, int64(250), report.OpeningBalance)
		assert.Equal(t, int64(250), report.ClosingBalance)
		assert.Zero(t, report.Inflows)
		assert.Zero(t, report.Outflows)
		assert.NotNil(t, report.Rows)
		assert.Empty(t, report.Rows)
		assert.Equal(t, now, report.WindowStart)
	})

	t.Run("Errors", func(t *testing.T) {
		invalid := scenario()
		invalid[1].Amount = -5

		tests := []struct {
			name     string
			input    Input
			expected error
		}{
			{name: "MissingNow", input: Input{History: scenario()}, expected: ErrMissingNow},
			{
				name:     "ToBeforeFrom",
				input:    Input{Now: now, Criteria: Criteria{From: datePtr(day(3)), To: datePtr(day(2))}},
				expected: ErrInvalidWindow,
			},
			{
				name:     "FromInFuture",
				input:    Input{Now: now, Criteria: Criteria{From: datePtr(day(11))}},
				expected: ErrWindowInFuture,
			},
			{name: "InvalidRecord", input: Input{History: invalid, Now: now}, expected: ledger.ErrInvalidTransaction},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				report, err := Build(tt.input)
				assert.Nil(t, report)
				assert.ErrorIs(t, err, tt.expected)
			})
		}
	})

	t.Run("InvalidRecordReportsField", func(t *testing.T) {
		invalid := scenario()
		invalid[2].Direction = "sideways"

		_, err := Build(Input{History: invalid, Now: now})

		var validationErr ledger.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "direction", validationErr.Field)
		assert.Equal(t, "T2", validationErr.TransactionID)
		assert.Contains(t, err.Error(), "history[2]")
	})

	t.Run("IsIdempotent", func(t *testing.T) {
		in := Input{
			History:        scenario(),
			CurrentBalance: 1000,
			Now:            now,
			Criteria:       Criteria{From: datePtr(day(2)), Search: "shell"},
		}
		first, err := Build(in)
		require.NoError(t, err)
		second, err := Build(in)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("DoesNotMutateHistory", func(t *testing.T) {
		history := scenario()
		_, err := Build(Input{History: history, CurrentBalance: 1000, Now: now})
		require.NoError(t, err)
		assert.Equal(t, scenario(), history)
	})
}

func TestBuild_Invariants(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	now := day(40)

	for i := 0; i < 100; i++ {
		history := randomHistory(r, r.Intn(60))
		current := int64(r.Intn(200000)) - 50000

		criteria := Criteria{}
		if r.Intn(2) == 0 {
			criteria.From = datePtr(day(r.Intn(30)))
		}

		report, err := Build(Input{History: history, CurrentBalance: current, Now: now, Criteria: criteria})
		require.NoError(t, err)
		require.NoError(t, report.Verify())

		// Unbounded and unfiltered windows always end at the current balance
		assert.Equal(t, current, report.ClosingBalance)
		assert.True(t, report.Reconciled)

		// Reconstructing at an instant after every transaction is the identity
		atNow, err := ReconstructBalanceAt(now, history, current)
		require.NoError(t, err)
		assert.Equal(t, current, atNow)
	}
}

func TestReport_Verify(t *testing.T) {
	report, err := Build(Input{History: scenario(), CurrentBalance: 1000, Now: day(10)})
	require.NoError(t, err)

	t.Run("BrokenChain", func(t *testing.T) {
		broken := *report
		broken.Rows = append([]Row(nil), report.Rows...)
		broken.Rows[1].OpeningBalance++
		assert.ErrorIs(t, broken.Verify(), ErrInconsistentReplay)
	})

	t.Run("BrokenTotals", func(t *testing.T) {
		broken := *report
		broken.Inflows++
		assert.ErrorIs(t, broken.Verify(), ErrInconsistentReplay)
	})

	t.Run("OutOfOrder", func(t *testing.T) {
		broken := *report
		broken.Rows = report.NewestFirst()
		assert.ErrorIs(t, broken.Verify(), ErrInconsistentReplay)
	})
}
