package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
		wantErr  bool
	}{
		{input: "credit", expected: DirectionCredit},
		{input: " DEBIT ", expected: DirectionDebit},
		{input: "Credit", expected: DirectionCredit},
		{input: "refund", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDirection(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDirection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDirection_Sign(t *testing.T) {
	assert.Equal(t, int64(1), DirectionCredit.Sign())
	assert.Equal(t, int64(-1), DirectionDebit.Sign())
	assert.Equal(t, int64(0), Direction("other").Sign())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
	}{
		{input: "Office Supplies", expected: CategoryOfficeSupplies},
		{input: "office-supplies", expected: CategoryOfficeSupplies},
		{input: "MEALS", expected: CategoryMeals},
		{input: " fuel ", expected: CategoryFuel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseCategory(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		_, err := ParseCategory("groceries")
		assert.ErrorIs(t, err, ErrInvalidCategory)
		assert.Equal(t, CategoryUncategorized, CategoryOrUncategorized("groceries"))
	})
}

func TestCategory_Label(t *testing.T) {
	assert.Equal(t, "Office Supplies", CategoryOfficeSupplies.Label())
	assert.Equal(t, "Meals", CategoryMeals.Label())
	assert.Len(t, Categories(), 10)
	assert.Equal(t, CategoryUncategorized, Categories()[0])
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, TransactionStatusPendingApproval, NormalizeStatus(" PENDING_APPROVAL "))
}
