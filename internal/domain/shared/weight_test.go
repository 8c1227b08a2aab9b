package shared

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection(t *testing.T) {
	ten := decimal.NewFromInt(10)

	assert.True(t, DirectionAdd.Signed(ten).Equal(ten))
	assert.True(t, DirectionSubtract.Signed(ten).Equal(ten.Neg()))
	assert.Equal(t, DirectionSubtract, DirectionAdd.Inverse())
	assert.Equal(t, DirectionAdd, DirectionSubtract.Inverse())

	d, err := ParseDirection("subtract")
	require.NoError(t, err)
	assert.Equal(t, DirectionSubtract, d)

	_, err = ParseDirection("sideways")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestPercentOf(t *testing.T) {
	got := PercentOf(decimal.NewFromInt(48), decimal.RequireFromString("91.6"))
	assert.Equal(t, "43.968", got.String())

	assert.True(t, IsPercentage(decimal.Zero))
	assert.True(t, IsPercentage(Hundred))
	assert.False(t, IsPercentage(decimal.NewFromInt(-1)))
	assert.False(t, IsPercentage(decimal.RequireFromString("100.01")))
}

func TestDomainErrorIs(t *testing.T) {
	err := NotFound("item 7 not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "item 7 not found", err.Error())
}
