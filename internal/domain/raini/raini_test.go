package raini

import (
	"errors"
	"testing"

	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeComposition(t *testing.T) {
	t.Run("three quarter purity", func(t *testing.T) {
		c, err := ComputeComposition(d("100"), d("75"), d("33.33"), d("66.67"))
		require.NoError(t, err)

		assert.Equal(t, "133.33", c.TotalWeight.Round(2).String())
		assert.Equal(t, "33.33", c.ImpuritiesWeight.Round(2).String())
		assert.Equal(t, "11.11", c.CopperWeight.Round(2).String())
		assert.Equal(t, "22.22", c.SilverWeight.Round(2).String())
	})

	t.Run("alloy weights add up to impurities", func(t *testing.T) {
		cases := []struct{ pure, purity, copper, silver string }{
			{"100", "75", "33.33", "66.67"},
			{"12.5", "91.6", "50", "50"},
			{"7.777", "58.3", "0", "100"},
			{"250", "99.9", "100", "0"},
			{"1", "33.3333", "12.3456", "87.6544"},
		}
		for _, tc := range cases {
			c, err := ComputeComposition(d(tc.pure), d(tc.purity), d(tc.copper), d(tc.silver))
			require.NoError(t, err)
			sum := c.CopperWeight.Add(c.SilverWeight)
			assert.True(t, sum.Sub(c.ImpuritiesWeight).Abs().LessThan(d("0.000001")),
				"copper+silver=%s impurities=%s", sum, c.ImpuritiesWeight)
			assert.True(t, c.TotalWeight.Sub(c.PureGoldWeight).Equal(c.ImpuritiesWeight))
		}
	})

	t.Run("pure input needs no alloy", func(t *testing.T) {
		c, err := ComputeComposition(d("10"), d("100"), d("50"), d("50"))
		require.NoError(t, err)
		assert.True(t, c.ImpuritiesWeight.IsZero())
		assert.True(t, c.CopperWeight.IsZero())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		cases := []struct{ pure, purity, copper, silver string }{
			{"0", "75", "50", "50"},
			{"-1", "75", "50", "50"},
			{"100", "0", "50", "50"},
			{"100", "100.5", "50", "50"},
			{"100", "75", "40", "50"},
			{"100", "75", "-10", "110"},
		}
		for _, tc := range cases {
			_, err := ComputeComposition(d(tc.pure), d(tc.purity), d(tc.copper), d(tc.silver))
			assert.True(t, errors.Is(err, shared.ErrInvalidInput), "%+v", tc)
		}
	})
}

func TestBalancePercentages(t *testing.T) {
	c, s := BalancePercentages(d("30"), d("10"), MetalCopper)
	assert.Equal(t, "30", c.String())
	assert.Equal(t, "70", s.String())

	c, s = BalancePercentages(d("30"), d("10"), MetalSilver)
	assert.Equal(t, "90", c.String())
	assert.Equal(t, "10", s.String())

	c, s = BalancePercentages(d("120"), d("0"), MetalCopper)
	assert.Equal(t, "120", c.String())
	assert.Equal(t, "0", s.String())

	c, s = BalancePercentages(d("30"), d("10"), "")
	assert.Equal(t, "30", c.String())
	assert.Equal(t, "10", s.String())
}

func TestComputeWithCorrection(t *testing.T) {
	t.Run("one balancing pass from the edited metal", func(t *testing.T) {
		c, err := ComputeWithCorrection(d("100"), d("75"), d("40"), d("50"), MetalCopper)
		require.NoError(t, err)
		assert.Equal(t, "40", c.CopperPercentage.String())
		assert.Equal(t, "60", c.SilverPercentage.String())
	})

	t.Run("still invalid after balancing", func(t *testing.T) {
		_, err := ComputeWithCorrection(d("100"), d("75"), d("120"), d("0"), MetalCopper)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("no correction without an edited metal", func(t *testing.T) {
		_, err := ComputeWithCorrection(d("100"), d("75"), d("40"), d("50"), "")
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("other errors are not corrected", func(t *testing.T) {
		_, err := ComputeWithCorrection(d("0"), d("75"), d("40"), d("60"), MetalCopper)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestOutputItemName(t *testing.T) {
	assert.Equal(t, "Raini (75)", OutputItemName(d("75")))
	assert.Equal(t, "Raini (91.6)", OutputItemName(d("91.60")))
	assert.Equal(t, "Raini (58.33)", OutputItemName(d("58.333")))
	assert.Equal(t, "Raini output 75%", OutputItemDescription(d("75.00")))
}

func TestOrderComplete(t *testing.T) {
	c, err := ComputeComposition(d("100"), d("75"), d("33.33"), d("66.67"))
	require.NoError(t, err)
	o := NewOrder(c)
	assert.Equal(t, StatusPending, o.Status)
	assert.False(t, o.ActualWeight.Valid)

	item := &catalog.Item{ID: 9, Name: "Raini (75)"}
	assert.True(t, errors.Is(o.Complete(decimal.Zero, item), shared.ErrInvalidInput))

	require.NoError(t, o.Complete(d("130"), item))
	assert.True(t, o.IsCompleted())
	assert.Equal(t, catalog.ItemID(9), *o.OutputItemID)
	assert.NotNil(t, o.CompletedAt)

	fine, net := Credit(o.ActualWeight.Decimal, o.PurityPercentage)
	assert.Equal(t, "97.5", fine.String())
	assert.Equal(t, "130", net.String())

	err = o.Complete(d("1"), item)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}
