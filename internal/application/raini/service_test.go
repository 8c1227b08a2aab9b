package raini

import (
	"context"
	"errors"
	"testing"

	"github.com/goldbook/backend/internal/domain/raini"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/goldbook/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var dec = testutil.Dec

func scenario() CompositionRequest {
	return CompositionRequest{
		PureGoldWeight:   dec("100"),
		PurityPercentage: dec("75"),
		CopperPercentage: dec("33.33"),
		SilverPercentage: dec("66.67"),
	}
}

func TestOrderService_Calculate(t *testing.T) {
	svc := NewOrderService(nil, nil, nil)

	c, err := svc.Calculate(scenario())
	require.NoError(t, err)
	assert.Equal(t, "133.33", c.TotalWeight.Round(2).String())
	assert.Equal(t, "33.33", c.ImpuritiesWeight.Round(2).String())
	assert.Equal(t, "11.11", c.CopperWeight.Round(2).String())
	assert.Equal(t, "22.22", c.SilverWeight.Round(2).String())
	assert.Equal(t, "Raini (75)", c.OutputItemName)

	req := scenario()
	req.SilverPercentage = dec("10")
	req.LastEdited = "copper"
	c, err = svc.Calculate(req)
	require.NoError(t, err)
	assert.Equal(t, "66.67", c.SilverPercentage.String())

	req.LastEdited = ""
	_, err = svc.Calculate(req)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestOrderService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and credits the output item", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		core, logs := observer.New(zap.InfoLevel)
		svc := NewOrderService(db.Scope, db.Repos, zap.New(core))

		created, err := svc.Create(ctx, scenario())
		require.NoError(t, err)
		assert.Equal(t, string(raini.StatusPending), created.Status)
		assert.Nil(t, created.ActualWeight)

		done, err := svc.Complete(ctx, raini.OrderID(created.ID), dec("130"))
		require.NoError(t, err)
		assert.Equal(t, string(raini.StatusCompleted), done.Status)
		require.NotNil(t, done.OutputItemID)

		item, err := db.Repos.Items().FindByName(ctx, "Raini (75)")
		require.NoError(t, err)
		assert.Equal(t, *done.OutputItemID, int64(item.ID))
		assert.Equal(t, raini.OutputCategory, item.Category)
		assert.Equal(t, "Raini output 75%", item.Description)
		testutil.AssertWeight(t, "97.5", item.FineWeight)
		testutil.AssertWeight(t, "130", item.NetWeight)
		assert.Equal(t, 1, logs.FilterMessage("raini order completed").Len())
	})

	t.Run("credits an existing output item", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		existing := db.MustItem(t, "Raini (75)")
		svc := NewOrderService(db.Scope, db.Repos, nil)

		for _, actual := range []string{"130", "10"} {
			created, err := svc.Create(ctx, scenario())
			require.NoError(t, err)
			_, err = svc.Complete(ctx, raini.OrderID(created.ID), dec(actual))
			require.NoError(t, err)
		}

		got := db.Item(t, existing.ID)
		testutil.AssertWeight(t, "105", got.FineWeight)
		testutil.AssertWeight(t, "140", got.NetWeight)
	})

	t.Run("rejects bad weights and repeated completion", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		svc := NewOrderService(db.Scope, db.Repos, nil)

		created, err := svc.Create(ctx, scenario())
		require.NoError(t, err)
		id := raini.OrderID(created.ID)

		_, err = svc.Complete(ctx, id, dec("0"))
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))

		_, err = svc.Complete(ctx, id, dec("130"))
		require.NoError(t, err)
		_, err = svc.Complete(ctx, id, dec("130"))
		assert.True(t, errors.Is(err, shared.ErrInvalidState))

		item, err := db.Repos.Items().FindByName(ctx, "Raini (75)")
		require.NoError(t, err)
		testutil.AssertWeight(t, "130", item.NetWeight)

		_, err = svc.Complete(ctx, 404, dec("1"))
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestOrderService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("completed order gives its credit back", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		svc := NewOrderService(db.Scope, db.Repos, nil)

		created, err := svc.Create(ctx, scenario())
		require.NoError(t, err)
		_, err = svc.Complete(ctx, raini.OrderID(created.ID), dec("130"))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, raini.OrderID(created.ID)))

		item, err := db.Repos.Items().FindByName(ctx, "Raini (75)")
		require.NoError(t, err)
		testutil.AssertWeight(t, "0", item.FineWeight)
		testutil.AssertWeight(t, "0", item.NetWeight)

		_, err = svc.Get(ctx, raini.OrderID(created.ID))
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("pending order touches no stock", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		svc := NewOrderService(db.Scope, db.Repos, nil)

		created, err := svc.Create(ctx, scenario())
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, raini.OrderID(created.ID)))

		_, err = db.Repos.Items().FindByName(ctx, "Raini (75)")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.True(t, errors.Is(svc.Delete(ctx, raini.OrderID(created.ID)), shared.ErrNotFound))
	})
}

func TestOrderService_ListAndTotals(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := NewOrderService(db.Scope, db.Repos, nil)

	var ids []raini.OrderID
	for i := 0; i < 3; i++ {
		created, err := svc.Create(ctx, scenario())
		require.NoError(t, err)
		ids = append(ids, raini.OrderID(created.ID))
	}
	_, err := svc.Complete(ctx, ids[0], dec("130"))
	require.NoError(t, err)

	pending, err := svc.List(ctx, ListOrdersFilter{Status: "Pending"})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	all, err := svc.List(ctx, ListOrdersFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.List(ctx, ListOrdersFilter{Status: "Lost"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	totals, err := svc.Totals(ctx)
	require.NoError(t, err)
	testutil.AssertWeight(t, "130", totals.CompletedActualWeight)
	assert.Equal(t, int64(2), totals.PendingCount)
	assert.Equal(t, "266.67", totals.PendingTotalWeight.Round(2).String())
}
