package reconciliation

import (
	"context"
	"errors"
	"testing"

	"github.com/goldbook/backend/internal/application/store"
	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/goldbook/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var dec = testutil.Dec

func TestApplyEffect_SignConvention(t *testing.T) {
	ctx := context.Background()

	t.Run("sale takes from the item and credits the supplier", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		item := db.MustItem(t, "X")
		db.MustSupplier(t, "Y")

		ef := ledger.Effect{ItemID: item.ID, SupplierName: "Y", Fine: dec("44.928"), Net: dec("48")}
		require.NoError(t, db.Scope.Execute(ctx, func(repos store.Repositories) error {
			return ApplyEffect(ctx, repos, ef)
		}))

		got := db.Item(t, item.ID)
		testutil.AssertWeight(t, "-48", got.NetWeight)
		testutil.AssertWeight(t, "-44.928", got.FineWeight)
		testutil.AssertWeight(t, "44.928", db.Supplier(t, "Y").Balance)
	})

	t.Run("purchase adds to the item and debits the supplier", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		item := db.MustItem(t, "X")
		db.MustSupplier(t, "Y")

		ef := ledger.Effect{ItemID: item.ID, SupplierName: "Y", Fine: dec("44.928"), Net: dec("48"), IsPurchase: true}
		require.NoError(t, db.Scope.Execute(ctx, func(repos store.Repositories) error {
			return ApplyEffect(ctx, repos, ef)
		}))

		got := db.Item(t, item.ID)
		testutil.AssertWeight(t, "48", got.NetWeight)
		testutil.AssertWeight(t, "44.928", got.FineWeight)
		testutil.AssertWeight(t, "-44.928", db.Supplier(t, "Y").Balance)
	})

	t.Run("reversal restores the starting balances", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		item := db.MustItem(t, "X")
		db.MustSupplier(t, "Y")

		ef := ledger.Effect{ItemID: item.ID, SupplierName: "Y", Fine: dec("44.928"), Net: dec("48")}
		require.NoError(t, db.Scope.Execute(ctx, func(repos store.Repositories) error {
			if err := ApplyEffect(ctx, repos, ef); err != nil {
				return err
			}
			return ReverseEffect(ctx, repos, ef)
		}))

		got := db.Item(t, item.ID)
		testutil.AssertWeight(t, "0", got.NetWeight)
		testutil.AssertWeight(t, "0", got.FineWeight)
		testutil.AssertWeight(t, "0", db.Supplier(t, "Y").Balance)
	})
}

func TestReverseAndReapply_MovesBetweenItemsAndSuppliers(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	a := db.MustItem(t, "A")
	b := db.MustItem(t, "B")
	db.MustSupplier(t, "Old")
	db.MustSupplier(t, "New")

	old := ledger.Effect{ItemID: a.ID, SupplierName: "Old", Fine: dec("9"), Net: dec("10")}
	updated := ledger.Effect{ItemID: b.ID, SupplierName: "New", Fine: dec("11"), Net: dec("12")}

	require.NoError(t, db.Scope.Execute(ctx, func(repos store.Repositories) error {
		if err := ApplyEffect(ctx, repos, old); err != nil {
			return err
		}
		return ReverseAndReapply(ctx, repos, old, updated)
	}))

	testutil.AssertWeight(t, "0", db.Item(t, a.ID).NetWeight)
	testutil.AssertWeight(t, "-12", db.Item(t, b.ID).NetWeight)
	testutil.AssertWeight(t, "0", db.Supplier(t, "Old").Balance)
	testutil.AssertWeight(t, "11", db.Supplier(t, "New").Balance)
}

func TestApplyEffect_UnknownSupplierRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	item := db.MustItem(t, "X")

	ef := ledger.Effect{ItemID: item.ID, SupplierName: "Ghost", Fine: dec("1"), Net: dec("1")}
	err := db.Scope.Execute(ctx, func(repos store.Repositories) error {
		return ApplyEffect(ctx, repos, ef)
	})
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	testutil.AssertWeight(t, "0", db.Item(t, item.ID).NetWeight)
}

func TestService_AdjustItem(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	item := db.MustItem(t, "X")
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(db.Scope, zap.New(core))

	require.NoError(t, svc.AdjustItem(ctx, item.ID, dec("2.5"), dec("3"), shared.DirectionAdd))
	require.NoError(t, svc.AdjustItem(ctx, item.ID, dec("0.5"), dec("1"), shared.DirectionSubtract))

	got := db.Item(t, item.ID)
	testutil.AssertWeight(t, "2", got.FineWeight)
	testutil.AssertWeight(t, "2", got.NetWeight)
	assert.Equal(t, 2, logs.FilterMessage("item balance adjusted").Len())

	err := svc.AdjustItem(ctx, item.ID, dec("-1"), dec("0"), shared.DirectionAdd)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	err = svc.AdjustItem(ctx, item.ID, dec("1"), dec("1"), shared.Direction("sideways"))
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	err = svc.AdjustItem(ctx, 999, dec("1"), dec("1"), shared.DirectionAdd)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestService_AdjustSupplier(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	db.MustSupplier(t, "Y")
	svc := NewService(db.Scope, nil)

	require.NoError(t, svc.AdjustSupplier(ctx, "Y", dec("5"), shared.DirectionSubtract))
	testutil.AssertWeight(t, "-5", db.Supplier(t, "Y").Balance)

	err := svc.AdjustSupplier(ctx, "Nobody", dec("5"), shared.DirectionAdd)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
