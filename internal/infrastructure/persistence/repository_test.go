package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/karigar"
	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/goldbook/backend/internal/domain/raini"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createItem(t *testing.T, repo *GormItemRepository, name string) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(name, "", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), item))
	return item
}

func createSupplier(t *testing.T, repo *GormSupplierRepository, name string) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(name, partner.SupplierContact{})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), s))
	return s
}

func TestGormItemRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save find and update keep balances", func(t *testing.T) {
		repo := NewGormItemRepository(newTestDatabase(t).DB)
		item := createItem(t, repo, "Chain 22K")
		require.NotZero(t, item.ID)

		require.NoError(t, repo.AdjustBalance(ctx, item.ID, dec("-44.928"), dec("-48")))

		require.NoError(t, item.Update("Chain 22K Heavy", "CH22", "", "Chains", true))
		require.NoError(t, repo.Save(ctx, item))

		found, err := repo.FindByName(ctx, "Chain 22K Heavy")
		require.NoError(t, err)
		assert.Equal(t, "CH22", found.Code)
		assert.Equal(t, "-44.928", found.FineWeight.Round(shared.WeightPlaces).String())
		assert.Equal(t, "-48", found.NetWeight.Round(shared.WeightPlaces).String())
	})

	t.Run("repeated adjustments stay exact", func(t *testing.T) {
		repo := NewGormItemRepository(newTestDatabase(t).DB)
		item := createItem(t, repo, "Tops")

		require.NoError(t, repo.AdjustBalance(ctx, item.ID, dec("0.1"), dec("0.1")))
		require.NoError(t, repo.AdjustBalance(ctx, item.ID, dec("0.2"), dec("0.2")))
		for i := 0; i < 10; i++ {
			require.NoError(t, repo.AdjustBalance(ctx, item.ID, dec("0.0001"), dec("-0.1")))
		}

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, found.FineWeight.Equal(dec("0.301")), "fine weight %s", found.FineWeight)
		assert.True(t, found.NetWeight.Equal(dec("-0.7")), "net weight %s", found.NetWeight)
		assert.Equal(t, "0.301", found.FineWeight.String())
	})

	t.Run("duplicate names are rejected", func(t *testing.T) {
		repo := NewGormItemRepository(newTestDatabase(t).DB)
		createItem(t, repo, "Ring")

		dup, err := catalog.NewItem("Ring", "", "", "")
		require.NoError(t, err)
		err = repo.Save(ctx, dup)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})

	t.Run("missing items", func(t *testing.T) {
		repo := NewGormItemRepository(newTestDatabase(t).DB)

		_, err := repo.FindByID(ctx, 404)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.True(t, errors.Is(repo.AdjustBalance(ctx, 404, dec("1"), dec("1")), shared.ErrNotFound))
		assert.True(t, errors.Is(repo.Delete(ctx, 404), shared.ErrNotFound))
	})

	t.Run("search and active filter", func(t *testing.T) {
		repo := NewGormItemRepository(newTestDatabase(t).DB)
		createItem(t, repo, "Bangle")
		old := createItem(t, repo, "Bangle Old")
		createItem(t, repo, "Ring")
		require.NoError(t, old.Update(old.Name, "", "", "", false))
		require.NoError(t, repo.Save(ctx, old))

		items, err := repo.FindAll(ctx, shared.Filter{Search: "Bangle", ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Bangle", items[0].Name)
	})
}

func TestGormSupplierRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("balance and ledger rename", func(t *testing.T) {
		db := newTestDatabase(t).DB
		suppliers := NewGormSupplierRepository(db)
		items := NewGormItemRepository(db)
		entries := NewGormLedgerRepository(db)

		s := createSupplier(t, suppliers, "Mehta Gold")
		item := createItem(t, items, "Bar")
		require.NoError(t, suppliers.AdjustBalance(ctx, s.Name, dec("44.928")))

		e, err := ledger.NewEntry("S150124/001", s.Name, item,
			ledger.Measure{Gross: dec("50"), Less: dec("2"), Tunch: dec("91.6"), Wastage: dec("2")},
			time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), "")
		require.NoError(t, err)
		require.NoError(t, entries.Create(ctx, e))

		n, err := suppliers.CountLedgerEntries(ctx, "Mehta Gold")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		require.NoError(t, suppliers.RenameInLedger(ctx, "Mehta Gold", "Mehta Jewellers"))
		n, err = suppliers.CountLedgerEntries(ctx, "Mehta Jewellers")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		found, err := suppliers.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "44.928", found.Balance.Round(shared.WeightPlaces).String())
	})

	t.Run("repeated adjustments stay exact", func(t *testing.T) {
		suppliers := NewGormSupplierRepository(newTestDatabase(t).DB)
		s := createSupplier(t, suppliers, "Soni Bullion")

		require.NoError(t, suppliers.AdjustBalance(ctx, s.Name, dec("0.1")))
		require.NoError(t, suppliers.AdjustBalance(ctx, s.Name, dec("0.2")))

		found, err := suppliers.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.True(t, found.Balance.Equal(dec("0.3")), "balance %s", found.Balance)
		assert.Equal(t, "0.3", found.Balance.String())
	})

	t.Run("unknown supplier balance", func(t *testing.T) {
		suppliers := NewGormSupplierRepository(newTestDatabase(t).DB)
		err := suppliers.AdjustBalance(ctx, "Nobody", dec("1"))
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormLedgerRepository_Sequences(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t).DB
	entries := NewGormLedgerRepository(db)
	item := createItem(t, NewGormItemRepository(db), "Coin")
	createSupplier(t, NewGormSupplierRepository(db), "Shah")

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	seq, err := entries.MaxSequence(ctx, "S", day)
	require.NoError(t, err)
	assert.Zero(t, seq)

	for _, ref := range []string{"S150124/001", "S150124/007", "S160124/009", "P150124/012"} {
		e, err := ledger.NewEntry(ref, "Shah", item,
			ledger.Measure{Gross: dec("1"), Less: dec("0"), Tunch: dec("90"), Wastage: dec("1")}, day, "")
		require.NoError(t, err)
		require.NoError(t, entries.Create(ctx, e))
	}

	seq, err = entries.MaxSequence(ctx, "S", day)
	require.NoError(t, err)
	assert.Equal(t, 7, seq)

	exists, err := entries.RefIDExists(ctx, "P150124/012")
	require.NoError(t, err)
	assert.True(t, exists)

	sales, err := entries.List(ctx, ledger.EntryFilter{Type: ledger.TypeSale})
	require.NoError(t, err)
	assert.Len(t, sales, 3)

	n, err := entries.DeleteByRefID(ctx, "S150124/007")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormKarigarOrderRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t).DB
	orders := NewGormKarigarOrderRepository(db)
	karigars := NewGormKarigarRepository(db)
	item := createItem(t, NewGormItemRepository(db), "Bar 24K")

	k, err := partner.NewKarigar("Suresh", partner.KarigarDetails{})
	require.NoError(t, err)
	require.NoError(t, karigars.Save(ctx, k))

	o, err := karigar.NewOrder("KO150124/001", k)
	require.NoError(t, err)
	_, err = o.AddLine(item, karigar.DirectionIssued, dec("10"))
	require.NoError(t, err)
	require.NoError(t, orders.Create(ctx, o))

	line, err := o.AddLine(item, karigar.DirectionIssued, dec("5"))
	require.NoError(t, err)
	require.NoError(t, orders.AddItem(ctx, line))
	require.NoError(t, orders.SaveTotals(ctx, o))

	found, err := orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 2)
	assert.Equal(t, "15", found.IssuedTotal.String())

	count, err := karigars.CountOrders(ctx, k.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	refs, err := NewGormItemRepository(db).CountReferences(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), refs)

	n, err := orders.SetStatus(ctx, []karigar.OrderID{o.ID}, karigar.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	listed, err := orders.List(ctx, karigar.OrderFilter{Status: karigar.StatusInProgress})
	require.NoError(t, err)
	assert.Empty(t, listed)

	require.NoError(t, orders.Delete(ctx, o.ID))
	_, err = orders.FindByID(ctx, o.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormRainiOrderRepository_Totals(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t).DB
	orders := NewGormRainiOrderRepository(db)
	item := createItem(t, NewGormItemRepository(db), "Raini (75)")

	for _, pure := range []string{"100", "30"} {
		c, err := raini.ComputeComposition(dec(pure), dec("75"), dec("50"), dec("50"))
		require.NoError(t, err)
		require.NoError(t, orders.Create(ctx, raini.NewOrder(c)))
	}

	pending, err := orders.List(ctx, raini.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	first := pending[len(pending)-1]
	require.NoError(t, first.Complete(dec("130"), item))
	require.NoError(t, orders.Save(ctx, &first))

	totals, err := orders.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, "130", totals.CompletedActualWeight.String())
	assert.Equal(t, int64(1), totals.PendingCount)
	assert.Equal(t, "40", totals.PendingTotalWeight.Round(2).String())
}
