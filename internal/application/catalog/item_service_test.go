package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goldbook/backend/internal/application/ledger"
	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/goldbook/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_CRUD(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := NewItemService(db.Scope, db.Repos, nil)

	created, err := svc.Create(ctx, CreateItemRequest{Name: " Chain 22K ", Category: "Chains"})
	require.NoError(t, err)
	assert.Equal(t, "Chain 22K", created.Name)
	assert.Equal(t, "1 - Chain 22K", created.Label)
	assert.True(t, created.IsActive)
	assert.True(t, created.NetWeight.IsZero())

	_, err = svc.Create(ctx, CreateItemRequest{Name: "Chain 22K"})
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))

	inactive := false
	updated, err := svc.Update(ctx, catalog.ItemID(created.ID), UpdateItemRequest{Code: ptr("CH22"), IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "CH22", updated.Code)
	assert.Equal(t, "Chains", updated.Category)
	assert.False(t, updated.IsActive)

	_, err = svc.Create(ctx, CreateItemRequest{Name: "Ring"})
	require.NoError(t, err)

	active, err := svc.List(ctx, ItemListFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Ring", active[0].Name)

	_, err = svc.GetByID(ctx, 404)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestItemService_DeleteRefusedWhenReferenced(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	used := db.MustItem(t, "Used")
	free := db.MustItem(t, "Free")
	spare := db.MustItem(t, "Spare")
	db.MustSupplier(t, "Y")
	svc := NewItemService(db.Scope, db.Repos, nil)

	ledgerSvc := ledger.NewService(db.Scope, db.Repos, nil, nil)
	date := testutil.Day(2024, time.January, 15)
	d, err := ledgerSvc.DraftFromRequest(ctx, ledger.CreateTransactionRequest{
		Type: "purchase", SupplierName: "Y", Date: &date,
		Lines: []ledger.LineRequest{{
			ItemID:            int64(used.ID),
			GrossWeight:       ptr(testutil.Dec("1")),
			LessWeight:        ptr(testutil.Dec("0")),
			TunchPercentage:   ptr(testutil.Dec("90")),
			WastagePercentage: ptr(testutil.Dec("1")),
		}},
	})
	require.NoError(t, err)
	_, err = ledgerSvc.Create(ctx, d)
	require.NoError(t, err)

	err = svc.Delete(ctx, used.ID)
	assert.True(t, errors.Is(err, shared.ErrBusinessRule))

	_, err = svc.BulkDelete(ctx, BulkDeleteRequest{IDs: []int64{int64(free.ID), int64(used.ID)}})
	assert.True(t, errors.Is(err, shared.ErrBusinessRule))
	_, err = svc.GetByID(ctx, free.ID)
	require.NoError(t, err, "bulk delete must be all or nothing")

	n, err := svc.BulkDelete(ctx, BulkDeleteRequest{IDs: []int64{int64(free.ID), int64(spare.ID)}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = svc.GetByID(ctx, spare.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestItemService_ReferenceData(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := NewItemService(db.Scope, db.Repos, nil)

	types, err := svc.ListGoldTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 4)
	assert.Equal(t, "24K", types[0].Name)
	assert.Equal(t, "99.9", types[0].PurityPercentage.String())

	price, err := svc.GetSetting(ctx, catalog.SettingGoldPricePerGram)
	require.NoError(t, err)
	assert.Equal(t, "5000", price.Value)

	_, err = svc.SetSetting(ctx, catalog.SettingGoldPricePerGram, SetSettingRequest{Value: "-1"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = svc.SetSetting(ctx, catalog.SettingGoldPricePerGram, SetSettingRequest{Value: "6150.50"})
	require.NoError(t, err)
	price, err = svc.GetSetting(ctx, catalog.SettingGoldPricePerGram)
	require.NoError(t, err)
	assert.Equal(t, "6150.50", price.Value)

	_, err = svc.GetSetting(ctx, "missing")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func ptr[T any](v T) *T {
	return &v
}
