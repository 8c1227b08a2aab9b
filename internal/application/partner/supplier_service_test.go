package partner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goldbook/backend/internal/application/ledger"
	"github.com/goldbook/backend/internal/application/store"
	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/goldbook/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockSupplierRepository is a mock implementation of SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id partner.SupplierID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByName(ctx context.Context, name string) (*partner.Supplier, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id partner.SupplierID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) AdjustBalance(ctx context.Context, name string, delta decimal.Decimal) error {
	args := m.Called(ctx, name, delta)
	return args.Error(0)
}

func (m *MockSupplierRepository) RenameInLedger(ctx context.Context, oldName, newName string) error {
	args := m.Called(ctx, oldName, newName)
	return args.Error(0)
}

func (m *MockSupplierRepository) CountLedgerEntries(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

// mockRepos hands out the mocked supplier repository; other accessors are
// not used by the supplier service
type mockRepos struct {
	store.Repositories
	suppliers *MockSupplierRepository
}

func (r mockRepos) Suppliers() partner.SupplierRepository { return r.suppliers }

// directScope runs the unit of work without a transaction
type directScope struct{ repos store.Repositories }

func (s directScope) Execute(_ context.Context, fn func(store.Repositories) error) error {
	return fn(s.repos)
}

func newMockedSupplierService() (*SupplierService, *MockSupplierRepository) {
	repo := new(MockSupplierRepository)
	repos := mockRepos{suppliers: repo}
	return NewSupplierService(directScope{repos}, repos, nil), repo
}

// =============================================================================
// Tests
// =============================================================================

func TestSupplierService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with zero balance", func(t *testing.T) {
		svc, repo := newMockedSupplierService()
		repo.On("FindByName", ctx, "Mehta Gold").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

		resp, err := svc.Create(ctx, CreateSupplierRequest{Name: "Mehta Gold", GSTNumber: "27abc"})
		require.NoError(t, err)
		assert.Equal(t, "Mehta Gold", resp.Name)
		assert.Equal(t, "27ABC", resp.GSTNumber)
		assert.True(t, resp.Balance.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		svc, repo := newMockedSupplierService()
		repo.On("FindByName", ctx, "Mehta Gold").Return(&partner.Supplier{ID: 1, Name: "Mehta Gold"}, nil)

		_, err := svc.Create(ctx, CreateSupplierRequest{Name: "Mehta Gold"})
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc, repo := newMockedSupplierService()
		repo.On("FindByName", ctx, "Shah").Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, CreateSupplierRequest{Name: "Shah", Email: "not-an-email"})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestSupplierService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refused while ledger rows exist", func(t *testing.T) {
		svc, repo := newMockedSupplierService()
		repo.On("FindByID", ctx, partner.SupplierID(3)).Return(&partner.Supplier{ID: 3, Name: "Shah"}, nil)
		repo.On("CountLedgerEntries", ctx, "Shah").Return(int64(2), nil)

		err := svc.Delete(ctx, 3)
		assert.True(t, errors.Is(err, shared.ErrBusinessRule))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes a supplier without history", func(t *testing.T) {
		svc, repo := newMockedSupplierService()
		repo.On("FindByID", ctx, partner.SupplierID(3)).Return(&partner.Supplier{ID: 3, Name: "Shah"}, nil)
		repo.On("CountLedgerEntries", ctx, "Shah").Return(int64(0), nil)
		repo.On("Delete", ctx, partner.SupplierID(3)).Return(nil)

		require.NoError(t, svc.Delete(ctx, 3))
		repo.AssertExpectations(t)
	})
}

func TestSupplierService_RenameCarriesLedger(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	item := db.MustItem(t, "Bar")
	s := db.MustSupplier(t, "Mehta Gold")
	db.MustSupplier(t, "Shah")

	ledgerSvc := ledger.NewService(db.Scope, db.Repos, nil, nil)
	svc := NewSupplierService(db.Scope, db.Repos, nil)

	date := testutil.Day(2024, time.January, 15)
	d, err := ledgerSvc.DraftFromRequest(ctx, ledger.CreateTransactionRequest{
		Type: "sale", SupplierName: "Mehta Gold", Date: &date,
		Lines: []ledger.LineRequest{{
			ItemID:            int64(item.ID),
			GrossWeight:       ptr(testutil.Dec("10")),
			LessWeight:        ptr(testutil.Dec("0")),
			TunchPercentage:   ptr(testutil.Dec("90")),
			WastagePercentage: ptr(testutil.Dec("10")),
		}},
	})
	require.NoError(t, err)
	_, err = ledgerSvc.Create(ctx, d)
	require.NoError(t, err)

	t.Run("rename onto an existing name fails and changes nothing", func(t *testing.T) {
		_, err := svc.Update(ctx, s.ID, UpdateSupplierRequest{Name: ptr("Shah")})
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))

		n, err := db.Repos.Suppliers().CountLedgerEntries(ctx, "Mehta Gold")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("rename moves ledger rows and keeps the balance", func(t *testing.T) {
		resp, err := svc.Update(ctx, s.ID, UpdateSupplierRequest{Name: ptr("Mehta Jewellers")})
		require.NoError(t, err)
		assert.Equal(t, "Mehta Jewellers", resp.Name)
		testutil.AssertWeight(t, "10", resp.Balance)

		txn, err := ledgerSvc.Get(ctx, d.RefID)
		require.NoError(t, err)
		assert.Equal(t, "Mehta Jewellers", txn.SupplierName)
	})

	t.Run("delete is refused", func(t *testing.T) {
		err := svc.Delete(ctx, s.ID)
		assert.True(t, errors.Is(err, shared.ErrBusinessRule))
	})
}

func TestKarigarService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := NewKarigarService(db.Scope, db.Repos, nil)

	k, err := svc.Create(ctx, CreateKarigarRequest{FullName: " Suresh ", Specialization: "Chains"})
	require.NoError(t, err)
	assert.Equal(t, "Suresh", k.FullName)
	assert.Equal(t, "1 - Suresh", k.Label)

	_, err = svc.Create(ctx, CreateKarigarRequest{FullName: "  "})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	updated, err := svc.Update(ctx, partner.KarigarID(k.ID), UpdateKarigarRequest{Phone: ptr("98200")})
	require.NoError(t, err)
	assert.Equal(t, "98200", updated.Phone)
	assert.Equal(t, "Chains", updated.Specialization)

	list, err := svc.List(ctx, ListFilter{Search: "Sur"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	t.Run("refused while orders exist", func(t *testing.T) {
		busy := db.MustKarigar(t, "Ramesh")
		require.NoError(t, db.DB.Exec(
			`INSERT INTO karigar_orders (ref_id, karigar_id, karigar_name, status, created_at) VALUES (?, ?, ?, ?, ?)`,
			"KO150124/001", busy.ID, busy.FullName, "in progress", time.Now()).Error)

		err := svc.Delete(ctx, busy.ID)
		assert.True(t, errors.Is(err, shared.ErrBusinessRule))
	})

	require.NoError(t, svc.Delete(ctx, partner.KarigarID(k.ID)))
	_, err = svc.GetByID(ctx, partner.KarigarID(k.ID))
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func ptr[T any](v T) *T {
	return &v
}
