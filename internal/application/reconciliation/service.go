// Package reconciliation keeps item and supplier running balances in step
// with the ledger and order operations that move gold.
package reconciliation

import (
	"context"
	"fmt"

	"github.com/goldbook/backend/internal/application/store"
	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ApplyItemDelta moves an item's fine and net balances by the given
// magnitudes in direction dir
func ApplyItemDelta(ctx context.Context, items catalog.ItemRepository, id catalog.ItemID, fine, net decimal.Decimal, dir shared.Direction) error {
	if err := checkDelta(dir, fine, net); err != nil {
		return err
	}
	if err := items.AdjustBalance(ctx, id, dir.Signed(fine), dir.Signed(net)); err != nil {
		return fmt.Errorf("failed to adjust item %d: %w", id, err)
	}
	return nil
}

// ApplySupplierDelta moves a supplier's balance by fine in direction dir
func ApplySupplierDelta(ctx context.Context, suppliers partner.SupplierRepository, name string, fine decimal.Decimal, dir shared.Direction) error {
	if err := checkDelta(dir, fine, decimal.Zero); err != nil {
		return err
	}
	if err := suppliers.AdjustBalance(ctx, name, dir.Signed(fine)); err != nil {
		return fmt.Errorf("failed to adjust supplier %q: %w", name, err)
	}
	return nil
}

func checkDelta(dir shared.Direction, amounts ...decimal.Decimal) error {
	if !dir.IsValid() {
		return shared.InvalidInput(fmt.Sprintf("direction must be %q or %q", shared.DirectionAdd, shared.DirectionSubtract))
	}
	for _, a := range amounts {
		if a.IsNegative() {
			return shared.InvalidInput("Balance adjustments take non-negative amounts and a direction")
		}
	}
	return nil
}

// ApplyEffect books a ledger row: a sale takes fine and net out of the item
// and adds the fine to the supplier, a purchase does the opposite
func ApplyEffect(ctx context.Context, repos store.Repositories, ef ledger.Effect) error {
	t := ef.TxType()
	if err := ApplyItemDelta(ctx, repos.Items(), ef.ItemID, ef.Fine, ef.Net, t.ItemDirection()); err != nil {
		return err
	}
	return ApplySupplierDelta(ctx, repos.Suppliers(), ef.SupplierName, ef.Fine, t.SupplierDirection())
}

// ReverseEffect undoes ApplyEffect for the same row
func ReverseEffect(ctx context.Context, repos store.Repositories, ef ledger.Effect) error {
	t := ef.TxType()
	if err := ApplyItemDelta(ctx, repos.Items(), ef.ItemID, ef.Fine, ef.Net, t.ItemDirection().Inverse()); err != nil {
		return err
	}
	return ApplySupplierDelta(ctx, repos.Suppliers(), ef.SupplierName, ef.Fine, t.SupplierDirection().Inverse())
}

// ReverseAndReapply replaces the booking of a row whose values changed.
// Item and supplier may differ between old and updated.
func ReverseAndReapply(ctx context.Context, repos store.Repositories, old, updated ledger.Effect) error {
	if err := ReverseEffect(ctx, repos, old); err != nil {
		return err
	}
	return ApplyEffect(ctx, repos, updated)
}

// Service exposes direct balance corrections, each in its own transaction
type Service struct {
	scope  store.TransactionScope
	logger *zap.Logger
}

// NewService creates a new reconciliation Service
func NewService(scope store.TransactionScope, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{scope: scope, logger: log.Named("reconciliation")}
}

// AdjustItem applies a manual correction to an item's balances
func (s *Service) AdjustItem(ctx context.Context, id catalog.ItemID, fine, net decimal.Decimal, dir shared.Direction) error {
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		return ApplyItemDelta(ctx, repos.Items(), id, fine, net, dir)
	})
	if err != nil {
		return err
	}
	s.logger.Info("item balance adjusted",
		zap.Int64("item_id", int64(id)),
		zap.String("direction", string(dir)),
		zap.String("fine", fine.String()),
		zap.String("net", net.String()),
	)
	return nil
}

// AdjustSupplier applies a manual correction to a supplier balance
func (s *Service) AdjustSupplier(ctx context.Context, name string, fine decimal.Decimal, dir shared.Direction) error {
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		return ApplySupplierDelta(ctx, repos.Suppliers(), name, fine, dir)
	})
	if err != nil {
		return err
	}
	s.logger.Info("supplier balance adjusted",
		zap.String("supplier", name),
		zap.String("direction", string(dir)),
		zap.String("fine", fine.String()),
	)
	return nil
}
