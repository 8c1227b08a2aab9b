// Package karigar runs the job-work order workflow: issuing gold to a
// karigar, receiving goods back and keeping inventory in step.
package karigar

import (
	"context"
	"fmt"
	"time"

	"github.com/goldbook/backend/internal/application/reconciliation"
	"github.com/goldbook/backend/internal/application/store"
	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/karigar"
	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/goldbook/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// OrderService handles karigar orders
type OrderService struct {
	scope     store.TransactionScope
	repos     store.Repositories
	generator *ledger.RefIDGenerator
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	scope store.TransactionScope,
	repos store.Repositories,
	generator *ledger.RefIDGenerator,
	log *zap.Logger,
) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	if generator == nil {
		generator = ledger.NewRefIDGenerator()
	}
	return &OrderService{
		scope:     scope,
		repos:     repos,
		generator: generator,
		logger:    log.Named("karigar"),
	}
}

type pendingLine struct {
	itemID    catalog.ItemID
	direction karigar.Direction
	input     LineRequest
}

// collect keeps the rows with a positive weight
func collect(issued, received []LineRequest) []pendingLine {
	var lines []pendingLine
	for _, l := range issued {
		if l.Weight.IsPositive() {
			lines = append(lines, pendingLine{catalog.ItemID(l.ItemID), karigar.DirectionIssued, l})
		}
	}
	for _, l := range received {
		if l.Weight.IsPositive() {
			lines = append(lines, pendingLine{catalog.ItemID(l.ItemID), karigar.DirectionReceived, l})
		}
	}
	return lines
}

// Create opens an order for a karigar and moves inventory for every line:
// issued weight leaves stock, received weight enters it
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	lines := collect(req.Issued, req.Received)
	if len(lines) == 0 {
		return nil, shared.InvalidInput("Please enter at least one issued or received weight")
	}

	// Next reads the store, so the id is taken before the transaction holds the connection
	refID, err := s.generator.Next(ctx, s.repos.KarigarOrders(), karigar.RefPrefix, time.Now())
	if err != nil {
		return nil, err
	}
	ctx = logger.WithRefID(ctx, refID)

	var order *karigar.Order
	err = s.scope.Execute(ctx, func(repos store.Repositories) error {
		k, err := repos.Karigars().FindByID(ctx, partner.KarigarID(req.KarigarID))
		if err != nil {
			return err
		}

		order, err = karigar.NewOrder(refID, k)
		if err != nil {
			return err
		}
		for _, l := range lines {
			item, err := repos.Items().FindByID(ctx, l.itemID)
			if err != nil {
				return err
			}
			if _, err := order.AddLine(item, l.direction, l.input.Weight); err != nil {
				return err
			}
		}
		if err := repos.KarigarOrders().Create(ctx, order); err != nil {
			return fmt.Errorf("failed to save order %s: %w", refID, err)
		}
		return moveInventory(ctx, repos.Items(), order.Items)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("karigar order created",
		zap.String("ref_id", order.RefID),
		zap.Int64("karigar_id", req.KarigarID),
		zap.String("issued", order.IssuedTotal.String()),
		zap.String("received", order.ReceivedTotal.String()))
	return ToOrderResponse(order), nil
}

// TopUp adds lines to an in-progress order. Only the new lines move
// inventory; totals grow by exactly their weights.
func (s *OrderService) TopUp(ctx context.Context, id karigar.OrderID, req TopUpRequest) (*OrderResponse, error) {
	lines := collect(req.Issued, req.Received)
	if len(lines) == 0 {
		return nil, shared.InvalidInput("Please enter at least one issued or received weight")
	}

	var order *karigar.Order
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		var err error
		order, err = repos.KarigarOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		ctx = logger.WithRefID(ctx, order.RefID)

		added := make([]karigar.OrderItem, 0, len(lines))
		for _, l := range lines {
			item, err := repos.Items().FindByID(ctx, l.itemID)
			if err != nil {
				return err
			}
			line, err := order.AddLine(item, l.direction, l.input.Weight)
			if err != nil {
				return err
			}
			if err := repos.KarigarOrders().AddItem(ctx, line); err != nil {
				return fmt.Errorf("failed to add line to %s: %w", order.RefID, err)
			}
			added = append(added, *line)
		}
		if err := repos.KarigarOrders().SaveTotals(ctx, order); err != nil {
			return err
		}
		return moveInventory(ctx, repos.Items(), added)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("karigar order topped up",
		zap.String("ref_id", order.RefID),
		zap.Int("lines", len(lines)),
		zap.String("balance", order.BalanceTotal.String()))
	return ToOrderResponse(order), nil
}

// MarkStatus relabels orders without touching inventory
func (s *OrderService) MarkStatus(ctx context.Context, req MarkStatusRequest) (int64, error) {
	status, err := karigar.ParseStatus(req.Status)
	if err != nil {
		return 0, err
	}
	if len(req.IDs) == 0 {
		return 0, shared.InvalidInput("Please select at least one order")
	}
	ids := make([]karigar.OrderID, len(req.IDs))
	for i, id := range req.IDs {
		ids[i] = karigar.OrderID(id)
	}

	var n int64
	err = s.scope.Execute(ctx, func(repos store.Repositories) error {
		n, err = repos.KarigarOrders().SetStatus(ctx, ids, status)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("karigar orders relabelled", zap.String("status", string(status)), zap.Int64("orders", n))
	return n, nil
}

// Delete reverses every line of the order against inventory, then removes it
func (s *OrderService) Delete(ctx context.Context, id karigar.OrderID) error {
	var refID string
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		order, err := repos.KarigarOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		refID = order.RefID
		ctx = logger.WithRefID(ctx, refID)

		for _, it := range order.Items {
			dir := it.Direction.InventoryDirection().Inverse()
			if err := reconciliation.ApplyItemDelta(ctx, repos.Items(), it.ItemID, it.Weight, it.Weight, dir); err != nil {
				return err
			}
		}
		return repos.KarigarOrders().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("karigar order deleted", zap.String("ref_id", refID))
	return nil
}

// Get returns an order with its lines
func (s *OrderService) Get(ctx context.Context, id karigar.OrderID) (*OrderResponse, error) {
	order, err := s.repos.KarigarOrders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// List returns orders newest first
func (s *OrderService) List(ctx context.Context, filter ListOrdersFilter) ([]OrderResponse, error) {
	f := karigar.OrderFilter{KarigarID: partner.KarigarID(filter.KarigarID)}
	switch filter.Status {
	case "":
		f.Status = karigar.StatusInProgress
	case "all":
	default:
		st, err := karigar.ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}

	orders, err := s.repos.KarigarOrders().List(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// moveInventory applies each line's weight to both item balances
func moveInventory(ctx context.Context, items catalog.ItemRepository, lines []karigar.OrderItem) error {
	for _, it := range lines {
		dir := it.Direction.InventoryDirection()
		if err := reconciliation.ApplyItemDelta(ctx, items, it.ItemID, it.Weight, it.Weight, dir); err != nil {
			return err
		}
	}
	return nil
}
