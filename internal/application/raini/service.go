// Package raini plans refining jobs and credits their output to stock
package raini

import (
	"context"
	"errors"
	"fmt"

	"github.com/goldbook/backend/internal/application/reconciliation"
	"github.com/goldbook/backend/internal/application/store"
	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/raini"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles refining orders
type OrderService struct {
	scope  store.TransactionScope
	repos  store.Repositories
	logger *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(scope store.TransactionScope, repos store.Repositories, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{scope: scope, repos: repos, logger: log.Named("raini")}
}

// Calculate computes a composition without saving it
func (s *OrderService) Calculate(req CompositionRequest) (*CompositionResponse, error) {
	c, err := compose(req)
	if err != nil {
		return nil, err
	}
	return ToCompositionResponse(c), nil
}

func compose(req CompositionRequest) (raini.Composition, error) {
	return raini.ComputeWithCorrection(req.PureGoldWeight, req.PurityPercentage,
		req.CopperPercentage, req.SilverPercentage, raini.Metal(req.LastEdited))
}

// Create saves a pending refining order for the computed composition
func (s *OrderService) Create(ctx context.Context, req CompositionRequest) (*OrderResponse, error) {
	c, err := compose(req)
	if err != nil {
		return nil, err
	}
	order := raini.NewOrder(c)
	if err := s.repos.RainiOrders().Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save raini order: %w", err)
	}

	s.logger.Info("raini order created",
		zap.Int64("raini_id", int64(order.ID)),
		zap.String("purity", order.PurityPercentage.String()),
		zap.String("total_weight", order.TotalWeight.String()))
	return ToOrderResponse(order), nil
}

// Complete records the produced weight and credits it to the output item
// for the order's purity, creating that item on first use
func (s *OrderService) Complete(ctx context.Context, id raini.OrderID, actual decimal.Decimal) (*OrderResponse, error) {
	if !actual.IsPositive() {
		return nil, shared.InvalidInput("Actual weight must be greater than zero")
	}

	var order *raini.Order
	var item *catalog.Item
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		var err error
		order, err = repos.RainiOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if order.IsCompleted() {
			return shared.NewDomainError(shared.CodeInvalidState, "Raini order is already completed")
		}

		item, err = outputItem(ctx, repos.Items(), order.PurityPercentage)
		if err != nil {
			return err
		}
		if err := order.Complete(actual, item); err != nil {
			return err
		}
		if err := repos.RainiOrders().Save(ctx, order); err != nil {
			return fmt.Errorf("failed to complete raini order %d: %w", id, err)
		}
		fine, net := raini.Credit(actual, order.PurityPercentage)
		return reconciliation.ApplyItemDelta(ctx, repos.Items(), item.ID, fine, net, shared.DirectionAdd)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("raini order completed",
		zap.Int64("raini_id", int64(id)),
		zap.String("item", item.Name),
		zap.String("actual_weight", actual.String()))
	return ToOrderResponse(order), nil
}

// outputItem finds the item named for purity or creates it
func outputItem(ctx context.Context, items catalog.ItemRepository, purity decimal.Decimal) (*catalog.Item, error) {
	name := raini.OutputItemName(purity)
	item, err := items.FindByName(ctx, name)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err = catalog.NewItem(name, "", raini.OutputItemDescription(purity), raini.OutputCategory)
	if err != nil {
		return nil, err
	}
	if err := items.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create output item %q: %w", name, err)
	}
	return item, nil
}

// Delete removes an order. A completed order's credit is taken back out of
// its output item in the same transaction.
func (s *OrderService) Delete(ctx context.Context, id raini.OrderID) error {
	var reversed bool
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		order, err := repos.RainiOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if order.IsCompleted() && order.OutputItemID != nil && order.ActualWeight.Valid {
			fine, net := raini.Credit(order.ActualWeight.Decimal, order.PurityPercentage)
			if err := reconciliation.ApplyItemDelta(ctx, repos.Items(), *order.OutputItemID, fine, net, shared.DirectionSubtract); err != nil {
				return err
			}
			reversed = true
		}
		return repos.RainiOrders().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("raini order deleted", zap.Int64("raini_id", int64(id)), zap.Bool("credit_reversed", reversed))
	return nil
}

// Get returns one refining order
func (s *OrderService) Get(ctx context.Context, id raini.OrderID) (*OrderResponse, error) {
	order, err := s.repos.RainiOrders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// List returns refining orders newest first
func (s *OrderService) List(ctx context.Context, filter ListOrdersFilter) ([]OrderResponse, error) {
	status := raini.Status(filter.Status)
	if status != "" && status != raini.StatusPending && status != raini.StatusCompleted {
		return nil, shared.InvalidInput(fmt.Sprintf("status must be %q or %q", raini.StatusPending, raini.StatusCompleted))
	}
	orders, err := s.repos.RainiOrders().List(ctx, status)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// Totals summarises completed output and pending work
func (s *OrderService) Totals(ctx context.Context) (raini.Totals, error) {
	return s.repos.RainiOrders().Totals(ctx)
}
