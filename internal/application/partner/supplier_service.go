package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/goldbook/backend/internal/application/store"
	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/goldbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	scope  store.TransactionScope
	repos  store.Repositories
	logger *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(scope store.TransactionScope, repos store.Repositories, log *zap.Logger) *SupplierService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SupplierService{scope: scope, repos: repos, logger: log.Named("supplier")}
}

// Create creates a new supplier with a zero balance
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	// Check if name already exists
	_, err := s.repos.Suppliers().FindByName(ctx, req.Name)
	if err == nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Supplier with this name already exists")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	supplier, err := partner.NewSupplier(req.Name, partner.SupplierContact{
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		GSTNumber:     req.GSTNumber,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repos.Suppliers().Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("supplier created", zap.String("supplier", supplier.Name))
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id partner.SupplierID) (*SupplierResponse, error) {
	supplier, err := s.repos.Suppliers().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers ordered by name
func (s *SupplierService) List(ctx context.Context, filter ListFilter) ([]SupplierResponse, error) {
	suppliers, err := s.repos.Suppliers().FindAll(ctx, shared.Filter{
		Search:     filter.Search,
		ActiveOnly: filter.ActiveOnly,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	return ToSupplierResponses(suppliers), nil
}

// Update updates a supplier. A rename is carried onto its ledger rows in
// the same transaction; the balance is never touched here.
func (s *SupplierService) Update(ctx context.Context, id partner.SupplierID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	var supplier *partner.Supplier
	var oldName string
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		var err error
		supplier, err = repos.Suppliers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		oldName = supplier.Name

		active := supplier.IsActive
		if req.IsActive != nil {
			active = *req.IsActive
		}
		contact := partner.SupplierContact{
			ContactPerson: pick(req.ContactPerson, supplier.ContactPerson),
			Phone:         pick(req.Phone, supplier.Phone),
			Email:         pick(req.Email, supplier.Email),
			Address:       pick(req.Address, supplier.Address),
			GSTNumber:     pick(req.GSTNumber, supplier.GSTNumber),
		}
		if err := supplier.Update(pick(req.Name, supplier.Name), contact, active); err != nil {
			return err
		}
		if err := repos.Suppliers().Save(ctx, supplier); err != nil {
			return err
		}
		if supplier.Name != oldName {
			if err := repos.Suppliers().RenameInLedger(ctx, oldName, supplier.Name); err != nil {
				return fmt.Errorf("failed to rename ledger rows of %q: %w", oldName, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if supplier.Name != oldName {
		s.logger.Info("supplier renamed", zap.String("from", oldName), zap.String("to", supplier.Name))
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete deletes a supplier that has no ledger rows
func (s *SupplierService) Delete(ctx context.Context, id partner.SupplierID) error {
	return s.scope.Execute(ctx, func(repos store.Repositories) error {
		supplier, err := repos.Suppliers().FindByID(ctx, id)
		if err != nil {
			return err
		}

		// Check if supplier still has ledger history
		n, err := repos.Suppliers().CountLedgerEntries(ctx, supplier.Name)
		if err != nil {
			return err
		}
		if n > 0 {
			return shared.Refused(fmt.Sprintf("Cannot delete supplier %q with %d ledger entries", supplier.Name, n))
		}
		return repos.Suppliers().Delete(ctx, id)
	})
}
