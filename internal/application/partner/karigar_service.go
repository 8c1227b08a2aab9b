package partner

import (
	"context"
	"fmt"

	"github.com/goldbook/backend/internal/application/store"
	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/goldbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// KarigarService handles karigar-related business operations
type KarigarService struct {
	scope  store.TransactionScope
	repos  store.Repositories
	logger *zap.Logger
}

// NewKarigarService creates a new KarigarService
func NewKarigarService(scope store.TransactionScope, repos store.Repositories, log *zap.Logger) *KarigarService {
	if log == nil {
		log = zap.NewNop()
	}
	return &KarigarService{scope: scope, repos: repos, logger: log.Named("karigar")}
}

// Create registers a karigar
func (s *KarigarService) Create(ctx context.Context, req CreateKarigarRequest) (*KarigarResponse, error) {
	k, err := partner.NewKarigar(req.FullName, partner.KarigarDetails{
		Specialization: req.Specialization,
		Phone:          req.Phone,
		Address:        req.Address,
		BankDetails:    req.BankDetails,
		JoinedDate:     req.JoinedDate,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repos.Karigars().Save(ctx, k); err != nil {
		return nil, err
	}
	response := ToKarigarResponse(k)
	return &response, nil
}

// GetByID retrieves a karigar by ID
func (s *KarigarService) GetByID(ctx context.Context, id partner.KarigarID) (*KarigarResponse, error) {
	k, err := s.repos.Karigars().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToKarigarResponse(k)
	return &response, nil
}

// List retrieves karigars ordered by name
func (s *KarigarService) List(ctx context.Context, filter ListFilter) ([]KarigarResponse, error) {
	karigars, err := s.repos.Karigars().FindAll(ctx, shared.Filter{
		Search:     filter.Search,
		ActiveOnly: filter.ActiveOnly,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	return ToKarigarResponses(karigars), nil
}

// Update updates a karigar
func (s *KarigarService) Update(ctx context.Context, id partner.KarigarID, req UpdateKarigarRequest) (*KarigarResponse, error) {
	k, err := s.repos.Karigars().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	active := k.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	joined := k.JoinedDate
	if req.JoinedDate != nil {
		joined = req.JoinedDate
	}
	details := partner.KarigarDetails{
		Specialization: pick(req.Specialization, k.Specialization),
		Phone:          pick(req.Phone, k.Phone),
		Address:        pick(req.Address, k.Address),
		BankDetails:    pick(req.BankDetails, k.BankDetails),
		JoinedDate:     joined,
	}
	if err := k.Update(pick(req.FullName, k.FullName), details, active); err != nil {
		return nil, err
	}
	if err := s.repos.Karigars().Save(ctx, k); err != nil {
		return nil, err
	}
	response := ToKarigarResponse(k)
	return &response, nil
}

// Delete deletes a karigar that has no orders
func (s *KarigarService) Delete(ctx context.Context, id partner.KarigarID) error {
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		if _, err := repos.Karigars().FindByID(ctx, id); err != nil {
			return err
		}
		n, err := repos.Karigars().CountOrders(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return shared.Refused(fmt.Sprintf("Cannot delete karigar with %d orders", n))
		}
		return repos.Karigars().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("karigar deleted", zap.Int64("karigar_id", int64(id)))
	return nil
}
