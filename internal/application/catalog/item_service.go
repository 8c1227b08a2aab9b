package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goldbook/backend/internal/application/store"
	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemService handles item and reference data operations
type ItemService struct {
	scope  store.TransactionScope
	repos  store.Repositories
	logger *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(scope store.TransactionScope, repos store.Repositories, log *zap.Logger) *ItemService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItemService{scope: scope, repos: repos, logger: log.Named("catalog")}
}

// Create creates a new item with zero balances
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	// Check if name already exists
	_, err := s.repos.Items().FindByName(ctx, strings.TrimSpace(req.Name))
	if err == nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Item with this name already exists")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err := catalog.NewItem(req.Name, req.Code, req.Description, req.Category)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Items().Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item created", zap.Int64("item_id", int64(item.ID)), zap.String("name", item.Name))
	response := ToItemResponse(item)
	return &response, nil
}

// GetByID retrieves an item by ID
func (s *ItemService) GetByID(ctx context.Context, id catalog.ItemID) (*ItemResponse, error) {
	item, err := s.repos.Items().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// List retrieves items ordered by name
func (s *ItemService) List(ctx context.Context, filter ItemListFilter) ([]ItemResponse, error) {
	items, err := s.repos.Items().FindAll(ctx, shared.Filter{
		Search:     filter.Search,
		ActiveOnly: filter.ActiveOnly,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

// Update replaces descriptive fields; balances are left alone
func (s *ItemService) Update(ctx context.Context, id catalog.ItemID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.repos.Items().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	active := item.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	err = item.Update(
		pick(req.Name, item.Name),
		pick(req.Code, item.Code),
		pick(req.Description, item.Description),
		pick(req.Category, item.Category),
		active,
	)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Items().Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// Delete deletes an item nothing refers to
func (s *ItemService) Delete(ctx context.Context, id catalog.ItemID) error {
	return s.scope.Execute(ctx, func(repos store.Repositories) error {
		return deleteUnreferenced(ctx, repos.Items(), id)
	})
}

// BulkDelete deletes several items in one transaction. If any of them is
// referenced none is deleted.
func (s *ItemService) BulkDelete(ctx context.Context, req BulkDeleteRequest) (int, error) {
	if len(req.IDs) == 0 {
		return 0, shared.InvalidInput("Please select at least one item")
	}
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		for _, id := range req.IDs {
			if err := deleteUnreferenced(ctx, repos.Items(), catalog.ItemID(id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("items deleted", zap.Int("count", len(req.IDs)))
	return len(req.IDs), nil
}

func deleteUnreferenced(ctx context.Context, items catalog.ItemRepository, id catalog.ItemID) error {
	n, err := items.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.Refused(fmt.Sprintf("Cannot delete item %d: it is used by %d ledger entries or orders", id, n))
	}
	return items.Delete(ctx, id)
}

// ListGoldTypes returns the purity grades, purest first
func (s *ItemService) ListGoldTypes(ctx context.Context) ([]GoldTypeResponse, error) {
	types, err := s.repos.ReferenceData().ListGoldTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GoldTypeResponse, len(types))
	for i, t := range types {
		out[i] = GoldTypeResponse{ID: t.ID, Name: t.Name, PurityPercentage: t.Purity}
	}
	return out, nil
}

// GetSetting reads one setting
func (s *ItemService) GetSetting(ctx context.Context, key string) (*SettingResponse, error) {
	value, err := s.repos.ReferenceData().GetSetting(ctx, key)
	if err != nil {
		return nil, err
	}
	return &SettingResponse{Key: key, Value: value}, nil
}

// SetSetting writes one setting. The gold price must be a non-negative number.
func (s *ItemService) SetSetting(ctx context.Context, key string, req SetSettingRequest) (*SettingResponse, error) {
	key = strings.TrimSpace(key)
	value := strings.TrimSpace(req.Value)
	if key == "" {
		return nil, shared.InvalidInput("Setting key is required")
	}
	if key == catalog.SettingGoldPricePerGram {
		price, err := decimal.NewFromString(value)
		if err != nil || price.IsNegative() {
			return nil, shared.InvalidInput("Gold price must be a non-negative number")
		}
	}
	if err := s.repos.ReferenceData().SetSetting(ctx, key, value); err != nil {
		return nil, err
	}
	s.logger.Info("setting changed", zap.String("key", key))
	return &SettingResponse{Key: key, Value: value}, nil
}

func pick(v *string, current string) string {
	if v != nil {
		return *v
	}
	return current
}
