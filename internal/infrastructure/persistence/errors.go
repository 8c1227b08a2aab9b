package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goldbook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps store errors onto domain errors. what names the
// record for the message, e.g. "item".
func translateError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NotFound(fmt.Sprintf("%s not found", what))
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("%s already exists", what))
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return shared.Refused(fmt.Sprintf("%s is still referenced", what))
	default:
		return err
	}
}

// applyPaging applies the limit and offset of a filter
func applyPaging(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	return query
}
