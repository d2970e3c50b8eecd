package activity

import (
	"context"

	domain "roster/internal/domain/activity"
)

// Store persists Activity state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Activity, error)
	Save(ctx context.Context, value domain.Activity) error
	List(ctx context.Context, filter ListFilter) ([]domain.Activity, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	VisibleOnly bool
}
