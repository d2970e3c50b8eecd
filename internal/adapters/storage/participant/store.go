package participant

import (
	"context"

	domain "roster/internal/domain/participation"
)

// Store persists confirmed participation rows.
type Store interface {
	ListByActivityRoom(ctx context.Context, activityID int64, filter ListFilter) ([]domain.Record, error)
	Apply(ctx context.Context, activityID int64, plan domain.SavePlan) (domain.SaveResult, error)
}

// ListFilter scopes a participant listing to one room and, optionally, a school year.
type ListFilter struct {
	Room       int
	SchoolYear string
}
