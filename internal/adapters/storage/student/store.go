package student

import (
	"context"

	domain "roster/internal/domain/student"
)

// Store persists Student state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Student, error)
	Save(ctx context.Context, value domain.Student) error
	List(ctx context.Context, filter ListFilter) ([]domain.Student, error)
	ListSchoolYears(ctx context.Context) ([]string, error)
	ListRooms(ctx context.Context, schoolYear string) ([]int, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
// Zero values mean "no filter".
type ListFilter struct {
	Room       int
	SchoolYear string
}
