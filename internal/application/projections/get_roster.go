package projections

import (
	"context"
	"errors"

	"roster/internal/adapters/storage/student"
	domainStudent "roster/internal/domain/student"
)

// ErrRoomRequired is returned when a room-scoped query has no room.
var ErrRoomRequired = errors.New("room is required")

// GetRosterQuery carries query parameters.
type GetRosterQuery struct {
	Room       int
	SchoolYear string // optional
}

// GetRosterDeps holds dependencies for GetRoster.
type GetRosterDeps struct {
	StudentStore StudentStore
}

// QueryGetRoster returns the students of one room ordered by first then last name.
// PRE: Room is positive
// POST: Returns a non-nil slice
func QueryGetRoster(ctx context.Context, query GetRosterQuery, deps GetRosterDeps) ([]domainStudent.Student, error) {
	if query.Room <= 0 {
		return nil, ErrRoomRequired
	}
	students, err := deps.StudentStore.List(ctx, student.ListFilter{Room: query.Room, SchoolYear: query.SchoolYear})
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []domainStudent.Student{}
	}
	return students, nil
}
