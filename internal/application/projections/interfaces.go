package projections

import (
	"context"

	"roster/internal/adapters/storage/activity"
	"roster/internal/adapters/storage/participant"
	"roster/internal/adapters/storage/student"
	domainActivity "roster/internal/domain/activity"
	domainParticipation "roster/internal/domain/participation"
	domainStudent "roster/internal/domain/student"
)

// StudentStore interface for roster queries.
type StudentStore interface {
	List(ctx context.Context, filter student.ListFilter) ([]domainStudent.Student, error)
	ListSchoolYears(ctx context.Context) ([]string, error)
	ListRooms(ctx context.Context, schoolYear string) ([]int, error)
}

// ActivityStore interface for activity queries.
type ActivityStore interface {
	List(ctx context.Context, filter activity.ListFilter) ([]domainActivity.Activity, error)
}

// ParticipantStore interface for confirmed participation queries.
type ParticipantStore interface {
	ListByActivityRoom(ctx context.Context, activityID int64, filter participant.ListFilter) ([]domainParticipation.Record, error)
}
