package projections

import (
	"context"

	"roster/internal/adapters/storage/activity"
	domainActivity "roster/internal/domain/activity"
)

// GetLookupsDeps holds dependencies for the lookup queries.
type GetLookupsDeps struct {
	StudentStore  StudentStore
	ActivityStore ActivityStore
}

// QueryGetYears returns the distinct school years, newest first.
func QueryGetYears(ctx context.Context, deps GetLookupsDeps) ([]string, error) {
	return deps.StudentStore.ListSchoolYears(ctx)
}

// GetRoomsQuery carries query parameters.
type GetRoomsQuery struct {
	SchoolYear string // optional
}

// QueryGetRooms returns the distinct rooms in ascending order.
func QueryGetRooms(ctx context.Context, query GetRoomsQuery, deps GetLookupsDeps) ([]int, error) {
	return deps.StudentStore.ListRooms(ctx, query.SchoolYear)
}

// QueryGetActivities returns the activities shown to users, newest first.
// PRE: none
// POST: hidden activities are excluded; ties on date are ordered by name
func QueryGetActivities(ctx context.Context, deps GetLookupsDeps) ([]domainActivity.Activity, error) {
	return deps.ActivityStore.List(ctx, activity.ListFilter{VisibleOnly: true})
}
