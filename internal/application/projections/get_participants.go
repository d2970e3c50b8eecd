package projections

import (
	"context"

	"roster/internal/adapters/storage/participant"
	domainParticipation "roster/internal/domain/participation"
)

// GetParticipantsQuery carries query parameters.
type GetParticipantsQuery struct {
	ActivityID int64
	Room       int
	SchoolYear string // optional
}

// GetParticipantsDeps holds dependencies for GetParticipants.
type GetParticipantsDeps struct {
	ParticipantStore ParticipantStore
}

// QueryGetParticipants returns the confirmed rows for an activity in one room.
// A student missing from the result is not participating.
// PRE: Room is positive
// POST: Returns a non-nil slice ordered by student ID
func QueryGetParticipants(ctx context.Context, query GetParticipantsQuery, deps GetParticipantsDeps) ([]domainParticipation.ParticipantState, error) {
	if query.Room <= 0 {
		return nil, ErrRoomRequired
	}
	records, err := deps.ParticipantStore.ListByActivityRoom(ctx, query.ActivityID, participant.ListFilter{
		Room:       query.Room,
		SchoolYear: query.SchoolYear,
	})
	if err != nil {
		return nil, err
	}
	states := make([]domainParticipation.ParticipantState, 0, len(records))
	for _, rec := range records {
		states = append(states, rec.State())
	}
	return states, nil
}
