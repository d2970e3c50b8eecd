package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"roster/internal/adapters/events"
	"roster/internal/domain/activity"
	"roster/internal/domain/participation"
)

// Save errors.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrUnknownStudent   = errors.New("unknown student")
)

// ParticipantActivityStore defines the activity lookup needed by SaveParticipants.
type ParticipantActivityStore interface {
	GetByID(ctx context.Context, id int64) (activity.Activity, error)
}

// ParticipantStudentStore defines the student lookup needed by SaveParticipants.
type ParticipantStudentStore interface {
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// ParticipantWriteStore defines the participant persistence needed by SaveParticipants.
type ParticipantWriteStore interface {
	Apply(ctx context.Context, activityID int64, plan participation.SavePlan) (participation.SaveResult, error)
}

// SaveParticipantsInput carries one save submission.
type SaveParticipantsInput struct {
	ActivityID int64
	Request    participation.SaveRequest
}

// SaveParticipantsDeps holds dependencies for SaveParticipants.
type SaveParticipantsDeps struct {
	ActivityStore    ParticipantActivityStore
	StudentStore     ParticipantStudentStore
	ParticipantStore ParticipantWriteStore
	Publisher        events.Publisher // optional: nil skips the saved event
}

// ExecuteSaveParticipants applies a save for one activity and room.
// PRE: ActivityID names an existing activity
// POST: active rows are stored, inactive rows removed, all in one transaction;
// a ParticipantsSaved event is published after commit
// INVARIANT: a rejected request changes nothing
func ExecuteSaveParticipants(ctx context.Context, input SaveParticipantsInput, deps SaveParticipantsDeps) (participation.SaveResult, error) {
	act, err := deps.ActivityStore.GetByID(ctx, input.ActivityID)
	if errors.Is(err, sql.ErrNoRows) {
		return participation.SaveResult{}, fmt.Errorf("%w: %d", ErrActivityNotFound, input.ActivityID)
	}
	if err != nil {
		return participation.SaveResult{}, err
	}

	plan, err := participation.PlanSave(act, input.Request.Participants)
	if err != nil {
		return participation.SaveResult{}, err
	}

	ids := make([]int64, 0, len(plan.Upserts))
	for _, rec := range plan.Upserts {
		ids = append(ids, rec.StudentID)
	}
	known, err := deps.StudentStore.ExistingIDs(ctx, ids)
	if err != nil {
		return participation.SaveResult{}, err
	}
	for _, id := range ids {
		if !known[id] {
			return participation.SaveResult{}, &participation.RowError{StudentID: id, Err: ErrUnknownStudent}
		}
	}

	res, err := deps.ParticipantStore.Apply(ctx, act.ID, plan)
	if err != nil {
		return participation.SaveResult{}, err
	}

	slog.Info("participants_event", "event", "participants_saved", "activity_id", act.ID, "room", input.Request.Room, "upserted", res.Upserted, "deleted", res.Deleted)

	if deps.Publisher != nil {
		event := events.ParticipantsSaved{
			ActivityID: act.ID,
			Room:       input.Request.Room,
			Upserted:   res.Upserted,
			Deleted:    res.Deleted,
		}
		if err := deps.Publisher.Publish(ctx, events.TopicParticipantsSaved, event); err != nil {
			slog.Warn("participants_event", "event", "publish_failed", "activity_id", act.ID, "error", err)
		}
	}
	return res, nil
}
