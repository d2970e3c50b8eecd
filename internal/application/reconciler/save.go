package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"roster/internal/domain/participation"
)

// Save validates the grid, submits it as one request and then replaces the
// grid with the backend's confirmed rows. Validation failures are returned
// before any network call. A rejected save leaves the grid untouched.
// PRE: room and a loaded activity are selected
// POST: on success the grid equals a fresh Refresh of the saved context
func (r *Reconciler) Save(ctx context.Context) (participation.SaveResult, error) {
	st := r.State()
	if st.Selection.Room == 0 {
		return participation.SaveResult{}, ErrNoRoom
	}
	if st.Selection.ActivityID == 0 {
		return participation.SaveResult{}, ErrNoActivity
	}
	act, ok := st.Activity()
	if !ok {
		return participation.SaveResult{}, fmt.Errorf("%w: activity %d is not loaded", ErrNoActivity, st.Selection.ActivityID)
	}

	req, err := participation.BuildSaveRequest(act, st.Selection.Room, st.Roster, st.Grid)
	if err != nil {
		if ferr := r.fail(st.Generation, err); errors.Is(ferr, ErrSuperseded) {
			return participation.SaveResult{}, ferr
		}
		return participation.SaveResult{}, err
	}

	res, err := r.backend.SaveParticipants(ctx, act.ID, req)
	if err != nil {
		serr := &SaveError{Err: err}
		_ = r.fail(st.Generation, serr)
		return participation.SaveResult{}, serr
	}
	slog.Info("reconciler_event", "event", "participants_saved", "activity_id", act.ID, "room", st.Selection.Room, "upserted", res.Upserted, "deleted", res.Deleted)

	if err := r.commit(st.Generation, func(s *State) {
		saved := res
		s.LastSave = &saved
	}); err != nil {
		// Saved, but the user already moved to another context.
		return res, nil
	}
	if err := r.refresh(ctx, st.Generation, st.Selection); err != nil && !errors.Is(err, ErrSuperseded) {
		return res, err
	}
	return res, nil
}
