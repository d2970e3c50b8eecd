package reconciler

import (
	"context"
	"log/slog"

	"roster/internal/domain/participation"
)

// LoadLookups fetches years, activities and the rooms for the current year
// filter. Lookups are not scoped to a grid, so they are applied even when
// the selection moves while they load; rooms are dropped if the year changed.
func (r *Reconciler) LoadLookups(ctx context.Context) error {
	years, err := r.backend.ListYears(ctx)
	if err != nil {
		return r.failLookup(&FetchError{Op: "years", Err: err})
	}
	acts, err := r.backend.ListActivities(ctx)
	if err != nil {
		return r.failLookup(&FetchError{Op: "activities", Err: err})
	}
	year := r.State().Selection.Year
	rooms, err := r.backend.ListRooms(ctx, year)
	if err != nil {
		return r.failLookup(&FetchError{Op: "rooms", Err: err})
	}

	r.update(func(s *State) {
		s.Years = years
		s.Activities = acts
		if s.Selection.Year == year {
			s.Rooms = rooms
		}
		s.Err = nil
	})
	slog.Debug("reconciler_event", "event", "lookups_loaded", "years", len(years), "activities", len(acts), "rooms", len(rooms))
	return nil
}

func (r *Reconciler) failLookup(err error) error {
	r.update(func(s *State) { s.Err = err })
	return err
}

// SelectYear switches the year filter. The grid and roster are discarded
// before anything is fetched; rooms for the year are reloaded, followed by
// the roster and participants when a room (and activity) is selected.
func (r *Reconciler) SelectYear(ctx context.Context, year string) error {
	gen, sel := r.switchContext(func(sel *Selection) { sel.Year = year }, true)

	rooms, err := r.backend.ListRooms(ctx, year)
	if err != nil {
		return r.fail(gen, &FetchError{Op: "rooms", Err: err})
	}
	if err := r.commit(gen, func(s *State) { s.Rooms = rooms }); err != nil {
		return err
	}
	return r.load(ctx, gen, sel, true)
}

// SelectRoom switches the room, discarding grid and roster, then loads the
// room's roster and, if an activity is selected, its participants.
func (r *Reconciler) SelectRoom(ctx context.Context, room int) error {
	gen, sel := r.switchContext(func(sel *Selection) { sel.Room = room }, true)
	return r.load(ctx, gen, sel, true)
}

// SelectActivity switches the activity, discarding the grid, then loads its
// participants for the selected room.
func (r *Reconciler) SelectActivity(ctx context.Context, activityID int64) error {
	gen, sel := r.switchContext(func(sel *Selection) { sel.ActivityID = activityID }, false)
	return r.load(ctx, gen, sel, false)
}

// Refresh rebuilds the grid from the backend's confirmed rows for the
// current context. On failure the current grid is kept and the error is
// recorded in State.Err.
// PRE: room and activity are selected
// POST: grid holds exactly the confirmed rows, each with Participated set
func (r *Reconciler) Refresh(ctx context.Context) error {
	st := r.State()
	if st.Selection.Room == 0 {
		return ErrNoRoom
	}
	if st.Selection.ActivityID == 0 {
		return ErrNoActivity
	}
	return r.refresh(ctx, st.Generation, st.Selection)
}

// switchContext applies change to the selection, bumps the generation and
// empties the grid (and roster when dropRoster is set) in one step.
func (r *Reconciler) switchContext(change func(*Selection), dropRoster bool) (uint64, Selection) {
	snap := r.update(func(s *State) {
		change(&s.Selection)
		s.Generation++
		s.Grid = participation.NewGrid()
		if dropRoster {
			s.Roster = nil
		}
		s.Loading = true
		s.LastSave = nil
		s.Err = nil
	})
	slog.Debug("reconciler_event", "event", "context_switched", "year", snap.Selection.Year, "room", snap.Selection.Room, "activity_id", snap.Selection.ActivityID, "generation", snap.Generation)
	return snap.Generation, snap.Selection
}

// load fetches what the selection allows for generation gen.
func (r *Reconciler) load(ctx context.Context, gen uint64, sel Selection, withRoster bool) error {
	if sel.Room == 0 {
		return r.commit(gen, func(s *State) { s.Loading = false })
	}
	if withRoster {
		roster, err := r.backend.ListStudents(ctx, sel.Room, sel.Year)
		if err != nil {
			return r.fail(gen, &FetchError{Op: "students", Err: err})
		}
		if err := r.commit(gen, func(s *State) { s.Roster = roster }); err != nil {
			return r.superseded(err, sel)
		}
	}
	if sel.ActivityID == 0 {
		return r.commit(gen, func(s *State) { s.Loading = false })
	}
	return r.refresh(ctx, gen, sel)
}

func (r *Reconciler) refresh(ctx context.Context, gen uint64, sel Selection) error {
	states, err := r.backend.ListParticipants(ctx, sel.ActivityID, sel.Room, sel.Year)
	if err != nil {
		return r.fail(gen, &FetchError{Op: "participants", Err: err})
	}
	grid := participation.FromConfirmed(states)
	if err := r.commit(gen, func(s *State) {
		s.Grid = grid
		s.Loading = false
		s.Err = nil
	}); err != nil {
		return r.superseded(err, sel)
	}
	slog.Debug("reconciler_event", "event", "grid_refreshed", "activity_id", sel.ActivityID, "room", sel.Room, "rows", grid.Len())
	return nil
}

func (r *Reconciler) superseded(err error, sel Selection) error {
	slog.Debug("reconciler_event", "event", "stale_response_discarded", "activity_id", sel.ActivityID, "room", sel.Room, "year", sel.Year)
	return err
}
