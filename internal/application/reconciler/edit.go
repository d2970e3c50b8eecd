package reconciler

import (
	"fmt"

	"roster/internal/domain/participation"
)

// Upsert merges patch into a student's row. Unknown students start from the
// default row. The patch is applied as given: no participation is implied.
func (r *Reconciler) Upsert(studentID int64, patch participation.RowPatch) error {
	if patch.Position != nil {
		if err := checkPosition(*patch.Position); err != nil {
			return err
		}
	}
	return r.edit(func(g participation.Grid, _ State) participation.Grid {
		return g.Upsert(studentID, patch)
	})
}

// SetParticipated ticks or unticks a student. Unticking drops the placing.
func (r *Reconciler) SetParticipated(studentID int64, v bool) error {
	return r.edit(func(g participation.Grid, _ State) participation.Grid {
		return g.SetParticipated(studentID, v)
	})
}

// SetPosition records a placing, which also marks the student as taking
// part. NoPosition clears the placing and leaves participation alone.
func (r *Reconciler) SetPosition(studentID int64, p participation.Position) error {
	if err := checkPosition(p); err != nil {
		return err
	}
	return r.edit(func(g participation.Grid, _ State) participation.Grid {
		if !p.IsSet() {
			return g.Upsert(studentID, participation.PatchPosition(p))
		}
		return g.SetPosition(studentID, p)
	})
}

// SetTeamName changes a student's team name.
func (r *Reconciler) SetTeamName(studentID int64, name string) error {
	return r.edit(func(g participation.Grid, _ State) participation.Grid {
		return g.SetTeamName(studentID, name)
	})
}

// MarkAll ticks or unticks every student on the loaded roster.
func (r *Reconciler) MarkAll(participated bool) error {
	return r.edit(func(g participation.Grid, s State) participation.Grid {
		return participation.MarkAll(g, s.Roster, participated)
	})
}

// ClearPositions drops every placing on the loaded roster.
func (r *Reconciler) ClearPositions() error {
	return r.edit(func(g participation.Grid, s State) participation.Grid {
		return participation.ClearPositions(g, s.Roster)
	})
}

// edit replaces the grid with fn's result. Edits need a full context since
// a grid only has meaning for one room and activity.
func (r *Reconciler) edit(fn func(participation.Grid, State) participation.Grid) error {
	var err error
	r.mu.Lock()
	switch {
	case r.state.Selection.Room == 0:
		err = ErrNoRoom
	case r.state.Selection.ActivityID == 0:
		err = ErrNoActivity
	}
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.state.Grid = fn(r.state.Grid, r.state)
	snap, subs := r.publishLocked()
	r.mu.Unlock()
	notify(subs, snap)
	return nil
}

func checkPosition(p participation.Position) error {
	if !p.Valid() {
		return fmt.Errorf("%w: got %d", participation.ErrInvalidPosition, p)
	}
	return nil
}
