package participation

import (
	"maps"
	"slices"
)

// Grid maps student IDs to draft rows for exactly one context. It is
// immutable: every edit returns a new Grid and leaves the receiver intact,
// so a Grid obtained earlier stays a consistent snapshot. Absence of a
// student means "no local knowledge", not "opted out".
type Grid struct {
	rows map[int64]RowState
}

// Entry pairs a student with its row.
type Entry struct {
	StudentID int64
	Row       RowState
}

// NewGrid returns an empty grid.
func NewGrid() Grid {
	return Grid{}
}

// FromConfirmed rebuilds a grid from the server's confirmed rows. Presence
// in the confirmed set is participation, so every entry has Participated
// set; placings and team names are copied through.
func FromConfirmed(states []ParticipantState) Grid {
	rows := make(map[int64]RowState, len(states))
	for _, s := range states {
		row := RowState{Participated: true, Position: s.Position}
		if s.TeamName != nil {
			row.TeamName = *s.TeamName
		}
		rows[s.StudentID] = row
	}
	return Grid{rows: rows}
}

// Get returns the student's row or the default row.
func (g Grid) Get(studentID int64) RowState {
	if r, ok := g.rows[studentID]; ok {
		return r
	}
	return DefaultRow()
}

// Has reports whether the grid holds an explicit row for the student.
func (g Grid) Has(studentID int64) bool {
	_, ok := g.rows[studentID]
	return ok
}

// Len returns the number of explicit rows.
func (g Grid) Len() int {
	return len(g.rows)
}

// Upsert merges patch into the student's current (or default) row.
func (g Grid) Upsert(studentID int64, patch RowPatch) Grid {
	next := g.clone(1)
	next.rows[studentID] = g.Get(studentID).Apply(patch)
	return next
}

// SetParticipated ticks or unticks a student. Unticking drops the placing,
// ticking keeps whatever placing was there.
func (g Grid) SetParticipated(studentID int64, v bool) Grid {
	patch := PatchParticipated(v)
	if !v {
		none := NoPosition
		patch.Position = &none
	}
	return g.Upsert(studentID, patch)
}

// SetPosition records a placing and marks the student as participating.
func (g Grid) SetPosition(studentID int64, p Position) Grid {
	patch := PatchPosition(p)
	yes := true
	patch.Participated = &yes
	return g.Upsert(studentID, patch)
}

// SetTeamName changes only the team name.
func (g Grid) SetTeamName(studentID int64, name string) Grid {
	return g.Upsert(studentID, PatchTeamName(name))
}

// Entries returns all explicit rows ordered by student ID.
func (g Grid) Entries() []Entry {
	ids := slices.Sorted(maps.Keys(g.rows))
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, Entry{StudentID: id, Row: g.rows[id]})
	}
	return out
}

// Equal reports whether both grids hold the same explicit rows.
func (g Grid) Equal(o Grid) bool {
	return maps.Equal(g.rows, o.rows)
}

func (g Grid) clone(extra int) Grid {
	rows := make(map[int64]RowState, len(g.rows)+extra)
	maps.Copy(rows, g.rows)
	return Grid{rows: rows}
}
