package participation

// RowState is the draft participation of one student in the selected
// (activity, room, year) context. The zero value is the default row.
type RowState struct {
	Participated bool
	Position     Position
	TeamName     string // empty when unused
}

// DefaultRow is what the grid reports for a student it knows nothing about.
func DefaultRow() RowState {
	return RowState{}
}

// IsActive reports whether the row will be stored: participated or ranked.
func (r RowState) IsActive() bool {
	return r.Participated || r.Position.IsSet()
}

// RowPatch is a partial update. Nil fields are left untouched; a non-nil
// Position pointing at NoPosition clears the placing.
type RowPatch struct {
	Participated *bool
	Position     *Position
	TeamName     *string
}

// Apply merges the patch into r and returns the result. r is not modified.
func (r RowState) Apply(p RowPatch) RowState {
	if p.Participated != nil {
		r.Participated = *p.Participated
	}
	if p.Position != nil {
		r.Position = *p.Position
	}
	if p.TeamName != nil {
		r.TeamName = *p.TeamName
	}
	return r
}

// PatchParticipated builds a patch touching only the participated flag.
func PatchParticipated(v bool) RowPatch {
	return RowPatch{Participated: &v}
}

// PatchPosition builds a patch touching only the placing.
func PatchPosition(p Position) RowPatch {
	return RowPatch{Position: &p}
}

// PatchTeamName builds a patch touching only the team name.
func PatchTeamName(name string) RowPatch {
	return RowPatch{TeamName: &name}
}
