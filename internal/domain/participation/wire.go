package participation

import "strings"

// ParticipantState is one confirmed row as returned by the backend.
type ParticipantState struct {
	StudentID int64    `json:"student_id"`
	Position  Position `json:"position"`
	TeamName  *string  `json:"team_name"`
}

// SaveRow is the unit of the save payload.
type SaveRow struct {
	StudentID    int64    `json:"student_id"`
	Participated bool     `json:"participated"`
	Position     Position `json:"position"`
	TeamName     *string  `json:"team_name"`
}

// IsActive reports whether the backend should store the row.
func (r SaveRow) IsActive() bool {
	return r.Participated || r.Position.IsSet()
}

// SaveRequest is the body of a save submission.
type SaveRequest struct {
	Room         int       `json:"room"`
	Participants []SaveRow `json:"participants"`
}

// SaveResult reports how many rows are now stored and how many were removed.
type SaveResult struct {
	Upserted int `json:"upserted"`
	Deleted  int `json:"deleted"`
}

// Record is a stored participation row.
type Record struct {
	ActivityID int64
	StudentID  int64
	Position   Position
	TeamName   string // empty when NULL
}

// State converts a stored record into its wire shape.
func (r Record) State() ParticipantState {
	s := ParticipantState{StudentID: r.StudentID, Position: r.Position}
	if r.TeamName != "" {
		name := r.TeamName
		s.TeamName = &name
	}
	return s
}

// RecordFromSaveRow converts an active save row into the record to store.
// Team names are trimmed; blank names are stored as empty.
func RecordFromSaveRow(activityID int64, row SaveRow) Record {
	rec := Record{ActivityID: activityID, StudentID: row.StudentID, Position: row.Position}
	if row.TeamName != nil {
		rec.TeamName = strings.TrimSpace(*row.TeamName)
	}
	return rec
}
