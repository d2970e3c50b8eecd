package participation

import (
	"errors"
	"fmt"
	"strings"

	"roster/internal/domain/activity"
)

// ErrDuplicateStudent is returned when a save names a student twice.
var ErrDuplicateStudent = errors.New("student listed more than once")

// RowError ties a rejected save row to its student.
type RowError struct {
	StudentID int64
	Err       error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("student_id=%d: %v", e.StudentID, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// SavePlan is what the backend does with one save request: store the
// active rows and remove the rest.
type SavePlan struct {
	Upserts  []Record
	Removals []int64
}

// PlanSave validates a submitted save the way the backend does and splits it.
// A row is stored when it is participated or ranked. Stored placings must be
// 1..3, and a ranked row of a team activity needs a non-blank team name.
// Team names are trimmed and blank names are stored as NULL.
// PRE: act is the activity the rows belong to
// POST: Returns a plan or the first offending row as *RowError
// INVARIANT: every submitted student appears exactly once in the plan
func PlanSave(act activity.Activity, rows []SaveRow) (SavePlan, error) {
	var plan SavePlan
	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		if seen[row.StudentID] {
			return SavePlan{}, &RowError{StudentID: row.StudentID, Err: ErrDuplicateStudent}
		}
		seen[row.StudentID] = true

		if !row.IsActive() {
			plan.Removals = append(plan.Removals, row.StudentID)
			continue
		}
		if !row.Position.Valid() {
			return SavePlan{}, &RowError{StudentID: row.StudentID, Err: ErrInvalidPosition}
		}
		if act.IsTeam && row.Position.IsSet() && (row.TeamName == nil || strings.TrimSpace(*row.TeamName) == "") {
			return SavePlan{}, &RowError{StudentID: row.StudentID, Err: ErrTeamNameRequired}
		}
		plan.Upserts = append(plan.Upserts, RecordFromSaveRow(act.ID, row))
	}
	return plan, nil
}
