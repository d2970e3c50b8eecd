package participation

import (
	"errors"
	"fmt"
	"strings"

	"roster/internal/domain/activity"
	"roster/internal/domain/student"
)

// ErrTeamNameRequired marks an active row of a team activity without a team name.
var ErrTeamNameRequired = errors.New("team name required")

// Violation names one student whose row blocks the save.
type Violation struct {
	StudentID   int64
	StudentName string
	Reason      error
}

// ValidationError rejects a whole save. Nothing is sent when it is returned.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	v := e.Violations[0]
	msg := fmt.Sprintf("%v for %s (student_id=%d)", v.Reason, v.StudentName, v.StudentID)
	if n := len(e.Violations) - 1; n > 0 {
		msg += fmt.Sprintf(" and %d more", n)
	}
	return msg
}

// Unwrap exposes the individual reasons to errors.Is.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Violations))
	for _, v := range e.Violations {
		errs = append(errs, v.Reason)
	}
	return errs
}

// BuildSaveDiff turns the grid into one SaveRow per roster student, in roster
// order. Team names travel only for active rows of team activities; every
// other row carries a null team name whatever is typed locally. For team
// activities an active row with a blank team name rejects the whole diff.
// Positions are passed through as they are: range is the input surface's job.
func BuildSaveDiff(act activity.Activity, roster []student.Student, g Grid) ([]SaveRow, error) {
	rows := make([]SaveRow, 0, len(roster))
	var violations []Violation
	for _, s := range roster {
		r := g.Get(s.ID)
		row := SaveRow{
			StudentID:    s.ID,
			Participated: r.Participated,
			Position:     r.Position,
		}
		if act.IsTeam && row.IsActive() {
			name := r.TeamName
			row.TeamName = &name
			if strings.TrimSpace(name) == "" {
				violations = append(violations, Violation{
					StudentID:   s.ID,
					StudentName: s.DisplayName(),
					Reason:      ErrTeamNameRequired,
				})
			}
		}
		rows = append(rows, row)
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return rows, nil
}

// BuildSaveRequest wraps BuildSaveDiff into the submission body for room.
func BuildSaveRequest(act activity.Activity, room int, roster []student.Student, g Grid) (SaveRequest, error) {
	rows, err := BuildSaveDiff(act, roster, g)
	if err != nil {
		return SaveRequest{}, err
	}
	return SaveRequest{Room: room, Participants: rows}, nil
}
