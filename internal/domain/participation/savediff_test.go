package participation_test

import (
	"errors"
	"strings"
	"testing"

	"roster/internal/domain/activity"
	"roster/internal/domain/participation"
)

var (
	individual = activity.Activity{ID: 10, Year: 2025, Name: "Spelling Bee", ActivityDate: "2025-03-01"}
	team       = activity.Activity{ID: 11, Year: 2025, Name: "Relay", ActivityDate: "2025-03-02", IsTeam: true}
)

// TestBuildSaveDiff_RosterOrderAndDefaults verifies one row per roster student.
func TestBuildSaveDiff_RosterOrderAndDefaults(t *testing.T) {
	g := participation.NewGrid().SetPosition(3, participation.First)

	rows, err := participation.BuildSaveDiff(individual, testRoster(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	for i, s := range testRoster() {
		if rows[i].StudentID != s.ID {
			t.Errorf("rows[%d].StudentID = %d, want %d", i, rows[i].StudentID, s.ID)
		}
	}
	if rows[0].Participated || rows[0].Position.IsSet() {
		t.Errorf("absent student row = %+v, want default", rows[0])
	}
	if !rows[2].Participated || rows[2].Position != participation.First {
		t.Errorf("ranked row = %+v, want participated 1st", rows[2])
	}
}

// TestBuildSaveDiff_IndividualNeverSendsTeamName verifies stale team text is dropped.
func TestBuildSaveDiff_IndividualNeverSendsTeamName(t *testing.T) {
	g := participation.NewGrid().
		SetParticipated(1, true).
		SetTeamName(1, "Leftover").
		SetTeamName(2, "Also leftover")

	rows, err := participation.BuildSaveDiff(individual, testRoster(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range rows {
		if r.TeamName != nil {
			t.Errorf("student %d team_name = %q, want null", r.StudentID, *r.TeamName)
		}
	}
}

// TestBuildSaveDiff_TeamInactiveRowsSendNull verifies inactive team rows carry null.
func TestBuildSaveDiff_TeamInactiveRowsSendNull(t *testing.T) {
	g := participation.NewGrid().
		SetParticipated(1, true).SetTeamName(1, "Hawks").
		SetTeamName(2, "Not going")

	rows, err := participation.BuildSaveDiff(team, testRoster(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].TeamName == nil || *rows[0].TeamName != "Hawks" {
		t.Errorf("active row team_name = %v, want Hawks", rows[0].TeamName)
	}
	if rows[1].TeamName != nil {
		t.Errorf("inactive row team_name = %q, want null", *rows[1].TeamName)
	}
}

// TestBuildSaveDiff_TeamRequiresName rejects the whole save and names the students.
func TestBuildSaveDiff_TeamRequiresName(t *testing.T) {
	tests := []struct {
		name string
		grid participation.Grid
		bad  []int64
	}{
		{
			name: "participated with empty name",
			grid: participation.NewGrid().SetParticipated(1, true),
			bad:  []int64{1},
		},
		{
			name: "whitespace name",
			grid: participation.NewGrid().SetParticipated(2, true).SetTeamName(2, "   "),
			bad:  []int64{2},
		},
		{
			name: "position without participation is active",
			grid: participation.NewGrid().Upsert(3, participation.PatchPosition(participation.Second)),
			bad:  []int64{3},
		},
		{
			name: "several offenders",
			grid: participation.NewGrid().SetParticipated(1, true).SetParticipated(3, true).
				SetParticipated(2, true).SetTeamName(2, "Owls"),
			bad: []int64{1, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := participation.BuildSaveDiff(team, testRoster(), tt.grid)
			if rows != nil {
				t.Errorf("rows = %v, want nil on rejection", rows)
			}
			var verr *participation.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if !errors.Is(err, participation.ErrTeamNameRequired) {
				t.Errorf("errors.Is(err, ErrTeamNameRequired) = false")
			}
			if len(verr.Violations) != len(tt.bad) {
				t.Fatalf("violations = %d, want %d", len(verr.Violations), len(tt.bad))
			}
			for i, id := range tt.bad {
				if verr.Violations[i].StudentID != id {
					t.Errorf("violation[%d] = %d, want %d", i, verr.Violations[i].StudentID, id)
				}
			}
		})
	}
}

// TestValidationError_Message names the first offending student.
func TestValidationError_Message(t *testing.T) {
	g := participation.NewGrid().SetParticipated(1, true).SetParticipated(2, true)
	_, err := participation.BuildSaveDiff(team, testRoster(), g)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Ana Lopez") || !strings.Contains(msg, "student_id=1") || !strings.Contains(msg, "1 more") {
		t.Errorf("message = %q", msg)
	}
}

// TestBuildSaveDiff_PassesPositionThrough verifies no clamping happens.
func TestBuildSaveDiff_PassesPositionThrough(t *testing.T) {
	g := participation.NewGrid().Upsert(1, participation.PatchPosition(participation.Position(7)))
	rows, err := participation.BuildSaveDiff(individual, testRoster(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Position != 7 {
		t.Errorf("position = %d, want 7 passed through", rows[0].Position)
	}
}

// TestBuildSaveRequest wraps the diff with the room.
func TestBuildSaveRequest(t *testing.T) {
	req, err := participation.BuildSaveRequest(individual, 4, testRoster(), participation.NewGrid())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Room != 4 || len(req.Participants) != 3 {
		t.Errorf("req = %+v", req)
	}
}
