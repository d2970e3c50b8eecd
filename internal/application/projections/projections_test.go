package projections

import (
	"context"
	"errors"
	"testing"

	"roster/internal/adapters/storage/activity"
	"roster/internal/adapters/storage/participant"
	"roster/internal/adapters/storage/student"
	domainActivity "roster/internal/domain/activity"
	domainParticipation "roster/internal/domain/participation"
	domainStudent "roster/internal/domain/student"
)

type mockStudentStore struct {
	lastFilter student.ListFilter
	students   []domainStudent.Student
	years      []string
	rooms      []int
	lastYear   string
}

func (m *mockStudentStore) List(_ context.Context, filter student.ListFilter) ([]domainStudent.Student, error) {
	m.lastFilter = filter
	return m.students, nil
}

func (m *mockStudentStore) ListSchoolYears(context.Context) ([]string, error) { return m.years, nil }

func (m *mockStudentStore) ListRooms(_ context.Context, year string) ([]int, error) {
	m.lastYear = year
	return m.rooms, nil
}

type mockActivityStore struct {
	lastFilter activity.ListFilter
}

func (m *mockActivityStore) List(_ context.Context, filter activity.ListFilter) ([]domainActivity.Activity, error) {
	m.lastFilter = filter
	return []domainActivity.Activity{{ID: 1, Name: "Relay"}}, nil
}

type mockParticipantStore struct {
	records    []domainParticipation.Record
	err        error
	lastFilter participant.ListFilter
}

func (m *mockParticipantStore) ListByActivityRoom(_ context.Context, _ int64, filter participant.ListFilter) ([]domainParticipation.Record, error) {
	m.lastFilter = filter
	return m.records, m.err
}

func TestQueryGetRoster(t *testing.T) {
	store := &mockStudentStore{}
	got, err := QueryGetRoster(context.Background(), GetRosterQuery{Room: 4, SchoolYear: "2025-2026"}, GetRosterDeps{StudentStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Error("expected empty, non-nil roster")
	}
	if store.lastFilter != (student.ListFilter{Room: 4, SchoolYear: "2025-2026"}) {
		t.Errorf("filter = %+v", store.lastFilter)
	}

	if _, err := QueryGetRoster(context.Background(), GetRosterQuery{}, GetRosterDeps{StudentStore: store}); !errors.Is(err, ErrRoomRequired) {
		t.Errorf("err = %v, want ErrRoomRequired", err)
	}
}

func TestQueryGetParticipants(t *testing.T) {
	store := &mockParticipantStore{records: []domainParticipation.Record{
		{ActivityID: 1, StudentID: 5, Position: domainParticipation.First},
		{ActivityID: 1, StudentID: 6, TeamName: "Owls"},
	}}
	got, err := QueryGetParticipants(context.Background(), GetParticipantsQuery{ActivityID: 1, Room: 4}, GetParticipantsDeps{ParticipantStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].StudentID != 5 || got[0].Position != domainParticipation.First || got[0].TeamName != nil {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].TeamName == nil || *got[1].TeamName != "Owls" {
		t.Errorf("got[1] = %+v", got[1])
	}

	store.records = nil
	empty, err := QueryGetParticipants(context.Background(), GetParticipantsQuery{ActivityID: 1, Room: 4}, GetParticipantsDeps{ParticipantStore: store})
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("empty = %#v, %v", empty, err)
	}
	if _, err := QueryGetParticipants(context.Background(), GetParticipantsQuery{ActivityID: 1}, GetParticipantsDeps{ParticipantStore: store}); !errors.Is(err, ErrRoomRequired) {
		t.Errorf("err = %v, want ErrRoomRequired", err)
	}
}

func TestQueryGetLookups(t *testing.T) {
	students := &mockStudentStore{years: []string{"2025-2026"}, rooms: []int{4}}
	acts := &mockActivityStore{}
	deps := GetLookupsDeps{StudentStore: students, ActivityStore: acts}
	ctx := context.Background()

	if years, err := QueryGetYears(ctx, deps); err != nil || len(years) != 1 {
		t.Errorf("years = %v, %v", years, err)
	}
	if rooms, err := QueryGetRooms(ctx, GetRoomsQuery{SchoolYear: "2025-2026"}, deps); err != nil || len(rooms) != 1 {
		t.Errorf("rooms = %v, %v", rooms, err)
	}
	if students.lastYear != "2025-2026" {
		t.Errorf("year filter = %q", students.lastYear)
	}
	if _, err := QueryGetActivities(ctx, deps); err != nil {
		t.Fatalf("activities: %v", err)
	}
	if !acts.lastFilter.VisibleOnly {
		t.Error("activities query must hide invisible activities")
	}
}
