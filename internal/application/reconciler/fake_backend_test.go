package reconciler_test

import (
	"context"
	"sync"

	"roster/internal/domain/activity"
	"roster/internal/domain/participation"
	"roster/internal/domain/student"
)

type contextKey struct {
	activityID int64
	room       int
}

// fakeBackend stores confirmed rows in memory and applies saves the way the
// server does: active rows are kept with trimmed team names, the rest removed.
type fakeBackend struct {
	mu           sync.Mutex
	years        []string
	rooms        []int
	activities   []activity.Activity
	students     map[int][]student.Student
	participants map[contextKey][]participation.ParticipantState

	// gates holds ListParticipants for a room until the channel is closed.
	gates   map[int]chan struct{}
	entered chan int

	participantsErr error
	saveErr         error
	saves           []participation.SaveRequest
	fetches         int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		years: []string{"2025-2026", "2024-2025"},
		rooms: []int{4, 5},
		activities: []activity.Activity{
			{ID: 10, Year: 2025, Name: "Spelling Bee", ActivityDate: "2025-03-01", ShowInUI: true},
			{ID: 11, Year: 2025, Name: "Relay", ActivityDate: "2025-03-02", IsTeam: true, ShowInUI: true},
		},
		students: map[int][]student.Student{
			4: {
				{ID: 1, FirstName: "Ana", LastName: "Lopez", Room: 4},
				{ID: 5, FirstName: "Eli", LastName: "Moss", Room: 4},
			},
			5: {
				{ID: 7, FirstName: "Gus", LastName: "Hale", Room: 5},
			},
		},
		participants: map[contextKey][]participation.ParticipantState{},
		gates:        map[int]chan struct{}{},
		entered:      make(chan int, 4),
	}
}

func (f *fakeBackend) ListYears(context.Context) ([]string, error) {
	return f.years, nil
}

func (f *fakeBackend) ListRooms(context.Context, string) ([]int, error) {
	return f.rooms, nil
}

func (f *fakeBackend) ListActivities(context.Context) ([]activity.Activity, error) {
	return f.activities, nil
}

func (f *fakeBackend) ListStudents(_ context.Context, room int, _ string) ([]student.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.students[room], nil
}

func (f *fakeBackend) ListParticipants(_ context.Context, activityID int64, room int, _ string) ([]participation.ParticipantState, error) {
	f.mu.Lock()
	gate := f.gates[room]
	f.mu.Unlock()
	if gate != nil {
		f.entered <- room
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.participantsErr != nil {
		return nil, f.participantsErr
	}
	return f.participants[contextKey{activityID, room}], nil
}

func (f *fakeBackend) SaveParticipants(_ context.Context, activityID int64, req participation.SaveRequest) (participation.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return participation.SaveResult{}, f.saveErr
	}
	f.saves = append(f.saves, req)

	key := contextKey{activityID, req.Room}
	existing := map[int64]bool{}
	for _, p := range f.participants[key] {
		existing[p.StudentID] = true
	}
	var res participation.SaveResult
	var stored []participation.ParticipantState
	for _, row := range req.Participants {
		if row.IsActive() {
			stored = append(stored, participation.RecordFromSaveRow(activityID, row).State())
			res.Upserted++
		} else if existing[row.StudentID] {
			res.Deleted++
		}
	}
	f.participants[key] = stored
	return res, nil
}

func (f *fakeBackend) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}
