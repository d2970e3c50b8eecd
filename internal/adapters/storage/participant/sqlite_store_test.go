package participant_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	store "roster/internal/adapters/storage/participant"
	"roster/internal/adapters/storage/storagetest"
	domain "roster/internal/domain/participation"
)

func openSeeded(t *testing.T) *sql.DB {
	t.Helper()
	db := storagetest.Open(t)
	storagetest.Exec(t, db, `INSERT INTO students (id, first_name, last_name, school_year, room) VALUES
		(1, 'Ana', 'Lopez', '2025-2026', 4),
		(2, 'Ben', 'Ng', '2025-2026', 4),
		(3, 'Cleo', 'Park', '2024-2025', 4),
		(4, 'Dev', 'Rao', '2025-2026', 5)`)
	storagetest.Exec(t, db, "INSERT INTO activities (id, year, name, activity_date, is_team) VALUES (10, 2025, 'Relay', '2025-03-02', 1)")
	return db
}

func TestSQLiteStore_ApplyAndList(t *testing.T) {
	s := store.NewSQLiteStore(openSeeded(t))
	ctx := context.Background()

	res, err := s.Apply(ctx, 10, domain.SavePlan{
		Upserts: []domain.Record{
			{ActivityID: 10, StudentID: 1, Position: domain.First, TeamName: "Owls"},
			{ActivityID: 10, StudentID: 3},
			{ActivityID: 10, StudentID: 4, Position: domain.Second, TeamName: "Hawks"},
		},
		Removals: []int64{2},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Upserted != 3 || res.Deleted != 0 {
		t.Errorf("result = %+v, want 3 upserted, 0 deleted", res)
	}

	got, err := s.ListByActivityRoom(ctx, 10, store.ListFilter{Room: 4})
	if err != nil {
		t.Fatalf("ListByActivityRoom: %v", err)
	}
	want := []domain.Record{
		{ActivityID: 10, StudentID: 1, Position: domain.First, TeamName: "Owls"},
		{ActivityID: 10, StudentID: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	filtered, err := s.ListByActivityRoom(ctx, 10, store.ListFilter{Room: 4, SchoolYear: "2025-2026"})
	if err != nil || len(filtered) != 1 || filtered[0].StudentID != 1 {
		t.Errorf("year filtered = %+v, %v", filtered, err)
	}
}

func TestSQLiteStore_ApplyCountsOnlyExistingDeletes(t *testing.T) {
	s := store.NewSQLiteStore(openSeeded(t))
	ctx := context.Background()

	if _, err := s.Apply(ctx, 10, domain.SavePlan{Upserts: []domain.Record{{ActivityID: 10, StudentID: 1}}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	res, err := s.Apply(ctx, 10, domain.SavePlan{
		Upserts:  []domain.Record{{ActivityID: 10, StudentID: 2, Position: domain.Third, TeamName: "Owls"}},
		Removals: []int64{1, 3},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Upserted != 1 || res.Deleted != 1 {
		t.Errorf("result = %+v, want 1 upserted, 1 deleted", res)
	}

	// Updating an existing row replaces position and team name.
	if _, err := s.Apply(ctx, 10, domain.SavePlan{Upserts: []domain.Record{{ActivityID: 10, StudentID: 2}}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, err := s.ListByActivityRoom(ctx, 10, store.ListFilter{Room: 4})
	if err != nil {
		t.Fatalf("ListByActivityRoom: %v", err)
	}
	if len(got) != 1 || got[0] != (domain.Record{ActivityID: 10, StudentID: 2}) {
		t.Errorf("got %+v", got)
	}
}

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// TestSQLiteStore_ApplyRollsBackOnFailure verifies a failing delete undoes the upserts.
func TestSQLiteStore_ApplyRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	s := store.NewSQLiteStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO activity_participants").
		WithArgs(int64(10), int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM activity_participants").
		WithArgs(int64(10), int64(2)).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err := s.Apply(context.Background(), 10, domain.SavePlan{
		Upserts:  []domain.Record{{ActivityID: 10, StudentID: 1, Position: domain.First}},
		Removals: []int64{2},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

// TestSQLiteStore_ApplyBeginFailure verifies nothing runs without a transaction.
func TestSQLiteStore_ApplyBeginFailure(t *testing.T) {
	db, mock := newMockDB(t)
	s := store.NewSQLiteStore(db)

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	if _, err := s.Apply(context.Background(), 10, domain.SavePlan{Removals: []int64{1}}); err == nil {
		t.Fatal("expected error")
	}
}
