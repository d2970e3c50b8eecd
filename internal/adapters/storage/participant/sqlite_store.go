package participant

import (
	"context"
	"database/sql"
	"fmt"

	"roster/internal/adapters/storage"
	domain "roster/internal/domain/participation"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new participant store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListByActivityRoom returns the confirmed rows of students in the room,
// ordered by student ID.
// PRE: activityID is positive, filter.Room is positive
func (s *SQLiteStore) ListByActivityRoom(ctx context.Context, activityID int64, filter ListFilter) ([]domain.Record, error) {
	query := `SELECT ap.activity_id, ap.student_id, ap.position, ap.team_name
		FROM activity_participants ap
		JOIN students s ON s.id = ap.student_id
		WHERE ap.activity_id = ? AND s.room = ?`
	args := []any{activityID, filter.Room}
	if filter.SchoolYear != "" {
		query += " AND s.school_year = ?"
		args = append(args, filter.SchoolYear)
	}
	query += " ORDER BY ap.student_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Record{}
	for rows.Next() {
		var rec domain.Record
		var position sql.NullInt64
		var team sql.NullString
		if err := rows.Scan(&rec.ActivityID, &rec.StudentID, &position, &team); err != nil {
			return nil, err
		}
		if position.Valid {
			rec.Position = domain.Position(position.Int64)
		}
		rec.TeamName = team.String
		results = append(results, rec)
	}
	return results, rows.Err()
}

// Apply stores the plan's rows and removes the listed students in one
// transaction. Deleted counts only rows that existed.
// PRE: plan was produced by PlanSave for activityID
// POST: on success every upsert is stored and no removal remains; on error nothing changed
func (s *SQLiteStore) Apply(ctx context.Context, activityID int64, plan domain.SavePlan) (domain.SaveResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.SaveResult{}, err
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO activity_participants (activity_id, student_id, position, team_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(activity_id, student_id) DO UPDATE SET position=excluded.position, team_name=excluded.team_name`
	for _, rec := range plan.Upserts {
		var position, team any
		if rec.Position.IsSet() {
			position = int(rec.Position)
		}
		if rec.TeamName != "" {
			team = rec.TeamName
		}
		if _, err := tx.ExecContext(ctx, upsert, activityID, rec.StudentID, position, team); err != nil {
			return domain.SaveResult{}, fmt.Errorf("upsert student %d: %w", rec.StudentID, err)
		}
	}

	deleted := 0
	for _, studentID := range plan.Removals {
		res, err := tx.ExecContext(ctx, "DELETE FROM activity_participants WHERE activity_id = ? AND student_id = ?", activityID, studentID)
		if err != nil {
			return domain.SaveResult{}, fmt.Errorf("delete student %d: %w", studentID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return domain.SaveResult{}, err
		}
		deleted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return domain.SaveResult{}, err
	}
	return domain.SaveResult{Upserted: len(plan.Upserts), Deleted: deleted}, nil
}
