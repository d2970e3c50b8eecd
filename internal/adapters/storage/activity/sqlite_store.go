package activity

import (
	"context"
	"database/sql"
	"fmt"

	"roster/internal/adapters/storage"
	domain "roster/internal/domain/activity"
)

const columns = "id, year, name, activity_date, is_team, show_in_ui"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new activity store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(row scanner) (domain.Activity, error) {
	var a domain.Activity
	err := row.Scan(&a.ID, &a.Year, &a.Name, &a.ActivityDate, &a.IsTeam, &a.ShowInUI)
	return a, err
}

// GetByID retrieves an Activity by its ID.
// PRE: id is positive
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Activity, error) {
	entity, err := scanActivity(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM activities WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return domain.Activity{}, fmt.Errorf("activity not found: %w", err)
	}
	return entity, err
}

// Save persists an Activity (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Activity) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO activities ("+columns+") VALUES (?, ?, ?, ?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET year=excluded.year, name=excluded.name, "+
			"activity_date=excluded.activity_date, is_team=excluded.is_team, show_in_ui=excluded.show_in_ui",
		entity.ID, entity.Year, entity.Name, entity.ActivityDate, entity.IsTeam, entity.ShowInUI,
	)
	return err
}

// List returns activities by date (newest first) then name.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Activity, error) {
	query := "SELECT " + columns + " FROM activities"
	if filter.VisibleOnly {
		query += " WHERE show_in_ui = 1"
	}
	query += " ORDER BY activity_date DESC, name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Activity{}
	for rows.Next() {
		entity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of activities.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&n)
	return n, err
}
