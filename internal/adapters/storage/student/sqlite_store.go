package student

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"roster/internal/adapters/storage"
	domain "roster/internal/domain/student"
)

const columns = "id, school_name, grade, first_name, last_name, school_year, dob, room, program_name"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new student store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (domain.Student, error) {
	var s domain.Student
	var dob, program sql.NullString
	err := row.Scan(&s.ID, &s.SchoolName, &s.Grade, &s.FirstName, &s.LastName, &s.SchoolYear, &dob, &s.Room, &program)
	s.DOB = dob.String
	s.ProgramName = program.String
	return s, err
}

// GetByID retrieves a Student by its ID.
// PRE: id is positive
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Student, error) {
	entity, err := scanStudent(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM students WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}

// Save persists a Student (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Student) error {
	query := "INSERT INTO students (" + columns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) " +
		"ON CONFLICT(id) DO UPDATE SET school_name=excluded.school_name, grade=excluded.grade, " +
		"first_name=excluded.first_name, last_name=excluded.last_name, school_year=excluded.school_year, " +
		"dob=excluded.dob, room=excluded.room, program_name=excluded.program_name"
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.SchoolName,
		entity.Grade,
		entity.FirstName,
		entity.LastName,
		entity.SchoolYear,
		nullIfEmpty(entity.DOB),
		entity.Room,
		nullIfEmpty(entity.ProgramName),
	)
	return err
}

// List returns students ordered by first then last name.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Student, error) {
	var where []string
	var args []any
	if filter.Room > 0 {
		where = append(where, "room = ?")
		args = append(args, filter.Room)
	}
	if filter.SchoolYear != "" {
		where = append(where, "school_year = ?")
		args = append(args, filter.SchoolYear)
	}
	query := "SELECT " + columns + " FROM students"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY first_name, last_name, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Student{}
	for rows.Next() {
		entity, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// ListSchoolYears returns distinct non-empty school years, newest first.
func (s *SQLiteStore) ListSchoolYears(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT school_year FROM students WHERE school_year <> '' ORDER BY school_year DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	years := []string{}
	for rows.Next() {
		var y string
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// ListRooms returns distinct rooms in ascending order, optionally for one school year.
func (s *SQLiteStore) ListRooms(ctx context.Context, schoolYear string) ([]int, error) {
	query := "SELECT DISTINCT room FROM students"
	var args []any
	if schoolYear != "" {
		query += " WHERE school_year = ?"
		args = append(args, schoolYear)
	}
	query += " ORDER BY room"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := []int{}
	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// ExistingIDs reports which of ids are known students.
func (s *SQLiteStore) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM students WHERE id IN ("+strings.Join(placeholders, ", ")+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	return found, rows.Err()
}

// Count returns the number of students.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&n)
	return n, err
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
