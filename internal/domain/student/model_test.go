package student_test

import (
	"errors"
	"testing"

	"roster/internal/domain/student"
)

// TestStudent_Validate tests validation of Student.
func TestStudent_Validate(t *testing.T) {
	valid := student.Student{ID: 1, FirstName: "Ana", LastName: "Lopez", Room: 4, SchoolYear: "2025-2026", DOB: "2016-05-04"}

	tests := []struct {
		name    string
		mutate  func(*student.Student)
		wantErr error
	}{
		{name: "valid student", mutate: func(*student.Student) {}},
		{name: "no dob", mutate: func(s *student.Student) { s.DOB = "" }},
		{name: "zero id", mutate: func(s *student.Student) { s.ID = 0 }, wantErr: student.ErrInvalidID},
		{name: "blank last name", mutate: func(s *student.Student) { s.LastName = "  " }, wantErr: student.ErrEmptyName},
		{name: "zero room", mutate: func(s *student.Student) { s.Room = 0 }, wantErr: student.ErrInvalidRoom},
		{name: "single year", mutate: func(s *student.Student) { s.SchoolYear = "2025" }, wantErr: student.ErrInvalidSchoolYear},
		{name: "bad dob", mutate: func(s *student.Student) { s.DOB = "04/05/2016" }, wantErr: student.ErrInvalidDOB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestStudent_DisplayName tests name formatting.
func TestStudent_DisplayName(t *testing.T) {
	s := student.Student{FirstName: "Ana", LastName: "Lopez"}
	if got := s.DisplayName(); got != "Ana Lopez" {
		t.Errorf("DisplayName() = %q, want %q", got, "Ana Lopez")
	}
	s = student.Student{FirstName: "Ana"}
	if got := s.DisplayName(); got != "Ana" {
		t.Errorf("DisplayName() = %q, want %q", got, "Ana")
	}
}
