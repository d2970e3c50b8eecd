package student

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// schoolYearPattern matches academic years such as "2024-2025".
var schoolYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// Domain errors.
var (
	ErrInvalidID         = errors.New("student id must be positive")
	ErrEmptyName         = errors.New("student first and last name are required")
	ErrInvalidRoom       = errors.New("student room must be positive")
	ErrInvalidSchoolYear = errors.New("school year must look like 2024-2025")
	ErrInvalidDOB        = errors.New("date of birth must be YYYY-MM-DD")
)

// Student is a roster entry. The participation core treats it as read-only.
type Student struct {
	ID          int64  `json:"id"`
	SchoolName  string `json:"school_name"`
	Grade       string `json:"grade"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	SchoolYear  string `json:"school_year"`
	DOB         string `json:"dob,omitempty"` // YYYY-MM-DD
	Room        int    `json:"room"`
	ProgramName string `json:"program_name,omitempty"`
}

// Validate checks if the Student has valid data.
// PRE: Student struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: ID and Room are positive, both names are set
func (s *Student) Validate() error {
	if s.ID <= 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(s.FirstName) == "" || strings.TrimSpace(s.LastName) == "" {
		return ErrEmptyName
	}
	if s.Room <= 0 {
		return ErrInvalidRoom
	}
	if !schoolYearPattern.MatchString(s.SchoolYear) {
		return ErrInvalidSchoolYear
	}
	if s.DOB != "" {
		if _, err := time.Parse("2006-01-02", s.DOB); err != nil {
			return ErrInvalidDOB
		}
	}
	return nil
}

// DisplayName returns "First Last".
func (s Student) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
