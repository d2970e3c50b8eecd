package activity

import (
	"errors"
	"strings"
	"time"
)

// Kind labels for activities.
const (
	KindIndividual = "individual"
	KindTeam       = "team"
)

// Domain errors.
var (
	ErrInvalidID   = errors.New("activity id must be positive")
	ErrEmptyName   = errors.New("activity name is required")
	ErrInvalidDate = errors.New("activity date must be YYYY-MM-DD")
	ErrInvalidYear = errors.New("activity year must be positive")
)

// Activity is a schedulable event students can take part in.
// IsTeam decides whether team names travel with participation rows.
type Activity struct {
	ID           int64  `json:"id"`
	Year         int    `json:"year"`
	Name         string `json:"name"`
	ActivityDate string `json:"activity_date"` // YYYY-MM-DD
	IsTeam       bool   `json:"is_team"`
	ShowInUI     bool   `json:"show_in_ui"`
}

// Validate checks if the Activity has valid data.
// PRE: Activity struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name is non-empty and ActivityDate parses as a calendar date
func (a *Activity) Validate() error {
	if a.ID <= 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if a.Year <= 0 {
		return ErrInvalidYear
	}
	if _, err := a.Date(); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Date parses ActivityDate.
func (a Activity) Date() (time.Time, error) {
	return time.Parse("2006-01-02", a.ActivityDate)
}

// Kind returns KindTeam or KindIndividual.
func (a Activity) Kind() string {
	if a.IsTeam {
		return KindTeam
	}
	return KindIndividual
}
