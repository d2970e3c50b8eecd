package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"roster/internal/domain/activity"
	"roster/internal/domain/student"
)

// StudentStoreForSeed defines the store interface needed by SeedRoster.
type StudentStoreForSeed interface {
	Save(ctx context.Context, s student.Student) error
	Count(ctx context.Context) (int, error)
}

// ActivityStoreForSeed defines the store interface needed by SeedRoster.
type ActivityStoreForSeed interface {
	Save(ctx context.Context, a activity.Activity) error
	Count(ctx context.Context) (int, error)
}

// SeedRosterDeps holds dependencies for SeedRoster.
type SeedRosterDeps struct {
	StudentStore  StudentStoreForSeed
	ActivityStore ActivityStoreForSeed
	Now           func() time.Time // optional: defaults to time.Now
}

var seedNames = [][2]string{
	{"Aroha", "Ngata"}, {"Ben", "Fisher"}, {"Chloe", "Tan"}, {"Daniel", "Okafor"},
	{"Ella", "Brooks"}, {"Finn", "Walker"}, {"Grace", "Li"}, {"Hemi", "Parata"},
	{"Isla", "Murphy"}, {"Jack", "Singh"}, {"Kaia", "Rossi"}, {"Liam", "Nguyen"},
}

// SchoolYearFor returns the academic year containing t; years start in August.
func SchoolYearFor(t time.Time) string {
	start := t.Year()
	if t.Month() < time.August {
		start--
	}
	return fmt.Sprintf("%d-%d", start, start+1)
}

// ExecuteSeedRoster creates sample students and activities if there are no activities.
// PRE: stores are migrated
// POST: two rooms of students and a mix of individual and team activities exist
func ExecuteSeedRoster(ctx context.Context, deps SeedRosterDeps) error {
	n, err := deps.ActivityStore.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil // Already seeded
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	today := now()
	year := SchoolYearFor(today)

	rooms := []int{4, 5}
	var id int64
	for i, name := range seedNames {
		id++
		s := student.Student{
			ID:         id,
			SchoolName: "Kowhai School",
			Grade:      fmt.Sprintf("Y%d", 3+i%2),
			FirstName:  name[0],
			LastName:   name[1],
			SchoolYear: year,
			Room:       rooms[i%len(rooms)],
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("seed student %d: %w", s.ID, err)
		}
		if err := deps.StudentStore.Save(ctx, s); err != nil {
			return err
		}
	}

	activities := []activity.Activity{
		{ID: 1, Name: "Spelling Bee", ActivityDate: today.AddDate(0, 0, -14).Format("2006-01-02"), ShowInUI: true},
		{ID: 2, Name: "Relay Race", ActivityDate: today.AddDate(0, 0, -7).Format("2006-01-02"), IsTeam: true, ShowInUI: true},
		{ID: 3, Name: "Science Fair", ActivityDate: today.Format("2006-01-02"), ShowInUI: true},
		{ID: 4, Name: "Tug of War", ActivityDate: today.AddDate(0, 0, 7).Format("2006-01-02"), IsTeam: true, ShowInUI: true},
		{ID: 5, Name: "Staff Planning", ActivityDate: today.Format("2006-01-02")},
	}
	for _, a := range activities {
		a.Year = today.Year()
		if err := a.Validate(); err != nil {
			return fmt.Errorf("seed activity %d: %w", a.ID, err)
		}
		if err := deps.ActivityStore.Save(ctx, a); err != nil {
			return err
		}
	}

	slog.Info("seed_event", "event", "roster_seeded", "school_year", year, "students", len(seedNames), "activities", len(activities))
	return nil
}
