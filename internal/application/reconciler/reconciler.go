package reconciler

import (
	"context"
	"slices"
	"sync"

	"roster/internal/domain/activity"
	"roster/internal/domain/export"
	"roster/internal/domain/participation"
	"roster/internal/domain/student"
)

// Backend is the collaborator that owns storage.
type Backend interface {
	ListYears(ctx context.Context) ([]string, error)
	ListRooms(ctx context.Context, year string) ([]int, error)
	ListActivities(ctx context.Context) ([]activity.Activity, error)
	ListStudents(ctx context.Context, room int, year string) ([]student.Student, error)
	ListParticipants(ctx context.Context, activityID int64, room int, year string) ([]participation.ParticipantState, error)
	SaveParticipants(ctx context.Context, activityID int64, req participation.SaveRequest) (participation.SaveResult, error)
}

// Selection is the context a grid belongs to. Year is an optional filter;
// zero Room or ActivityID means "not chosen yet".
type Selection struct {
	Year       string
	Room       int
	ActivityID int64
}

// State is an immutable snapshot of everything the Reconciler holds.
type State struct {
	Years      []string
	Rooms      []int
	Activities []activity.Activity
	Roster     []student.Student
	Selection  Selection
	Grid       participation.Grid
	Loading    bool
	LastSave   *participation.SaveResult
	Err        error
	Generation uint64
}

// Activity returns the selected activity, if it is among the loaded ones.
func (s State) Activity() (activity.Activity, bool) {
	for _, a := range s.Activities {
		if a.ID == s.Selection.ActivityID {
			return a, true
		}
	}
	return activity.Activity{}, false
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithYear preselects a year filter.
func WithYear(year string) Option {
	return func(r *Reconciler) {
		r.state.Selection.Year = year
	}
}

// Reconciler is the single owner of the participation grid and its context.
// Every mutation goes through its methods; views read snapshots via State or
// Subscribe. Each context switch bumps a generation counter, and responses
// tagged with an older generation are dropped, so a slow fetch for a
// previous room or activity never lands in the current grid.
// Safe for concurrent use. Backend calls are made without holding the lock.
type Reconciler struct {
	backend Backend

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// New creates a Reconciler with an empty grid and no selection.
func New(backend Backend, opts ...Option) *Reconciler {
	r := &Reconciler{
		backend: backend,
		subs:    make(map[int]func(State)),
	}
	r.state.Grid = participation.NewGrid()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns a consistent snapshot.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Row returns the draft row for a student, or the default row.
func (r *Reconciler) Row(studentID int64) participation.RowState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Grid.Get(studentID)
}

// Export snapshots the loaded roster, activities and grid.
func (r *Reconciler) Export() export.Document {
	s := r.State()
	return export.Build(s.Roster, s.Activities, s.Grid)
}

// Subscribe registers fn to receive a snapshot after every committed change.
// fn runs on the goroutine that made the change and must not block.
// The returned function removes the subscription.
func (r *Reconciler) Subscribe(fn func(State)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

func (r *Reconciler) snapshotLocked() State {
	s := r.state
	s.Years = slices.Clone(s.Years)
	s.Rooms = slices.Clone(s.Rooms)
	s.Activities = slices.Clone(s.Activities)
	s.Roster = slices.Clone(s.Roster)
	if s.LastSave != nil {
		res := *s.LastSave
		s.LastSave = &res
	}
	return s
}

// update applies fn under the lock and notifies subscribers.
func (r *Reconciler) update(fn func(*State)) State {
	r.mu.Lock()
	fn(&r.state)
	snap, subs := r.publishLocked()
	r.mu.Unlock()
	notify(subs, snap)
	return snap
}

// commit is update guarded by generation: when the context moved on since
// gen was issued, nothing is applied and ErrSuperseded is returned.
func (r *Reconciler) commit(gen uint64, fn func(*State)) error {
	r.mu.Lock()
	if r.state.Generation != gen {
		r.mu.Unlock()
		return ErrSuperseded
	}
	fn(&r.state)
	snap, subs := r.publishLocked()
	r.mu.Unlock()
	notify(subs, snap)
	return nil
}

// fail records err as the user-visible error for generation gen.
func (r *Reconciler) fail(gen uint64, err error) error {
	if cerr := r.commit(gen, func(s *State) {
		s.Err = err
		s.Loading = false
	}); cerr != nil {
		return cerr
	}
	return err
}

func (r *Reconciler) publishLocked() (State, []func(State)) {
	subs := make([]func(State), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	return r.snapshotLocked(), subs
}

func notify(subs []func(State), s State) {
	for _, fn := range subs {
		fn(s)
	}
}
