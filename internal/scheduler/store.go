package scheduler

import (
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/model"
)

// Claims is what the identity provider supplies for the current viewer.
type Claims struct {
	EmployeeID uint   `json:"employee_id"`
	Role       string `json:"role"`
	LocationID uint   `json:"location_id"`
}

// Range is a half-open [From, To) calendar window.
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Covers reports whether other fits entirely inside r. Used to decide if a
// navigation can be served from the local cache without a refetch.
func (r Range) Covers(other Range) bool {
	return !other.From.Before(r.From) && !other.To.After(r.To)
}

// RangeFor computes the visible window for a view mode around date. Weeks
// start on Monday.
func RangeFor(view ViewMode, date time.Time) Range {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	switch view {
	case ViewDay:
		return Range{From: day, To: day.AddDate(0, 0, 1)}
	case ViewMonth:
		first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
		return Range{From: first, To: first.AddDate(0, 1, 0)}
	default: // week
		offset := (int(day.Weekday()) + 6) % 7
		monday := day.AddDate(0, 0, -offset)
		return Range{From: monday, To: monday.AddDate(0, 0, 7)}
	}
}

// Scope restricts what a variant sees: admins read every location,
// employees read their own assignments plus their location's events.
type Scope struct {
	AllLocations bool
	EmployeeID   uint
	LocationID   uint
}

// Store is the data-store port the variants drive. Every call is treated
// as fallible; implementations translate their conditional-write misses
// into ErrCapacityFull / ErrDuplicatePair / ErrStaleVersion and missing
// rows into ErrNotFound.
type Store interface {
	FetchEvents(scope Scope, r Range) ([]model.Event, error)
	FetchAssignments(scope Scope, r Range) ([]model.Assignment, error)
	GetEvent(id uint) (*model.Event, error)
	GetEmployee(id uint) (*model.Employee, error)
	GetAssignment(id uint) (*model.Assignment, error)
	ActiveAssignmentsForEvent(eventID uint) ([]model.Assignment, error)
	EvaluationSet(eventID, employeeID uint) ([]model.Assignment, error)
	CreateEvent(event *model.Event) error
	UpdateEvent(event *model.Event) error
	CreateAssignment(assignment *model.Assignment, capacity int) error
	CancelAssignment(id uint) (bool, error)
}
