package scheduler

import (
	"errors"

	"github.com/caylanwilcox/qr-system-sub003/internal/model"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"

	"gorm.io/gorm"
)

// GormStore adapts the repository layer to the Store port.
type GormStore struct {
	events      repository.EventRepository
	assignments repository.AssignmentRepository
	employees   repository.EmployeeRepository
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		events:      repository.NewEventRepository(db),
		assignments: repository.NewAssignmentRepository(db),
		employees:   repository.NewEmployeeRepository(db),
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrStaleVersion):
		return ErrStaleVersion
	case errors.Is(err, repository.ErrCapacityFull):
		return ErrCapacityFull
	case errors.Is(err, repository.ErrDuplicateAssignment):
		return ErrDuplicatePair
	default:
		return err
	}
}

func (s *GormStore) FetchEvents(scope Scope, r Range) ([]model.Event, error) {
	if scope.AllLocations {
		events, err := s.events.GetInRange(r.From, r.To)
		return events, translate(err)
	}
	events, err := s.events.GetInRangeByLocation(r.From, r.To, scope.LocationID)
	return events, translate(err)
}

func (s *GormStore) FetchAssignments(scope Scope, r Range) ([]model.Assignment, error) {
	if scope.AllLocations {
		assignments, err := s.assignments.GetInRange(r.From, r.To)
		return assignments, translate(err)
	}
	assignments, err := s.assignments.GetForEmployeeInRange(scope.EmployeeID, r.From, r.To)
	return assignments, translate(err)
}

func (s *GormStore) GetEvent(id uint) (*model.Event, error) {
	event, err := s.events.GetByID(id)
	if err != nil {
		return nil, translate(err)
	}
	return event, nil
}

func (s *GormStore) GetEmployee(id uint) (*model.Employee, error) {
	employee, err := s.employees.GetByID(id)
	if err != nil {
		return nil, translate(err)
	}
	return employee, nil
}

func (s *GormStore) GetAssignment(id uint) (*model.Assignment, error) {
	assignment, err := s.assignments.GetByID(id)
	if err != nil {
		return nil, translate(err)
	}
	return assignment, nil
}

func (s *GormStore) ActiveAssignmentsForEvent(eventID uint) ([]model.Assignment, error) {
	assignments, err := s.assignments.GetActiveForEvent(eventID)
	return assignments, translate(err)
}

func (s *GormStore) EvaluationSet(eventID, employeeID uint) ([]model.Assignment, error) {
	assignments, err := s.assignments.GetEvaluationSet(eventID, employeeID)
	return assignments, translate(err)
}

func (s *GormStore) CreateEvent(event *model.Event) error {
	return translate(s.events.Create(event))
}

func (s *GormStore) UpdateEvent(event *model.Event) error {
	return translate(s.events.UpdateVersioned(event))
}

func (s *GormStore) CreateAssignment(assignment *model.Assignment, capacity int) error {
	return translate(s.assignments.CreateWithCapacity(assignment, capacity))
}

func (s *GormStore) CancelAssignment(id uint) (bool, error) {
	changed, err := s.assignments.Cancel(id)
	return changed, translate(err)
}
