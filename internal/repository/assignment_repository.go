package repository

import (
	"errors"
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/model"

	"gorm.io/gorm"
)

// Conditional-insert misses: the event filled up, or the same pair was
// committed by another client, between the advisory engine check and the
// commit.
var (
	ErrCapacityFull        = errors.New("event capacity reached")
	ErrDuplicateAssignment = errors.New("employee already assigned to this event")
)

type AssignmentRepository interface {
	GetByID(id uint) (*model.Assignment, error)
	GetInRange(from, to time.Time) ([]model.Assignment, error)
	GetForEmployeeInRange(employeeID uint, from, to time.Time) ([]model.Assignment, error)
	GetActiveForEvent(eventID uint) ([]model.Assignment, error)
	GetEvaluationSet(eventID, employeeID uint) ([]model.Assignment, error)
	CreateWithCapacity(assignment *model.Assignment, capacity int) error
	Cancel(id uint) (bool, error)
	CountActiveForEvent(eventID uint) (int64, error)
	GetActiveByEventAndEmployee(eventID, employeeID uint) (*model.Assignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db}
}

func (r *assignmentRepository) GetByID(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.Preload("Event").Preload("Employee").First(&assignment, id).Error
	return &assignment, err
}

func (r *assignmentRepository) GetInRange(from, to time.Time) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.Preload("Event").Preload("Employee").
		Joins("JOIN events ON events.id = assignments.event_id").
		Where("events.start_time < ? AND events.end_time > ?", to, from).
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) GetForEmployeeInRange(employeeID uint, from, to time.Time) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.Preload("Event").
		Joins("JOIN events ON events.id = assignments.event_id").
		Where("assignments.employee_id = ? AND events.start_time < ? AND events.end_time > ?", employeeID, to, from).
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) GetActiveForEvent(eventID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.Preload("Event").Preload("Employee").
		Where("event_id = ? AND status <> ?", eventID, model.AssignmentCancelled).
		Find(&assignments).Error
	return assignments, err
}

// GetEvaluationSet returns everything the assignment engine needs: the
// event's own assignments plus the employee's assignments elsewhere, with
// Event windows preloaded for the overlap check.
func (r *assignmentRepository) GetEvaluationSet(eventID, employeeID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.Preload("Event").
		Where("event_id = ? OR employee_id = ?", eventID, employeeID).
		Find(&assignments).Error
	return assignments, err
}

// CreateWithCapacity inserts only while the event still has a free slot
// and the employee holds no active assignment for it. The engine's checks
// are advisory; this conditional write is the authoritative one, so two
// racing clients cannot both take the last slot or both commit the pair.
func (r *assignmentRepository) CreateWithCapacity(assignment *model.Assignment, capacity int) error {
	now := time.Now()
	res := r.db.Exec(`
		INSERT INTO assignments (created_at, updated_at, event_id, employee_id, status)
		SELECT ?, ?, ?, ?, ?
		FROM DUAL
		WHERE (SELECT COUNT(*) FROM assignments
		       WHERE event_id = ? AND status <> ? AND deleted_at IS NULL) < ?
		  AND NOT EXISTS (SELECT 1 FROM assignments
		       WHERE event_id = ? AND employee_id = ? AND status <> ? AND deleted_at IS NULL)`,
		now, now, assignment.EventID, assignment.EmployeeID, assignment.Status,
		assignment.EventID, model.AssignmentCancelled, capacity,
		assignment.EventID, assignment.EmployeeID, model.AssignmentCancelled,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Tell the two misses apart so the caller reports the right reason.
		var existing int64
		if err := r.db.Model(&model.Assignment{}).
			Where("event_id = ? AND employee_id = ? AND status <> ?",
				assignment.EventID, assignment.EmployeeID, model.AssignmentCancelled).
			Count(&existing).Error; err == nil && existing > 0 {
			return ErrDuplicateAssignment
		}
		return ErrCapacityFull
	}

	// Read the row back so the caller gets the generated ID.
	var created model.Assignment
	err := r.db.
		Where("event_id = ? AND employee_id = ? AND status <> ?",
			assignment.EventID, assignment.EmployeeID, model.AssignmentCancelled).
		Order("id desc").Limit(1).Find(&created).Error
	if err != nil {
		return err
	}
	*assignment = created
	return nil
}

// Cancel flips the status to cancelled and reports whether anything
// changed. Cancelling an already-cancelled assignment is a no-op, not an
// error.
func (r *assignmentRepository) Cancel(id uint) (bool, error) {
	res := r.db.Model(&model.Assignment{}).
		Where("id = ? AND status <> ?", id, model.AssignmentCancelled).
		Update("status", model.AssignmentCancelled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *assignmentRepository) CountActiveForEvent(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Assignment{}).
		Where("event_id = ? AND status <> ?", eventID, model.AssignmentCancelled).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepository) GetActiveByEventAndEmployee(eventID, employeeID uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.Preload("Event").
		Where("event_id = ? AND employee_id = ? AND status <> ?", eventID, employeeID, model.AssignmentCancelled).
		Limit(1).Find(&assignment).Error
	if err != nil {
		return nil, err
	}
	if assignment.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &assignment, nil
}
