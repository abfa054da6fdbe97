package scheduler

import (
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/model"
)

// EmployeeVariant is scoped to the viewer's own assignments and their
// location's events. Self-service assignments land as pending until an
// admin confirms them.
type EmployeeVariant struct {
	core
}

func NewEmployeeVariant(viewer Claims, store Store, notifier Notifier, opts Options) *EmployeeVariant {
	scope := Scope{EmployeeID: viewer.EmployeeID, LocationID: viewer.LocationID}
	return &EmployeeVariant{
		core: newCore(VariantEmployee, viewer, scope, store, notifier, opts),
	}
}

func (v *EmployeeVariant) SubmitEvent(input EventInput) (*model.Event, error) {
	return nil, &AuthorizationError{Role: v.viewer.Role, Op: "manage events"}
}

func (v *EmployeeVariant) SubmitAssignment(eventID, employeeID uint) (*model.Assignment, error) {
	// Employees only sign themselves up; 0 means "the viewer".
	if employeeID != 0 && employeeID != v.viewer.EmployeeID {
		return nil, &AuthorizationError{Role: v.viewer.Role, Op: "assign other employees"}
	}
	return v.submitAssignment(eventID, v.viewer.EmployeeID, model.AssignmentPending)
}

func (v *EmployeeVariant) CancelAssignment(assignmentID uint) error {
	return v.cancelAssignment(assignmentID, func(a *model.Assignment, now time.Time) error {
		if a.EmployeeID != v.viewer.EmployeeID {
			return &AuthorizationError{Role: v.viewer.Role, Op: "cancel another employee's assignment"}
		}
		if !a.Event.StartTime.After(now) {
			return &ValidationError{Field: "assignment", Msg: "only assignments for future events can be cancelled"}
		}
		return nil
	})
}
