package scheduler

import (
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/model"
)

// AdminVariant sees every location, manages events, and commits
// assignments directly as confirmed.
type AdminVariant struct {
	core
}

func NewAdminVariant(viewer Claims, store Store, notifier Notifier, opts Options) *AdminVariant {
	return &AdminVariant{
		core: newCore(VariantAdmin, viewer, Scope{AllLocations: true}, store, notifier, opts),
	}
}

func (v *AdminVariant) SubmitEvent(input EventInput) (*model.Event, error) {
	return v.submitEvent(input)
}

func (v *AdminVariant) SubmitAssignment(eventID, employeeID uint) (*model.Assignment, error) {
	return v.submitAssignment(eventID, employeeID, model.AssignmentConfirmed)
}

func (v *AdminVariant) CancelAssignment(assignmentID uint) error {
	return v.cancelAssignment(assignmentID, func(a *model.Assignment, now time.Time) error {
		if !a.Event.StartTime.After(now) {
			return &ValidationError{Field: "assignment", Msg: "only assignments for future events can be cancelled"}
		}
		return nil
	})
}
