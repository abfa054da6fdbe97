package model

import "gorm.io/gorm"

const (
	AssignmentPending   = "pending"
	AssignmentConfirmed = "confirmed"
	AssignmentCancelled = "cancelled"
)

// Assignment links one employee to one event. Cancellation is a status
// change, never a row delete, so the history stays queryable.
type Assignment struct {
	gorm.Model
	EventID    uint   `json:"event_id"`
	EmployeeID uint   `json:"employee_id"`
	Status     string `json:"status" gorm:"default:pending"`

	Event    Event    `json:"event" gorm:"foreignKey:EventID"`
	Employee Employee `json:"employee" gorm:"foreignKey:EmployeeID"`
}

// Active reports whether the assignment still counts against capacity and
// overlap checks.
func (a *Assignment) Active() bool {
	return a.Status != AssignmentCancelled
}
