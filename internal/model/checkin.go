package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	CheckInOnTime = "on_time"
	CheckInLate   = "late"
)

// CheckIn records one QR scan for an assigned employee at a running event.
type CheckIn struct {
	gorm.Model
	EventID     uint      `json:"event_id"`
	EmployeeID  uint      `json:"employee_id"`
	Token       string    `json:"token" gorm:"index"`
	Status      string    `json:"status"`
	CheckedInAt time.Time `json:"checked_in_at"`

	Event    Event    `json:"event" gorm:"foreignKey:EventID"`
	Employee Employee `json:"employee" gorm:"foreignKey:EmployeeID"`
}
