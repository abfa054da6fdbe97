package model

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	gorm.Model
	LocationID   uint      `json:"location_id"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Capacity     int       `json:"capacity"`
	RequiredRank *string   `json:"required_rank"`
	// Version backs the conditional update on concurrent admin edits
	// (last-write-wins with a version check).
	Version int `json:"version" gorm:"default:1"`
	// CheckInToken is embedded in the event's QR code; scans resolve the
	// event through it.
	CheckInToken string `json:"-" gorm:"uniqueIndex"`

	Location    Location     `json:"location" gorm:"foreignKey:LocationID"`
	Assignments []Assignment `json:"assignments,omitempty"`
}

// IsPast reports whether the event window has already elapsed. Past events
// must never be mutated.
func (e *Event) IsPast(now time.Time) bool {
	return !e.EndTime.After(now)
}

// Overlaps compares time windows as half-open intervals, so events that
// merely touch at a boundary do not overlap.
func (e *Event) Overlaps(other *Event) bool {
	return e.StartTime.Before(other.EndTime) && other.StartTime.Before(e.EndTime)
}
