package repository

import (
	"errors"
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/model"

	"gorm.io/gorm"
)

// ErrStaleVersion reports a lost versioned update: another admin committed
// a newer revision of the event between read and write.
var ErrStaleVersion = errors.New("stale event version")

type EventRepository interface {
	Create(event *model.Event) error
	GetByID(id uint) (*model.Event, error)
	GetInRange(from, to time.Time) ([]model.Event, error)
	GetInRangeByLocation(from, to time.Time, locationID uint) ([]model.Event, error)
	GetByCheckInToken(token string) (*model.Event, error)
	UpdateVersioned(event *model.Event) error
	Delete(id uint) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db}
}

func (r *eventRepository) Create(event *model.Event) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) GetByID(id uint) (*model.Event, error) {
	var event model.Event
	err := r.db.Preload("Location").First(&event, id).Error
	return &event, err
}

func (r *eventRepository) GetInRange(from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	// Half-open range probe: anything whose window intersects [from, to)
	err := r.db.Preload("Location").
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time asc").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) GetInRangeByLocation(from, to time.Time, locationID uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.Preload("Location").
		Where("location_id = ? AND start_time < ? AND end_time > ?", locationID, to, from).
		Order("start_time asc").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) GetByCheckInToken(token string) (*model.Event, error) {
	var event model.Event
	err := r.db.Where("check_in_token = ?", token).Limit(1).Find(&event).Error
	if err != nil {
		return nil, err
	}
	if event.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &event, nil
}

// UpdateVersioned commits the event only when the stored version still
// matches event.Version, then bumps it. Last-write-wins with a version
// check: the loser gets ErrStaleVersion and must reload.
func (r *eventRepository) UpdateVersioned(event *model.Event) error {
	res := r.db.Model(&model.Event{}).
		Where("id = ? AND version = ?", event.ID, event.Version).
		Updates(map[string]interface{}{
			"location_id":   event.LocationID,
			"title":         event.Title,
			"description":   event.Description,
			"start_time":    event.StartTime,
			"end_time":      event.EndTime,
			"capacity":      event.Capacity,
			"required_rank": event.RequiredRank,
			"version":       event.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	event.Version++
	return nil
}

func (r *eventRepository) Delete(id uint) error {
	return r.db.Delete(&model.Event{}, id).Error
}
