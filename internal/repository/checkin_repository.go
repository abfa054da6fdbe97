package repository

import (
	"github.com/caylanwilcox/qr-system-sub003/internal/model"

	"gorm.io/gorm"
)

type CheckInRepository interface {
	Create(checkIn *model.CheckIn) error
	GetByEventAndEmployee(eventID, employeeID uint) (*model.CheckIn, error)
	GetForEvent(eventID uint) ([]model.CheckIn, error)
	CountForEvent(eventID uint) (int64, error)
}

type checkInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &checkInRepository{db}
}

func (r *checkInRepository) Create(checkIn *model.CheckIn) error {
	return r.db.Create(checkIn).Error
}

func (r *checkInRepository) GetByEventAndEmployee(eventID, employeeID uint) (*model.CheckIn, error) {
	var checkIn model.CheckIn
	err := r.db.Where("event_id = ? AND employee_id = ?", eventID, employeeID).Limit(1).Find(&checkIn).Error
	if err != nil {
		return nil, err
	}
	if checkIn.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &checkIn, nil
}

func (r *checkInRepository) GetForEvent(eventID uint) ([]model.CheckIn, error) {
	var checkIns []model.CheckIn
	err := r.db.Preload("Employee").Where("event_id = ?", eventID).Order("checked_in_at asc").Find(&checkIns).Error
	return checkIns, err
}

func (r *checkInRepository) CountForEvent(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.CheckIn{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}
