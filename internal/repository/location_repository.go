package repository

import (
	"github.com/caylanwilcox/qr-system-sub003/internal/model"

	"gorm.io/gorm"
)

type LocationRepository interface {
	GetAll() ([]model.Location, error)
	GetByID(id uint) (*model.Location, error)
	Create(location *model.Location) error
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db}
}

func (r *locationRepository) GetAll() ([]model.Location, error) {
	var locations []model.Location
	err := r.db.Order("name asc").Find(&locations).Error
	return locations, err
}

func (r *locationRepository) GetByID(id uint) (*model.Location, error) {
	var location model.Location
	err := r.db.First(&location, id).Error
	return &location, err
}

func (r *locationRepository) Create(location *model.Location) error {
	return r.db.Create(location).Error
}
