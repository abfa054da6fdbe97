package repository

import (
	"github.com/caylanwilcox/qr-system-sub003/internal/model"

	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(employee *model.Employee) error
	GetByID(id uint) (*model.Employee, error)
	GetByEmail(email string) (*model.Employee, error)
	GetAll() ([]model.Employee, error)
	GetByLocation(locationID uint) ([]model.Employee, error)
	UpdatePassword(id uint, hash string) error
	UpdateRank(id uint, rank string) error
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db}
}

func (r *employeeRepository) Create(employee *model.Employee) error {
	return r.db.Create(employee).Error
}

func (r *employeeRepository) GetByID(id uint) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.Preload("Location").First(&employee, id).Error
	return &employee, err
}

func (r *employeeRepository) GetByEmail(email string) (*model.Employee, error) {
	var employee model.Employee
	// Find + Limit(1) so GORM does not log "record not found" on every probe
	err := r.db.Preload("Location").Where("email = ?", email).Limit(1).Find(&employee).Error
	if err != nil {
		return nil, err
	}
	if employee.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &employee, nil
}

func (r *employeeRepository) GetAll() ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.Preload("Location").Where("is_active = ?", true).Order("name asc").Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) GetByLocation(locationID uint) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.Where("location_id = ? AND is_active = ?", locationID, true).Order("name asc").Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) UpdatePassword(id uint, hash string) error {
	return r.db.Model(&model.Employee{}).Where("id = ?", id).Update("password", hash).Error
}

func (r *employeeRepository) UpdateRank(id uint, rank string) error {
	return r.db.Model(&model.Employee{}).Where("id = ?", id).Update("rank", rank).Error
}
