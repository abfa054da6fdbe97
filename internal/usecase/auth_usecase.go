package usecase

import (
	"errors"
	"time"

	"github.com/caylanwilcox/qr-system-sub003/config"
	"github.com/caylanwilcox/qr-system-sub003/internal/model"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("invalid email or password")

type AuthUsecase struct {
	repo repository.EmployeeRepository
}

func NewAuthUsecase(repo repository.EmployeeRepository) *AuthUsecase {
	return &AuthUsecase{repo: repo}
}

// Register hashes the password and stores the employee. New registrations
// always start as plain employees; rank and role promotions are admin
// operations.
func (u *AuthUsecase) Register(name, email, password string, locationID uint) (*model.Employee, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	employee := model.Employee{
		Name:       name,
		Email:      email,
		Password:   string(hashedPassword),
		LocationID: locationID,
		Rank:       model.RankJunior,
		Role:       model.RoleEmployee,
		IsActive:   true,
	}
	if err := u.repo.Create(&employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// Login verifies credentials and issues a 24h token carrying the claims
// the scheduler needs: employee_id, role, location_id.
func (u *AuthUsecase) Login(email, password string) (string, *model.Employee, error) {
	employee, err := u.repo.GetByEmail(email)
	if err != nil {
		return "", nil, ErrBadCredentials
	}
	if !employee.IsActive {
		return "", nil, ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(password)); err != nil {
		return "", nil, ErrBadCredentials
	}

	claims := jwt.MapClaims{
		"employee_id": employee.ID,
		"role":        employee.Role,
		"location_id": employee.LocationID,
		"exp":         time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(config.JWTSecret())
	if err != nil {
		return "", nil, err
	}
	return signed, employee, nil
}

// ChangePassword verifies the old password before storing a new hash.
func (u *AuthUsecase) ChangePassword(employeeID uint, oldPassword, newPassword string) error {
	employee, err := u.repo.GetByID(employeeID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(oldPassword)); err != nil {
		return ErrBadCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return u.repo.UpdatePassword(employeeID, string(hashed))
}
