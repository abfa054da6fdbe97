package model

import "gorm.io/gorm"

// Rank ordering is junior < intermediate < senior; comparisons live in the
// assignment engine, the column just stores the label.
const (
	RankJunior       = "junior"
	RankIntermediate = "intermediate"
	RankSenior       = "senior"
)

const (
	RoleEmployee   = "employee"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type Employee struct {
	gorm.Model
	LocationID uint   `json:"location_id"`
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"unique;not null"`
	Password   string `json:"-"`
	Rank       string `json:"rank" gorm:"default:junior"`
	Role       string `json:"role" gorm:"default:employee"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`

	Location    Location     `json:"location" gorm:"foreignKey:LocationID"`
	Assignments []Assignment `json:"assignments,omitempty"`
}
