package repository

import (
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/model"

	"gorm.io/gorm"
)

type DashboardRepository interface {
	GetLocationRankSummary() ([]model.LocationRankSummary, error)
	GetDailyStats(day time.Time) (map[string]interface{}, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db}
}

// GetLocationRankSummary aggregates active employee counts by rank per
// location. Derived data, computed on demand and never persisted.
func (r *dashboardRepository) GetLocationRankSummary() ([]model.LocationRankSummary, error) {
	var summary []model.LocationRankSummary
	err := r.db.Table("employees").
		Joins("JOIN locations ON locations.id = employees.location_id").
		Where("employees.is_active = ? AND employees.deleted_at IS NULL", true).
		Group("locations.id, locations.name, employees.rank").
		Select("locations.id as location_id, locations.name as location_name, employees.rank as rank, count(*) as count").
		Order("locations.name asc").
		Scan(&summary).Error
	return summary, err
}

func (r *dashboardRepository) GetDailyStats(day time.Time) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var totalEmployees int64
	r.db.Model(&model.Employee{}).Where("is_active = ?", true).Count(&totalEmployees)
	stats["total_employees"] = totalEmployees

	var eventsToday int64
	r.db.Model(&model.Event{}).
		Where("start_time < ? AND end_time > ?", dayEnd, dayStart).
		Count(&eventsToday)
	stats["events_today"] = eventsToday

	// Assignment counts by status for today's events
	var byStatus []struct {
		Status string
		Count  int64
	}
	r.db.Table("assignments").
		Joins("JOIN events ON events.id = assignments.event_id").
		Where("events.start_time < ? AND events.end_time > ? AND assignments.deleted_at IS NULL", dayEnd, dayStart).
		Group("assignments.status").
		Select("assignments.status as status, count(*) as count").
		Scan(&byStatus)

	statusMap := map[string]int64{
		model.AssignmentPending:   0,
		model.AssignmentConfirmed: 0,
		model.AssignmentCancelled: 0,
	}
	for _, s := range byStatus {
		statusMap[s.Status] = s.Count
	}
	stats["assignments_today"] = statusMap

	var checkInsToday int64
	r.db.Model(&model.CheckIn{}).
		Where("checked_in_at >= ? AND checked_in_at < ?", dayStart, dayEnd).
		Count(&checkInsToday)
	stats["check_ins_today"] = checkInsToday

	return stats, nil
}
