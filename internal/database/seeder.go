package database

import (
	"log"
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAll populates locations, a first super admin, sample employees and a
// pair of upcoming events. Idempotent: reruns reuse existing rows.
func SeedAll(db *gorm.DB) {
	downtown := model.Location{Name: "Downtown", Address: "210 W Madison St"}
	db.FirstOrCreate(&downtown, model.Location{Name: downtown.Name})

	westside := model.Location{Name: "West Side", Address: "1800 S Ashland Ave"}
	db.FirstOrCreate(&westside, model.Location{Name: westside.Name})

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)

	admin := model.Employee{
		Name:       "System Administrator",
		Email:      "admin@qr-system.local",
		Password:   string(hashedPassword),
		LocationID: downtown.ID,
		Rank:       model.RankSenior,
		Role:       model.RoleSuperAdmin,
		IsActive:   true,
	}
	if res := db.FirstOrCreate(&admin, model.Employee{Email: admin.Email}); res.Error == nil {
		// Keep the seed password in sync even when the row already exists.
		db.Model(&admin).Update("password", string(hashedPassword))
		log.Println("seeded admin account")
	}

	employees := []model.Employee{
		{Name: "Ana Torres", Email: "ana@qr-system.local", Rank: model.RankSenior, LocationID: downtown.ID},
		{Name: "Marcus Webb", Email: "marcus@qr-system.local", Rank: model.RankIntermediate, LocationID: downtown.ID},
		{Name: "Priya Nair", Email: "priya@qr-system.local", Rank: model.RankJunior, LocationID: westside.ID},
	}
	empPassword, _ := bcrypt.GenerateFromPassword([]byte("welcome1"), bcrypt.DefaultCost)
	for _, e := range employees {
		e.Password = string(empPassword)
		e.Role = model.RoleEmployee
		e.IsActive = true
		db.FirstOrCreate(&e, model.Employee{Email: e.Email})
	}

	seniorRank := model.RankSenior
	nextMonday := nextWeekday(time.Now(), time.Monday)
	events := []model.Event{
		{
			LocationID:   downtown.ID,
			Title:        "Morning Shift",
			Description:  "Front desk coverage",
			StartTime:    at(nextMonday, 9),
			EndTime:      at(nextMonday, 13),
			Capacity:     3,
			Version:      1,
			CheckInToken: uuid.NewString(),
		},
		{
			LocationID:   downtown.ID,
			Title:        "Closing Shift",
			Description:  "Requires a senior on site",
			StartTime:    at(nextMonday, 17),
			EndTime:      at(nextMonday, 22),
			Capacity:     2,
			RequiredRank: &seniorRank,
			Version:      1,
			CheckInToken: uuid.NewString(),
		},
	}
	for _, ev := range events {
		db.FirstOrCreate(&ev, model.Event{Title: ev.Title, StartTime: ev.StartTime})
	}

	log.Println("seeding complete")
}

func nextWeekday(from time.Time, day time.Weekday) time.Time {
	d := from.AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func at(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}
