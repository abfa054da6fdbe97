// Package notification sends best-effort email after event changes.
// Failures are logged by the caller and never roll back a commit.
package notification

import (
	"fmt"

	"github.com/caylanwilcox/qr-system-sub003/config"
	"github.com/caylanwilcox/qr-system-sub003/internal/model"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"

	"gopkg.in/gomail.v2"
)

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Mailer struct {
	dialer       *gomail.Dialer
	from         string
	employeeRepo repository.EmployeeRepository
}

func NewMailer(employeeRepo repository.EmployeeRepository) *Mailer {
	host := config.GetEnv("SMTP_HOST", "localhost")
	port := config.GetEnvAsInt("SMTP_PORT", 587)
	user := config.GetEnv("SMTP_USER", "")
	pass := config.GetEnv("SMTP_PASSWORD", "")

	return &Mailer{
		dialer:       gomail.NewDialer(host, port, user, pass),
		from:         config.GetEnv("SMTP_FROM", "scheduler@qr-system.local"),
		employeeRepo: employeeRepo,
	}
}

// EventPublished mails every participant about a created or updated event.
// One failed recipient fails the whole result, but partial delivery is
// acceptable: this is a post-commit side effect.
func (m *Mailer) EventPublished(event *model.Event, participantIDs []uint) Result {
	if len(participantIDs) == 0 {
		return Result{Success: true, Message: "no participants to notify"}
	}

	sent := 0
	for _, id := range participantIDs {
		emp, err := m.employeeRepo.GetByID(id)
		if err != nil || emp.Email == "" {
			continue
		}

		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", emp.Email)
		msg.SetHeader("Subject", fmt.Sprintf("Schedule update: %s", event.Title))
		msg.SetBody("text/plain", fmt.Sprintf(
			"Hi %s,\n\n%q has been scheduled for %s - %s.\n\nDescription: %s\n",
			emp.Name,
			event.Title,
			event.StartTime.Format("Mon Jan 2 15:04"),
			event.EndTime.Format("15:04"),
			event.Description,
		))

		if err := m.dialer.DialAndSend(msg); err != nil {
			return Result{Success: false, Message: fmt.Sprintf("smtp send failed after %d of %d: %v", sent, len(participantIDs), err)}
		}
		sent++
	}

	return Result{Success: true, Message: fmt.Sprintf("notified %d participants", sent)}
}
