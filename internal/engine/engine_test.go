package engine

import (
	"testing"
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/model"

	"gorm.io/gorm"
)

func mkEvent(id uint, start, end string, capacity int, requiredRank string) model.Event {
	day := "2026-03-02T"
	s, _ := time.Parse(time.RFC3339, day+start+":00Z")
	e, _ := time.Parse(time.RFC3339, day+end+":00Z")
	ev := model.Event{
		Model:     gorm.Model{ID: id},
		Title:     "event",
		StartTime: s,
		EndTime:   e,
		Capacity:  capacity,
	}
	if requiredRank != "" {
		ev.RequiredRank = &requiredRank
	}
	return ev
}

func mkAssignment(eventID, employeeID uint, status string, event model.Event) model.Assignment {
	return model.Assignment{
		EventID:    eventID,
		EmployeeID: employeeID,
		Status:     status,
		Event:      event,
	}
}

func TestEvaluateCapacity(t *testing.T) {
	eventA := mkEvent(1, "09:00", "10:00", 1, "")
	x := model.Employee{Model: gorm.Model{ID: 10}, Rank: model.RankSenior}
	y := model.Employee{Model: gorm.Model{ID: 11}, Rank: model.RankSenior}

	existing := []model.Assignment{
		mkAssignment(1, x.ID, model.AssignmentConfirmed, eventA),
	}

	t.Run("full event rejects a second employee", func(t *testing.T) {
		got := Evaluate(&eventA, &y, existing)
		if got.Accepted || got.Reason != ReasonCapacityExceeded {
			t.Fatalf("Evaluate = %+v, want rejection with %s", got, ReasonCapacityExceeded)
		}
	})

	t.Run("cancelling frees the slot", func(t *testing.T) {
		existing[0].Status = model.AssignmentCancelled
		got := Evaluate(&eventA, &y, existing)
		if !got.Accepted {
			t.Fatalf("Evaluate = %+v, want accepted after cancellation", got)
		}
	})
}

func TestEvaluateDuplicate(t *testing.T) {
	eventA := mkEvent(1, "09:00", "10:00", 5, "")
	x := model.Employee{Model: gorm.Model{ID: 10}, Rank: model.RankJunior}
	existing := []model.Assignment{
		mkAssignment(1, x.ID, model.AssignmentPending, eventA),
	}

	got := Evaluate(&eventA, &x, existing)
	if got.Accepted || got.Reason != ReasonDuplicateAssignment {
		t.Fatalf("Evaluate = %+v, want rejection with %s", got, ReasonDuplicateAssignment)
	}

	// A cancelled prior assignment does not count as a duplicate.
	existing[0].Status = model.AssignmentCancelled
	if got := Evaluate(&eventA, &x, existing); !got.Accepted {
		t.Fatalf("Evaluate = %+v, want accepted when prior assignment is cancelled", got)
	}
}

func TestEvaluateRank(t *testing.T) {
	eventA := mkEvent(1, "09:00", "10:00", 5, model.RankSenior)
	emp := model.Employee{Model: gorm.Model{ID: 10}, Rank: model.RankJunior}

	got := Evaluate(&eventA, &emp, nil)
	if got.Accepted || got.Reason != ReasonRankIneligible {
		t.Fatalf("Evaluate = %+v, want rejection with %s", got, ReasonRankIneligible)
	}

	// Promoting the employee and retrying flips the decision.
	emp.Rank = model.RankSenior
	if got := Evaluate(&eventA, &emp, nil); !got.Accepted {
		t.Fatalf("Evaluate = %+v, want accepted after promotion", got)
	}
}

func TestEvaluateOverlap(t *testing.T) {
	eventA := mkEvent(1, "09:00", "10:00", 5, "")
	eventB := mkEvent(2, "09:30", "10:30", 5, "")
	eventC := mkEvent(3, "10:00", "11:00", 5, "")
	x := model.Employee{Model: gorm.Model{ID: 10}, Rank: model.RankIntermediate}

	existing := []model.Assignment{
		mkAssignment(1, x.ID, model.AssignmentConfirmed, eventA),
	}

	t.Run("overlapping window rejected", func(t *testing.T) {
		got := Evaluate(&eventB, &x, existing)
		if got.Accepted || got.Reason != ReasonScheduleConflict {
			t.Fatalf("Evaluate = %+v, want rejection with %s", got, ReasonScheduleConflict)
		}
	})

	t.Run("touching boundaries do not overlap", func(t *testing.T) {
		got := Evaluate(&eventC, &x, existing)
		if !got.Accepted {
			t.Fatalf("Evaluate = %+v, want accepted for back-to-back events", got)
		}
	})

	t.Run("cancelled assignments do not conflict", func(t *testing.T) {
		cancelled := []model.Assignment{
			mkAssignment(1, x.ID, model.AssignmentCancelled, eventA),
		}
		if got := Evaluate(&eventB, &x, cancelled); !got.Accepted {
			t.Fatalf("Evaluate = %+v, want accepted against cancelled assignment", got)
		}
	})
}

func TestEvaluateCheckOrder(t *testing.T) {
	// A full event that would also be a duplicate must report capacity
	// first; the checks short-circuit in a fixed order.
	eventA := mkEvent(1, "09:00", "10:00", 1, model.RankSenior)
	x := model.Employee{Model: gorm.Model{ID: 10}, Rank: model.RankJunior}
	existing := []model.Assignment{
		mkAssignment(1, x.ID, model.AssignmentConfirmed, eventA),
	}

	got := Evaluate(&eventA, &x, existing)
	if got.Reason != ReasonCapacityExceeded {
		t.Fatalf("Evaluate reason = %s, want %s first", got.Reason, ReasonCapacityExceeded)
	}
}

func TestRankAtLeast(t *testing.T) {
	cases := []struct {
		have, want string
		ok         bool
	}{
		{model.RankJunior, model.RankJunior, true},
		{model.RankJunior, model.RankSenior, false},
		{model.RankIntermediate, model.RankJunior, true},
		{model.RankSenior, model.RankIntermediate, true},
		{"", model.RankJunior, false},
		{"mystery", model.RankJunior, false},
	}
	for _, c := range cases {
		if got := RankAtLeast(c.have, c.want); got != c.ok {
			t.Errorf("RankAtLeast(%q, %q) = %v, want %v", c.have, c.want, got, c.ok)
		}
	}
}
