// Package engine decides whether an employee may be assigned to an event.
// It is pure: no I/O, no clock, no store access. The caller commits only
// after an accepted decision, and the database's conditional writes remain
// the final authority on capacity under concurrent clients.
package engine

import "github.com/caylanwilcox/qr-system-sub003/internal/model"

type Reason string

const (
	ReasonCapacityExceeded    Reason = "CAPACITY_EXCEEDED"
	ReasonDuplicateAssignment Reason = "DUPLICATE_ASSIGNMENT"
	ReasonRankIneligible      Reason = "RANK_INELIGIBLE"
	ReasonScheduleConflict    Reason = "SCHEDULE_CONFLICT"
)

type Decision struct {
	Accepted bool   `json:"accepted"`
	Reason   Reason `json:"reason,omitempty"`
}

func accept() Decision         { return Decision{Accepted: true} }
func reject(r Reason) Decision { return Decision{Accepted: false, Reason: r} }

var rankOrder = map[string]int{
	model.RankJunior:       1,
	model.RankIntermediate: 2,
	model.RankSenior:       3,
}

// RankAtLeast reports whether have meets the want rank on the ordering
// junior < intermediate < senior. Unknown labels never satisfy a
// requirement.
func RankAtLeast(have, want string) bool {
	h, ok := rankOrder[have]
	if !ok {
		return false
	}
	w, ok := rankOrder[want]
	if !ok {
		return false
	}
	return h >= w
}

// Evaluate runs the eligibility checks in order, short-circuiting on the
// first failure. existing must carry every non-cancelled assignment for
// the target event plus the employee's own assignments with their Event
// relation populated (cancelled rows are tolerated and skipped).
func Evaluate(event *model.Event, employee *model.Employee, existing []model.Assignment) Decision {
	active := 0
	for i := range existing {
		if existing[i].EventID == event.ID && existing[i].Active() {
			active++
		}
	}
	if active >= event.Capacity {
		return reject(ReasonCapacityExceeded)
	}

	for i := range existing {
		a := &existing[i]
		if a.EventID == event.ID && a.EmployeeID == employee.ID && a.Active() {
			return reject(ReasonDuplicateAssignment)
		}
	}

	if event.RequiredRank != nil && *event.RequiredRank != "" {
		if !RankAtLeast(employee.Rank, *event.RequiredRank) {
			return reject(ReasonRankIneligible)
		}
	}

	for i := range existing {
		a := &existing[i]
		if a.EmployeeID != employee.ID || a.EventID == event.ID || !a.Active() {
			continue
		}
		if event.Overlaps(&a.Event) {
			return reject(ReasonScheduleConflict)
		}
	}

	return accept()
}
