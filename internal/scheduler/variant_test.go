package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/engine"
	"github.com/caylanwilcox/qr-system-sub003/internal/model"
	"github.com/caylanwilcox/qr-system-sub003/internal/notification"

	"gorm.io/gorm"
)

// testNow is a Monday at 08:00; the fixture events run later that day.
var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func hoursAt(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

type fakeStore struct {
	mu          sync.Mutex
	events      map[uint]*model.Event
	employees   map[uint]*model.Employee
	assignments map[uint]*model.Assignment
	nextID      uint

	fetchCalls int
	fetchErr   error
	updateErr  error
	assignErr  error
	fetchGate  chan struct{}
	assignGate chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:      make(map[uint]*model.Event),
		employees:   make(map[uint]*model.Employee),
		assignments: make(map[uint]*model.Assignment),
		nextID:      100,
	}
}

func (f *fakeStore) addEvent(e model.Event) *model.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[e.ID] = &e
	return &e
}

func (f *fakeStore) addEmployee(e model.Employee) *model.Employee {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employees[e.ID] = &e
	return &e
}

func (f *fakeStore) addAssignment(a model.Assignment) *model.Assignment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == 0 {
		f.nextID++
		a.ID = f.nextID
	}
	f.assignments[a.ID] = &a
	return &a
}

func (f *fakeStore) activeCount(eventID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.assignments {
		if a.EventID == eventID && a.Active() {
			n++
		}
	}
	return n
}

func (f *fakeStore) FetchEvents(scope Scope, r Range) ([]model.Event, error) {
	if f.fetchGate != nil {
		<-f.fetchGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []model.Event
	for _, e := range f.events {
		if e.StartTime.Before(r.To) && r.From.Before(e.EndTime) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) FetchAssignments(scope Scope, r Range) ([]model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []model.Assignment
	for _, a := range f.assignments {
		if !scope.AllLocations && a.EmployeeID != scope.EmployeeID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeStore) GetEvent(id uint) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) GetEmployee(id uint) (*model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) GetAssignment(id uint) (*model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	if e, ok := f.events[a.EventID]; ok {
		cp.Event = *e
	}
	return &cp, nil
}

func (f *fakeStore) ActiveAssignmentsForEvent(eventID uint) ([]model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Assignment
	for _, a := range f.assignments {
		if a.EventID != eventID || !a.Active() {
			continue
		}
		cp := *a
		if e, ok := f.employees[a.EmployeeID]; ok {
			cp.Employee = *e
		}
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeStore) EvaluationSet(eventID, employeeID uint) ([]model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Assignment
	for _, a := range f.assignments {
		if a.EventID != eventID && a.EmployeeID != employeeID {
			continue
		}
		cp := *a
		if e, ok := f.events[a.EventID]; ok {
			cp.Event = *e
		}
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeStore) CreateEvent(event *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	event.ID = f.nextID
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateEvent(event *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	current, ok := f.events[event.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != event.Version {
		return ErrStaleVersion
	}
	cp := *event
	cp.Version++
	f.events[event.ID] = &cp
	event.Version = cp.Version
	return nil
}

func (f *fakeStore) CreateAssignment(assignment *model.Assignment, capacity int) error {
	if f.assignGate != nil {
		<-f.assignGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignErr != nil {
		return f.assignErr
	}
	active := 0
	for _, a := range f.assignments {
		if a.EventID != assignment.EventID || !a.Active() {
			continue
		}
		if a.EmployeeID == assignment.EmployeeID {
			return ErrDuplicatePair
		}
		active++
	}
	if active >= capacity {
		return ErrCapacityFull
	}
	f.nextID++
	assignment.ID = f.nextID
	cp := *assignment
	f.assignments[assignment.ID] = &cp
	return nil
}

func (f *fakeStore) CancelAssignment(id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok {
		return false, ErrNotFound
	}
	if !a.Active() {
		return false, nil
	}
	a.Status = model.AssignmentCancelled
	return true, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []uint // event IDs
}

func (n *fakeNotifier) EventPublished(event *model.Event, participantIDs []uint) notification.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, event.ID)
	return notification.Result{Success: true}
}

func testOptions() Options {
	return Options{
		Timeout: 2 * time.Second,
		Now:     func() time.Time { return testNow },
		View:    ViewWeek,
		Date:    testNow,
	}
}

func seniorPtr() *string {
	s := model.RankSenior
	return &s
}

func newTestAdmin(store Store, notifier Notifier) *AdminVariant {
	return NewAdminVariant(Claims{EmployeeID: 1, Role: model.RoleAdmin, LocationID: 1}, store, notifier, testOptions())
}

func newTestEmployee(store Store, employeeID uint) *EmployeeVariant {
	return NewEmployeeVariant(Claims{EmployeeID: employeeID, Role: model.RoleEmployee, LocationID: 1}, store, nil, testOptions())
}

func seedPeople(f *fakeStore) {
	f.addEmployee(model.Employee{Model: gorm.Model{ID: 1}, Name: "Admin", Rank: model.RankSenior, Role: model.RoleAdmin, LocationID: 1})
	f.addEmployee(model.Employee{Model: gorm.Model{ID: 10}, Name: "X", Rank: model.RankSenior, Role: model.RoleEmployee, LocationID: 1})
	f.addEmployee(model.Employee{Model: gorm.Model{ID: 11}, Name: "Y", Rank: model.RankJunior, Role: model.RoleEmployee, LocationID: 1})
}

func TestInitialize(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "Shift", StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 3, Version: 1})

	v := newTestAdmin(f, nil)
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	snap := v.Snapshot()
	if snap.State.Loading {
		t.Fatal("loading must be cleared after a successful fetch")
	}
	if snap.State.InitialLoad {
		t.Fatal("initial-load flag must flip on the first successful fetch")
	}
	if snap.State.Phase != PhaseReady {
		t.Fatalf("phase = %s, want %s", snap.State.Phase, PhaseReady)
	}
	if len(snap.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(snap.Events))
	}
}

func TestInitializeFailureThenRecovery(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	f.fetchErr = errors.New("connection refused")

	v := newTestAdmin(f, nil)
	err := v.Initialize()

	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("Initialize error = %v, want StoreError", err)
	}
	snap := v.Snapshot()
	if snap.State.Error == "" || snap.State.Loading {
		t.Fatalf("state after failed fetch = %+v, want error set and loading cleared", snap.State)
	}
	if !snap.State.InitialLoad {
		t.Fatal("initial-load flag must only flip on success")
	}

	// Error state is non-terminal: the next successful fetch clears it.
	f.mu.Lock()
	f.fetchErr = nil
	f.mu.Unlock()
	if err := v.Initialize(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	snap = v.Snapshot()
	if snap.State.Error != "" || snap.State.InitialLoad {
		t.Fatalf("state after recovery = %+v, want error cleared and initial load done", snap.State)
	}
}

func TestNavigateServesFromCache(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)

	v := newTestAdmin(f, nil)
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if f.fetchCalls != 1 {
		t.Fatalf("fetchCalls = %d, want 1", f.fetchCalls)
	}

	// A day inside the cached week must not refetch.
	if err := v.Navigate(ViewDay, testNow.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if f.fetchCalls != 1 {
		t.Fatalf("fetchCalls after cached navigate = %d, want 1", f.fetchCalls)
	}

	// The month view is wider than the cached week: refetch.
	if err := v.Navigate(ViewMonth, testNow); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if f.fetchCalls != 2 {
		t.Fatalf("fetchCalls after month navigate = %d, want 2", f.fetchCalls)
	}

	st := v.Snapshot().State
	if st.View != ViewMonth {
		t.Fatalf("view = %s, want month", st.View)
	}
}

func TestCapacityScenario(t *testing.T) {
	// Event A (capacity 1) holds X confirmed. Y is rejected until X's
	// assignment is cancelled.
	f := newFakeStore()
	seedPeople(f)
	f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "A", StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 1, Version: 1})
	existing := f.addAssignment(model.Assignment{EventID: 1, EmployeeID: 10, Status: model.AssignmentConfirmed})

	v := newTestAdmin(f, nil)
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	_, err := v.SubmitAssignment(1, 11)
	var ce *ConflictError
	if !errors.As(err, &ce) || ce.Reason != engine.ReasonCapacityExceeded {
		t.Fatalf("SubmitAssignment = %v, want CAPACITY_EXCEEDED", err)
	}
	if f.activeCount(1) != 1 {
		t.Fatalf("active assignments = %d, want 1 (rejected commit must not land)", f.activeCount(1))
	}

	if err := v.CancelAssignment(existing.ID); err != nil {
		t.Fatalf("CancelAssignment: %v", err)
	}

	a, err := v.SubmitAssignment(1, 11)
	if err != nil {
		t.Fatalf("SubmitAssignment after cancel: %v", err)
	}
	if a.Status != model.AssignmentConfirmed {
		t.Fatalf("admin-initiated assignment status = %s, want confirmed", a.Status)
	}
	if f.activeCount(1) != 1 {
		t.Fatalf("active assignments = %d, want exactly 1", f.activeCount(1))
	}
}

func TestSubmitAssignmentLostConditionalWrite(t *testing.T) {
	// The engine sees a free slot, but another client commits between the
	// advisory check and the insert. The store's conditional write is the
	// authority and its miss must surface as the specific conflict.
	f := newFakeStore()
	seedPeople(f)
	f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "A", StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 1, Version: 1})

	v := newTestAdmin(f, nil)
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	t.Run("capacity taken", func(t *testing.T) {
		f.mu.Lock()
		f.assignErr = ErrCapacityFull
		f.mu.Unlock()

		_, err := v.SubmitAssignment(1, 10)
		var ce *ConflictError
		if !errors.As(err, &ce) || ce.Reason != engine.ReasonCapacityExceeded {
			t.Fatalf("lost capacity race = %v, want CAPACITY_EXCEEDED", err)
		}
		if f.activeCount(1) != 0 {
			t.Fatal("a lost conditional write must commit nothing")
		}
	})

	t.Run("pair taken", func(t *testing.T) {
		f.mu.Lock()
		f.assignErr = ErrDuplicatePair
		f.mu.Unlock()

		_, err := v.SubmitAssignment(1, 10)
		var ce *ConflictError
		if !errors.As(err, &ce) || ce.Reason != engine.ReasonDuplicateAssignment {
			t.Fatalf("lost uniqueness race = %v, want DUPLICATE_ASSIGNMENT", err)
		}
		if f.activeCount(1) != 0 {
			t.Fatal("a lost conditional write must commit nothing")
		}
	})
}

func TestOverlapScenario(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "A", StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 5, Version: 1})
	f.addEvent(model.Event{Model: gorm.Model{ID: 2}, Title: "B", StartTime: hoursAt(9, 30), EndTime: hoursAt(10, 30), Capacity: 5, Version: 1})
	f.addEvent(model.Event{Model: gorm.Model{ID: 3}, Title: "C", StartTime: hoursAt(10, 0), EndTime: hoursAt(11, 0), Capacity: 5, Version: 1})
	f.addAssignment(model.Assignment{EventID: 1, EmployeeID: 10, Status: model.AssignmentConfirmed})

	v := newTestEmployee(f, 10)
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	_, err := v.SubmitAssignment(2, 0)
	var ce *ConflictError
	if !errors.As(err, &ce) || ce.Reason != engine.ReasonScheduleConflict {
		t.Fatalf("overlapping submit = %v, want SCHEDULE_CONFLICT", err)
	}

	a, err := v.SubmitAssignment(3, 0)
	if err != nil {
		t.Fatalf("back-to-back submit: %v", err)
	}
	if a.Status != model.AssignmentPending {
		t.Fatalf("employee-initiated assignment status = %s, want pending", a.Status)
	}
}

func TestRankScenario(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "Senior only", StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 5, RequiredRank: seniorPtr(), Version: 1})

	v := newTestAdmin(f, nil)
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	_, err := v.SubmitAssignment(1, 11) // Y is junior
	var ce *ConflictError
	if !errors.As(err, &ce) || ce.Reason != engine.ReasonRankIneligible {
		t.Fatalf("junior submit = %v, want RANK_INELIGIBLE", err)
	}

	f.mu.Lock()
	f.employees[11].Rank = model.RankSenior
	f.mu.Unlock()

	if _, err := v.SubmitAssignment(1, 11); err != nil {
		t.Fatalf("submit after promotion: %v", err)
	}
}

func TestEmployeeAuthorization(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "A", StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 5, Version: 1})
	other := f.addAssignment(model.Assignment{EventID: 1, EmployeeID: 11, Status: model.AssignmentConfirmed})

	v := newTestEmployee(f, 10)
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	var ae *AuthorizationError

	_, err := v.SubmitEvent(EventInput{Title: "nope", LocationID: 1, StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 1})
	if !errors.As(err, &ae) {
		t.Fatalf("employee SubmitEvent = %v, want AuthorizationError", err)
	}

	_, err = v.SubmitAssignment(1, 11)
	if !errors.As(err, &ae) {
		t.Fatalf("assigning someone else = %v, want AuthorizationError", err)
	}

	err = v.CancelAssignment(other.ID)
	if !errors.As(err, &ae) {
		t.Fatalf("cancelling someone else's assignment = %v, want AuthorizationError", err)
	}
}

func TestCancelIdempotent(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "A", StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 5, Version: 1})
	a := f.addAssignment(model.Assignment{EventID: 1, EmployeeID: 10, Status: model.AssignmentConfirmed})

	v := newTestAdmin(f, nil)
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if err := v.CancelAssignment(a.ID); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	fetches := f.fetchCalls

	// Second cancel: no error, no state change, no refresh.
	if err := v.CancelAssignment(a.ID); err != nil {
		t.Fatalf("second cancel must be a no-op, got %v", err)
	}
	if f.fetchCalls != fetches {
		t.Fatal("no-op cancel must not refetch")
	}
	if f.activeCount(1) != 0 {
		t.Fatal("assignment must stay cancelled")
	}
}

func TestCancelPastEventRejected(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "Yesterday", StartTime: testNow.Add(-20 * time.Hour), EndTime: testNow.Add(-19 * time.Hour), Capacity: 5, Version: 1})
	a := f.addAssignment(model.Assignment{EventID: 1, EmployeeID: 10, Status: model.AssignmentConfirmed})

	v := newTestAdmin(f, nil)
	err := v.CancelAssignment(a.ID)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("cancel on past event = %v, want ValidationError", err)
	}
	if f.activeCount(1) != 1 {
		t.Fatal("past assignment must stay active")
	}
}

func TestSubmitEventValidation(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)

	v := newTestAdmin(f, nil)
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	v.OpenEventDialog(nil)

	cases := []struct {
		name  string
		input EventInput
	}{
		{"missing title", EventInput{LocationID: 1, StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 1}},
		{"missing location", EventInput{Title: "t", StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 1}},
		{"start not before end", EventInput{Title: "t", LocationID: 1, StartTime: hoursAt(10, 0), EndTime: hoursAt(9, 0), Capacity: 1}},
		{"zero capacity", EventInput{Title: "t", LocationID: 1, StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := v.SubmitEvent(c.input)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("SubmitEvent = %v, want ValidationError", err)
			}
			st := v.Snapshot().State
			if !st.EventDialogOpen {
				t.Fatal("dialog must stay open on validation failure")
			}
			if st.Error == "" {
				t.Fatal("validation failure must surface inline")
			}
		})
	}
}

func TestSubmitEventCreate(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	n := &fakeNotifier{}

	v := newTestAdmin(f, n)
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	v.OpenEventDialog(nil)

	event, err := v.SubmitEvent(EventInput{
		Title:      "New Shift",
		LocationID: 1,
		StartTime:  hoursAt(14, 0),
		EndTime:    hoursAt(18, 0),
		Capacity:   2,
	})
	if err != nil {
		t.Fatalf("SubmitEvent: %v", err)
	}
	if event.ID == 0 || event.CheckInToken == "" {
		t.Fatalf("created event = %+v, want ID and check-in token", event)
	}

	st := v.Snapshot().State
	if st.EventDialogOpen {
		t.Fatal("dialog must close after a successful submit")
	}
	if len(n.calls) != 1 {
		t.Fatalf("notifier calls = %d, want 1", len(n.calls))
	}
}

func TestSubmitEventPastImmutable(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	past := f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "Done", StartTime: testNow.Add(-3 * time.Hour), EndTime: testNow.Add(-2 * time.Hour), Capacity: 1, Version: 1})

	v := newTestAdmin(f, nil)
	_, err := v.SubmitEvent(EventInput{
		ID:         &past.ID,
		Title:      "Rewrite history",
		LocationID: 1,
		StartTime:  past.StartTime,
		EndTime:    past.EndTime,
		Capacity:   1,
		Version:    1,
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("edit of past event = %v, want ValidationError", err)
	}
}

func TestSubmitEventCapacityShrinkConflict(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	ev := f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "A", StartTime: hoursAt(9, 0), EndTime: hoursAt(12, 0), Capacity: 2, Version: 1})
	f.addAssignment(model.Assignment{EventID: 1, EmployeeID: 10, Status: model.AssignmentConfirmed})
	f.addAssignment(model.Assignment{EventID: 1, EmployeeID: 11, Status: model.AssignmentConfirmed})

	v := newTestAdmin(f, nil)
	_, err := v.SubmitEvent(EventInput{
		ID:         &ev.ID,
		Title:      "A",
		LocationID: 1,
		StartTime:  ev.StartTime,
		EndTime:    ev.EndTime,
		Capacity:   1, // below the two already assigned
		Version:    1,
	})

	var ce *ConflictError
	if !errors.As(err, &ce) || ce.Reason != engine.ReasonCapacityExceeded {
		t.Fatalf("capacity shrink = %v, want CAPACITY_EXCEEDED", err)
	}
}

func TestSubmitEventVersionConflict(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	ev := f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "A", StartTime: hoursAt(9, 0), EndTime: hoursAt(12, 0), Capacity: 2, Version: 3})

	v := newTestAdmin(f, nil)
	v.OpenEventDialog(&ev.ID)

	_, err := v.SubmitEvent(EventInput{
		ID:         &ev.ID,
		Title:      "A edited",
		LocationID: 1,
		StartTime:  ev.StartTime,
		EndTime:    ev.EndTime,
		Capacity:   2,
		Version:    2, // stale: another admin already committed version 3
	})

	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("stale edit = %v, want ConflictError", err)
	}
	if !v.Snapshot().State.EventDialogOpen {
		t.Fatal("dialog must stay open so the admin can reload and retry")
	}
}

func TestSecondSubmitIgnoredWhileInFlight(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "A", StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 5, Version: 1})
	f.assignGate = make(chan struct{})

	v := newTestAdmin(f, nil)

	done := make(chan error, 1)
	go func() {
		_, err := v.SubmitAssignment(1, 10)
		done <- err
	}()

	// Wait until the first submit is parked at the store.
	deadline := time.After(time.Second)
	for {
		v.mu.Lock()
		parked := len(v.inFlight) == 1
		v.mu.Unlock()
		if parked {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first submit never reached the store")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	_, err := v.SubmitAssignment(1, 10)
	if !errors.Is(err, ErrOperationInFlight) {
		t.Fatalf("second submit = %v, want ErrOperationInFlight", err)
	}

	close(f.assignGate)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if f.activeCount(1) != 1 {
		t.Fatalf("active assignments = %d, want exactly 1", f.activeCount(1))
	}
}

func TestUnmountDiscardsLateFetch(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	f.addEvent(model.Event{Model: gorm.Model{ID: 1}, Title: "A", StartTime: hoursAt(9, 0), EndTime: hoursAt(10, 0), Capacity: 5, Version: 1})
	f.fetchGate = make(chan struct{})

	v := newTestAdmin(f, nil)

	done := make(chan error, 1)
	go func() { done <- v.Initialize() }()

	time.Sleep(10 * time.Millisecond)
	v.Unmount()
	close(f.fetchGate)

	if err := <-done; err != nil {
		t.Fatalf("discarded fetch must not report an error, got %v", err)
	}

	snap := v.Snapshot()
	if len(snap.Events) != 0 {
		t.Fatal("late fetch result must not mutate an unmounted instance")
	}
	if !snap.State.InitialLoad {
		t.Fatal("initial-load flag must not flip after unmount")
	}
}

func TestStoreTimeout(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	f.fetchGate = make(chan struct{})
	t.Cleanup(func() { close(f.fetchGate) })

	opts := testOptions()
	opts.Timeout = 20 * time.Millisecond
	v := NewAdminVariant(Claims{EmployeeID: 1, Role: model.RoleAdmin, LocationID: 1}, f, nil, opts)

	err := v.Initialize()
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("stalled fetch = %v, want StoreError", err)
	}
	st := v.Snapshot().State
	if st.Loading || st.Error == "" {
		t.Fatalf("state after timeout = %+v, want loading cleared and error set", st)
	}
}

func TestManagerMount(t *testing.T) {
	f := newFakeStore()
	seedPeople(f)
	m := NewManager(f, nil, testOptions())

	t.Run("unknown role is unauthorized", func(t *testing.T) {
		_, err := m.Mount(Claims{EmployeeID: 5, Role: "intern"})
		var ae *AuthorizationError
		if !errors.As(err, &ae) {
			t.Fatalf("Mount = %v, want AuthorizationError", err)
		}
	})

	t.Run("admin and employee variants", func(t *testing.T) {
		admin, err := m.Mount(Claims{EmployeeID: 1, Role: model.RoleSuperAdmin})
		if err != nil || admin.Tag() != VariantAdmin {
			t.Fatalf("Mount admin = %v, %v", admin, err)
		}
		emp, err := m.Mount(Claims{EmployeeID: 10, Role: model.RoleEmployee, LocationID: 1})
		if err != nil || emp.Tag() != VariantEmployee {
			t.Fatalf("Mount employee = %v, %v", emp, err)
		}
	})

	t.Run("role change replaces and unmounts the old session", func(t *testing.T) {
		old, err := m.Mount(Claims{EmployeeID: 20, Role: model.RoleEmployee, LocationID: 1})
		if err != nil {
			t.Fatalf("Mount employee: %v", err)
		}
		promoted, err := m.Mount(Claims{EmployeeID: 20, Role: model.RoleAdmin, LocationID: 1})
		if err != nil {
			t.Fatalf("Mount after promotion: %v", err)
		}
		if promoted == old || promoted.Tag() != VariantAdmin {
			t.Fatalf("remount after role change = %v, want a fresh admin variant", promoted.Tag())
		}
		if !old.(*EmployeeVariant).unmounted {
			t.Fatal("replaced session must be unmounted so late results are discarded")
		}
	})

	t.Run("session reuse and unmount", func(t *testing.T) {
		first, _ := m.Mount(Claims{EmployeeID: 1, Role: model.RoleSuperAdmin})
		second, _ := m.Mount(Claims{EmployeeID: 1, Role: model.RoleSuperAdmin})
		if first != second {
			t.Fatal("remount for the same viewer must reuse the session")
		}
		m.Unmount(1)
		if _, ok := m.Get(1); ok {
			t.Fatal("unmounted session must be gone")
		}
	})
}
