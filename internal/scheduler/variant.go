package scheduler

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/engine"
	"github.com/caylanwilcox/qr-system-sub003/internal/model"
	"github.com/caylanwilcox/qr-system-sub003/internal/notification"

	"github.com/google/uuid"
)

// Notifier is the post-commit notification collaborator. Failures are
// logged, never surfaced as blocking errors and never rolled back.
type Notifier interface {
	EventPublished(event *model.Event, participantIDs []uint) notification.Result
}

// Variant is the per-role scheduler a mounted viewer drives. One instance
// per viewer; all methods are safe for the cooperative single-caller model
// the HTTP layer provides, and serialize internally regardless.
type Variant interface {
	Tag() VariantTag
	Initialize() error
	Navigate(view ViewMode, date time.Time) error
	OpenEventDialog(target *uint)
	CloseEventDialog()
	OpenAssignmentDialog()
	CloseAssignmentDialog()
	SubmitEvent(input EventInput) (*model.Event, error)
	SubmitAssignment(eventID, employeeID uint) (*model.Assignment, error)
	CancelAssignment(assignmentID uint) error
	Snapshot() Snapshot
	Unmount()
}

// Snapshot is what the rendering collaborator receives.
type Snapshot struct {
	Tag         VariantTag         `json:"tag"`
	State       ViewState          `json:"state"`
	Events      []model.Event      `json:"events"`
	Assignments []model.Assignment `json:"assignments"`
}

type EventInput struct {
	ID           *uint     `json:"id"`
	LocationID   uint      `json:"location_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Capacity     int       `json:"capacity"`
	RequiredRank *string   `json:"required_rank"`
	Version      int       `json:"version"`
}

// Options tune a variant instance. Zero values get sensible defaults.
type Options struct {
	Timeout time.Duration    // bound on every store call
	Now     func() time.Time // injectable clock for tests
	View    ViewMode         // initial view mode
	Date    time.Time        // initial selected date
}

const defaultStoreTimeout = 10 * time.Second

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = defaultStoreTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.View == "" {
		o.View = ViewWeek
	}
	if o.Date.IsZero() {
		o.Date = o.Now()
	}
	return o
}

// core carries the state machine shared by both variants. The concrete
// types supply Tag plus the role-gated operations.
type core struct {
	tag      VariantTag
	viewer   Claims
	scope    Scope
	store    Store
	notifier Notifier
	timeout  time.Duration
	now      func() time.Time

	state *StateStore

	mu          sync.Mutex
	events      []model.Event
	assignments []model.Assignment
	cached      *Range
	inFlight    map[string]bool
	generation  int
	unmounted   bool
}

func newCore(tag VariantTag, viewer Claims, scope Scope, store Store, notifier Notifier, opts Options) core {
	opts = opts.withDefaults()
	return core{
		tag:      tag,
		viewer:   viewer,
		scope:    scope,
		store:    store,
		notifier: notifier,
		timeout:  opts.Timeout,
		now:      opts.Now,
		state:    NewStateStore(opts.View, opts.Date),
		inFlight: make(map[string]bool),
	}
}

func (c *core) Tag() VariantTag { return c.tag }

// guard marks key in flight; a false return means an identical submit is
// still outstanding and this one must be ignored, not interleaved.
func (c *core) guard(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted || c.inFlight[key] {
		return false
	}
	c.inFlight[key] = true
	return true
}

func (c *core) release(key string) {
	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()
}

func (c *core) gen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// alive reports whether a result that started at gen may still be applied.
// A result arriving after Unmount is discarded wholesale.
func (c *core) alive(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.unmounted && gen == c.generation
}

// Unmount destroys the instance: in-flight results are discarded when they
// arrive and no state is mutated afterwards.
func (c *core) Unmount() {
	c.mu.Lock()
	c.unmounted = true
	c.generation++
	c.mu.Unlock()
}

func (c *core) Snapshot() Snapshot {
	c.mu.Lock()
	events := make([]model.Event, len(c.events))
	copy(events, c.events)
	assignments := make([]model.Assignment, len(c.assignments))
	copy(assignments, c.assignments)
	c.mu.Unlock()
	return Snapshot{
		Tag:         c.tag,
		State:       c.state.Get(),
		Events:      events,
		Assignments: assignments,
	}
}

// Initialize runs the first fetch for the current view/date window.
func (c *core) Initialize() error {
	st := c.state.Get()
	return c.fetchRange(RangeFor(st.View, st.Date))
}

// Navigate changes the visible window. No fetch happens when the cached
// range already covers the new one; otherwise this is the Initialize fetch
// path scoped to the new range.
func (c *core) Navigate(view ViewMode, date time.Time) error {
	c.state.SetView(view)
	c.state.SetDate(date)

	want := RangeFor(view, date)
	c.mu.Lock()
	cachedCovers := c.cached != nil && c.cached.Covers(want)
	c.mu.Unlock()
	if cachedCovers {
		return nil
	}
	return c.fetchRange(want)
}

func (c *core) OpenEventDialog(target *uint) { c.state.SetEventDialog(true, target) }
func (c *core) CloseEventDialog()            { c.state.SetEventDialog(false, nil) }
func (c *core) OpenAssignmentDialog()        { c.state.SetAssignmentDialog(true) }
func (c *core) CloseAssignmentDialog()       { c.state.SetAssignmentDialog(false) }

type fetchResult struct {
	events      []model.Event
	assignments []model.Assignment
	err         error
}

// fetchRange loads events and assignments for r. loading is set true on
// entry and false on every exit path; the error field persists until the
// next successful fetch.
func (c *core) fetchRange(r Range) error {
	gen := c.gen()
	c.state.SetLoading(true)

	ch := make(chan fetchResult, 1)
	go func() {
		events, err := c.store.FetchEvents(c.scope, r)
		if err != nil {
			ch <- fetchResult{err: err}
			return
		}
		assignments, err := c.store.FetchAssignments(c.scope, r)
		ch <- fetchResult{events: events, assignments: assignments, err: err}
	}()

	var res fetchResult
	select {
	case res = <-ch:
	case <-time.After(c.timeout):
		res.err = fmt.Errorf("timed out after %s", c.timeout)
	}

	if !c.alive(gen) {
		return nil
	}
	if res.err != nil {
		c.state.SetError("failed to load schedule: " + res.err.Error())
		c.state.SetLoading(false)
		return storeErr("fetch", res.err)
	}

	c.mu.Lock()
	c.events = res.events
	c.assignments = res.assignments
	c.cached = &r
	c.mu.Unlock()

	c.state.ClearError()
	c.state.SetLoading(false)
	c.state.FinishInitialLoad()
	return nil
}

// refresh reloads the cached window after a successful commit.
func (c *core) refresh() {
	c.mu.Lock()
	r := c.cached
	c.mu.Unlock()
	if r == nil {
		st := c.state.Get()
		rr := RangeFor(st.View, st.Date)
		r = &rr
	}
	if err := c.fetchRange(*r); err != nil {
		log.Printf("scheduler: post-commit refresh failed: %v", err)
	}
}

func validateEventInput(in EventInput) error {
	if in.Title == "" {
		return &ValidationError{Field: "title", Msg: "title is required"}
	}
	if in.LocationID == 0 {
		return &ValidationError{Field: "location", Msg: "location is required"}
	}
	if !in.StartTime.Before(in.EndTime) {
		return &ValidationError{Field: "time", Msg: "start must be before end"}
	}
	if in.Capacity < 1 {
		return &ValidationError{Field: "capacity", Msg: "capacity must be at least 1"}
	}
	if in.RequiredRank != nil && *in.RequiredRank != "" && !engine.RankAtLeast(*in.RequiredRank, model.RankJunior) {
		return &ValidationError{Field: "required_rank", Msg: "unknown rank"}
	}
	return nil
}

func rankPtrEqual(a, b *string) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return *a == *b
	}
}

type eventResult struct {
	event        *model.Event
	participants []uint
	err          error
}

// submitEvent validates, commits, and reconciles an event create or edit.
// Only the admin variant exposes it. On any failure the dialog stays open
// and the error is surfaced; nothing is retried automatically.
func (c *core) submitEvent(in EventInput) (*model.Event, error) {
	key := "event:new"
	if in.ID != nil {
		key = fmt.Sprintf("event:%d", *in.ID)
	}
	if !c.guard(key) {
		return nil, ErrOperationInFlight
	}
	defer c.release(key)

	if err := validateEventInput(in); err != nil {
		c.state.SetError(err.Error())
		return nil, err
	}

	gen := c.gen()
	now := c.now()
	c.state.SetLoading(true)

	ch := make(chan eventResult, 1)
	go func() { ch <- c.commitEvent(in, now) }()

	var res eventResult
	select {
	case res = <-ch:
	case <-time.After(c.timeout):
		res.err = storeErr("commit event", fmt.Errorf("timed out after %s", c.timeout))
	}

	if !c.alive(gen) {
		return nil, nil
	}
	if res.err != nil {
		c.state.SetError(res.err.Error())
		c.state.SetLoading(false)
		return nil, res.err
	}

	c.state.SetLoading(false)
	c.state.ClearError()
	c.CloseEventDialog()

	if c.notifier != nil {
		if r := c.notifier.EventPublished(res.event, res.participants); !r.Success {
			log.Printf("scheduler: notification failed for event %d: %s", res.event.ID, r.Message)
		}
	}

	c.refresh()
	return res.event, nil
}

// commitEvent runs on the store side of the suspension point and returns
// errors already classified for the taxonomy.
func (c *core) commitEvent(in EventInput, now time.Time) eventResult {
	if in.ID == nil {
		event := &model.Event{
			LocationID:   in.LocationID,
			Title:        in.Title,
			Description:  in.Description,
			StartTime:    in.StartTime,
			EndTime:      in.EndTime,
			Capacity:     in.Capacity,
			RequiredRank: in.RequiredRank,
			Version:      1,
			CheckInToken: uuid.NewString(),
		}
		if err := c.store.CreateEvent(event); err != nil {
			return eventResult{err: storeErr("create event", err)}
		}
		return eventResult{event: event}
	}

	current, err := c.store.GetEvent(*in.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return eventResult{err: &ValidationError{Field: "event", Msg: "event not found"}}
		}
		return eventResult{err: storeErr("load event", err)}
	}
	if current.IsPast(now) {
		return eventResult{err: &ValidationError{Field: "event", Msg: "past events cannot be modified"}}
	}

	active, err := c.store.ActiveAssignmentsForEvent(current.ID)
	if err != nil {
		return eventResult{err: storeErr("load assignments", err)}
	}
	participants := make([]uint, 0, len(active))
	for i := range active {
		participants = append(participants, active[i].EmployeeID)
	}

	// Re-run engine constraints only when capacity or rank changed.
	if current.Capacity != in.Capacity || !rankPtrEqual(current.RequiredRank, in.RequiredRank) {
		if len(active) > in.Capacity {
			return eventResult{err: &ConflictError{
				Reason: engine.ReasonCapacityExceeded,
				Msg:    fmt.Sprintf("%d employees already assigned, capacity cannot shrink to %d", len(active), in.Capacity),
			}}
		}
		if in.RequiredRank != nil && *in.RequiredRank != "" {
			for i := range active {
				if !engine.RankAtLeast(active[i].Employee.Rank, *in.RequiredRank) {
					return eventResult{err: &ConflictError{
						Reason: engine.ReasonRankIneligible,
						Msg:    fmt.Sprintf("%s does not meet the new required rank", active[i].Employee.Name),
					}}
				}
			}
		}
	}

	event := *current
	event.LocationID = in.LocationID
	event.Title = in.Title
	event.Description = in.Description
	event.StartTime = in.StartTime
	event.EndTime = in.EndTime
	event.Capacity = in.Capacity
	event.RequiredRank = in.RequiredRank
	if in.Version > 0 {
		// Honor the revision the admin actually looked at, not whatever is
		// current now. Last-write-wins with a version check.
		event.Version = in.Version
	}

	if err := c.store.UpdateEvent(&event); err != nil {
		if errors.Is(err, ErrStaleVersion) {
			return eventResult{err: &ConflictError{
				Reason: "VERSION_CONFLICT",
				Msg:    "event was modified by another admin, reload and retry",
			}}
		}
		return eventResult{err: storeErr("update event", err)}
	}
	return eventResult{event: &event, participants: participants}
}

type assignmentResult struct {
	assignment *model.Assignment
	err        error
}

// submitAssignment gates the commit behind the engine. A rejection
// surfaces the specific reason and commits nothing.
func (c *core) submitAssignment(eventID, employeeID uint, status string) (*model.Assignment, error) {
	key := fmt.Sprintf("assignment:%d:%d", eventID, employeeID)
	if !c.guard(key) {
		return nil, ErrOperationInFlight
	}
	defer c.release(key)

	gen := c.gen()
	now := c.now()
	c.state.SetLoading(true)

	ch := make(chan assignmentResult, 1)
	go func() { ch <- c.commitAssignment(eventID, employeeID, status, now) }()

	var res assignmentResult
	select {
	case res = <-ch:
	case <-time.After(c.timeout):
		res.err = storeErr("commit assignment", fmt.Errorf("timed out after %s", c.timeout))
	}

	if !c.alive(gen) {
		return nil, nil
	}
	if res.err != nil {
		c.state.SetError(res.err.Error())
		c.state.SetLoading(false)
		return nil, res.err
	}

	c.state.SetLoading(false)
	c.state.ClearError()
	c.CloseAssignmentDialog()
	c.refresh()
	return res.assignment, nil
}

func (c *core) commitAssignment(eventID, employeeID uint, status string, now time.Time) assignmentResult {
	event, err := c.store.GetEvent(eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return assignmentResult{err: &ValidationError{Field: "event", Msg: "event not found"}}
		}
		return assignmentResult{err: storeErr("load event", err)}
	}
	if event.IsPast(now) {
		return assignmentResult{err: &ValidationError{Field: "event", Msg: "cannot assign to past events"}}
	}

	employee, err := c.store.GetEmployee(employeeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return assignmentResult{err: &ValidationError{Field: "employee", Msg: "employee not found"}}
		}
		return assignmentResult{err: storeErr("load employee", err)}
	}

	existing, err := c.store.EvaluationSet(eventID, employeeID)
	if err != nil {
		return assignmentResult{err: storeErr("load assignments", err)}
	}

	if decision := engine.Evaluate(event, employee, existing); !decision.Accepted {
		return assignmentResult{err: &ConflictError{Reason: decision.Reason}}
	}

	assignment := &model.Assignment{
		EventID:    eventID,
		EmployeeID: employeeID,
		Status:     status,
	}
	if err := c.store.CreateAssignment(assignment, event.Capacity); err != nil {
		// Lost the race against another client; the conditional write is
		// authoritative where the engine check was advisory.
		if errors.Is(err, ErrCapacityFull) {
			return assignmentResult{err: &ConflictError{Reason: engine.ReasonCapacityExceeded}}
		}
		if errors.Is(err, ErrDuplicatePair) {
			return assignmentResult{err: &ConflictError{Reason: engine.ReasonDuplicateAssignment}}
		}
		return assignmentResult{err: storeErr("create assignment", err)}
	}
	return assignmentResult{assignment: assignment}
}

// cancelAssignment flips status to cancelled; the record is kept. permit
// is the role-specific authorization hook. Cancelling an already-cancelled
// assignment is a no-op.
func (c *core) cancelAssignment(assignmentID uint, permit func(*model.Assignment, time.Time) error) error {
	key := fmt.Sprintf("cancel:%d", assignmentID)
	if !c.guard(key) {
		return ErrOperationInFlight
	}
	defer c.release(key)

	gen := c.gen()
	now := c.now()
	c.state.SetLoading(true)

	type cancelResult struct {
		changed bool
		err     error
	}
	ch := make(chan cancelResult, 1)
	go func() {
		assignment, err := c.store.GetAssignment(assignmentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				ch <- cancelResult{err: &ValidationError{Field: "assignment", Msg: "assignment not found"}}
				return
			}
			ch <- cancelResult{err: storeErr("load assignment", err)}
			return
		}
		if !assignment.Active() {
			ch <- cancelResult{changed: false}
			return
		}
		if err := permit(assignment, now); err != nil {
			ch <- cancelResult{err: err}
			return
		}
		changed, err := c.store.CancelAssignment(assignmentID)
		if err != nil {
			ch <- cancelResult{err: storeErr("cancel assignment", err)}
			return
		}
		ch <- cancelResult{changed: changed}
	}()

	var res cancelResult
	select {
	case res = <-ch:
	case <-time.After(c.timeout):
		res.err = storeErr("cancel assignment", fmt.Errorf("timed out after %s", c.timeout))
	}

	if !c.alive(gen) {
		return nil
	}
	if res.err != nil {
		c.state.SetError(res.err.Error())
		c.state.SetLoading(false)
		return res.err
	}

	c.state.SetLoading(false)
	c.state.ClearError()
	if res.changed {
		c.refresh()
	}
	return nil
}
