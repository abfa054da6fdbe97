package scheduler

import (
	"sync"
	"time"
)

type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// Phase tracks the variant lifecycle: Uninitialized -> Loading -> Ready,
// Ready -> Loading on a range change that needs a refetch, Ready <->
// DialogOpen on dialog toggles. Nothing is terminal except unmount.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseReady         Phase = "ready"
	PhaseDialogOpen    Phase = "dialog_open"
)

// ViewState is the transient per-viewer calendar state. It is a plain
// value: the store below replaces it wholesale on every transition, so a
// reader never observes a half-applied update.
type ViewState struct {
	Phase                Phase     `json:"phase"`
	View                 ViewMode  `json:"view"`
	Date                 time.Time `json:"date"`
	Loading              bool      `json:"loading"`
	Error                string    `json:"error,omitempty"`
	EventDialogOpen      bool      `json:"event_dialog_open"`
	EventDialogTarget    *uint     `json:"event_dialog_target,omitempty"`
	AssignmentDialogOpen bool      `json:"assignment_dialog_open"`
	InitialLoad          bool      `json:"initial_load"`
}

// StateStore holds the current ViewState for one variant instance. Pure
// state container: it validates nothing, callers own the pairing of
// loading=true with an eventual loading=false on every exit path.
type StateStore struct {
	mu    sync.Mutex
	state ViewState
}

func NewStateStore(view ViewMode, date time.Time) *StateStore {
	return &StateStore{state: ViewState{
		Phase:       PhaseUninitialized,
		View:        view,
		Date:        date,
		InitialLoad: true,
	}}
}

// Get returns a copy of the current state.
func (s *StateStore) Get() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// update applies fn to a copy and swaps it in.
func (s *StateStore) update(fn func(*ViewState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	fn(&next)
	s.state = next
}

func (s *StateStore) SetView(view ViewMode) {
	s.update(func(v *ViewState) { v.View = view })
}

func (s *StateStore) SetDate(date time.Time) {
	s.update(func(v *ViewState) { v.Date = date })
}

func (s *StateStore) SetLoading(loading bool) {
	s.update(func(v *ViewState) {
		v.Loading = loading
		if loading {
			v.Phase = PhaseLoading
		} else if v.Phase == PhaseLoading || v.Phase == PhaseUninitialized {
			v.Phase = PhaseReady
		}
	})
}

func (s *StateStore) SetError(msg string) {
	s.update(func(v *ViewState) { v.Error = msg })
}

func (s *StateStore) ClearError() {
	s.update(func(v *ViewState) { v.Error = "" })
}

func (s *StateStore) SetEventDialog(open bool, target *uint) {
	s.update(func(v *ViewState) {
		v.EventDialogOpen = open
		v.EventDialogTarget = target
		s.reconcileDialogPhase(v)
	})
}

func (s *StateStore) SetAssignmentDialog(open bool) {
	s.update(func(v *ViewState) {
		v.AssignmentDialogOpen = open
		s.reconcileDialogPhase(v)
	})
}

func (s *StateStore) reconcileDialogPhase(v *ViewState) {
	switch {
	case v.Phase == PhaseReady && (v.EventDialogOpen || v.AssignmentDialogOpen):
		v.Phase = PhaseDialogOpen
	case v.Phase == PhaseDialogOpen && !v.EventDialogOpen && !v.AssignmentDialogOpen:
		v.Phase = PhaseReady
	}
}

// FinishInitialLoad flips the first-load flag off. The transition happens
// once, on the first successful fetch, and never reverts; there is no
// setter that puts it back.
func (s *StateStore) FinishInitialLoad() {
	s.update(func(v *ViewState) { v.InitialLoad = false })
}
