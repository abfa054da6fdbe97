package scheduler

import (
	"testing"
	"time"
)

func TestStateStoreInitialLoadFlipsOnce(t *testing.T) {
	s := NewStateStore(ViewWeek, time.Now())
	if !s.Get().InitialLoad {
		t.Fatal("new store must start with InitialLoad true")
	}

	s.FinishInitialLoad()
	if s.Get().InitialLoad {
		t.Fatal("InitialLoad must be false after first successful load")
	}

	// Later loading cycles must not resurrect the flag.
	s.SetLoading(true)
	s.SetLoading(false)
	s.FinishInitialLoad()
	if s.Get().InitialLoad {
		t.Fatal("InitialLoad must never revert to true")
	}
}

func TestStateStorePhaseTransitions(t *testing.T) {
	s := NewStateStore(ViewWeek, time.Now())
	if got := s.Get().Phase; got != PhaseUninitialized {
		t.Fatalf("initial phase = %s, want %s", got, PhaseUninitialized)
	}

	s.SetLoading(true)
	if got := s.Get().Phase; got != PhaseLoading {
		t.Fatalf("phase after SetLoading(true) = %s, want %s", got, PhaseLoading)
	}

	s.SetLoading(false)
	if got := s.Get().Phase; got != PhaseReady {
		t.Fatalf("phase after SetLoading(false) = %s, want %s", got, PhaseReady)
	}

	target := uint(7)
	s.SetEventDialog(true, &target)
	if got := s.Get(); got.Phase != PhaseDialogOpen || !got.EventDialogOpen || got.EventDialogTarget == nil {
		t.Fatalf("phase after opening dialog = %+v, want dialog open", got)
	}

	s.SetEventDialog(false, nil)
	if got := s.Get().Phase; got != PhaseReady {
		t.Fatalf("phase after closing dialog = %s, want %s", got, PhaseReady)
	}
}

func TestStateStoreSettersAcceptAnything(t *testing.T) {
	s := NewStateStore(ViewWeek, time.Now())
	// The store validates nothing; consumers restrict the view set.
	s.SetView(ViewMode("quarter"))
	if got := s.Get().View; got != ViewMode("quarter") {
		t.Fatalf("SetView must not reject values, got %s", got)
	}

	s.SetError("boom")
	if got := s.Get().Error; got != "boom" {
		t.Fatalf("Error = %q, want boom", got)
	}
	s.ClearError()
	if got := s.Get().Error; got != "" {
		t.Fatalf("Error = %q after clear, want empty", got)
	}
}

func TestRangeFor(t *testing.T) {
	// Wednesday 2026-03-04.
	date := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)

	t.Run("day", func(t *testing.T) {
		r := RangeFor(ViewDay, date)
		if r.From.Day() != 4 || r.To.Day() != 5 {
			t.Fatalf("day range = %v", r)
		}
	})

	t.Run("week starts monday", func(t *testing.T) {
		r := RangeFor(ViewWeek, date)
		if r.From.Weekday() != time.Monday || r.From.Day() != 2 {
			t.Fatalf("week range start = %v, want Monday Mar 2", r.From)
		}
		if !r.To.Equal(r.From.AddDate(0, 0, 7)) {
			t.Fatalf("week range = %v, want 7 days", r)
		}
	})

	t.Run("month", func(t *testing.T) {
		r := RangeFor(ViewMonth, date)
		if r.From.Day() != 1 || r.From.Month() != time.March || r.To.Month() != time.April {
			t.Fatalf("month range = %v", r)
		}
	})

	t.Run("covers", func(t *testing.T) {
		week := RangeFor(ViewWeek, date)
		day := RangeFor(ViewDay, date)
		if !week.Covers(day) {
			t.Fatal("week must cover a day inside it")
		}
		if day.Covers(week) {
			t.Fatal("day must not cover its week")
		}
	})
}
