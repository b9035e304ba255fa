package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/backdrop/internal/command"
)

// Phase is where the main loop currently is.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseUpdating Phase = "updating"
	PhaseWaiting  Phase = "waiting"
	PhaseStopped  Phase = "stopped"
)

// Wallpaper describes the image most recently applied.
type Wallpaper struct {
	Title        string
	Photographer string
	PageURL      string
	Path         string
	Query        string
	Bytes        int64
	Trigger      command.Trigger
	SetAt        time.Time
}

// Snapshot represents the latest scheduler data available to the UI.
type Snapshot struct {
	Phase   Phase
	Trigger command.Trigger // trigger of the update in progress or last run

	NextUpdate time.Time // zero unless waiting
	Interval   time.Duration
	Adaptive   bool

	Remaining int
	Quota     int
	DemoMode  bool

	Wallpaper    Wallpaper
	HasWallpaper bool
	SavedPath    string

	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsFailing returns true when several updates in a row have failed.
func (s Snapshot) IsFailing() bool {
	return s.ConsecutiveFailures >= 2
}

// Until returns the time left before the next automatic update.
func (s Snapshot) Until(now time.Time) (time.Duration, bool) {
	if s.Phase != PhaseWaiting || s.NextUpdate.IsZero() {
		return 0, false
	}
	return max(s.NextUpdate.Sub(now), 0), true
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

func (s *Store) stamp() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// SetPhase moves the snapshot to phase. Leaving the waiting phase clears the
// next update time.
func (s *Store) SetPhase(phase Phase, trigger command.Trigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Phase = phase
	if trigger != "" {
		s.snapshot.Trigger = trigger
	}
	if phase != PhaseWaiting {
		s.snapshot.NextUpdate = time.Time{}
	}
	s.snapshot.LastUpdated = s.stamp()
}

// SetWaiting records the computed interval and when it ends.
func (s *Store) SetWaiting(next time.Time, interval time.Duration, adaptive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Phase = PhaseWaiting
	s.snapshot.NextUpdate = next
	s.snapshot.Interval = interval
	s.snapshot.Adaptive = adaptive
	s.snapshot.LastUpdated = s.stamp()
}

// SetBudget mirrors the request budget.
func (s *Store) SetBudget(remaining, quota int, demo bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Remaining = remaining
	s.snapshot.Quota = quota
	s.snapshot.DemoMode = demo
}

// RecordSuccess stores the applied wallpaper and clears the error state.
func (s *Store) RecordSuccess(w Wallpaper) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Wallpaper = w
	s.snapshot.HasWallpaper = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	s.snapshot.LastUpdated = s.stamp()
}

// RecordFailure keeps the previous wallpaper but records err for visibility.
func (s *Store) RecordFailure(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = err
	s.snapshot.ConsecutiveFailures++
	s.snapshot.LastUpdated = s.stamp()
}

// RecordSaved remembers where the last saved copy went.
func (s *Store) RecordSaved(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.SavedPath = path
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
