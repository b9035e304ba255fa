package budget

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/five82/backdrop/internal/schedule"
)

// State is a point-in-time view of the request budget.
type State struct {
	Remaining   int
	WindowStart *time.Time // nil before the first call reported a quota
	Quota       int
}

// Spent is the number of calls used in the window.
func (s State) Spent() int {
	return s.Quota - s.Remaining
}

// Options configure a Tracker.
type Options struct {
	Quota      int
	RecordPath string // empty disables persistence
	Logger     *zap.Logger
	Now        func() time.Time
}

// Tracker owns the budget state. The main loop is the only writer; other
// goroutines read approximate values through Remaining or State.
type Tracker struct {
	mu          sync.RWMutex
	quota       int
	remaining   int
	windowStart time.Time
	hasWindow   bool

	// fast mirror of remaining for the listener's soft floor check
	approx atomic.Int64

	recordPath string
	logger     *zap.Logger
	now        func() time.Time
}

// NewTracker builds a tracker, seeding it from the persisted record when a
// path is configured. A record whose window has already elapsed counts as no
// window at all, so the next reported value starts a fresh one.
func NewTracker(opts Options) *Tracker {
	t := &Tracker{
		quota:      opts.Quota,
		remaining:  opts.Quota,
		recordPath: opts.RecordPath,
		logger:     opts.Logger,
		now:        opts.Now,
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	if t.now == nil {
		t.now = time.Now
	}

	if t.recordPath != "" {
		now := t.now()
		rec := LoadRecord(t.recordPath, now)
		if ts, ok := rec.Time(); ok && now.Sub(ts) < schedule.Window {
			t.remaining = clamp(t.quota-rec.Count, 0, t.quota)
			t.windowStart = ts
			t.hasWindow = true
		}
	}
	t.approx.Store(int64(t.remaining))
	return t
}

// RecordCall adopts the remaining quota reported by the service. The first
// value, or the first one after the window elapsed, starts a window at now.
// Empty or non-numeric values leave the state untouched. It reports whether
// the value was adopted.
func (t *Tracker) RecordCall(reported string) bool {
	value, err := strconv.Atoi(strings.TrimSpace(reported))
	if err != nil {
		if strings.TrimSpace(reported) != "" {
			t.logger.Debug("ignoring malformed rate limit value", zap.String("value", reported))
		}
		return false
	}

	now := t.now()
	t.mu.Lock()
	t.remaining = clamp(value, 0, t.quota)
	if !t.hasWindow || now.Sub(t.windowStart) >= schedule.Window {
		t.windowStart = now
		t.hasWindow = true
	}
	rec := t.recordLocked()
	t.approx.Store(int64(t.remaining))
	t.mu.Unlock()

	t.persist(rec)
	return true
}

// Reset starts a fresh window at now with the full quota.
func (t *Tracker) Reset(now time.Time) {
	t.mu.Lock()
	t.remaining = t.quota
	t.windowStart = now
	t.hasWindow = true
	rec := t.recordLocked()
	t.approx.Store(int64(t.remaining))
	t.mu.Unlock()

	t.persist(rec)
}

// State returns a consistent snapshot.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	st := State{Remaining: t.remaining, Quota: t.quota}
	if t.hasWindow {
		ws := t.windowStart
		st.WindowStart = &ws
	}
	return st
}

// Remaining is a lock-free read that may lag a concurrent write.
func (t *Tracker) Remaining() int {
	return int(t.approx.Load())
}

// Quota returns the hourly allowance.
func (t *Tracker) Quota() int {
	return t.quota
}

func (t *Tracker) recordLocked() Record {
	return Record{
		Count:     t.quota - t.remaining,
		Timestamp: t.windowStart.Format(time.RFC3339Nano),
	}
}

func (t *Tracker) persist(rec Record) {
	if t.recordPath == "" {
		return
	}
	if err := SaveRecord(t.recordPath, rec); err != nil {
		t.logger.Warn("could not write request record", zap.String("path", t.recordPath), zap.Error(err))
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
