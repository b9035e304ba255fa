package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/five82/backdrop/internal/budget"
	"github.com/five82/backdrop/internal/command"
	"github.com/five82/backdrop/internal/schedule"
	"github.com/five82/backdrop/internal/state"
	"github.com/five82/backdrop/internal/wallpaper"
)

const (
	defaultSlice        = time.Second
	defaultRecoverDelay = 5 * time.Second
	imminentThreshold   = 10 * time.Second
)

// LoopOptions configure the main loop.
type LoopOptions struct {
	Updater  Updater
	Saver    Saver
	Tracker  *budget.Tracker
	Commands *command.Channel
	Exit     *command.ExitSignal
	Status   *state.Store

	// Interval is the fixed wait between updates; zero selects adaptive pacing.
	Interval time.Duration
	// MaxInterval caps the adaptive wait; zero means no cap.
	MaxInterval time.Duration
	Reserved    int
	DemoMode    func() bool

	// Slice bounds how long the wait goes without checking for commands.
	// Zero uses one second.
	Slice time.Duration
	// RecoverDelay is the pause after a recovered panic. Zero uses 5s.
	RecoverDelay time.Duration

	Logger *zap.Logger
	Now    func() time.Time
}

// Loop alternates between updating the wallpaper and waiting for the next
// update, reacting to manual commands while it waits.
type Loop struct {
	updater  Updater
	saver    Saver
	tracker  *budget.Tracker
	commands *command.Channel
	exit     *command.ExitSignal
	status   *state.Store

	fixed        time.Duration
	maxInterval  time.Duration
	reserved     int
	demoMode     func() bool
	slice        time.Duration
	recoverDelay time.Duration

	logger *zap.Logger
	now    func() time.Time
}

// NewLoop applies defaults to opts.
func NewLoop(opts LoopOptions) *Loop {
	l := &Loop{
		updater:      opts.Updater,
		saver:        opts.Saver,
		tracker:      opts.Tracker,
		commands:     opts.Commands,
		exit:         opts.Exit,
		status:       opts.Status,
		fixed:        opts.Interval,
		maxInterval:  opts.MaxInterval,
		reserved:     opts.Reserved,
		demoMode:     opts.DemoMode,
		slice:        opts.Slice,
		recoverDelay: opts.RecoverDelay,
		logger:       opts.Logger,
		now:          opts.Now,
	}
	if l.commands == nil {
		l.commands = command.NewChannel()
	}
	if l.exit == nil {
		l.exit = command.NewExitSignal()
	}
	if l.status == nil {
		l.status = &state.Store{}
	}
	if l.demoMode == nil {
		l.demoMode = func() bool { return false }
	}
	if l.slice <= 0 {
		l.slice = defaultSlice
	}
	if l.recoverDelay <= 0 {
		l.recoverDelay = defaultRecoverDelay
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// Run updates immediately, then keeps cycling until quit, the exit signal or
// ctx cancellation. Stopping is not an error.
func (l *Loop) Run(ctx context.Context) error {
	if l.updater == nil || l.tracker == nil {
		return errors.New("main loop needs an updater and a budget tracker")
	}
	defer l.status.SetPhase(state.PhaseStopped, "")

	l.status.SetPhase(state.PhaseIdle, "")
	l.publishBudget()

	trigger := command.TriggerAuto
	for !l.stopped(ctx) {
		next, stop := l.cycle(ctx, trigger)
		if stop {
			break
		}
		trigger = next
	}
	l.logger.Info("main loop stopped")
	return nil
}

// cycle is one update followed by one wait. A panic anywhere inside is logged
// and followed by a short interruptible pause.
func (l *Loop) cycle(ctx context.Context, trigger command.Trigger) (next command.Trigger, stop bool) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("main loop panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			l.status.RecordFailure(fmt.Errorf("panic: %v", r))
			next, stop = command.TriggerAuto, l.sleep(ctx, l.recoverDelay)
		}
	}()

	l.update(ctx, trigger)
	if l.stopped(ctx) {
		return "", true
	}
	return l.wait(ctx, l.nextInterval())
}

func (l *Loop) update(ctx context.Context, trigger command.Trigger) {
	l.status.SetPhase(state.PhaseUpdating, trigger)
	l.logger.Debug("updating wallpaper", zap.String("trigger", string(trigger)))

	out, err := l.updater.Update(ctx, trigger)
	if out.Reported != "" {
		l.tracker.RecordCall(out.Reported)
	}
	l.publishBudget()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		l.logger.Error("wallpaper update failed", zap.Error(err))
		l.status.RecordFailure(err)
		return
	}
	l.status.RecordSuccess(out.Wallpaper)
}

// nextInterval applies an hour rollover to the tracker before choosing the
// wait, so the fixed mode also sees a fresh budget.
func (l *Loop) nextInterval() time.Duration {
	now := l.now()
	st := l.tracker.State()
	d := schedule.Compute(schedule.Input{
		Remaining:   st.Remaining,
		WindowStart: st.WindowStart,
		Reserved:    l.reserved,
		Now:         now,
	})
	if d.Rollover {
		l.tracker.Reset(now)
		l.publishBudget()
		l.logger.Info("request window rolled over", zap.Int("remaining", l.tracker.Quota()))
	}

	if l.fixed > 0 {
		return l.fixed
	}
	if d.Exhausted {
		l.logger.Warn("no requests left for automatic updates this hour",
			zap.Int("reserved", l.reserved),
			zap.Duration("retry_in", d.Interval),
		)
	}
	return schedule.Clamp(d.Interval, l.maxInterval)
}

// wait sleeps for interval in slices, draining commands on every wake. It
// returns the trigger of the next update, or stop.
func (l *Loop) wait(ctx context.Context, interval time.Duration) (command.Trigger, bool) {
	deadline := l.now().Add(interval)
	l.status.SetWaiting(deadline, interval, l.fixed == 0)
	l.logger.Info("next update scheduled", zap.Duration("in", interval.Round(time.Second)))

	imminent := false
	for {
		// the whole batch is handled, so a save queued next to a quit still runs
		manual, quit := false, false
		for _, cmd := range l.commands.DrainAll() {
			switch cmd.Kind {
			case command.Quit:
				quit = true
			case command.Save:
				l.save()
			case command.Update:
				manual = true
			}
		}
		if quit || l.stopped(ctx) {
			return "", true
		}
		if manual {
			return command.TriggerManual, false
		}

		left := deadline.Sub(l.now())
		if left <= 0 {
			return command.TriggerAuto, false
		}
		if !imminent && left <= imminentThreshold {
			imminent = true
			l.logger.Info("update imminent", zap.Duration("in", left.Round(time.Second)))
		}

		timer := time.NewTimer(min(l.slice, left))
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", true
		case <-l.exit.Done():
			timer.Stop()
			return "", true
		case <-l.commands.Ready():
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (l *Loop) save() {
	if l.saver == nil {
		return
	}
	path, err := l.saver.SaveCurrent()
	switch {
	case errors.Is(err, wallpaper.ErrNoCurrent):
		l.logger.Warn("nothing to save yet")
	case err != nil:
		l.logger.Error("save wallpaper failed", zap.Error(err))
	default:
		l.logger.Info("wallpaper saved", zap.String("path", path))
		l.status.RecordSaved(path)
	}
}

// sleep waits for d unless stopped first; it reports whether to stop.
func (l *Loop) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return true
	case <-l.exit.Done():
		return true
	case <-timer.C:
		return false
	}
}

func (l *Loop) stopped(ctx context.Context) bool {
	return ctx.Err() != nil || l.exit.IsSet()
}

func (l *Loop) publishBudget() {
	st := l.tracker.State()
	l.status.SetBudget(st.Remaining, st.Quota, l.demoMode())
}
