package input

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/five82/backdrop/internal/command"
	"github.com/five82/backdrop/internal/wallpaper"
)

const (
	// DebounceWindow drops repeats of a key press delivered twice.
	DebounceWindow = 300 * time.Millisecond
	// MinCooldown is the shortest allowed gap between manual updates.
	MinCooldown = 5 * time.Second
	// SafetyFloor is the remaining-request count at or below which manual
	// updates are refused.
	SafetyFloor = 5

	retryDelay = time.Second
)

// Budget exposes the approximate remaining request count.
type Budget interface {
	Remaining() int
}

// Options configure a Listener.
type Options struct {
	Source     KeySource
	Commands   *command.Channel
	Exit       *command.ExitSignal
	Budget     Budget
	Foreground wallpaper.Foreground
	Cooldown   time.Duration
	// NextUpdate optionally reports the time until the next automatic update
	// for the cooldown notice.
	NextUpdate func() (time.Duration, bool)
	Logger     *zap.Logger
	Now        func() time.Time
}

// Listener turns key presses into commands.
type Listener struct {
	source     KeySource
	commands   *command.Channel
	exit       *command.ExitSignal
	budget     Budget
	foreground wallpaper.Foreground
	cooldown   time.Duration
	nextUpdate func() (time.Duration, bool)
	logger     *zap.Logger
	now        func() time.Time

	notices *rate.Limiter

	mu           sync.Mutex
	lastKeyAt    time.Time
	lastManualAt time.Time
}

// NewListener applies defaults: a cooldown below MinCooldown is raised to it
// and a nil Foreground never blocks.
func NewListener(opts Options) *Listener {
	l := &Listener{
		source:     opts.Source,
		commands:   opts.Commands,
		exit:       opts.Exit,
		budget:     opts.Budget,
		foreground: opts.Foreground,
		cooldown:   max(opts.Cooldown, MinCooldown),
		nextUpdate: opts.NextUpdate,
		logger:     opts.Logger,
		now:        opts.Now,
		notices:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
	if l.source == nil {
		l.source = Unavailable{}
	}
	if l.foreground == nil {
		l.foreground = wallpaper.Always{}
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// Run reads keys until quit is pressed, the exit signal is set or ctx is done.
func (l *Listener) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-l.exit.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	for !l.exit.IsSet() {
		key, err := l.source.NextKey(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, ErrUnavailable) {
				l.logger.Warn("keyboard controls disabled", zap.Error(err))
				<-ctx.Done()
				return
			}
			l.logger.Error("keyboard handling failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
			continue
		}
		if l.Handle(key) {
			return
		}
	}
}

// Handle processes one key press and reports whether the listener should
// stop.
func (l *Listener) Handle(key Key) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.lastKeyAt.IsZero() && now.Sub(l.lastKeyAt) < DebounceWindow {
		return false
	}
	l.lastKeyAt = now

	switch key {
	case KeyNew:
		if !l.onDesktop("manual override") {
			return false
		}
		if !l.lastManualAt.IsZero() && now.Sub(l.lastManualAt) < l.cooldown {
			l.coolingDown(now)
			return false
		}
		if remaining := l.budget.Remaining(); remaining <= SafetyFloor {
			l.logger.Warn("too few requests left this hour for a manual update",
				zap.Int("remaining", remaining))
			return false
		}
		l.logger.Info("manual override triggered, changing wallpaper")
		l.lastManualAt = now
		l.commands.Enqueue(command.UpdateNow())
	case KeySave:
		if !l.onDesktop("save") {
			return false
		}
		l.logger.Info("saving current wallpaper")
		l.commands.Enqueue(command.SaveNow())
	case KeyQuit:
		if !l.onDesktop("exit") {
			return false
		}
		l.logger.Info("exiting")
		l.exit.Set()
		l.commands.Enqueue(command.QuitNow())
		return true
	}
	return false
}

func (l *Listener) onDesktop(action string) bool {
	if l.foreground.IsDesktop() {
		return true
	}
	l.logger.Warn("ignoring key because the desktop is not focused", zap.String("action", action))
	return false
}

func (l *Listener) coolingDown(now time.Time) {
	if !l.notices.AllowN(now, 1) {
		return
	}
	left := int(math.Ceil((l.cooldown - now.Sub(l.lastManualAt)).Seconds()))
	fields := []zap.Field{zap.Int("seconds_left", left)}
	if l.nextUpdate != nil {
		if next, ok := l.nextUpdate(); ok {
			fields = append(fields, zap.Duration("next_auto_update", next.Round(time.Second)))
		}
	}
	l.logger.Info("manual override cooling down", fields...)
}
