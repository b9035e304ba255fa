package input

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/five82/backdrop/internal/command"
)

type fakeBudget struct{ remaining atomic.Int64 }

func (b *fakeBudget) Remaining() int { return int(b.remaining.Load()) }

func budgetOf(n int) *fakeBudget {
	b := &fakeBudget{}
	b.remaining.Store(int64(n))
	return b
}

type fakeForeground struct{ desktop bool }

func (f fakeForeground) IsDesktop() bool { return f.desktop }

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
func newClock() *clock                   { return &clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)} }

type harness struct {
	l    *Listener
	ch   *command.Channel
	exit *command.ExitSignal
	clk  *clock
	logs *observer.ObservedLogs
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	h := &harness{ch: command.NewChannel(), exit: command.NewExitSignal(), clk: newClock(), logs: logs}
	opts.Commands = h.ch
	opts.Exit = h.exit
	opts.Logger = zap.New(core)
	opts.Now = h.clk.now
	if opts.Budget == nil {
		opts.Budget = budgetOf(40)
	}
	h.l = NewListener(opts)
	return h
}

func (h *harness) drained(t *testing.T, want int) []command.Command {
	t.Helper()
	cmds := h.ch.DrainAll()
	if len(cmds) != want {
		t.Fatalf("drained %d commands (%v), want %d", len(cmds), cmds, want)
	}
	return cmds
}

func (h *harness) logCount(msg string) int {
	return h.logs.FilterMessage(msg).Len()
}

func waitFor(t *testing.T, within time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(within)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v", within)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHandle_TwoPressesWithinCooldownEnqueueOne(t *testing.T) {
	h := newHarness(t, Options{Cooldown: 5 * time.Second})

	if h.l.Handle(KeyNew) {
		t.Fatal("n should not stop the listener")
	}
	h.clk.advance(2 * time.Second)
	h.l.Handle(KeyNew)

	cmds := h.drained(t, 1)
	if cmds[0] != command.UpdateNow() {
		t.Fatalf("command = %+v, want manual update", cmds[0])
	}
	if n := h.logCount("manual override cooling down"); n != 1 {
		t.Fatalf("cooldown notices = %d, want 1", n)
	}

	h.clk.advance(3 * time.Second)
	h.l.Handle(KeyNew)
	h.drained(t, 1)
}

func TestHandle_CooldownNeverBelowFiveSeconds(t *testing.T) {
	h := newHarness(t, Options{Cooldown: time.Second})
	if h.l.cooldown != MinCooldown {
		t.Fatalf("cooldown = %v, want %v", h.l.cooldown, MinCooldown)
	}

	h.l.Handle(KeyNew)
	h.clk.advance(2 * time.Second)
	h.l.Handle(KeyNew)
	h.drained(t, 1)
}

func TestHandle_CooldownNoticeAtMostOncePerSecond(t *testing.T) {
	h := newHarness(t, Options{
		Cooldown:   10 * time.Second,
		NextUpdate: func() (time.Duration, bool) { return 42 * time.Second, true },
	})
	h.l.Handle(KeyNew)
	for range 4 {
		h.clk.advance(400 * time.Millisecond)
		h.l.Handle(KeyNew)
	}

	notices := h.logs.FilterMessage("manual override cooling down").All()
	if len(notices) != 2 {
		t.Fatalf("notices = %d, want 2", len(notices))
	}
	if notices[0].Level != zapcore.InfoLevel {
		t.Fatalf("notice level = %v, want info", notices[0].Level)
	}
	ctx := notices[0].ContextMap()
	if got, ok := ctx["seconds_left"].(int64); !ok || got != 10 {
		t.Fatalf("seconds_left = %v, want 10", ctx["seconds_left"])
	}
	if got := ctx["next_auto_update"]; got != 42*time.Second {
		t.Fatalf("next_auto_update = %v, want 42s", got)
	}
}

func TestHandle_DebounceDropsRepeats(t *testing.T) {
	h := newHarness(t, Options{})
	h.l.Handle(KeySave)
	h.clk.advance(100 * time.Millisecond)
	h.l.Handle(KeySave)
	h.clk.advance(300 * time.Millisecond)
	h.l.Handle(KeySave)
	h.drained(t, 2)
}

func TestHandle_SafetyFloor(t *testing.T) {
	budget := budgetOf(5)
	h := newHarness(t, Options{Budget: budget})
	h.l.Handle(KeyNew)
	h.drained(t, 0)
	if n := h.logCount("too few requests left this hour for a manual update"); n != 1 {
		t.Fatalf("floor notices = %d, want 1", n)
	}

	budget.remaining.Store(6)
	h.clk.advance(time.Second)
	h.l.Handle(KeyNew)
	h.drained(t, 1)
}

func TestHandle_RejectedByFloorDoesNotStartCooldown(t *testing.T) {
	budget := budgetOf(0)
	h := newHarness(t, Options{Budget: budget})
	h.l.Handle(KeyNew)
	budget.remaining.Store(30)
	h.clk.advance(time.Second)
	h.l.Handle(KeyNew)
	h.drained(t, 1)
}

func TestHandle_ForegroundGuard(t *testing.T) {
	h := newHarness(t, Options{Foreground: fakeForeground{desktop: false}})
	for _, k := range []Key{KeyNew, KeySave, KeyQuit} {
		if h.l.Handle(k) {
			t.Fatalf("key %q stopped the listener while not focused", k)
		}
		h.clk.advance(time.Second)
	}
	h.drained(t, 0)
	if h.exit.IsSet() {
		t.Fatal("exit set while not focused")
	}
	if n := h.logCount("ignoring key because the desktop is not focused"); n != 3 {
		t.Fatalf("foreground notices = %d, want 3", n)
	}
}

func TestHandle_QuitSetsExit(t *testing.T) {
	h := newHarness(t, Options{})
	if !h.l.Handle(KeyQuit) {
		t.Fatal("q should stop the listener")
	}
	if !h.exit.IsSet() {
		t.Fatal("exit not set")
	}
	if cmds := h.drained(t, 1); cmds[0] != command.QuitNow() {
		t.Fatalf("command = %+v, want quit", cmds[0])
	}
}

func TestHandle_OtherKeysIgnored(t *testing.T) {
	h := newHarness(t, Options{})
	if h.l.Handle('x') {
		t.Fatal("x should be ignored")
	}
	h.drained(t, 0)
}

func TestRun_ReaderKeys(t *testing.T) {
	h := newHarness(t, Options{Source: NewReaderSource(strings.NewReader("Sq"))})
	// each key read moves the clock past the debounce window
	h.l.now = func() time.Time { h.clk.advance(time.Second); return h.clk.t }

	done := make(chan struct{})
	go func() {
		h.l.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after quit")
	}

	want := []command.Command{command.SaveNow(), command.QuitNow()}
	if got := h.ch.DrainAll(); !reflect.DeepEqual(got, want) {
		t.Fatalf("commands = %v, want %v", got, want)
	}
}

func TestRun_UnavailableWarnsOnceAndIdles(t *testing.T) {
	h := newHarness(t, Options{Source: Unavailable{}})
	done := make(chan struct{})
	go func() {
		h.l.Run(context.Background())
		close(done)
	}()

	waitFor(t, time.Second, func() bool { return h.logCount("keyboard controls disabled") == 1 })

	h.exit.Set()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop on exit signal")
	}
	if n := h.logCount("keyboard controls disabled"); n != 1 {
		t.Fatalf("unavailable warnings = %d, want 1", n)
	}
}

type flakySource struct {
	calls atomic.Int32
}

func (f *flakySource) NextKey(ctx context.Context) (Key, error) {
	if f.calls.Add(1) == 1 {
		return 0, errors.New("device busy")
	}
	<-ctx.Done()
	return 0, ctx.Err()
}

func TestRun_ReadErrorRetries(t *testing.T) {
	src := &flakySource{}
	h := newHarness(t, Options{Source: src})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.l.Run(ctx)
		close(done)
	}()

	waitFor(t, 3*time.Second, func() bool { return src.calls.Load() >= 2 })
	cancel()
	<-done
	if n := h.logCount("keyboard handling failed"); n != 1 {
		t.Fatalf("read failures logged = %d, want 1", n)
	}
}

func TestReaderSource_NormalizesAndCancels(t *testing.T) {
	pr, pw := io.Pipe()
	src := NewReaderSource(pr)
	go func() { _, _ = pw.Write([]byte{'N', ctrlC}) }()

	for _, want := range []Key{KeyNew, KeyQuit} {
		k, err := src.NextKey(context.Background())
		if err != nil {
			t.Fatalf("NextKey: %v", err)
		}
		if k != want {
			t.Fatalf("NextKey = %q, want %q", k, want)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.NextKey(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("NextKey on cancelled ctx = %v, want context.Canceled", err)
	}

	_ = pw.Close()
	waitFor(t, time.Second, func() bool {
		_, err := src.NextKey(context.Background())
		return errors.Is(err, ErrUnavailable)
	})
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
