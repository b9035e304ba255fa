// Package command carries manual commands from the input listener to the
// main loop, plus the exit flag both of them watch.
package command

import (
	"sync"
	"sync/atomic"
)

// Kind identifies a command.
type Kind int

const (
	Update Kind = iota + 1
	Save
	Quit
)

func (k Kind) String() string {
	switch k {
	case Update:
		return "update"
	case Save:
		return "save"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Trigger records who asked for an update.
type Trigger string

const (
	TriggerAuto   Trigger = "auto"
	TriggerManual Trigger = "manual"
)

// Command is a single request for the main loop. Trigger is only meaningful
// for Update.
type Command struct {
	Kind    Kind
	Trigger Trigger
}

// UpdateNow is an Update with the manual trigger.
func UpdateNow() Command { return Command{Kind: Update, Trigger: TriggerManual} }

// SaveNow asks for the current wallpaper to be saved.
func SaveNow() Command { return Command{Kind: Save} }

// QuitNow stops the main loop.
func QuitNow() Command { return Command{Kind: Quit} }

// Channel is an unbounded FIFO of commands. Enqueue never blocks; commands
// arrive at human speed so growth is not a concern.
type Channel struct {
	mu    sync.Mutex
	items []Command
	ready chan struct{}
}

// NewChannel returns an empty channel.
func NewChannel() *Channel {
	return &Channel{ready: make(chan struct{}, 1)}
}

// Enqueue appends cmd and wakes a waiter, if any.
func (c *Channel) Enqueue(cmd Command) {
	c.mu.Lock()
	c.items = append(c.items, cmd)
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// DrainAll removes and returns everything queued, oldest first.
func (c *Channel) DrainAll() []Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return nil
	}
	out := c.items
	c.items = nil
	return out
}

// Ready fires after Enqueue. A receive does not guarantee commands are still
// queued; always follow with DrainAll.
func (c *Channel) Ready() <-chan struct{} {
	return c.ready
}

// ExitSignal is set once and observed by every task that must stop.
type ExitSignal struct {
	once sync.Once
	set  atomic.Bool
	done chan struct{}
}

// NewExitSignal returns an unset signal.
func NewExitSignal() *ExitSignal {
	return &ExitSignal{done: make(chan struct{})}
}

// Set raises the signal. Later calls are no-ops.
func (s *ExitSignal) Set() {
	s.once.Do(func() {
		s.set.Store(true)
		close(s.done)
	})
}

// IsSet reports whether Set was called.
func (s *ExitSignal) IsSet() bool {
	return s.set.Load()
}

// Done is closed once the signal is set.
func (s *ExitSignal) Done() <-chan struct{} {
	return s.done
}
