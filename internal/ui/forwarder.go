package ui

import (
	"context"

	"github.com/five82/backdrop/internal/input"
)

// KeyForwarder hands dashboard key presses to the input listener. It is the
// listener's KeySource in dashboard mode.
type KeyForwarder struct {
	keys chan input.Key
}

// NewKeyForwarder returns a forwarder with a small buffer.
func NewKeyForwarder() *KeyForwarder {
	return &KeyForwarder{keys: make(chan input.Key, 8)}
}

// Send queues k, dropping it when the listener is far behind.
func (f *KeyForwarder) Send(k input.Key) {
	select {
	case f.keys <- k:
	default:
	}
}

// NextKey implements input.KeySource.
func (f *KeyForwarder) NextKey(ctx context.Context) (input.Key, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case k := <-f.keys:
		return k, nil
	}
}
