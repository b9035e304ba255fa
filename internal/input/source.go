package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"unicode"

	"golang.org/x/term"
)

// ErrUnavailable means the host offers no way to read key presses.
var ErrUnavailable = errors.New("keyboard input unavailable")

// Key is a single lower-case key press.
type Key rune

const (
	KeyNew  Key = 'n'
	KeySave Key = 's'
	KeyQuit Key = 'q'
)

const ctrlC = 0x03

// KeySource delivers key presses one at a time.
type KeySource interface {
	NextKey(ctx context.Context) (Key, error)
}

// Unavailable is the KeySource of a headless run.
type Unavailable struct{}

// NextKey always fails with ErrUnavailable.
func (Unavailable) NextKey(context.Context) (Key, error) {
	return 0, ErrUnavailable
}

type readResult struct {
	key Key
	err error
}

// ReaderSource turns a byte stream into key presses. A single goroutine pulls
// from the reader so NextKey can honour context cancellation.
type ReaderSource struct {
	r     io.Reader
	once  sync.Once
	keys  chan readResult
	close func() error
}

// NewReaderSource reads keys from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r, keys: make(chan readResult)}
}

// OpenTerminal puts f into raw mode and reads keys from it. Close restores
// the previous terminal state.
func OpenTerminal(f *os.File) (*ReaderSource, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrUnavailable
	}
	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}
	s := NewReaderSource(f)
	s.close = func() error { return term.Restore(fd, prev) }
	return s, nil
}

// NextKey blocks until a key arrives or ctx is done. ctrl+c maps to KeyQuit
// because raw mode swallows the interrupt signal.
func (s *ReaderSource) NextKey(ctx context.Context) (Key, error) {
	s.once.Do(func() { go s.pump() })
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res, ok := <-s.keys:
		if !ok {
			return 0, fmt.Errorf("%w: input closed", ErrUnavailable)
		}
		return res.key, res.err
	}
}

// Close restores the terminal if the source owns one.
func (s *ReaderSource) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func (s *ReaderSource) pump() {
	defer close(s.keys)
	buf := make([]byte, 1)
	for {
		n, err := s.r.Read(buf)
		if n > 0 {
			s.keys <- readResult{key: normalize(buf[0])}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.keys <- readResult{err: fmt.Errorf("read key: %w", err)}
			}
			return
		}
	}
}

func normalize(b byte) Key {
	if b == ctrlC {
		return KeyQuit
	}
	return Key(unicode.ToLower(rune(b)))
}
