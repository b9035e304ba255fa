package wallpaper

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// ErrNoCurrent is returned by SaveCurrent before any wallpaper was written.
var ErrNoCurrent = errors.New("no current wallpaper to save")

const currentName = "wallpaper.jpg"

var savedPattern = regexp.MustCompile(`^wallpaper-(\d{3,})\.jpg$`)

// Meta describes where the current image came from.
type Meta struct {
	PhotoID      string
	Title        string
	SourceURL    string
	PageURL      string
	Photographer string
	Bytes        int64
	FetchedAt    time.Time
}

// Store keeps the active wallpaper image and saved copies on an afero
// filesystem.
type Store struct {
	fs       afero.Fs
	imageDir string
	savedDir string
	now      func() time.Time

	mu      sync.Mutex
	current *Meta
}

// NewStore returns a store rooted at imageDir. An empty savedDir means
// <imageDir>/saved.
func NewStore(fs afero.Fs, imageDir, savedDir string) *Store {
	if savedDir == "" {
		savedDir = filepath.Join(imageDir, "saved")
	}
	return &Store{fs: fs, imageDir: imageDir, savedDir: savedDir, now: time.Now}
}

// CurrentPath is where the active wallpaper lives.
func (s *Store) CurrentPath() string {
	return filepath.Join(s.imageDir, currentName)
}

// Current returns the metadata of the active wallpaper.
func (s *Store) Current() (Meta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Meta{}, false
	}
	return *s.current, true
}

// Write streams a new image through fill into a temp file and renames it over
// the current wallpaper. The previous image stays in place if fill fails.
func (s *Store) Write(meta Meta, fill func(w io.Writer) (int64, error)) (string, error) {
	if err := s.fs.MkdirAll(s.imageDir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	tmp, err := afero.TempFile(s.fs, s.imageDir, ".wallpaper-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	tmpName := tmp.Name()
	n, fillErr := fill(tmp)
	closeErr := tmp.Close()
	if fillErr != nil || closeErr != nil {
		_ = s.fs.Remove(tmpName)
		if fillErr != nil {
			return "", fillErr
		}
		return "", fmt.Errorf("close temp image: %w", closeErr)
	}
	if n == 0 {
		_ = s.fs.Remove(tmpName)
		return "", fmt.Errorf("downloaded image is empty")
	}

	dest := s.CurrentPath()
	if err := s.fs.Rename(tmpName, dest); err != nil {
		_ = s.fs.Remove(tmpName)
		return "", fmt.Errorf("replace wallpaper: %w", err)
	}

	meta.Bytes = n
	if meta.FetchedAt.IsZero() {
		meta.FetchedAt = s.now()
	}
	s.mu.Lock()
	s.current = &meta
	s.mu.Unlock()
	return dest, nil
}

// SaveCurrent copies the active wallpaper to the next free
// wallpaper-NNN.jpg in the saved directory, next to a .txt with its source.
func (s *Store) SaveCurrent() (string, error) {
	meta, ok := s.Current()
	if !ok {
		return "", ErrNoCurrent
	}
	src, err := s.fs.Open(s.CurrentPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoCurrent
		}
		return "", fmt.Errorf("open current wallpaper: %w", err)
	}
	defer func() { _ = src.Close() }()

	if err := s.fs.MkdirAll(s.savedDir, 0o755); err != nil {
		return "", fmt.Errorf("create saved dir: %w", err)
	}
	next, err := s.nextNumber()
	if err != nil {
		return "", err
	}
	base := fmt.Sprintf("wallpaper-%03d", next)
	dest := filepath.Join(s.savedDir, base+".jpg")

	out, err := s.fs.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create saved image: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("copy wallpaper: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close saved image: %w", err)
	}

	info := formatMeta(meta, s.now())
	if err := afero.WriteFile(s.fs, filepath.Join(s.savedDir, base+".txt"), []byte(info), 0o644); err != nil {
		return dest, fmt.Errorf("write wallpaper info: %w", err)
	}
	return dest, nil
}

func (s *Store) nextNumber() (int, error) {
	entries, err := afero.ReadDir(s.fs, s.savedDir)
	if err != nil {
		return 0, fmt.Errorf("list saved dir: %w", err)
	}
	highest := 0
	for _, e := range entries {
		m := savedPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

func formatMeta(m Meta, savedAt time.Time) string {
	var b strings.Builder
	line := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "%s: %s\n", k, v)
		}
	}
	line("title", m.Title)
	line("id", m.PhotoID)
	line("source", m.SourceURL)
	line("page", m.PageURL)
	line("photographer", m.Photographer)
	line("fetched", m.FetchedAt.Format(time.RFC3339))
	line("saved", savedAt.Format(time.RFC3339))
	return b.String()
}
