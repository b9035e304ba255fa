package wallpaper

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeString(s string) func(io.Writer) (int64, error) {
	return func(w io.Writer) (int64, error) {
		n, err := io.Copy(w, strings.NewReader(s))
		return n, err
	}
}

func newMemStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s := NewStore(fs, "/img", "/img/saved")
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s, fs
}

func TestStore_WriteReplacesCurrent(t *testing.T) {
	s, fs := newMemStore(t)

	path, err := s.Write(Meta{PhotoID: "a"}, writeString("first"))
	require.NoError(t, err)
	assert.Equal(t, "/img/wallpaper.jpg", path)

	_, err = s.Write(Meta{PhotoID: "b", SourceURL: "https://img/b"}, writeString("second"))
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	meta, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b", meta.PhotoID)
	assert.EqualValues(t, 6, meta.Bytes)

	entries, err := afero.ReadDir(fs, "/img")
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestStore_FailedWriteKeepsPrevious(t *testing.T) {
	s, fs := newMemStore(t)
	_, err := s.Write(Meta{PhotoID: "a"}, writeString("good"))
	require.NoError(t, err)

	boom := errors.New("connection reset")
	_, err = s.Write(Meta{PhotoID: "b"}, func(w io.Writer) (int64, error) {
		_, _ = w.Write([]byte("par"))
		return 3, boom
	})
	require.ErrorIs(t, err, boom)

	data, err := afero.ReadFile(fs, s.CurrentPath())
	require.NoError(t, err)
	assert.Equal(t, "good", string(data))
	meta, _ := s.Current()
	assert.Equal(t, "a", meta.PhotoID)
}

func TestStore_EmptyDownloadRejected(t *testing.T) {
	s, _ := newMemStore(t)
	_, err := s.Write(Meta{}, writeString(""))
	require.Error(t, err)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestStore_SaveCurrentNumbersFiles(t *testing.T) {
	s, fs := newMemStore(t)
	_, err := s.SaveCurrent()
	require.ErrorIs(t, err, ErrNoCurrent)

	_, err = s.Write(Meta{PhotoID: "a", SourceURL: "https://img/a", Photographer: "Ansel"}, writeString("img"))
	require.NoError(t, err)

	require.NoError(t, fs.MkdirAll("/img/saved", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/img/saved/wallpaper-007.jpg", []byte("old"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/img/saved/notes.jpg", []byte("x"), 0o644))

	dest, err := s.SaveCurrent()
	require.NoError(t, err)
	assert.Equal(t, "/img/saved/wallpaper-008.jpg", dest)

	dest, err = s.SaveCurrent()
	require.NoError(t, err)
	assert.Equal(t, "/img/saved/wallpaper-009.jpg", dest)

	info, err := afero.ReadFile(fs, "/img/saved/wallpaper-009.txt")
	require.NoError(t, err)
	assert.Contains(t, string(info), "source: https://img/a")
	assert.Contains(t, string(info), "photographer: Ansel")
	assert.Contains(t, string(info), "saved: 2026-03-01T12:00:00Z")
}

func TestStore_SaveCurrentFileRemoved(t *testing.T) {
	s, fs := newMemStore(t)
	_, err := s.Write(Meta{PhotoID: "a"}, writeString("img"))
	require.NoError(t, err)
	require.NoError(t, fs.Remove(s.CurrentPath()))

	_, err = s.SaveCurrent()
	require.ErrorIs(t, err, ErrNoCurrent)
}

func TestNewStore_DefaultSavedDir(t *testing.T) {
	s := NewStore(afero.NewMemMapFs(), "/pics", "")
	assert.Equal(t, "/pics/saved", s.savedDir)
}
