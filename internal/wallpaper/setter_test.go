package wallpaper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls [][]string
	fail  string
}

func (r *recorder) run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	if name == r.fail {
		return errors.New("exit status 1")
	}
	return nil
}

func TestLinuxCommandsByDesktop(t *testing.T) {
	tests := []struct {
		desktop string
		want    []string // first program of each command
	}{
		{"GNOME", []string{"gsettings", "gsettings"}},
		{"ubuntu:GNOME", []string{"gsettings", "gsettings"}},
		{"Unity", []string{"gsettings", "gsettings"}},
		{"KDE", []string{"plasma-apply-wallpaperimage"}},
		{"XFCE", []string{"xfconf-query"}},
		{"i3", []string{"feh"}},
		{"", []string{"feh"}},
	}
	for _, tt := range tests {
		t.Run(tt.desktop, func(t *testing.T) {
			cmds := LinuxCommands(tt.desktop)("/img/wallpaper.jpg")
			var got []string
			for _, c := range cmds {
				got = append(got, c[0])
				assert.True(t, strings.HasSuffix(c[len(c)-1], "/img/wallpaper.jpg"), "argv %v", c)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinuxCommandsGnomeSetsDarkVariant(t *testing.T) {
	cmds := LinuxCommands("GNOME")("/img/w.jpg")
	require.Len(t, cmds, 2)
	assert.Equal(t, "picture-uri", cmds[0][3])
	assert.Equal(t, "picture-uri-dark", cmds[1][3])
	assert.Equal(t, "file:///img/w.jpg", cmds[1][4])
}

func TestMacCommandsQuotesPath(t *testing.T) {
	cmds := MacCommands(`/Users/me/My "Pics"/w.jpg`)
	require.Len(t, cmds, 1)
	assert.Equal(t, "osascript", cmds[0][0])
	assert.Contains(t, cmds[0][2], `"/Users/me/My \"Pics\"/w.jpg"`)
}

func TestCommandSetterRunsAllAndStopsOnFailure(t *testing.T) {
	rec := &recorder{}
	s := CommandSetter{Commands: LinuxCommands("GNOME"), Run: rec.run}
	require.NoError(t, s.SetWallpaper(context.Background(), "/w.jpg"))
	assert.Len(t, rec.calls, 2)

	rec = &recorder{fail: "gsettings"}
	s.Run = rec.run
	err := s.SetWallpaper(context.Background(), "/w.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set wallpaper")
	assert.Len(t, rec.calls, 1)
}

func TestCommandSetterUnsupported(t *testing.T) {
	s := CommandSetter{Commands: func(string) [][]string { return nil }}
	assert.ErrorIs(t, s.SetWallpaper(context.Background(), "/w.jpg"), ErrUnsupported)
}

func TestForeground(t *testing.T) {
	assert.True(t, Always{}.IsDesktop())
	assert.True(t, isDesktopClass("Progman"))
	assert.True(t, isDesktopClass("WorkerW"))
	assert.False(t, isDesktopClass("Chrome_WidgetWin_1"))
}
