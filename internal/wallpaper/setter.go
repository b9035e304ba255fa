package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrUnsupported is returned when no wallpaper mechanism exists for the host.
var ErrUnsupported = errors.New("setting the wallpaper is not supported on this platform")

// Setter applies an image file as the desktop background.
type Setter interface {
	SetWallpaper(ctx context.Context, path string) error
}

// Runner executes an external program. Tests replace it to capture commands.
type Runner func(ctx context.Context, name string, args ...string) error

// ExecRunner runs the program and folds its combined output into the error.
func ExecRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%s: %w", name, err)
		}
		return fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return nil
}

// CommandSetter sets the wallpaper by running a platform command list.
type CommandSetter struct {
	// Commands builds the argv lists to run for path; all of them must succeed.
	Commands func(path string) [][]string
	Run      Runner
}

// SetWallpaper runs every command in order and stops at the first failure.
func (s CommandSetter) SetWallpaper(ctx context.Context, path string) error {
	run := s.Run
	if run == nil {
		run = ExecRunner
	}
	cmds := s.Commands(path)
	if len(cmds) == 0 {
		return ErrUnsupported
	}
	for _, argv := range cmds {
		if err := run(ctx, argv[0], argv[1:]...); err != nil {
			return fmt.Errorf("set wallpaper: %w", err)
		}
	}
	return nil
}

// LinuxCommands picks the commands for the desktop named by XDG_CURRENT_DESKTOP.
func LinuxCommands(desktop string) func(path string) [][]string {
	d := strings.ToLower(desktop)
	return func(path string) [][]string {
		switch {
		case strings.Contains(d, "gnome"), strings.Contains(d, "unity"), strings.Contains(d, "budgie"):
			uri := "file://" + path
			return [][]string{
				{"gsettings", "set", "org.gnome.desktop.background", "picture-uri", uri},
				{"gsettings", "set", "org.gnome.desktop.background", "picture-uri-dark", uri},
			}
		case strings.Contains(d, "kde"):
			return [][]string{{"plasma-apply-wallpaperimage", path}}
		case strings.Contains(d, "xfce"):
			return [][]string{{
				"xfconf-query", "-c", "xfce4-desktop",
				"-p", "/backdrop/screen0/monitor0/workspace0/last-image",
				"-s", path,
			}}
		default:
			return [][]string{{"feh", "--bg-scale", path}}
		}
	}
}

// MacCommands sets the picture of every desktop through System Events.
func MacCommands(path string) [][]string {
	script := fmt.Sprintf(`tell application "System Events" to tell every desktop to set picture to %q`, path)
	return [][]string{{"osascript", "-e", script}}
}
