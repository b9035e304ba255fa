//go:build linux

package wallpaper

import "os"

// NewSetter returns the setter for the running desktop environment.
func NewSetter() Setter {
	return CommandSetter{Commands: LinuxCommands(os.Getenv("XDG_CURRENT_DESKTOP"))}
}
