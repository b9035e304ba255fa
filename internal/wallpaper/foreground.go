package wallpaper

// Foreground reports whether key presses should be honoured, which on
// Windows means the desktop or backdrop's console has focus.
type Foreground interface {
	IsDesktop() bool
}

// Always is a Foreground that never blocks input.
type Always struct{}

// IsDesktop always returns true.
func (Always) IsDesktop() bool { return true }

// isDesktopClass matches the shell's desktop windows and the Windows
// Terminal host, which owns the console backdrop reads keys from.
func isDesktopClass(class string) bool {
	switch class {
	case "Progman", "WorkerW", "CASCADIA_HOSTING_WINDOW_CLASS":
		return true
	}
	return false
}
