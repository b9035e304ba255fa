//go:build !windows

package wallpaper

// NewForeground returns Always; only Windows exposes the focused window class.
func NewForeground() Foreground {
	return Always{}
}
