//go:build darwin

package wallpaper

// NewSetter returns the osascript-based setter.
func NewSetter() Setter {
	return CommandSetter{Commands: MacCommands}
}
