//go:build !linux && !darwin && !windows

package wallpaper

// NewSetter returns a setter that always fails with ErrUnsupported.
func NewSetter() Setter {
	return CommandSetter{Commands: func(string) [][]string { return nil }}
}
