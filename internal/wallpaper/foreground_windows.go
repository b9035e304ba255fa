//go:build windows

package wallpaper

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleWindow    = kernel32.NewProc("GetConsoleWindow")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procGetClassNameW       = user32.NewProc("GetClassNameW")
)

type desktopForeground struct{}

// NewForeground reports true while the desktop shell or backdrop's own
// console window has focus.
func NewForeground() Foreground {
	return desktopForeground{}
}

func (desktopForeground) IsDesktop() bool {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return false
	}
	if console, _, _ := procGetConsoleWindow.Call(); console != 0 && console == hwnd {
		return true
	}
	buf := make([]uint16, 256)
	n, _, _ := procGetClassNameW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return false
	}
	return isDesktopClass(windows.UTF16ToString(buf[:n]))
}
