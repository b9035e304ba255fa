// Package wallpaper applies images as the desktop background and keeps the
// downloaded files.
//
// NewSetter and NewForeground are selected per platform at build time. On
// Linux the setter follows XDG_CURRENT_DESKTOP: gsettings for GNOME-like
// desktops (both picture-uri keys), plasma-apply-wallpaperimage for KDE,
// xfconf-query for XFCE and feh for everything else.
//
// Store writes <img_dir>/wallpaper.jpg atomically and numbers saved copies
// wallpaper-001.jpg, wallpaper-002.jpg and so on.
package wallpaper
