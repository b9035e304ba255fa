// Package ui implements the backdrop dashboard.
//
// # Layout
//
//	┌ header: name, demo flag, pacing mode, category or search ┐
//	│ status panel: phase (spinner while updating), requests    │
//	│ left this hour, next update countdown, current wallpaper, │
//	│ last saved copy, last error                               │
//	└───────────────────────────────────────────────────────────┘
//	recent activity: the tail of the log file
//	help bar
//
// # Data Flow
//
// The model polls state.Store and re-reads the last LogLines entries of the
// log file on every refresh tick (one second by default). It never talks to
// the main loop directly: n, s and q are handed to a KeyForwarder, which the
// input listener consumes like any other KeySource, so the dashboard obeys
// the same cooldown and safety floor as the plain terminal mode.
//
// The program exits when the ExitSignal fires. ctrl+c sets the signal itself
// so it works even while the listener refuses keys.
//
// # Key Bindings
//
//   - n: New wallpaper
//   - s: Save current wallpaper
//   - q: Quit
//   - T: Cycle theme (Nightfox, Slate)
//   - h or ?: Toggle help
//   - ctrl+c: Quit immediately
package ui
