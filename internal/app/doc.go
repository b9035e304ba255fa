// Package app wires backdrop together and owns the main loop.
//
// # Components
//
//   - app.go: Run and Once, the composition root
//   - loop.go: the scheduler loop that updates, waits and reacts to commands
//   - updater.go: one fetch, download and set cycle against Unsplash
//
// # Goroutines
//
//	┌────────────┐   command.Channel   ┌────────────┐
//	│  Listener  │ ──────────────────> │    Loop    │
//	│ (input)    │   ExitSignal        │            │
//	└─────▲──────┘ ──────────────────> └─────┬──────┘
//	      │ keys                             │ state.Store
//	┌─────┴──────┐                     ┌─────▼──────┐
//	│ terminal / │                     │ dashboard  │
//	│ dashboard  │ <────── Snapshot ── │ (ui)       │
//	└────────────┘                     └────────────┘
//
// The loop runs one update per cycle, records the reported budget, asks
// schedule.Compute for the next wait and then waits in short slices so a
// quit, save or manual update is picked up within a second.
//
// # Error Handling
//
// Fetch, download and setter failures are logged and the loop carries on
// with the next interval. A panic inside a cycle is recovered, logged with
// its stack, and the loop resumes after a short pause. Run only returns an
// error for startup problems such as an unusable log file.
package app
