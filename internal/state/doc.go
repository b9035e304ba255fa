// Package state shares the main loop's status with the dashboard.
//
// # Overview
//
// The main loop is the only writer. It records each phase transition, the
// interval it chose, the budget it sees and the outcome of every update. The
// dashboard reads a Snapshot on its own refresh tick, so neither side waits
// on the other for longer than a copy.
//
//	Main loop:                    Dashboard:
//	┌──────────────────┐          ┌──────────────────┐
//	│ SetPhase()       │          │                  │
//	│ SetWaiting()     │─────────→│ store.Snapshot() │
//	│ RecordSuccess()  │ (mutex)  │      ↓           │
//	│ RecordFailure()  │          │ render           │
//	└──────────────────┘          └──────────────────┘
//
// # Error Semantics
//
// RecordFailure keeps the last good wallpaper and counts consecutive
// failures; RecordSuccess resets the count. IsFailing turns true after two
// failures in a row. LastError is copied out of the store on every Snapshot.
//
// # Testing Considerations
//
// The zero Store is ready to use.
package state
