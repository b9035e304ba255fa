// Package input reads key presses and turns them into commands for the main
// loop.
//
// Keys: n requests a new wallpaper, s saves the current one and q quits.
// Repeats within 300ms are dropped. A manual update must pass the desktop
// focus check, the manual cooldown (never less than 5s) and the safety floor
// of more than 5 requests left in the hour.
package input
