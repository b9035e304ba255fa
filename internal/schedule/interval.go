// Package schedule computes how long the main loop waits between automatic
// wallpaper updates so the hourly API quota lasts the whole window.
package schedule

import "time"

const (
	// Window is the rolling period the remote quota is allotted over.
	Window = time.Hour
	// DefaultInterval is used when there is no quota history yet and right
	// after an hour rolls over.
	DefaultInterval = 90 * time.Second
	// Backoff is used once every usable request is spent.
	Backoff = 600 * time.Second
	// MinInterval keeps updates from hammering the service when the budget is large.
	MinInterval = 30 * time.Second
)

// Input is everything the interval computation depends on.
type Input struct {
	Remaining   int
	WindowStart *time.Time // nil until the first call reported a quota
	Reserved    int
	Now         time.Time
}

// Decision is the outcome of Compute.
type Decision struct {
	Interval time.Duration
	// Rollover reports that the hour elapsed; the caller resets the budget
	// to the full quota with the window starting at Now.
	Rollover bool
	// Exhausted reports that no requests are left for automatic updates.
	Exhausted bool
	// Usable is Remaining minus Reserved, as used for pacing.
	Usable int
}

// Compute spreads the usable requests evenly over what is left of the window.
// It has no side effects.
func Compute(in Input) Decision {
	if in.WindowStart == nil {
		return Decision{Interval: DefaultInterval, Usable: in.Remaining - in.Reserved}
	}

	elapsed := in.Now.Sub(*in.WindowStart)
	if elapsed >= Window {
		return Decision{Interval: DefaultInterval, Rollover: true, Usable: in.Remaining - in.Reserved}
	}
	if elapsed < 0 {
		// Clock moved backwards; treat the window as just started.
		elapsed = 0
	}

	usable := in.Remaining - in.Reserved
	if usable <= 0 {
		return Decision{Interval: Backoff, Exhausted: true, Usable: usable}
	}

	secondsLeft := int64((Window - elapsed) / time.Second)
	interval := time.Duration(secondsLeft/int64(usable)) * time.Second
	if interval < MinInterval {
		interval = MinInterval
	}
	return Decision{Interval: interval, Usable: usable}
}

// Clamp caps d at max. A non-positive max means no cap.
func Clamp(d, max time.Duration) time.Duration {
	if max > 0 && d > max {
		return max
	}
	return d
}
