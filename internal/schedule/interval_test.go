package schedule

import (
	"testing"
	"time"
)

func TestCompute(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name      string
		in        Input
		want      time.Duration
		rollover  bool
		exhausted bool
	}{
		{"no history", Input{Remaining: 50, Reserved: 10, Now: now}, DefaultInterval, false, false},
		{"no history with empty budget", Input{Remaining: 0, Reserved: 10, Now: now}, DefaultInterval, false, false},
		{"fresh window", Input{Remaining: 50, Reserved: 10, WindowStart: ago(0), Now: now}, 90 * time.Second, false, false},
		{"half window", Input{Remaining: 15, Reserved: 10, WindowStart: ago(30 * time.Minute), Now: now}, 360 * time.Second, false, false},
		{"floored to minimum", Input{Remaining: 500, Reserved: 10, WindowStart: ago(0), Now: now}, MinInterval, false, false},
		{"usable zero", Input{Remaining: 10, Reserved: 10, WindowStart: ago(time.Minute), Now: now}, Backoff, false, true},
		{"usable negative", Input{Remaining: 3, Reserved: 10, WindowStart: ago(time.Minute), Now: now}, Backoff, false, true},
		{"exact rollover", Input{Remaining: 3, Reserved: 10, WindowStart: ago(time.Hour), Now: now}, DefaultInterval, true, false},
		{"long past rollover", Input{Remaining: 40, Reserved: 10, WindowStart: ago(5 * time.Hour), Now: now}, DefaultInterval, true, false},
		{"window in the future", Input{Remaining: 50, Reserved: 10, WindowStart: ago(-time.Minute), Now: now}, 90 * time.Second, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.in)
			if got.Interval != tt.want {
				t.Errorf("Compute(%+v).Interval = %v, want %v", tt.in, got.Interval, tt.want)
			}
			if got.Rollover != tt.rollover {
				t.Errorf("Compute(%+v).Rollover = %v, want %v", tt.in, got.Rollover, tt.rollover)
			}
			if got.Exhausted != tt.exhausted {
				t.Errorf("Compute(%+v).Exhausted = %v, want %v", tt.in, got.Exhausted, tt.exhausted)
			}
		})
	}
}

func TestCompute_NeverBelowMinimum(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for reserved := 0; reserved <= 20; reserved += 5 {
		for remaining := reserved + 1; remaining <= 200; remaining += 7 {
			for secondsAgo := 0; secondsAgo < 3600; secondsAgo += 299 {
				start := now.Add(-time.Duration(secondsAgo) * time.Second)
				got := Compute(Input{Remaining: remaining, Reserved: reserved, WindowStart: &start, Now: now})
				if got.Interval < MinInterval {
					t.Fatalf("Compute(remaining=%d reserved=%d ago=%ds) = %v, below %v",
						remaining, reserved, secondsAgo, got.Interval, MinInterval)
				}
			}
		}
	}
}

func TestCompute_IsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-17 * time.Minute)
	in := Input{Remaining: 33, Reserved: 10, WindowStart: &start, Now: now}
	first := Compute(in)
	for i := 0; i < 10; i++ {
		if got := Compute(in); got != first {
			t.Fatalf("Compute returned %+v then %+v for the same input", first, got)
		}
	}
	if !start.Equal(now.Add(-17 * time.Minute)) {
		t.Fatalf("Compute mutated WindowStart")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		max  time.Duration
		want time.Duration
	}{
		{"no cap", 600 * time.Second, 0, 600 * time.Second},
		{"negative cap ignored", 600 * time.Second, -time.Second, 600 * time.Second},
		{"under cap", 90 * time.Second, 120 * time.Second, 90 * time.Second},
		{"capped", 600 * time.Second, 120 * time.Second, 120 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.d, tt.max); got != tt.want {
				t.Errorf("Clamp(%v, %v) = %v, want %v", tt.d, tt.max, got, tt.want)
			}
		})
	}
}
