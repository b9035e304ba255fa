package app

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/five82/backdrop/internal/config"
)

func TestModeString(t *testing.T) {
	tests := map[Mode]string{
		ModeDashboard: "dashboard",
		ModePlain:     "plain",
		ModeHeadless:  "headless",
		Mode(42):      "unknown",
	}
	for mode, want := range tests {
		if got := mode.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(mode), got, want)
		}
	}
}

func TestPacingLabel(t *testing.T) {
	cfg := config.Default()
	cfg.Interval = 0
	if got := pacingLabel(cfg); got != "adaptive" {
		t.Fatalf("pacingLabel = %q, want adaptive", got)
	}

	cfg.Interval = 15 * time.Minute
	if got := pacingLabel(cfg); got != "every 15m0s" {
		t.Fatalf("pacingLabel = %q, want every 15m0s", got)
	}
}

func TestNewComponents(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.AccessKey = ""
	cfg.ImageDir = dir
	cfg.SavedDir = ""
	cfg.RequestsLog = filepath.Join(dir, "requests.toml")
	cfg.Category = "nature"
	cfg.Save = true

	comps, err := newComponents(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("newComponents: %v", err)
	}
	if !comps.client.DemoMode() {
		t.Fatal("an empty key should run in demo mode")
	}
	if got := comps.tracker.Quota(); got != cfg.RateLimitPerHour {
		t.Fatalf("quota = %d, want %d", got, cfg.RateLimitPerHour)
	}
	if got := comps.store.CurrentPath(); got != filepath.Join(dir, "wallpaper.jpg") {
		t.Fatalf("CurrentPath = %q", got)
	}
	if !comps.updater.SaveEach || comps.updater.Queries.Category != "nature" {
		t.Fatalf("updater = %+v", comps.updater)
	}
}

func TestNewComponents_BadAPIURL(t *testing.T) {
	cfg := config.Default()
	cfg.ImageDir = t.TempDir()
	cfg.APIURL = "http://[::1"

	if _, err := newComponents(cfg, zap.NewNop()); err == nil {
		t.Fatal("newComponents accepted a malformed api_url")
	}
}
