package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/backdrop/internal/budget"
	"github.com/five82/backdrop/internal/command"
	"github.com/five82/backdrop/internal/config"
	"github.com/five82/backdrop/internal/input"
	"github.com/five82/backdrop/internal/logging"
	"github.com/five82/backdrop/internal/state"
	"github.com/five82/backdrop/internal/ui"
	"github.com/five82/backdrop/internal/unsplash"
	"github.com/five82/backdrop/internal/wallpaper"
)

// Mode selects how backdrop talks to the user.
type Mode int

const (
	// ModeDashboard runs the Bubble Tea dashboard; logs go to the log file.
	ModeDashboard Mode = iota
	// ModePlain reads raw keys from the terminal and logs to stderr.
	ModePlain
	// ModeHeadless has no key input at all.
	ModeHeadless
)

func (m Mode) String() string {
	switch m {
	case ModeDashboard:
		return "dashboard"
	case ModePlain:
		return "plain"
	case ModeHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// Options configure the backdrop application.
type Options struct {
	Config config.Config
	Mode   Mode
	// Stdin is read for keys in plain mode; nil uses os.Stdin.
	Stdin *os.File
}

type components struct {
	client  *unsplash.Client
	tracker *budget.Tracker
	store   *wallpaper.Store
	updater *WallpaperUpdater
}

func newComponents(cfg config.Config, logger *zap.Logger) (*components, error) {
	client, err := unsplash.NewClient(unsplash.Options{
		APIURL:    cfg.APIURL,
		AccessKey: cfg.AccessKey,
		DemoMode:  cfg.DemoMode,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init unsplash client: %w", err)
	}
	tracker := budget.NewTracker(budget.Options{
		Quota:      cfg.RateLimitPerHour,
		RecordPath: cfg.RequestsLog,
		Logger:     logger,
	})
	store := wallpaper.NewStore(afero.NewOsFs(), cfg.ImageDir, cfg.SavedDir)
	updater := &WallpaperUpdater{
		Fetcher:  client,
		Store:    store,
		Setter:   wallpaper.NewSetter(),
		Queries:  unsplash.QueryPicker{Category: cfg.Category, Search: cfg.Search},
		SaveEach: cfg.Save,
		Logger:   logger,
	}
	return &components{client: client, tracker: tracker, store: store, updater: updater}, nil
}

// Run starts the main loop and the key listener, plus the dashboard in
// dashboard mode, and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config

	var (
		source      input.KeySource = input.Unavailable{}
		forwarder   *ui.KeyForwarder
		restoreTerm func() error
		termErr     error
	)
	logOpts := logging.Options{Level: cfg.LogLevel}
	switch opts.Mode {
	case ModeDashboard:
		forwarder = ui.NewKeyForwarder()
		source = forwarder
		logOpts.Output = logging.File
		logOpts.Path = cfg.LogFile
	case ModePlain:
		stdin := opts.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		src, err := input.OpenTerminal(stdin)
		if err != nil {
			termErr = err
			break
		}
		source = src
		restoreTerm = src.Close
		logOpts.Output = logging.RawTerminal
	}

	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		if restoreTerm != nil {
			_ = restoreTerm()
		}
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()
	if restoreTerm != nil {
		defer func() { _ = restoreTerm() }()
	}
	if termErr != nil && !errors.Is(termErr, input.ErrUnavailable) {
		logger.Warn("could not enable raw terminal input", zap.Error(termErr))
	}

	comps, err := newComponents(cfg, logger)
	if err != nil {
		return err
	}

	exit := command.NewExitSignal()
	commands := command.NewChannel()
	status := &state.Store{}

	loop := NewLoop(LoopOptions{
		Updater:     comps.updater,
		Saver:       comps.store,
		Tracker:     comps.tracker,
		Commands:    commands,
		Exit:        exit,
		Status:      status,
		Interval:    cfg.Interval,
		MaxInterval: cfg.MaxInterval,
		Reserved:    cfg.ReservedForManual,
		DemoMode:    comps.client.DemoMode,
		Logger:      logger,
	})
	listener := input.NewListener(input.Options{
		Source:     source,
		Commands:   commands,
		Exit:       exit,
		Budget:     comps.tracker,
		Foreground: wallpaper.NewForeground(),
		Cooldown:   cfg.EffectiveCooldown(),
		NextUpdate: func() (time.Duration, bool) { return status.Snapshot().Until(time.Now()) },
		Logger:     logger,
	})

	st := comps.tracker.State()
	logger.Info("backdrop starting",
		zap.Stringer("mode", opts.Mode),
		zap.String("pacing", pacingLabel(cfg)),
		zap.String("category", cfg.Category),
		zap.String("search", cfg.Search),
		zap.Bool("demo", comps.client.DemoMode()),
		zap.Int("remaining", st.Remaining),
		zap.Int("quota", st.Quota),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer exit.Set()
		return loop.Run(gctx)
	})
	g.Go(func() error {
		listener.Run(gctx)
		return nil
	})
	if opts.Mode == ModeDashboard {
		g.Go(func() error {
			defer exit.Set()
			err := ui.Run(ui.Options{
				Store:     status,
				Keys:      forwarder,
				Exit:      exit,
				LogPath:   cfg.LogFile,
				Category:  cfg.Category,
				Search:    cfg.Search,
				Pacing:    pacingLabel(cfg),
				ThemeName: cfg.Theme,
			})
			if err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Once performs a single update outside the loop, logging to stderr.
func Once(ctx context.Context, cfg config.Config) error {
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()

	comps, err := newComponents(cfg, logger)
	if err != nil {
		return err
	}
	out, err := comps.updater.Update(ctx, command.TriggerManual)
	if out.Reported != "" {
		comps.tracker.RecordCall(out.Reported)
	}
	if err != nil {
		logger.Error("wallpaper update failed", zap.Error(err))
		return err
	}
	logger.Info("requests left this hour", zap.Int("remaining", comps.tracker.Remaining()))
	return nil
}

func pacingLabel(cfg config.Config) string {
	if cfg.Adaptive() {
		return "adaptive"
	}
	return "every " + cfg.Interval.String()
}
