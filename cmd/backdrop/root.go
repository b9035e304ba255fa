package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/backdrop/internal/app"
	"github.com/five82/backdrop/internal/config"
)

type rootFlags struct {
	configPath  string
	category    string
	search      string
	interval    string
	maxInterval int
	save        bool
	plain       bool
	headless    bool
	logLevel    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "backdrop",
		Short:         "Rotate the desktop wallpaper with photos from Unsplash",
		Long:          "backdrop changes the wallpaper on a schedule that spreads the hourly Unsplash API quota across the hour.\nKeys: n new wallpaper, s save, q quit.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), app.Options{Config: cfg, Mode: pickMode(flags)})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/backdrop/config.toml)")
	pf.StringVar(&flags.category, "category", "", "photo category, or \"random\"")
	pf.StringVar(&flags.search, "search", "", "comma-separated search terms, overrides --category")
	pf.StringVar(&flags.interval, "interval", "", "\"auto\" or a fixed interval in minutes")
	pf.IntVar(&flags.maxInterval, "max-interval", 0, "cap for the adaptive interval, in seconds")
	pf.BoolVar(&flags.save, "save", false, "keep a copy of every downloaded wallpaper")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	root.Flags().BoolVar(&flags.plain, "plain", false, "log to the terminal instead of showing the dashboard")
	root.Flags().BoolVar(&flags.headless, "headless", false, "run without keyboard controls")
	root.MarkFlagsMutuallyExclusive("plain", "headless")

	root.AddCommand(
		newOnceCmd(flags),
		newCategoriesCmd(),
		newStatusCmd(flags),
	)
	return root
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("category") {
		cfg.Category = flags.category
	}
	if changed("search") {
		cfg.Search = flags.search
	}
	if changed("interval") {
		d, err := config.ParseInterval(flags.interval)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Interval = d
	}
	if changed("max-interval") {
		if flags.maxInterval < 0 {
			return config.Config{}, fmt.Errorf("%w: --max-interval must not be negative", config.ErrInvalid)
		}
		cfg.MaxInterval = time.Duration(flags.maxInterval) * time.Second
	}
	if changed("save") {
		cfg.Save = flags.save
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	return cfg, nil
}

// pickMode honours --plain and --headless, otherwise chooses from what stdin
// and stdout are attached to.
func pickMode(flags *rootFlags) app.Mode {
	switch {
	case flags.headless:
		return app.ModeHeadless
	case flags.plain:
		return app.ModePlain
	}
	return modeFor(isTerminal(os.Stdin), isTerminal(os.Stdout))
}

func modeFor(stdinTTY, stdoutTTY bool) app.Mode {
	switch {
	case stdinTTY && stdoutTTY:
		return app.ModeDashboard
	case stdinTTY:
		return app.ModePlain
	default:
		return app.ModeHeadless
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
