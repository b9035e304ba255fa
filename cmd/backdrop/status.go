package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/five82/backdrop/internal/budget"
	"github.com/five82/backdrop/internal/config"
	"github.com/five82/backdrop/internal/schedule"
)

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved request budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			now := time.Now()
			rec := budget.LoadRecord(cfg.RequestsLog, now)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderStatus(cfg, rec, now))
			return err
		},
	}
}

func renderStatus(cfg config.Config, rec budget.Record, now time.Time) string {
	quota := cfg.RateLimitPerHour
	used := min(max(rec.Count, 0), quota)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"Record", cfg.RequestsLog})
	t.AppendRow(table.Row{"Quota", fmt.Sprintf("%d per hour", quota)})
	t.AppendRow(table.Row{"Used", used})
	t.AppendRow(table.Row{"Remaining", quota - used})
	t.AppendRow(table.Row{"Reserved for manual", cfg.ReservedForManual})

	if start, ok := rec.Time(); ok {
		t.AppendRow(table.Row{"Window started", humanize.Time(start)})
		resets := start.Add(schedule.Window)
		if resets.After(now) {
			t.AppendRow(table.Row{"Window resets", humanize.Time(resets)})
		} else {
			t.AppendRow(table.Row{"Window resets", "at the next update"})
		}
	}
	pacing := "adaptive"
	if !cfg.Adaptive() {
		pacing = "every " + cfg.Interval.String()
	}
	t.AppendRow(table.Row{"Pacing", pacing})
	return t.Render()
}
