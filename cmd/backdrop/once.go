package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/backdrop/internal/app"
)

func newOnceCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Set one new wallpaper and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return app.Once(cmd.Context(), cfg)
		},
	}
}
