package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/five82/backdrop/internal/unsplash"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the photo categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), renderCategories(unsplash.Categories()))
			return err
		},
	}
}

func renderCategories(names []string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Category"})
	for i, name := range names {
		t.AppendRow(table.Row{i + 1, name})
	}
	t.SetCaption("%q picks one per update", unsplash.RandomCategory)
	return t.Render()
}
