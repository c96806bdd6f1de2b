package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/reoring/castkit/pokeapi"
	"github.com/reoring/castkit/viewer"
)

func newListCmd(a *app) *cobra.Command {
	var offset, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pokemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, closeViewer, err := a.newViewer(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeViewer()

			if limit <= 0 {
				limit = a.conf.Client.PageLimit
			}
			entries, err := v.List(cmd.Context(), pokeapi.Page{Offset: offset, Limit: limit})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), entriesTable(entries, 0))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Index of the first entry")
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries (default from config)")
	return cmd
}

// entriesTable renders entries; the entry at the 1-based cursor is marked.
func entriesTable(entries []viewer.Entry, cursor int) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"", "ID", "NAME"})
	for i, e := range entries {
		mark := ""
		if i+1 == cursor {
			mark = ">"
		}
		tw.AppendRow(table.Row{mark, e.ID, e.Name})
	}
	return tw.Render()
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	return tw
}
