package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/castkit/pokeapi"
	"github.com/reoring/castkit/viewer"
)

const browseHelp = "n: next, p: prev, <number>: jump, q: quit"

func newBrowseCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse pokemon interactively",
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
			entries, err := v.List(cmd.Context(), pokeapi.Page{Limit: limit})
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pokemon")
				return nil
			}

			b := &browser{cmd: cmd, viewer: v, entries: entries, sel: viewer.NewSelection(len(entries))}
			return b.run(cmd.InOrStdin())
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries (default from config)")
	return cmd
}

type browser struct {
	cmd     *cobra.Command
	viewer  *viewer.Viewer
	entries []viewer.Entry
	sel     *viewer.Selection
}

func (b *browser) run(in io.Reader) error {
	out := b.cmd.OutOrStdout()
	fmt.Fprintln(out, entriesTable(b.entries, b.sel.Cursor()))
	fmt.Fprintln(out, browseHelp)
	b.show()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "q", "quit":
			return nil
		case "n", "next":
			b.sel.Next()
		case "p", "prev":
			b.sel.Prev()
		case "":
			continue
		default:
			i, err := strconv.Atoi(line)
			if err != nil {
				fmt.Fprintln(out, browseHelp)
				continue
			}
			b.sel.Set(i)
		}
		b.show()
	}
	return scanner.Err()
}

// show prints the profile of the selected entry. Fetch failures are printed
// and leave the session running.
func (b *browser) show() {
	out := b.cmd.OutOrStdout()
	e := b.entries[b.sel.Cursor()-1]
	pos := fmt.Sprintf("[%d/%d]", b.sel.Cursor(), b.sel.Len())

	p, err := b.viewer.Profile(b.cmd.Context(), e.ID)
	if err != nil {
		fmt.Fprintf(out, "%s %s: %v\n", pos, e.Name, err)
		return
	}
	fmt.Fprintf(out, "%s #%d %s\n", pos, p.ID, p.DisplayName)
	if p.FlavorText != "" {
		fmt.Fprintln(out, p.FlavorText)
	}
}
