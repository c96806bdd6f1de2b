package main

import (
	"fmt"
	"os"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/reoring/castkit/viewer"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		lang      string
		spriteOut string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show the profile of a pokemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lang != "" {
				a.conf.Client.Language = lang
			}
			v, closeViewer, err := a.newViewer(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeViewer()

			p, err := v.Profile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if spriteOut != "" {
				sprite, err := v.Sprite(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := os.WriteFile(spriteOut, sprite.Data, 0o644); err != nil {
					return fmt.Errorf("write sprite: %w", err)
				}
			}

			if asJSON {
				b, err := j.MarshalIndent(p, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal profile: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), profileText(p))
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "Language of flavor text and genus (default from config)")
	cmd.Flags().StringVar(&spriteOut, "sprite-out", "", "Write the sprite image to this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the profile as JSON")
	return cmd
}

func profileText(p *viewer.Profile) string {
	tw := newTable()
	tw.AppendRow(table.Row{"ID", p.ID})
	tw.AppendRow(table.Row{"NAME", p.DisplayName})
	if p.Genus != "" {
		tw.AppendRow(table.Row{"GENUS", p.Genus})
	}
	tw.AppendRow(table.Row{"TYPES", strings.Join(p.Types, ", ")})
	tw.AppendRow(table.Row{"ABILITIES", strings.Join(p.Abilities, ", ")})
	tw.AppendRow(table.Row{"HEIGHT", p.Height})
	tw.AppendRow(table.Row{"WEIGHT", p.Weight})
	for _, s := range p.Stats {
		tw.AppendRow(table.Row{strings.ToUpper(s.Name), s.Base})
	}
	if len(p.Varieties) > 0 {
		tw.AppendRow(table.Row{"VARIETIES", strings.Join(p.Varieties, ", ")})
	}

	out := tw.Render()
	if p.FlavorText != "" {
		out += "\n\n" + p.FlavorText
	}
	return out
}
