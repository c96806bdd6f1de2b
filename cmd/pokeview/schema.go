package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/castkit"
	"github.com/reoring/castkit/defs"
	"github.com/reoring/castkit/jsonschema"
	"github.com/reoring/castkit/pokeapi"
)

func newSchemaCmd(_ *app) *cobra.Command {
	var defsPath string
	cmd := &cobra.Command{
		Use:   "schema [type]",
		Short: "Print the registry as JSON Schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(defsPath)
			if err != nil {
				return err
			}

			doc := castkit.ExportJSONSchema(reg)
			if len(args) == 1 {
				if _, ok := reg.Lookup(args[0]); !ok {
					return fmt.Errorf("unknown type %q", args[0])
				}
				doc.Ref = jsonschema.RefTo(args[0]).Ref
			}

			b, err := castkit.MarshalJSONIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&defsPath, "defs", "", "YAML schema definitions (default: PokeAPI registry)")
	return cmd
}

// loadRegistry reads definitions from path, or returns the PokeAPI registry
// when path is empty.
func loadRegistry(path string) (*castkit.Registry, error) {
	if path == "" {
		return pokeapi.NewRegistry()
	}
	return defs.LoadFile(path)
}
