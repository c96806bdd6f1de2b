package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reoring/castkit"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		typeName    string
		defsPath    string
		strict      bool
		printResult bool
	)
	cmd := &cobra.Command{
		Use:   "validate --type T <file|->",
		Short: "Validate a JSON document against a registered type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(defsPath)
			if err != nil {
				return err
			}
			if _, ok := reg.Lookup(typeName); !ok {
				return fmt.Errorf("unknown type %q", typeName)
			}
			caster := castkit.NewCaster(reg,
				castkit.WithStrictUnknown(strict || a.conf.Caster.StrictUnknown),
				castkit.WithMaxDepth(a.conf.Caster.MaxDepth),
			)

			in, closeInput, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeInput()

			raw, err := castkit.ParseJSONReader(in, castkit.ParseOpt{
				OnDuplicateKey: castkit.Error,
				MaxDepth:       a.conf.Caster.MaxDepth,
			})
			if err == nil {
				raw, err = caster.DecodeType(raw, typeName)
			}
			if err != nil {
				var ve *castkit.ValidationError
				if errors.As(err, &ve) {
					return fmt.Errorf("%s: %s (%s at %s)", args[0], ve.Error(), ve.Code, ve.Path)
				}
				return err
			}

			if printResult {
				b, err := castkit.MarshalJSONIndent(raw, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal result: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s\n", args[0], typeName)
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Registered type to validate against")
	cmd.Flags().StringVar(&defsPath, "defs", "", "YAML schema definitions (default: PokeAPI registry)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject undeclared keys")
	cmd.Flags().BoolVar(&printResult, "print", false, "Print the decoded document")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// openInput opens name, or stdin for "-".
func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(filepath.Clean(name))
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
