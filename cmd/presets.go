package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/transistor/transistor"
)

var presetNames []string

// presetsCmd represents the presets command
var presetsCmd = &cobra.Command{
	Use:   "presets [path] [key=value | key:=json]...",
	Short: "List filter presets or run them over one response",
	Long: `Without arguments, list the filter presets from config. With a path, fetch it once
and report which resources each preset selects.

  transistor presets
  transistor presets episodes show_id=123
  transistor presets episodes --only published,recent`,
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)

	presetsCmd.Flags().StringSliceVar(&presetNames, "only", nil, "run only these presets, in this order")
}

func runPresets(cmd *cobra.Command, tokens []string) error {
	w := cmd.OutOrStdout()

	if len(tokens) == 0 {
		presets := filters.Presets()
		if len(presets) == 0 {
			fmt.Fprintln(w, "No presets configured")
			return nil
		}
		for _, p := range presets {
			fmt.Fprintf(w, "%s: %s\n", p.Name, p.Expression)
		}
		return nil
	}

	paths, params, err := splitParams(tokens)
	if err != nil {
		return err
	}
	if len(paths) != 1 {
		return fmt.Errorf("expected exactly one path, got %d", len(paths))
	}

	out := client.Get(cmd.Context(), paths[0], params)
	if verbose {
		printDiagnostics(cmd.ErrOrStderr(), out)
	}
	if !out.Success {
		return fmt.Errorf("%s: %w", out.Request, out.Err())
	}

	doc, err := transistor.DecodeDocument(out)
	if err != nil {
		return fmt.Errorf("cannot read resources from %s: %w", out.Request.Path, err)
	}
	resources, err := doc.Resources()
	if err != nil {
		return err
	}

	results, err := filters.Run(cmd.Context(), presetNames, resources)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("path", out.Request.Path).
		Int("resources", len(resources)).
		Int("presets", len(results)).
		Msg("Ran filter presets")

	return writeValue(w, results)
}
