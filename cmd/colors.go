package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pders01/figma-sync/internal/colors"
)

var colorsSuggest bool

var colorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "Sync light and dark color tokens into colors.json",
	Long: `Fetch the light and dark color frames, merge swatches by their numeric
token and write colors.json with semantic aliases.

With --suggest-aliases (or aliases.suggest = true) aliases the keyword rules
could not bind are suggested from name embeddings served by Ollama. They are
written under suggestedAliases only.

Examples:
  figma-sync colors
  figma-sync colors --sync-config design/figma-sync-config.json
  figma-sync colors --suggest-aliases`,
	RunE: runColors,
}

func init() {
	rootCmd.AddCommand(colorsCmd)

	colorsCmd.Flags().BoolVar(&colorsSuggest, "suggest-aliases", false, "Suggest unbound aliases with embeddings")
}

func runColors(cmd *cobra.Command, args []string) error {
	env, err := newSyncEnv(cmd)
	if err != nil {
		return err
	}
	if err := syncColors(commandContext(cmd), env); err != nil {
		return err
	}
	env.out.Success("Sync complete!")
	return nil
}

func syncColors(ctx context.Context, env *syncEnv) error {
	env.out.Step("Starting Figma color sync...")

	result, err := colors.Sync(ctx, env.client, env.cfg, colors.Options{
		Fs:        appFs,
		Printer:   env.out,
		Suggester: newSuggester(ctx, env.out),
	})
	if err != nil {
		return err
	}
	env.record(result.Bookkeeping)
	return nil
}
