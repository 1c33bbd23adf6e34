package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pders01/figma-sync/internal/typography"
)

var typographyCmd = &cobra.Command{
	Use:   "typography",
	Short: "Sync text styles into typography.json",
	Long: `Collect the style of every text node in the typography frame, split
them into headings (H1, H2, ...) and body styles and write typography.json.`,
	RunE: runTypography,
}

func init() {
	rootCmd.AddCommand(typographyCmd)
}

func runTypography(cmd *cobra.Command, args []string) error {
	env, err := newSyncEnv(cmd)
	if err != nil {
		return err
	}
	if err := syncTypography(commandContext(cmd), env); err != nil {
		return err
	}
	env.out.Success("Sync complete!")
	return nil
}

func syncTypography(ctx context.Context, env *syncEnv) error {
	env.out.Step("Starting Figma typography sync...")

	result, err := typography.Sync(ctx, env.client, env.cfg, typography.Options{
		Fs:      appFs,
		Printer: env.out,
	})
	if err != nil {
		return err
	}
	env.record(result.Bookkeeping)
	return nil
}
