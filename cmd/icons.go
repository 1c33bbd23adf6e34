package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/figma-sync/internal/config"
	"github.com/pders01/figma-sync/internal/icons"
)

var iconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "Export icons as SVG and update icons.json",
	Long: `Find every icon in the icons frame (components, instances and leaf
frames), export each as SVG into the icons directory and merge the index
into icons.json. Other keys of icons.json are preserved.

A failed download skips that icon. Two icons with the same file name get
-2, -3, ... suffixes.

Examples:
  figma-sync icons
  figma-sync icons --concurrency 4
  figma-sync icons --exclude "Legacy/**"`,
	RunE: runIcons,
}

func init() {
	rootCmd.AddCommand(iconsCmd)

	iconsCmd.Flags().Int("concurrency", 1, "Maximum parallel SVG downloads")
	iconsCmd.Flags().StringSlice("exclude", nil, "Glob patterns of icon names to skip")
	viper.BindPFlag("icons.concurrency", iconsCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("icons.exclude", iconsCmd.Flags().Lookup("exclude"))
}

func runIcons(cmd *cobra.Command, args []string) error {
	env, err := newSyncEnv(cmd)
	if err != nil {
		return err
	}
	if err := syncIcons(commandContext(cmd), env); err != nil {
		return err
	}
	env.out.Success("Sync complete!")
	return nil
}

func syncIcons(ctx context.Context, env *syncEnv) error {
	env.out.Step("Starting Figma icon sync...")

	result, err := icons.Sync(ctx, env.client, env.cfg, icons.Options{
		Fs:          appFs,
		Printer:     env.out,
		Concurrency: config.GetIconConcurrency(),
		Exclude:     config.GetIconExclude(),
	})
	if err != nil {
		return err
	}
	if len(result.Skipped) > 0 {
		env.out.Warn("%d icons were skipped", len(result.Skipped))
	}
	env.record(result.Bookkeeping)
	return nil
}
