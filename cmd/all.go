package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run the color, icon and typography syncs in order",
	Long: `Run every pipeline against the same sync config. The first failing
pipeline stops the run; artifacts written by earlier pipelines are kept.`,
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(allCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	env, err := newSyncEnv(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	steps := []struct {
		name string
		run  func() error
	}{
		{"colors", func() error { return syncColors(ctx, env) }},
		{"icons", func() error { return syncIcons(ctx, env) }},
		{"typography", func() error { return syncTypography(ctx, env) }},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	env.out.Success("Sync complete!")
	return nil
}
