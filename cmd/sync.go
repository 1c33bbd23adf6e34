package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/figma-sync/internal/config"
	"github.com/pders01/figma-sync/internal/figma"
	"github.com/pders01/figma-sync/internal/models"
	"github.com/pders01/figma-sync/internal/report"
)

// appFs is the filesystem artifacts and the sync config live on.
var appFs = afero.NewOsFs()

const tokenHelp = `
Generate a token at: https://www.figma.com/developers/api#access-tokens
Then run: export ` + config.TokenEnv + `="your-token-here"`

type syncEnv struct {
	client *figma.Client
	cfg    *config.SyncConfig
	out    *report.Printer
}

// newSyncEnv checks the token before touching the sync config or the
// network.
func newSyncEnv(cmd *cobra.Command) (*syncEnv, error) {
	token, err := config.RequireToken()
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, tokenHelp)
	}

	cfg, err := config.LoadSyncConfig(appFs, config.GetSyncConfigPath())
	if err != nil {
		return nil, err
	}

	client, err := figma.NewClient(config.GetAPIURL(), token, config.GetTimeout())
	if err != nil {
		return nil, fmt.Errorf("failed to create Figma client: %w", err)
	}

	return &syncEnv{client: client, cfg: cfg, out: printerFor(cmd)}, nil
}

// record applies a run's bookkeeping. The artifact is already written, so a
// failure here is only reported.
func (e *syncEnv) record(b *models.Bookkeeping) {
	if b == nil {
		return
	}
	if err := config.ApplyBookkeeping(appFs, e.cfg.Path, *b); err != nil {
		e.out.Warn("failed to update sync bookkeeping: %v", err)
	}
}
