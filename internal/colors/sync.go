package colors

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/pders01/figma-sync/internal/artifact"
	"github.com/pders01/figma-sync/internal/config"
	"github.com/pders01/figma-sync/internal/figma"
	"github.com/pders01/figma-sync/internal/models"
	"github.com/pders01/figma-sync/internal/report"
)

const (
	summaryColorLimit = 10

	paletteName        = "Filo Color Palette"
	paletteDescription = "%d color tokens with light and dark mode variants - synced from Figma"
)

// Source is the part of the Figma client the color sync reads from.
type Source interface {
	FileInfo(ctx context.Context, fileKey string) (*figma.FileInfo, error)
	Frame(ctx context.Context, fileKey, nodeID string) (figma.Node, error)
}

// Options configures a color sync run.
type Options struct {
	Fs        afero.Fs
	Printer   *report.Printer
	Now       func() time.Time
	Suggester *Suggester
}

// Result describes a finished run. Palette and Bookkeeping are nil when
// nothing was written.
type Result struct {
	Palette     *models.ColorPalette
	Bookkeeping *models.Bookkeeping
}

func (o *Options) defaults() {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Printer == nil {
		o.Printer = report.Discard()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

func collectMode(ctx context.Context, src Source, cfg *config.SyncConfig, frameName string) ([]Swatch, error) {
	frame, err := cfg.FrameFor(frameName)
	if err != nil {
		return nil, err
	}
	node, err := src.Frame(ctx, cfg.Figma.FileKey, frame.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s frame: %w", frameName, err)
	}
	swatches, err := FindSwatches(node)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s frame: %w", frameName, err)
	}
	return Dedupe(swatches), nil
}

// Sync fetches both mode frames, merges their swatches and writes
// colors.json. An empty result leaves the existing file untouched.
func Sync(ctx context.Context, src Source, cfg *config.SyncConfig, opts Options) (*Result, error) {
	opts.defaults()
	out := opts.Printer

	lightFrame, err := cfg.FrameFor(config.FrameLight)
	if err != nil {
		return nil, err
	}
	darkFrame, err := cfg.FrameFor(config.FrameDark)
	if err != nil {
		return nil, err
	}

	out.Step("Fetching file info for %s...", cfg.DisplayName())
	info, err := src.FileInfo(ctx, cfg.Figma.FileKey)
	if err != nil {
		return nil, err
	}
	out.Info("File: %s", info.Name)
	out.Info("Version: %s", info.Version)
	out.Info("Last modified: %s", info.LastModified)

	out.Step("Fetching light mode colors (node %s)...", lightFrame.NodeID)
	light, err := collectMode(ctx, src, cfg, config.FrameLight)
	if err != nil {
		return nil, err
	}
	out.Success("Found %d light mode colors", len(light))

	out.Step("Fetching dark mode colors (node %s)...", darkFrame.NodeID)
	dark, err := collectMode(ctx, src, cfg, config.FrameDark)
	if err != nil {
		return nil, err
	}
	out.Success("Found %d dark mode colors", len(dark))

	merged := Merge(light, dark)
	if len(merged) == 0 {
		out.Warn("no colors found in the light or dark frames; %s was not changed", cfg.ColorsFile())
		return &Result{}, nil
	}

	now := opts.Now()
	palette := &models.ColorPalette{
		Name:            paletteName,
		Description:     fmt.Sprintf(paletteDescription, len(merged)),
		Colors:          merged,
		SemanticAliases: DeriveAliases(merged),
		FigmaSync: models.ColorSync{
			FileKey:      cfg.Figma.FileKey,
			Frames:       models.ColorFrames{Light: lightFrame.NodeID, Dark: darkFrame.NodeID},
			LastSyncedAt: models.FormatTimestamp(now),
			FigmaVersion: info.Version,
			TotalColors:  len(merged),
		},
	}

	if opts.Suggester != nil {
		suggested, err := opts.Suggester.Suggest(ctx, merged, palette.SemanticAliases)
		if err != nil {
			out.Warn("alias suggestions unavailable: %v", err)
		} else {
			palette.SuggestedAliases = suggested
		}
	}

	if err := artifact.WriteJSON(opts.Fs, cfg.ColorsFile(), palette); err != nil {
		return nil, fmt.Errorf("failed to write colors: %w", err)
	}

	out.Success("Synced %d colors to %s", len(merged), cfg.ColorsFile())
	printSummary(out, palette)

	return &Result{
		Palette:     palette,
		Bookkeeping: &models.Bookkeeping{LastSyncedAt: now, LastFigmaVersion: info.Version},
	}, nil
}

func printSummary(out *report.Printer, palette *models.ColorPalette) {
	out.Step("Color summary (first %d):", summaryColorLimit)
	for i, c := range palette.Colors {
		if i == summaryColorLimit {
			out.Info("... and %d more", len(palette.Colors)-summaryColorLimit)
			break
		}
		out.Info("%s %s: %s / %s", c.Token, c.Name, orDash(c.Light), orDash(c.Dark))
	}

	if len(palette.SemanticAliases) > 0 {
		out.Step("Semantic aliases:")
		for _, a := range palette.SemanticAliases {
			out.Info("%s → %s", a.Alias, a.Token)
		}
	}
	if len(palette.SuggestedAliases) > 0 {
		out.Step("Suggested aliases:")
		for _, a := range palette.SuggestedAliases {
			out.Info("%s → %s", a.Alias, a.Token)
		}
	}
}

func orDash(v *string) string {
	if v == nil {
		return "—"
	}
	return *v
}
