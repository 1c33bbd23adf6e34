package typography

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
	scaleName        = "Filo Typography"
	scaleDescription = "Type scale for Filo design system - synced from Figma"
	scaleNote        = "Use platform-native typefaces to respect each OS's visual language. The type scale below applies across all platforms — only the font family changes."

	summaryBodyLimit = 5
)

// PlatformFamilies are the native typefaces written to typography.json.
var PlatformFamilies = models.FontFamilies{
	IOS:     "SF Pro",
	MacOS:   "SF Pro",
	Android: "Roboto",
	Windows: "Segoe UI",
}

// Source is the part of the Figma client the typography sync reads from.
type Source interface {
	FileInfo(ctx context.Context, fileKey string) (*figma.FileInfo, error)
	Frame(ctx context.Context, fileKey, nodeID string) (figma.Node, error)
}

// Options configures a typography sync run.
type Options struct {
	Fs      afero.Fs
	Printer *report.Printer
	Now     func() time.Time
}

// Result describes a finished run. Scale and Bookkeeping are nil when
// nothing was written.
type Result struct {
	Scale       *models.TypographyScale
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

// Sync reads every text style of the typography frame and writes
// typography.json.
func Sync(ctx context.Context, src Source, cfg *config.SyncConfig, opts Options) (*Result, error) {
	opts.defaults()
	out := opts.Printer

	frame, err := cfg.FrameFor(config.FrameTypography)
	if err != nil {
		return nil, err
	}

	out.Step("Fetching file info for %s...", cfg.DisplayName())
	info, err := src.FileInfo(ctx, cfg.Figma.FileKey)
	if err != nil {
		return nil, err
	}
	out.Info("File version: %s", info.Version)
	out.Info("Last modified: %s", info.LastModified)

	out.Step("Fetching typography frame (node %s)...", frame.NodeID)
	root, err := src.Frame(ctx, cfg.Figma.FileKey, frame.NodeID)
	if err != nil {
		return nil, err
	}
	out.Info("Frame name: %s", root.Base().Name)

	styles, err := FindStyles(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan typography frame: %w", err)
	}
	out.Info("Found %d text styles", len(styles))

	if len(styles) == 0 {
		out.Warn("no text styles found in frame %s; %s was not changed", frame.NodeID, cfg.TypographyFile())
		return &Result{}, nil
	}

	headings, body := Categorize(styles)
	out.Info("Headings: %d, Body: %d", len(headings), len(body))

	now := opts.Now()
	scale := &models.TypographyScale{
		Name:         scaleName,
		Description:  scaleDescription,
		FontFamilies: PlatformFamilies,
		Note:         scaleNote,
		Headings:     headings,
		Body:         body,
		FigmaSync: models.TypographySync{
			FileKey:      cfg.Figma.FileKey,
			NodeID:       frame.NodeID,
			FrameURL:     frame.URL,
			LastSyncedAt: models.FormatTimestamp(now),
			FigmaVersion: info.Version,
			TotalStyles:  len(styles),
		},
	}

	out.Step("Writing %s...", cfg.TypographyFile())
	if err := artifact.WriteJSON(opts.Fs, cfg.TypographyFile(), scale); err != nil {
		return nil, fmt.Errorf("failed to write typography: %w", err)
	}

	out.Success("%d heading styles, %d body styles", len(headings), len(body))
	printSummary(out, headings, body)

	return &Result{
		Scale:       scale,
		Bookkeeping: &models.Bookkeeping{LastSyncedAt: now, LastFigmaVersion: info.Version},
	}, nil
}

func printSummary(out *report.Printer, headings, body []models.TypographyStyle) {
	out.Step("Typography summary:")
	out.Info("Headings:")
	for _, h := range headings {
		out.Info("  %s: %gpx/%dpx %s", h.Name, h.Size, h.LineHeight, h.Weight)
	}
	out.Info("Body (top %d):", summaryBodyLimit)
	for i, b := range body {
		if i == summaryBodyLimit {
			out.Info("  ... and %d more", len(body)-summaryBodyLimit)
			break
		}
		out.Info("  %s: %gpx/%dpx %s", b.Name, b.Size, b.LineHeight, b.Weight)
	}
}
