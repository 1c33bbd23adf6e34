package icons

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/pders01/figma-sync/internal/artifact"
	"github.com/pders01/figma-sync/internal/config"
	"github.com/pders01/figma-sync/internal/figma"
	"github.com/pders01/figma-sync/internal/models"
	"github.com/pders01/figma-sync/internal/report"
)

// Source is the part of the Figma client the icon sync uses.
type Source interface {
	FileInfo(ctx context.Context, fileKey string) (*figma.FileInfo, error)
	Frame(ctx context.Context, fileKey, nodeID string) (figma.Node, error)
	ExportURLs(ctx context.Context, fileKey string, ids []string, format string) (map[string]string, error)
	Download(ctx context.Context, rawURL string, w io.Writer) error
}

// Options configures an icon sync run.
type Options struct {
	Fs          afero.Fs
	Printer     *report.Printer
	Now         func() time.Time
	Concurrency int
	Exclude     []string
}

// Result describes a finished run. Bookkeeping is nil when nothing was
// written.
type Result struct {
	Icons       []models.IconRecord
	Skipped     []string
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
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
}

// Sync exports every icon of the icons frame as SVG into the icons
// directory and merges the index into icons.json. A failed download skips
// that icon only.
func Sync(ctx context.Context, src Source, cfg *config.SyncConfig, opts Options) (*Result, error) {
	opts.defaults()
	out := opts.Printer

	frame, err := cfg.FrameFor(config.FrameIcons)
	if err != nil {
		return nil, err
	}
	filter, err := NewFilter(opts.Exclude)
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

	out.Step("Fetching icon frame (node %s)...", frame.NodeID)
	root, err := src.Frame(ctx, cfg.Figma.FileKey, frame.NodeID)
	if err != nil {
		return nil, err
	}
	out.Info("Frame name: %s", root.Base().Name)

	found, err := Find(root, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to scan icon frame: %w", err)
	}
	out.Info("Found %d icons", len(found))

	if len(found) == 0 {
		out.Warn("no icons found in frame %s; make sure it contains COMPONENT or FRAME nodes", frame.NodeID)
		return &Result{}, nil
	}

	entries, collisions := AssignFileNames(found)
	for _, c := range collisions {
		out.Warn("icon %q maps to taken file name %s.svg, writing %s", c.Name, c.Slug, c.FileName)
	}

	out.Step("Requesting SVG exports...")
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	urls, err := src.ExportURLs(ctx, cfg.Figma.FileKey, ids, "svg")
	if err != nil {
		return nil, err
	}

	out.Step("Downloading SVGs...")
	records, skipped := download(ctx, src, opts, cfg.IconsDir(), entries, urls)
	if len(records) == 0 {
		out.Warn("none of the %d icons could be downloaded; %s was not changed", len(entries), cfg.IconsFile())
		return &Result{Skipped: skipped}, nil
	}

	now := opts.Now()
	meta := models.IconSync{
		FileKey:      cfg.Figma.FileKey,
		NodeID:       frame.NodeID,
		LastSyncedAt: models.FormatTimestamp(now),
		FigmaVersion: info.Version,
		TotalIcons:   len(records),
	}

	out.Step("Updating icons metadata...")
	if err := artifact.MergeJSON(opts.Fs, cfg.IconsFile(),
		artifact.Field{Key: "icons", Value: records},
		artifact.Field{Key: "figmaSync", Value: meta},
	); err != nil {
		return nil, fmt.Errorf("failed to update icons metadata: %w", err)
	}

	out.Success("%d icons synced to %s", len(records), cfg.IconsDir())

	return &Result{
		Icons:       records,
		Skipped:     skipped,
		Bookkeeping: &models.Bookkeeping{LastSyncedAt: now, LastFigmaVersion: info.Version},
	}, nil
}

// download fetches entries with at most opts.Concurrency requests in flight.
// Records keep the order of entries.
func download(ctx context.Context, src Source, opts Options, dir string, entries []Entry, urls map[string]string) ([]models.IconRecord, []string) {
	out := opts.Printer
	slots := make([]*models.IconRecord, len(entries))
	failed := make([]bool, len(entries))

	p := pool.New().WithMaxGoroutines(opts.Concurrency)
	for i, e := range entries {
		u, ok := urls[e.ID]
		if !ok {
			out.Warn("no SVG URL for: %s", e.Name)
			failed[i] = true
			continue
		}

		p.Go(func() {
			var buf bytes.Buffer
			if err := src.Download(ctx, u, &buf); err != nil {
				out.Warn("failed to download %s: %v", e.FileName, err)
				failed[i] = true
				return
			}
			if err := artifact.WriteFile(opts.Fs, filepath.Join(dir, e.FileName), buf.Bytes()); err != nil {
				out.Warn("failed to write %s: %v", e.FileName, err)
				failed[i] = true
				return
			}
			out.Item("%s", e.FileName)
			slots[i] = &models.IconRecord{
				Name:     e.Name,
				FileName: e.FileName,
				FigmaID:  e.ID,
				Type:     string(e.Type),
			}
		})
	}
	p.Wait()

	records := make([]models.IconRecord, 0, len(entries))
	var skipped []string
	for i, r := range slots {
		if r != nil {
			records = append(records, *r)
		} else if failed[i] {
			skipped = append(skipped, entries[i].Name)
		}
	}
	return records, skipped
}
