package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/figma-sync/internal/artifact"
	"github.com/pders01/figma-sync/internal/config"
)

var (
	statusJSON bool
	statusToon bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configured frames, last sync and artifact totals",
	Long: `Display the state of the sync config and its artifacts:
  - Figma file and configured frames
  - Last synced time and Figma version
  - Totals recorded in colors.json, icons.json and typography.json

No access token is needed.

Examples:
  figma-sync status
  figma-sync status --json
  figma-sync status --toon`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
	statusCmd.Flags().BoolVar(&statusToon, "toon", false, "Output in LLM-friendly toon format")
}

type syncStatus struct {
	Config           string           `json:"config"`
	FileKey          string           `json:"file_key"`
	FileName         string           `json:"file_name,omitempty"`
	Frames           []frameStatus    `json:"frames"`
	LastSyncedAt     string           `json:"last_synced_at,omitempty"`
	LastFigmaVersion string           `json:"last_figma_version,omitempty"`
	Artifacts        []artifactStatus `json:"artifacts"`
}

type frameStatus struct {
	Name   string `json:"name"`
	NodeID string `json:"node_id"`
	URL    string `json:"url,omitempty"`
}

type artifactStatus struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	Exists       bool   `json:"exists"`
	Total        int    `json:"total"`
	LastSyncedAt string `json:"last_synced_at,omitempty"`
	FigmaVersion string `json:"figma_version,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadSyncConfig(appFs, config.GetSyncConfigPath())
	if err != nil {
		return err
	}

	status := &syncStatus{
		Config:           cfg.Path,
		FileKey:          cfg.Figma.FileKey,
		FileName:         cfg.Figma.FileName,
		LastSyncedAt:     cfg.Sync.LastSyncedAt,
		LastFigmaVersion: cfg.Sync.LastFigmaVersion,
		Frames:           []frameStatus{},
	}

	for _, name := range []string{config.FrameLight, config.FrameDark, config.FrameIcons, config.FrameTypography} {
		frame, err := cfg.FrameFor(name)
		if err != nil {
			continue
		}
		status.Frames = append(status.Frames, frameStatus{Name: name, NodeID: frame.NodeID, URL: frame.URL})
	}

	for _, a := range []struct {
		name, path, totalKey string
	}{
		{"colors", cfg.ColorsFile(), "totalColors"},
		{"icons", cfg.IconsFile(), "totalIcons"},
		{"typography", cfg.TypographyFile(), "totalStyles"},
	} {
		s, err := readArtifactStatus(a.name, a.path, a.totalKey)
		if err != nil {
			return err
		}
		status.Artifacts = append(status.Artifacts, s)
	}

	w := stdout(cmd)

	// Output JSON if requested
	if statusJSON {
		output, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(output))
		return nil
	}

	// Output Toon if requested
	if statusToon {
		output, err := gotoon.Encode(status)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Fprintln(w, output)
		return nil
	}

	printStatus(w, status)
	return nil
}

func readArtifactStatus(name, path, totalKey string) (artifactStatus, error) {
	s := artifactStatus{Name: name, Path: path}

	exists, err := afero.Exists(appFs, path)
	if err != nil {
		return s, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !exists {
		return s, nil
	}
	s.Exists = true

	obj, err := artifact.ReadObject(appFs, path)
	if err != nil {
		return s, err
	}
	var meta map[string]any
	if ok, err := obj.Decode("figmaSync", &meta); !ok || err != nil {
		return s, nil
	}
	if total, ok := meta[totalKey].(float64); ok {
		s.Total = int(total)
	}
	s.LastSyncedAt, _ = meta["lastSyncedAt"].(string)
	s.FigmaVersion, _ = meta["figmaVersion"].(string)
	return s, nil
}

func printStatus(w io.Writer, s *syncStatus) {
	fmt.Fprintln(w, "Figma Sync Status")
	fmt.Fprintln(w, "━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Config:       %s\n", s.Config)
	if s.FileName != "" {
		fmt.Fprintf(w, "File:         %s (%s)\n", s.FileName, s.FileKey)
	} else {
		fmt.Fprintf(w, "File:         %s\n", s.FileKey)
	}
	if s.LastSyncedAt != "" {
		fmt.Fprintf(w, "Last synced:  %s (version %s)\n", s.LastSyncedAt, s.LastFigmaVersion)
	} else {
		fmt.Fprintln(w, "Last synced:  never")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Frames:")
	if len(s.Frames) == 0 {
		fmt.Fprintln(w, "  none configured")
	}
	for _, f := range s.Frames {
		fmt.Fprintf(w, "  %-12s %s\n", f.Name, f.NodeID)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Artifacts:")
	for _, a := range s.Artifacts {
		if !a.Exists {
			fmt.Fprintf(w, "  %-12s missing  %s\n", a.Name, a.Path)
			continue
		}
		fmt.Fprintf(w, "  %-12s %4d     %s\n", a.Name, a.Total, a.Path)
	}
}
