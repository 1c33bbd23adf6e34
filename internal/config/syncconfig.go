package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/pders01/figma-sync/internal/artifact"
	"github.com/pders01/figma-sync/internal/models"
)

// Logical frame names used under figma.frames.
const (
	FrameLight      = "light"
	FrameDark       = "dark"
	FrameIcons      = "icons"
	FrameTypography = "typography"
)

// Frame points at a node in the Figma file.
type Frame struct {
	NodeID string `mapstructure:"nodeId"`
	URL    string `mapstructure:"url"`
}

// FigmaSection identifies the source document.
type FigmaSection struct {
	FileKey  string           `mapstructure:"fileKey"`
	FileName string           `mapstructure:"fileName"`
	Frames   map[string]Frame `mapstructure:"frames"`

	// Single-frame layout of older per-pipeline config files.
	NodeID   string `mapstructure:"nodeId"`
	FrameURL string `mapstructure:"frameUrl"`
}

// OutputSection holds artifact locations relative to the config file.
type OutputSection struct {
	IconsDirectory string `mapstructure:"iconsDirectory"`
	ColorsFile     string `mapstructure:"colorsFile"`
	IconsFile      string `mapstructure:"iconsFile"`
	TypographyFile string `mapstructure:"typographyFile"`
}

// SyncSection is the bookkeeping written after each successful run.
type SyncSection struct {
	LastSyncedAt     string `mapstructure:"lastSyncedAt"`
	LastFigmaVersion string `mapstructure:"lastFigmaVersion"`
}

// SyncConfig is the shared configuration of all pipelines. It is read once
// and not modified; runs report a models.Bookkeeping patch instead.
type SyncConfig struct {
	Path   string        `mapstructure:"-"`
	Figma  FigmaSection  `mapstructure:"figma"`
	Output OutputSection `mapstructure:"output"`
	Sync   SyncSection   `mapstructure:"sync"`
}

// LoadSyncConfig reads the sync config at path.
func LoadSyncConfig(fs afero.Fs, path string) (*SyncConfig, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("output.iconsDirectory", "svg")
	v.SetDefault("output.colorsFile", "colors.json")
	v.SetDefault("output.iconsFile", "icons.json")
	v.SetDefault("output.typographyFile", "typography.json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read sync config %s: %w", path, err)
	}

	var cfg SyncConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sync config %s: %w", path, err)
	}
	cfg.Path = path

	if strings.TrimSpace(cfg.Figma.FileKey) == "" {
		return nil, fmt.Errorf("sync config %s: figma.fileKey is required", path)
	}

	return &cfg, nil
}

// FrameFor returns the frame configured under name. The legacy single
// figma.nodeId is accepted for the icons and typography frames.
func (c *SyncConfig) FrameFor(name string) (Frame, error) {
	if f, ok := c.Figma.Frames[name]; ok && f.NodeID != "" {
		return f, nil
	}
	if (name == FrameIcons || name == FrameTypography) && c.Figma.NodeID != "" {
		return Frame{NodeID: c.Figma.NodeID, URL: c.Figma.FrameURL}, nil
	}
	return Frame{}, fmt.Errorf("frame %q is not configured (set figma.frames.%s.nodeId in %s)", name, name, c.Path)
}

// Resolve makes a configured path absolute relative to the config file.
func (c *SyncConfig) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(filepath.Dir(c.Path), rel)
}

// ColorsFile returns the path of colors.json.
func (c *SyncConfig) ColorsFile() string { return c.Resolve(c.Output.ColorsFile) }

// IconsFile returns the path of icons.json.
func (c *SyncConfig) IconsFile() string { return c.Resolve(c.Output.IconsFile) }

// IconsDir returns the directory SVGs are written to.
func (c *SyncConfig) IconsDir() string { return c.Resolve(c.Output.IconsDirectory) }

// TypographyFile returns the path of typography.json.
func (c *SyncConfig) TypographyFile() string { return c.Resolve(c.Output.TypographyFile) }

// DisplayName returns the file name for progress output.
func (c *SyncConfig) DisplayName() string {
	if c.Figma.FileName != "" {
		return c.Figma.FileName
	}
	return c.Figma.FileKey
}

// ApplyBookkeeping records a successful run in the sync config at path.
// Only sync.lastSyncedAt and sync.lastFigmaVersion change.
func ApplyBookkeeping(fs afero.Fs, path string, b models.Bookkeeping) error {
	if _, err := fs.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("sync config %s no longer exists", path)
		}
		return fmt.Errorf("failed to stat sync config: %w", err)
	}

	obj, err := artifact.ReadObject(fs, path)
	if err != nil {
		return err
	}

	section := obj.Child("sync")
	if err := section.Set("lastSyncedAt", models.FormatTimestamp(b.LastSyncedAt)); err != nil {
		return err
	}
	if err := section.Set("lastFigmaVersion", b.LastFigmaVersion); err != nil {
		return err
	}
	if err := obj.Set("sync", section); err != nil {
		return err
	}

	if err := artifact.WriteJSON(fs, path, obj); err != nil {
		return fmt.Errorf("failed to update sync config: %w", err)
	}
	return nil
}
