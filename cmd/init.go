package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/figma-sync/internal/artifact"
	"github.com/pders01/figma-sync/internal/config"
	"github.com/pders01/figma-sync/internal/figma"
	"github.com/pders01/figma-sync/internal/ollama"
)

var (
	initFileKey  string
	initFileName string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter sync config",
	Long: `Write a figma-sync-config.json with empty frame slots and default
output paths, and create the tool config if it doesn't exist.

An existing sync config is never overwritten.

Examples:
  figma-sync init --file-key AbC123 --file-name "Filo Design System"
  figma-sync init --sync-config design/figma-sync-config.json`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initFileKey, "file-key", "", "Figma file key")
	initCmd.Flags().StringVar(&initFileName, "file-name", "", "Figma file name shown in progress output")
}

type starterFrame struct {
	NodeID string `json:"nodeId"`
	URL    string `json:"url"`
}

type starterConfig struct {
	Figma struct {
		FileKey  string           `json:"fileKey"`
		FileName string           `json:"fileName"`
		Frames   *artifact.Object `json:"frames"`
	} `json:"figma"`
	Output struct {
		IconsDirectory string `json:"iconsDirectory"`
		ColorsFile     string `json:"colorsFile"`
		IconsFile      string `json:"iconsFile"`
		TypographyFile string `json:"typographyFile"`
	} `json:"output"`
	Sync struct {
		LastSyncedAt     *string `json:"lastSyncedAt"`
		LastFigmaVersion *string `json:"lastFigmaVersion"`
	} `json:"sync"`
}

func starterSyncConfig(fileKey, fileName string) (*starterConfig, error) {
	var c starterConfig
	c.Figma.FileKey = fileKey
	c.Figma.FileName = fileName
	c.Figma.Frames = artifact.NewObject()
	for _, name := range []string{config.FrameLight, config.FrameDark, config.FrameIcons, config.FrameTypography} {
		if err := c.Figma.Frames.Set(name, starterFrame{}); err != nil {
			return nil, err
		}
	}
	c.Output.IconsDirectory = "svg"
	c.Output.ColorsFile = "colors.json"
	c.Output.IconsFile = "icons.json"
	c.Output.TypographyFile = "typography.json"
	return &c, nil
}

type toolConfig struct {
	Figma struct {
		Timeout string `toml:"timeout"`
	} `toml:"figma"`
	Icons struct {
		Concurrency int      `toml:"concurrency"`
		Exclude     []string `toml:"exclude"`
	} `toml:"icons"`
	Aliases struct {
		Suggest   bool    `toml:"suggest"`
		Model     string  `toml:"model"`
		OllamaURL string  `toml:"ollama_url"`
		Threshold float64 `toml:"threshold"`
	} `toml:"aliases"`
}

func defaultToolConfig() toolConfig {
	var c toolConfig
	c.Figma.Timeout = figma.DefaultTimeout.String()
	c.Icons.Concurrency = 1
	c.Icons.Exclude = []string{}
	c.Aliases.Model = ollama.DefaultModel
	c.Aliases.OllamaURL = ollama.DefaultURL
	c.Aliases.Threshold = 0.6
	return c
}

func runInit(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	path := config.GetSyncConfigPath()

	exists, err := afero.Exists(appFs, path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if exists {
		return fmt.Errorf("sync config already exists: %s", path)
	}

	starter, err := starterSyncConfig(initFileKey, initFileName)
	if err != nil {
		return fmt.Errorf("failed to build sync config: %w", err)
	}
	if err := artifact.WriteJSON(appFs, path, starter); err != nil {
		return fmt.Errorf("failed to create sync config: %w", err)
	}
	fmt.Fprintf(w, "✓ Created sync config: %s\n", path)
	if initFileKey == "" {
		fmt.Fprintln(w, "  Set figma.fileKey before running a sync")
	}
	fmt.Fprintln(w, "  Fill in the nodeId of each frame you want to sync")

	// Create default tool config if it doesn't exist
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "figma-sync")
	configPath := filepath.Join(configDir, "config.toml")

	if _, err := appFs.Stat(configPath); os.IsNotExist(err) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(defaultToolConfig()); err != nil {
			return fmt.Errorf("failed to encode config file: %w", err)
		}
		if err := artifact.WriteFile(appFs, configPath, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}

		fmt.Fprintf(w, "✓ Created default config: %s\n", configPath)
	} else {
		fmt.Fprintf(w, "Config already exists: %s\n", configPath)
	}

	fmt.Fprintln(w, "\n✓ figma-sync initialized successfully!")
	fmt.Fprintf(w, "  Export %s, then run: figma-sync all\n", config.TokenEnv)

	return nil
}
