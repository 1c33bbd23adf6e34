package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/figma-sync/internal/artifact"
	"github.com/pders01/figma-sync/internal/config"
	"github.com/pders01/figma-sync/internal/testutil"
)

type cmdFixture struct {
	server *testutil.FigmaServer
	ws     *testutil.Workspace
	out    *bytes.Buffer
}

// setupCommand points the tool settings at a fake Figma API and a fresh
// workspace holding a sync config with the given frames.
func setupCommand(t *testing.T, frames map[string]string) *cmdFixture {
	t.Helper()

	s := testutil.NewFigmaServer(t)
	ws := testutil.NewWorkspace(t)
	path := ws.WriteSyncConfig(s.FileKey, frames)

	viper.Reset()
	setDefaults()
	viper.Set("figma.token", testutil.TestToken)
	viper.Set("figma.api_url", s.URL)
	viper.Set("sync.config", path)
	viper.Set("aliases.cache_dir", "")
	colorsSuggest = false
	t.Cleanup(viper.Reset)

	return &cmdFixture{server: s, ws: ws, out: &bytes.Buffer{}}
}

func (f *cmdFixture) capture(t *testing.T, c *cobra.Command) *cobra.Command {
	t.Helper()
	c.SetOut(f.out)
	c.SetErr(f.out)
	t.Cleanup(func() {
		c.SetOut(nil)
		c.SetErr(nil)
	})
	return c
}

func (f *cmdFixture) addColorFrames() {
	f.server.AddNode("1:0", testutil.Node("FRAME", "1:0", "Light",
		testutil.WithFill(testutil.Node("RECTANGLE", "1:1", "01 Primary"), 0.133, 0.627, 0.984, -1),
	))
	f.server.AddNode("2:0", testutil.Node("FRAME", "2:0", "Dark",
		testutil.WithFill(testutil.Node("RECTANGLE", "2:1", "01 Primary"), 0.118, 0.565, 1, -1),
	))
}

func (f *cmdFixture) addIconFrame() {
	f.server.AddNode("3:0", testutil.Node("FRAME", "3:0", "Icons",
		testutil.Node("COMPONENT", "3:1", "Mic"),
	))
	f.server.AddSVG("3:1", "<svg>mic</svg>")
}

func (f *cmdFixture) addTypographyFrame() {
	f.server.AddNode("4:0", testutil.Node("FRAME", "4:0", "Typography",
		testutil.WithStyle(testutil.Node("TEXT", "4:1", "H1"), map[string]any{"fontSize": 34, "fontWeight": 700}),
	))
}

var allFrames = map[string]string{"light": "1:0", "dark": "2:0", "icons": "3:0", "typography": "4:0"}

func TestColorsMissingToken(t *testing.T) {
	f := setupCommand(t, allFrames)
	f.addColorFrames()
	viper.Set("figma.token", "")

	before, err := os.ReadFile(f.ws.ConfigPath())
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}

	err = runColors(f.capture(t, colorsCmd), nil)
	if !errors.Is(err, config.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if !strings.Contains(err.Error(), "export FIGMA_ACCESS_TOKEN") {
		t.Errorf("expected setup guidance in error, got %q", err.Error())
	}

	if reqs := f.server.Requests(); len(reqs) != 0 {
		t.Errorf("expected no requests, got %v", reqs)
	}
	if f.ws.FileExists("colors.json") {
		t.Error("colors.json must not be written")
	}
	after, _ := os.ReadFile(f.ws.ConfigPath())
	if !bytes.Equal(before, after) {
		t.Error("sync config must not change")
	}
}

func TestMissingTokenForEveryPipeline(t *testing.T) {
	runs := map[string]func(*cobra.Command, []string) error{
		"icons":      runIcons,
		"typography": runTypography,
		"all":        runAll,
	}
	for name, run := range runs {
		t.Run(name, func(t *testing.T) {
			f := setupCommand(t, allFrames)
			viper.Set("figma.token", "   ")

			if err := run(nil, nil); !errors.Is(err, config.ErrMissingToken) {
				t.Fatalf("expected ErrMissingToken, got %v", err)
			}
			if len(f.server.Requests()) != 0 {
				t.Error("no request may be made without a token")
			}
		})
	}
}

func TestColorsCommandUpdatesBookkeeping(t *testing.T) {
	f := setupCommand(t, allFrames)
	f.addColorFrames()

	if err := runColors(f.capture(t, colorsCmd), nil); err != nil {
		t.Fatalf("colors command failed: %v", err)
	}

	if !f.ws.FileExists("colors.json") {
		t.Fatal("colors.json was not written")
	}

	cfg := f.ws.ReadJSON("figma-sync-config.json")
	if cfg["owner"] != "design-team" {
		t.Error("unknown sync config fields must be preserved")
	}
	sync := cfg["sync"].(map[string]any)
	if sync["lastFigmaVersion"] != "4242" {
		t.Errorf("expected lastFigmaVersion 4242, got %v", sync["lastFigmaVersion"])
	}
	if ts, _ := sync["lastSyncedAt"].(string); !strings.HasSuffix(ts, "Z") || len(ts) != len("2006-01-02T15:04:05.000Z") {
		t.Errorf("unexpected lastSyncedAt %q", ts)
	}

	if !strings.Contains(f.out.String(), "✓ Sync complete!") {
		t.Errorf("expected completion message, got:\n%s", f.out.String())
	}
}

func TestColorsEmptyKeepsBookkeeping(t *testing.T) {
	f := setupCommand(t, allFrames)
	f.server.AddNode("1:0", testutil.Node("FRAME", "1:0", "Light"))
	f.server.AddNode("2:0", testutil.Node("FRAME", "2:0", "Dark"))

	if err := runColors(f.capture(t, colorsCmd), nil); err != nil {
		t.Fatalf("empty frames must not fail: %v", err)
	}

	sync := f.ws.ReadJSON("figma-sync-config.json")["sync"].(map[string]any)
	if sync["lastSyncedAt"] != nil {
		t.Errorf("bookkeeping must not change on an empty run, got %v", sync["lastSyncedAt"])
	}
	if !strings.Contains(f.out.String(), "Warning: no colors found") {
		t.Errorf("expected warning, got:\n%s", f.out.String())
	}
}

func TestColorsSuggestWithoutOllama(t *testing.T) {
	f := setupCommand(t, allFrames)
	f.addColorFrames()
	viper.Set("aliases.suggest", true)
	viper.Set("aliases.ollama_url", "http://127.0.0.1:1")

	if err := runColors(f.capture(t, colorsCmd), nil); err != nil {
		t.Fatalf("unavailable Ollama must not fail the sync: %v", err)
	}
	if !strings.Contains(f.out.String(), "Ollama is not reachable") {
		t.Errorf("expected warning, got:\n%s", f.out.String())
	}
	if _, ok := f.ws.ReadJSON("colors.json")["suggestedAliases"]; ok {
		t.Error("suggestedAliases must be absent")
	}
}

func TestIconsCommand(t *testing.T) {
	f := setupCommand(t, allFrames)
	f.addIconFrame()
	viper.Set("icons.concurrency", 3)

	if err := runIcons(f.capture(t, iconsCmd), nil); err != nil {
		t.Fatalf("icons command failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(f.ws.Path, "svg", "mic.svg"))
	if err != nil {
		t.Fatalf("mic.svg was not written: %v", err)
	}
	if string(data) != "<svg>mic</svg>" {
		t.Errorf("unexpected svg %q", data)
	}
	if !strings.Contains(f.out.String(), "✓ mic.svg") {
		t.Errorf("expected per-icon progress, got:\n%s", f.out.String())
	}
}

func TestIconsCommandExclude(t *testing.T) {
	f := setupCommand(t, allFrames)
	f.addIconFrame()
	viper.Set("icons.exclude", []string{"M*"})

	if err := runIcons(nil, nil); err != nil {
		t.Fatalf("icons command failed: %v", err)
	}
	if f.ws.FileExists("icons.json") {
		t.Error("an empty icon set must not write icons.json")
	}
}

func TestTypographyCommand(t *testing.T) {
	f := setupCommand(t, allFrames)
	f.addTypographyFrame()

	if err := runTypography(f.capture(t, typographyCmd), nil); err != nil {
		t.Fatalf("typography command failed: %v", err)
	}
	doc := f.ws.ReadJSON("typography.json")
	if len(doc["headings"].([]any)) != 1 {
		t.Errorf("expected one heading, got %v", doc["headings"])
	}
}

func TestAllCommand(t *testing.T) {
	f := setupCommand(t, allFrames)
	f.addColorFrames()
	f.addIconFrame()
	f.addTypographyFrame()

	if err := runAll(f.capture(t, allCmd), nil); err != nil {
		t.Fatalf("all command failed: %v", err)
	}

	for _, name := range []string{"colors.json", "icons.json", "typography.json", "svg/mic.svg"} {
		if !f.ws.FileExists(name) {
			t.Errorf("%s was not written", name)
		}
	}
}

func TestAllStopsAtFirstFailure(t *testing.T) {
	f := setupCommand(t, allFrames)
	f.addColorFrames()
	f.addTypographyFrame()

	err := runAll(f.capture(t, allCmd), nil)
	if err == nil {
		t.Fatal("expected missing icon frame to fail")
	}
	if !strings.HasPrefix(err.Error(), "icons:") {
		t.Errorf("expected error to name the pipeline, got %q", err.Error())
	}
	if !f.ws.FileExists("colors.json") {
		t.Error("colors.json from the earlier pipeline must be kept")
	}
	if f.ws.FileExists("typography.json") {
		t.Error("typography must not run after a failure")
	}
}

func TestStatusJSON(t *testing.T) {
	f := setupCommand(t, map[string]string{"light": "1:0", "dark": "2:0"})
	f.ws.CreateFile("colors.json", `{"figmaSync": {"totalColors": 12, "figmaVersion": "4242", "lastSyncedAt": "2026-10-18T08:00:00.000Z"}}`)
	statusJSON = true
	defer func() { statusJSON = false }()

	if err := runStatus(f.capture(t, statusCmd), nil); err != nil {
		t.Fatalf("status command failed: %v", err)
	}

	var status syncStatus
	if err := json.Unmarshal(f.out.Bytes(), &status); err != nil {
		t.Fatalf("status output is not JSON: %v\n%s", err, f.out.String())
	}
	if status.FileKey != f.server.FileKey {
		t.Errorf("expected file key %s, got %s", f.server.FileKey, status.FileKey)
	}
	if len(status.Frames) != 2 {
		t.Errorf("expected 2 frames, got %v", status.Frames)
	}
	if len(status.Artifacts) != 3 {
		t.Fatalf("expected 3 artifacts, got %d", len(status.Artifacts))
	}
	colors := status.Artifacts[0]
	if !colors.Exists || colors.Total != 12 || colors.FigmaVersion != "4242" {
		t.Errorf("unexpected colors status %+v", colors)
	}
	if status.Artifacts[1].Exists {
		t.Error("icons.json does not exist")
	}
}

func TestStatusToon(t *testing.T) {
	f := setupCommand(t, map[string]string{"icons": "3:0"})
	statusToon = true
	defer func() { statusToon = false }()

	if err := runStatus(f.capture(t, statusCmd), nil); err != nil {
		t.Fatalf("status command failed: %v", err)
	}
	if !strings.Contains(f.out.String(), f.server.FileKey) {
		t.Errorf("expected file key in toon output, got:\n%s", f.out.String())
	}
}

func TestStatusText(t *testing.T) {
	f := setupCommand(t, map[string]string{"typography": "4:0"})

	if err := runStatus(f.capture(t, statusCmd), nil); err != nil {
		t.Fatalf("status command failed: %v", err)
	}
	out := f.out.String()
	for _, want := range []string{"Figma Sync Status", "Last synced:  never", "typography", "missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestInitCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	viper.Reset()
	defer viper.Reset()
	path := filepath.Join(t.TempDir(), "design", "figma-sync-config.json")
	viper.Set("sync.config", path)

	initFileKey = "AbC123"
	defer func() { initFileKey = "" }()

	var out bytes.Buffer
	initCmd.SetOut(&out)
	defer initCmd.SetOut(nil)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	cfg, err := config.LoadSyncConfig(appFs, path)
	if err != nil {
		t.Fatalf("starter config does not load: %v", err)
	}
	if cfg.Figma.FileKey != "AbC123" {
		t.Errorf("expected file key AbC123, got %s", cfg.Figma.FileKey)
	}
	if _, err := cfg.FrameFor(config.FrameLight); err == nil {
		t.Error("starter frames must be empty")
	}

	obj, err := artifact.ReadObject(appFs, path)
	if err != nil {
		t.Fatalf("failed to read starter config: %v", err)
	}
	frames := obj.Child("figma").Child("frames").Keys()
	if strings.Join(frames, ",") != "light,dark,icons,typography" {
		t.Errorf("unexpected frame order %v", frames)
	}
	if got := strings.Join(obj.Child("sync").Keys(), ","); got != "lastSyncedAt,lastFigmaVersion" {
		t.Errorf("unexpected sync key order %s", got)
	}

	var tool toolConfig
	if _, err := toml.DecodeFile(filepath.Join(home, ".config", "figma-sync", "config.toml"), &tool); err != nil {
		t.Fatalf("default tool config is not valid TOML: %v", err)
	}
	if tool.Aliases.Model != "nomic-embed-text" || tool.Icons.Concurrency != 1 {
		t.Errorf("unexpected default tool config %+v", tool)
	}

	viper.SetConfigFile(filepath.Join(home, ".config", "figma-sync", "config.toml"))
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("viper cannot read the default tool config: %v", err)
	}
	if config.GetTimeout().Seconds() != 60 {
		t.Errorf("expected 60s timeout, got %v", config.GetTimeout())
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	ws := testutil.NewWorkspace(t)
	ws.CreateFile("figma-sync-config.json", `{"figma": {"fileKey": "existing"}}`)

	viper.Reset()
	defer viper.Reset()
	viper.Set("sync.config", ws.ConfigPath())

	if err := runInit(nil, nil); err == nil {
		t.Fatal("expected init to refuse an existing sync config")
	}

	cfg := ws.ReadJSON("figma-sync-config.json")
	if cfg["figma"].(map[string]any)["fileKey"] != "existing" {
		t.Error("existing sync config was overwritten")
	}
}
