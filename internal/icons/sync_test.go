package icons

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/figma-sync/internal/config"
	"github.com/pders01/figma-sync/internal/figma"
	"github.com/pders01/figma-sync/internal/report"
	"github.com/pders01/figma-sync/internal/testutil"
)

const micSVG = `<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0h24v24"/></svg>`

var fixedNow = time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)

type fixture struct {
	server *testutil.FigmaServer
	ws     *testutil.Workspace
	cfg    *config.SyncConfig
	client *figma.Client
	errOut *bytes.Buffer
	out    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := testutil.NewFigmaServer(t)
	ws := testutil.NewWorkspace(t)
	path := ws.WriteSyncConfig(s.FileKey, map[string]string{"icons": "3:0"})

	cfg, err := config.LoadSyncConfig(afero.NewOsFs(), path)
	require.NoError(t, err)

	client, err := figma.NewClient(s.URL, testutil.TestToken, 0)
	require.NoError(t, err)

	return &fixture{server: s, ws: ws, cfg: cfg, client: client, errOut: &bytes.Buffer{}, out: &bytes.Buffer{}}
}

func (f *fixture) options(concurrency int) Options {
	return Options{
		Fs:          afero.NewOsFs(),
		Printer:     &report.Printer{Out: f.out, Err: f.errOut},
		Now:         func() time.Time { return fixedNow },
		Concurrency: concurrency,
	}
}

func (f *fixture) addIconFrame(names ...string) {
	var children []map[string]any
	for i, name := range names {
		id := "3:" + string(rune('1'+i))
		children = append(children, testutil.Node("COMPONENT", id, name))
	}
	f.server.AddNode("3:0", testutil.Node("FRAME", "3:0", "Icons", children...))
}

func TestSyncDownloadsIcons(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		t.Run("concurrency "+string(rune('0'+concurrency)), func(t *testing.T) {
			f := newFixture(t)
			f.ws.CreateFile("icons.json", `{"name": "Filo Icons", "guidelines": {"stroke": 1.5}, "icons": []}`)
			f.addIconFrame("Mic", "Send", "Trash")
			f.server.AddSVG("3:1", micSVG)
			f.server.AddSVG("3:2", "<svg>send</svg>")
			f.server.AddSVG("3:3", "<svg>trash</svg>")

			result, err := Sync(context.Background(), f.client, f.cfg, f.options(concurrency))
			require.NoError(t, err)
			require.NotNil(t, result.Bookkeeping)
			assert.Equal(t, "4242", result.Bookkeeping.LastFigmaVersion)

			data, err := os.ReadFile(filepath.Join(f.ws.Path, "svg", "mic.svg"))
			require.NoError(t, err)
			assert.Equal(t, micSVG, string(data))
			assert.True(t, f.ws.FileExists("svg/send.svg"))
			assert.True(t, f.ws.FileExists("svg/trash.svg"))

			doc := f.ws.ReadJSON("icons.json")
			assert.Equal(t, "Filo Icons", doc["name"])
			assert.Equal(t, map[string]any{"stroke": 1.5}, doc["guidelines"])

			icons := doc["icons"].([]any)
			require.Len(t, icons, 3)
			assert.Equal(t, map[string]any{"name": "Mic", "fileName": "mic.svg", "figmaId": "3:1", "type": "COMPONENT"}, icons[0])
			assert.Equal(t, "send.svg", icons[1].(map[string]any)["fileName"])
			assert.Equal(t, "trash.svg", icons[2].(map[string]any)["fileName"])

			sync := doc["figmaSync"].(map[string]any)
			assert.Equal(t, "3:0", sync["nodeId"])
			assert.Equal(t, "2026-10-18T08:00:00.000Z", sync["lastSyncedAt"])
			assert.Equal(t, float64(3), sync["totalIcons"])
		})
	}
}

func TestSyncSkipsFailedDownloads(t *testing.T) {
	f := newFixture(t)
	f.addIconFrame("Mic", "Send", "Trash", "Archive")
	f.server.AddSVG("3:1", micSVG)
	f.server.AddExportWithoutURL("3:2")
	f.server.AddSVG("3:3", "<svg>trash</svg>")
	f.server.AddRedirectedSVG("3:4", "<svg>archive</svg>", 2)
	f.server.Fail("/assets/3-3", http.StatusInternalServerError)

	result, err := Sync(context.Background(), f.client, f.cfg, f.options(1))
	require.NoError(t, err)

	require.Len(t, result.Icons, 1)
	assert.Equal(t, "Mic", result.Icons[0].Name)
	assert.Equal(t, []string{"Send", "Trash", "Archive"}, result.Skipped)

	assert.False(t, f.ws.FileExists("svg/trash.svg"))
	assert.False(t, f.ws.FileExists("svg/archive.svg"))
	assert.Contains(t, f.errOut.String(), "no SVG URL for: Send")
	assert.Contains(t, f.errOut.String(), "failed to download trash.svg")

	doc := f.ws.ReadJSON("icons.json")
	assert.Len(t, doc["icons"], 1)
}

func TestSyncFollowsSingleRedirect(t *testing.T) {
	f := newFixture(t)
	f.addIconFrame("Mic")
	f.server.AddRedirectedSVG("3:1", micSVG, 1)

	result, err := Sync(context.Background(), f.client, f.cfg, f.options(1))
	require.NoError(t, err)
	require.Len(t, result.Icons, 1)
	assert.True(t, f.ws.FileExists("svg/mic.svg"))
}

func TestSyncCollisionWarning(t *testing.T) {
	f := newFixture(t)
	f.addIconFrame("Mic", "mic")
	f.server.AddSVG("3:1", "<svg>1</svg>")
	f.server.AddSVG("3:2", "<svg>2</svg>")

	_, err := Sync(context.Background(), f.client, f.cfg, f.options(1))
	require.NoError(t, err)

	assert.True(t, f.ws.FileExists("svg/mic.svg"))
	assert.True(t, f.ws.FileExists("svg/mic-2.svg"))
	assert.Contains(t, f.errOut.String(), "writing mic-2.svg")
}

func TestSyncExportFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.addIconFrame("Mic")
	f.server.AddSVG("3:1", micSVG)
	f.server.Fail("/v1/images/", http.StatusBadRequest)

	_, err := Sync(context.Background(), f.client, f.cfg, f.options(1))
	require.Error(t, err)

	var apiErr *figma.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.False(t, f.ws.FileExists("icons.json"))
	assert.False(t, f.ws.FileExists("svg/mic.svg"))
}

func TestSyncEmptyFrame(t *testing.T) {
	f := newFixture(t)
	f.ws.CreateFile("icons.json", `{"icons": [{"name": "kept"}]}`)
	f.server.AddNode("3:0", testutil.Node("FRAME", "3:0", "Icons", testutil.Node("FRAME", "3:1", "Empty Row")))

	result, err := Sync(context.Background(), f.client, f.cfg, f.options(1))
	require.NoError(t, err)
	assert.Nil(t, result.Bookkeeping)
	assert.Equal(t, []any{map[string]any{"name": "kept"}}, f.ws.ReadJSON("icons.json")["icons"])
	assert.Contains(t, f.errOut.String(), "no icons found")
}

func TestSyncAllDownloadsFail(t *testing.T) {
	f := newFixture(t)
	f.ws.CreateFile("icons.json", `{"icons": [{"name": "kept"}]}`)
	f.addIconFrame("Mic")
	f.server.AddExportWithoutURL("3:1")

	result, err := Sync(context.Background(), f.client, f.cfg, f.options(1))
	require.NoError(t, err)
	assert.Nil(t, result.Bookkeeping)
	assert.Empty(t, result.Icons)
	assert.Equal(t, []string{"Mic"}, result.Skipped)
	assert.Equal(t, []any{map[string]any{"name": "kept"}}, f.ws.ReadJSON("icons.json")["icons"])
	assert.Contains(t, f.errOut.String(), "Warning: none of the 1 icons could be downloaded")
}

func TestSyncAllDownloadsErrorIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.addIconFrame("Mic")
	f.server.AddSVG("3:1", micSVG)
	f.server.Fail("/assets/3-1", http.StatusInternalServerError)

	result, err := Sync(context.Background(), f.client, f.cfg, f.options(2))
	require.NoError(t, err)
	assert.Nil(t, result.Bookkeeping)

	exists, err := afero.Exists(afero.NewOsFs(), filepath.Join(f.ws.Path, "icons.json"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSyncLegacyNodeID(t *testing.T) {
	s := testutil.NewFigmaServer(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/icons/figma-sync-config.json", []byte(`{
  "figma": {"fileKey": "FILEKEY123", "nodeId": "3:0"},
  "output": {"iconsDirectory": "svg"},
  "sync": {}
}`), 0644))
	cfg, err := config.LoadSyncConfig(fs, "/icons/figma-sync-config.json")
	require.NoError(t, err)

	s.AddNode("3:0", testutil.Node("FRAME", "3:0", "Icons", testutil.Node("INSTANCE", "3:1", "Mic")))
	s.AddSVG("3:1", micSVG)

	client, err := figma.NewClient(s.URL, testutil.TestToken, 0)
	require.NoError(t, err)

	_, err = Sync(context.Background(), client, cfg, Options{Fs: fs, Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/icons/svg/mic.svg")
	require.NoError(t, err)
	assert.Equal(t, micSVG, string(data))
}
