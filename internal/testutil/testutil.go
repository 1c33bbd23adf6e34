package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// TestToken is the access token FigmaServer accepts.
const TestToken = "figd_test_token"

// FigmaServer is a fake Figma REST API backed by in-memory documents.
type FigmaServer struct {
	*httptest.Server
	T *testing.T

	FileKey      string
	FileName     string
	Version      string
	LastModified string

	mu       sync.Mutex
	nodes    map[string]any
	images   map[string]string
	assets   map[string]string
	failures map[string]int
	requests []string
}

// NewFigmaServer starts a fake API serving a single file.
func NewFigmaServer(t *testing.T) *FigmaServer {
	t.Helper()

	s := &FigmaServer{
		T:            t,
		FileKey:      "FILEKEY123",
		FileName:     "Filo Design System",
		Version:      "4242",
		LastModified: "2026-10-01T12:00:00Z",
		nodes:        make(map[string]any),
		images:       make(map[string]string),
		assets:       make(map[string]string),
		failures:     make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// AddNode registers a document subtree under id.
func (s *FigmaServer) AddNode(id string, doc map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[id] = doc
}

// AddSVG registers an export for id whose download returns svg.
func (s *FigmaServer) AddSVG(id, svg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := "/assets/" + strings.ReplaceAll(id, ":", "-") + ".svg"
	s.images[id] = s.URL + path
	s.assets[path] = svg
}

// AddRedirectedSVG registers an export whose URL redirects hops times
// before serving svg.
func (s *FigmaServer) AddRedirectedSVG(id, svg string, hops int) {
	s.AddSVG(id, svg)
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.images[id]
	for i := 0; i < hops; i++ {
		path := "/redirect/" + strings.ReplaceAll(id, ":", "-") + "/" + string(rune('a'+i))
		s.assets[path] = "REDIRECT " + target
		target = s.URL + path
	}
	s.images[id] = target
}

// AddExportWithoutURL registers an id the images endpoint answers with null.
func (s *FigmaServer) AddExportWithoutURL(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[id] = ""
}

// Fail makes every request whose path starts with prefix return status.
func (s *FigmaServer) Fail(prefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[prefix] = status
}

// Requests returns the paths requested so far.
func (s *FigmaServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *FigmaServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, r.URL.Path)

	for prefix, status := range s.failures {
		if strings.HasPrefix(r.URL.Path, prefix) {
			http.Error(w, http.StatusText(status), status)
			return
		}
	}

	if body, ok := s.assets[r.URL.Path]; ok {
		if target, isRedirect := strings.CutPrefix(body, "REDIRECT "); isRedirect {
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(body))
		return
	}

	if !strings.HasPrefix(r.URL.Path, "/v1/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if r.Header.Get("X-Figma-Token") != TestToken {
		http.Error(w, `{"status":403,"err":"Invalid token"}`, http.StatusForbidden)
		return
	}

	filePrefix := "/v1/files/" + s.FileKey
	switch {
	case r.URL.Path == filePrefix:
		writeJSON(w, map[string]any{
			"name":         s.FileName,
			"version":      s.Version,
			"lastModified": s.LastModified,
		})

	case r.URL.Path == filePrefix+"/nodes":
		nodes := make(map[string]any)
		for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
			if doc, ok := s.nodes[id]; ok {
				nodes[id] = map[string]any{"document": doc}
			} else {
				nodes[id] = nil
			}
		}
		writeJSON(w, map[string]any{"name": s.FileName, "nodes": nodes})

	case r.URL.Path == "/v1/images/"+s.FileKey:
		images := make(map[string]any)
		for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
			if u, ok := s.images[id]; ok && u != "" {
				images[id] = u
			} else {
				images[id] = nil
			}
		}
		writeJSON(w, map[string]any{"err": nil, "images": images})

	default:
		http.Error(w, `{"status":404,"err":"Not found"}`, http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Node builds a document node for FigmaServer.AddNode.
func Node(nodeType, id, name string, children ...map[string]any) map[string]any {
	n := map[string]any{
		"id":   id,
		"name": name,
		"type": nodeType,
	}
	if len(children) > 0 {
		kids := make([]any, len(children))
		for i, c := range children {
			kids[i] = c
		}
		n["children"] = kids
	}
	return n
}

// WithFill adds a solid fill to a node. A negative opacity omits the field.
func WithFill(n map[string]any, r, g, b, opacity float64) map[string]any {
	fill := map[string]any{
		"type":  "SOLID",
		"color": map[string]any{"r": r, "g": g, "b": b, "a": 1},
	}
	if opacity >= 0 {
		fill["opacity"] = opacity
	}
	n["fills"] = []any{fill}
	return n
}

// WithStyle adds a text style to a node.
func WithStyle(n map[string]any, style map[string]any) map[string]any {
	n["style"] = style
	return n
}

// Workspace is a temporary directory holding a sync config and artifacts.
type Workspace struct {
	Path string
	T    *testing.T
}

// NewWorkspace creates an empty temporary workspace.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{Path: t.TempDir(), T: t}
}

// ConfigPath is where WriteSyncConfig puts the sync config.
func (w *Workspace) ConfigPath() string {
	return filepath.Join(w.Path, "figma-sync-config.json")
}

// WriteSyncConfig writes a sync config pointing at the given file key.
func (w *Workspace) WriteSyncConfig(fileKey string, frames map[string]string) string {
	w.T.Helper()

	frameCfg := make(map[string]any, len(frames))
	for name, id := range frames {
		frameCfg[name] = map[string]any{"nodeId": id, "url": "https://www.figma.com/design/" + fileKey + "?node-id=" + id}
	}
	cfg := map[string]any{
		"figma": map[string]any{
			"fileKey":  fileKey,
			"fileName": "Filo Design System",
			"frames":   frameCfg,
		},
		"output": map[string]any{
			"iconsDirectory": "svg",
		},
		"sync": map[string]any{
			"lastSyncedAt":     nil,
			"lastFigmaVersion": nil,
		},
		"owner": "design-team",
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		w.T.Fatalf("failed to marshal sync config: %v", err)
	}
	w.CreateFile("figma-sync-config.json", string(data))
	return w.ConfigPath()
}

// CreateFile writes a file relative to the workspace.
func (w *Workspace) CreateFile(name, content string) {
	w.T.Helper()
	path := filepath.Join(w.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		w.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		w.T.Fatalf("failed to create file: %v", err)
	}
}

// ReadJSON decodes a workspace file into a generic map.
func (w *Workspace) ReadJSON(name string) map[string]any {
	w.T.Helper()
	data, err := os.ReadFile(filepath.Join(w.Path, name))
	if err != nil {
		w.T.Fatalf("failed to read %s: %v", name, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		w.T.Fatalf("failed to parse %s: %v", name, err)
	}
	return out
}

// FileExists reports whether a workspace-relative file exists.
func (w *Workspace) FileExists(name string) bool {
	_, err := os.Stat(filepath.Join(w.Path, name))
	return err == nil
}
