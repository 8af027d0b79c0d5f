package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/boxlayout/pkg/cache"
	"github.com/matzehuels/boxlayout/pkg/errors"
	boxio "github.com/matzehuels/boxlayout/pkg/io"
	"github.com/matzehuels/boxlayout/pkg/layout"
)

const testTree = `{
  "id": "root",
  "direction": "column",
  "width": 500,
  "height": 500,
  "padding": [10, 20, 30, 20],
  "children": [
    {"id": "title", "width": "100%", "height": 50},
    {"id": "content", "width": "100%", "height": "auto"},
    {"id": "footer", "width": "100%", "height": 50}
  ]
}`

// setupEnv points the config and cache directories at a temp dir and
// writes the test tree into it.
func setupEnv(t *testing.T) (dir, tree string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv(envRedisAddr, "")
	t.Setenv(envMongoURI, "")

	tree = filepath.Join(dir, "page.json")
	if err := os.WriteFile(tree, []byte(testTree), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, tree
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	dir, tree := setupEnv(t)
	out := filepath.Join(dir, "out.json")

	if _, err := execute(t, "resolve", tree, "-o", out); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rootID, l, err := boxio.ReadLayout(f)
	if err != nil {
		t.Fatalf("ReadLayout() error = %v", err)
	}
	if rootID != "root" {
		t.Errorf("root = %q", rootID)
	}

	want := layout.Block{ID: "content", Width: 460, Height: 360, Top: 60, Left: 20, Right: 480, Bottom: 420}
	if diff := cmp.Diff(want, l["content"]); diff != "" {
		t.Errorf("content block mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCommandDefaultOutput(t *testing.T) {
	dir, tree := setupEnv(t)

	if _, err := execute(t, "resolve", tree); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "page.layout.json")); err != nil {
		t.Errorf("default output missing: %v", err)
	}
	// The second run is served from the file cache.
	entries, err := os.ReadDir(filepath.Join(dir, "cache", appName))
	if err != nil || len(entries) == 0 {
		t.Errorf("cache not populated: %v", err)
	}
	if _, err := execute(t, "resolve", tree); err != nil {
		t.Fatalf("cached resolve: %v", err)
	}
}

func TestResolveCommandErrors(t *testing.T) {
	dir, _ := setupEnv(t)

	overflow := filepath.Join(dir, "overflow.json")
	os.WriteFile(overflow, []byte(`{"id":"r","direction":"row","width":100,"height":10,
		"children":[{"id":"a","width":80},{"id":"b","width":80}]}`), 0o644)

	dup := filepath.Join(dir, "dup.json")
	os.WriteFile(dup, []byte(`{"id":"r","direction":"row","width":100,"height":10,
		"children":[{"id":"a"},{"id":"a"}]}`), 0o644)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"resolve", filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"overflow", []string{"resolve", overflow, "--no-cache"}, errors.ErrCodeOverflow},
		{"duplicate strict", []string{"resolve", dup, "--strict", "--no-cache"}, errors.ErrCodeDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir, tree := setupEnv(t)
	base := filepath.Join(dir, "out", "page")

	if _, err := execute(t, "render", tree, "-f", "svg,dot,json", "-o", base, "--labels"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `id="block-content"`) {
		t.Error("svg missing content block")
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("dot output = %q", string(dot)[:min(len(dot), 40)])
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Error(err)
	}
}

func TestRenderCommandConfigDefaults(t *testing.T) {
	dir, tree := setupEnv(t)
	cfgDir := filepath.Join(dir, "config", appName)
	os.MkdirAll(cfgDir, 0o755)
	os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte("[render]\nformats = [\"dot\"]\nstyle = \"filled\"\n"), 0o644)

	if _, err := execute(t, "render", tree); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "page.dot")); err != nil {
		t.Errorf("config format not used: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "page.svg")); err == nil {
		t.Error("svg written although config selects dot only")
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	_, tree := setupEnv(t)
	_, err := execute(t, "render", tree, "-f", "gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "trees/page.json", "trees/page"},
		{"", "page.toml", "page"},
		{"", "page", "page"},
		{"out/x.svg", "page.json", "out/x"},
		{"out/x.tree.svg", "page.json", "out/x"},
		{"out/x", "page.json", "out/x"},
		{"out/x.v2", "page.json", "out/x.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	dir, _ := setupEnv(t)
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir, tree := setupEnv(t)
	if _, err := execute(t, "resolve", tree); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "cache", appName))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache has %d entries after clear", len(entries))
	}
}

func TestLoadConfig(t *testing.T) {
	dir, _ := setupEnv(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(default) error = %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("absent config should yield defaults (-want +got):\n%s", diff)
	}

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit config: err = %v", err)
	}

	unknown := filepath.Join(dir, "unknown.toml")
	os.WriteFile(unknown, []byte("[server]\nport = 1\n"), 0o644)
	_, err = LoadConfig(unknown)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown key: err = %v", err)
	}

	broken := filepath.Join(dir, "broken.toml")
	os.WriteFile(broken, []byte("[server\n"), 0o644)
	_, err = LoadConfig(broken)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("broken toml: err = %v", err)
	}

	good := filepath.Join(dir, "good.toml")
	os.WriteFile(good, []byte("[cache]\nbackend = \"none\"\n[server]\naddr = \":9000\"\n[render]\nlabels = true\n"), 0o644)
	cfg, err = LoadConfig(good)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != cache.BackendNone || cfg.Server.Addr != ":9000" || !cfg.Render.Labels {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Render.Style != DefaultConfig().Render.Style {
		t.Errorf("unset keys should keep defaults, style = %q", cfg.Render.Style)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	setupEnv(t)
	t.Setenv(envRedisAddr, "localhost:6379")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache cfg = %+v", cfg.Cache)
	}
}

func TestInspectModel(t *testing.T) {
	root, err := boxio.ParseTree([]byte(testTree), boxio.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	l, err := layout.Resolve(root)
	if err != nil {
		t.Fatal(err)
	}

	m := NewInspectModel(root, l)
	if got := len(m.Rows); got != 4 {
		t.Fatalf("rows = %d, want 4", got)
	}
	if m.Rows[2].ID != "content" || m.Rows[2].Parent != "root" || m.Rows[2].Depth != 1 {
		t.Errorf("row 2 = %+v", m.Rows[2])
	}

	press := func(m InspectModel, key string) InspectModel {
		var msg tea.KeyMsg
		switch key {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		next, _ := m.Update(msg)
		return next.(InspectModel)
	}

	m = press(m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above first row: %d", m.Cursor)
	}
	m = press(press(m, "down"), "j")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor)
	}
	view := m.View()
	for _, want := range []string{"title", "footer", "auto", "(20, 60) to (480, 420)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	m = press(m, "G")
	if m.Cursor != 3 {
		t.Errorf("G: cursor = %d, want 3", m.Cursor)
	}
	m = press(m, "down")
	if m.Cursor != 3 {
		t.Errorf("cursor moved past last row: %d", m.Cursor)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestInspectModelScrolls(t *testing.T) {
	root := layout.Root{ID: "r", Width: 100, Height: 100, Direction: layout.Column}
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		root.Children = append(root.Children, layout.Node{ID: id, Width: layout.Percent(100), Height: layout.Auto()})
	}
	l, err := layout.Resolve(root)
	if err != nil {
		t.Fatal(err)
	}
	m := NewInspectModel(root, l)
	m.Height = 3
	for range 5 {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(InspectModel)
	}
	if m.Cursor != 5 || m.Offset != 3 {
		t.Errorf("cursor=%d offset=%d, want 5 and 3", m.Cursor, m.Offset)
	}
}

func TestFormatCoord(t *testing.T) {
	for in, want := range map[float64]string{0: "0", 12.5: "12.5", 1.0 / 3: "0.33", 460: "460"} {
		if got := formatCoord(in); got != want {
			t.Errorf("formatCoord(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the command name")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
