package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/boxlayout/pkg/cache"
	"github.com/matzehuels/boxlayout/pkg/errors"
	boxio "github.com/matzehuels/boxlayout/pkg/io"
	"github.com/matzehuels/boxlayout/pkg/layout"
	"github.com/matzehuels/boxlayout/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"svg", false},
		{"dot", false},
		{"tree-svg", false},
		{"png", false},
		{"pdf", false},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats("svg, json,,dot")
	if err != nil {
		t.Fatalf("ParseFormats() error = %v", err)
	}
	if diff := cmp.Diff([]string{"svg", "json", "dot"}, got); diff != "" {
		t.Errorf("ParseFormats() mismatch (-want +got):\n%s", diff)
	}
	if _, err := ParseFormats("svg,gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormats(gif) code = %v", errors.GetCode(err))
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if o.InputFormat != "json" || o.Style != DefaultStyle || o.Scale != DefaultScale || o.Logger == nil {
		t.Errorf("defaults not applied: %+v", o)
	}
	if diff := cmp.Diff([]string{FormatJSON}, o.Formats); diff != "" {
		t.Errorf("default formats (-want +got):\n%s", diff)
	}

	bad := []Options{
		{InputFormat: "yaml"},
		{Formats: []string{"gif"}},
		{Style: "handdrawn"},
		{Scale: -1},
	}
	for _, o := range bad {
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Errorf("ValidateAndSetDefaults(%+v) error = nil", o)
		}
	}
}

func TestExtensionAndContentType(t *testing.T) {
	if Extension(FormatTreeSVG) != ".tree.svg" || Extension(FormatPNG) != ".png" {
		t.Error("unexpected extensions")
	}
	if ContentType(FormatDOT) != "text/vnd.graphviz" || ContentType("x") != "application/octet-stream" {
		t.Error("unexpected content types")
	}
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func testRoot() layout.Root {
	return layout.Root{
		ID: "root", Direction: layout.Column, Width: 200, Height: 100,
		Padding: layout.PadAll(10),
		Children: []layout.Node{
			{ID: "header", Height: layout.Fixed(20)},
			{ID: "body"},
		},
	}
}

// memCache is an in-memory Cache that counts reads and writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, testLogger())

	opts := Options{Formats: []string{FormatJSON, FormatSVG, FormatDOT}, Labels: true}
	res, err := r.Execute(ctx, testRoot(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.ID == "" || res.TreeHash == "" {
		t.Error("result should carry a run id and tree hash")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if res.Stats.NodeCount != 3 || res.Stats.BlockCount != 3 {
		t.Errorf("stats = %+v, want 3 nodes and 3 blocks", res.Stats)
	}
	want := layout.Block{ID: "body", Width: 180, Height: 60, Top: 30, Left: 10, Right: 190, Bottom: 90}
	if diff := cmp.Diff(want, res.Layout["body"]); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	for _, f := range opts.Formats {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing artifact %s", f)
		}
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte(">header</text>")) {
		t.Error("svg should carry labels")
	}

	again, err := r.Execute(ctx, testRoot(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v, want hits", again.CacheInfo)
	}
	if diff := cmp.Diff(res.Layout, again.Layout); diff != "" {
		t.Errorf("cached layout differs (-first +second):\n%s", diff)
	}
	if again.ID == res.ID {
		t.Error("each run should get its own id")
	}
}

func TestRunnerRefreshBypassesCache(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, testLogger())

	if _, err := r.Resolve(ctx, testRoot(), Options{}); err != nil {
		t.Fatal(err)
	}
	gets := c.gets
	_, hit, err := r.ResolveWithCacheInfo(ctx, testRoot(), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if hit || c.gets != gets {
		t.Error("refresh should not read the cache")
	}
}

func TestRunnerStrictIDs(t *testing.T) {
	root := testRoot()
	root.Children[1].ID = "header"

	r := NewRunner(nil, nil, testLogger())
	if _, err := r.Resolve(context.Background(), root, Options{}); err != nil {
		t.Fatalf("lenient Resolve() error = %v", err)
	}
	_, err := r.Resolve(context.Background(), root, Options{StrictIDs: true})
	if !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("strict Resolve() code = %v, want %v", errors.GetCode(err), errors.ErrCodeDuplicateID)
	}
}

func TestRunnerResolveErrorsAreNotCached(t *testing.T) {
	root := testRoot()
	root.Children[0].Height = layout.Fixed(500)
	root.Children[1].Height = layout.Fixed(0)

	c := newMemCache()
	r := NewRunner(c, nil, testLogger())
	_, err := r.Execute(context.Background(), root, Options{})
	if !errors.Is(err, errors.ErrCodeOverflow) {
		t.Fatalf("Execute() code = %v, want %v", errors.GetCode(err), errors.ErrCodeOverflow)
	}
	if !strings.Contains(err.Error(), "Block heights are overflowing! 500+0 > 80") {
		t.Errorf("error = %v", err)
	}
	if c.sets != 0 {
		t.Errorf("failed resolve wrote %d cache entries", c.sets)
	}
}

func TestRunnerScopedKeys(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	a := NewRunner(c, cache.NewScopedKeyer(nil, "a:"), testLogger())
	b := NewRunner(c, cache.NewScopedKeyer(nil, "b:"), testLogger())

	if _, err := a.Resolve(ctx, testRoot(), Options{}); err != nil {
		t.Fatal(err)
	}
	_, hit, err := b.ResolveWithCacheInfo(ctx, testRoot(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("scoped keyers should not share entries")
	}
}

func TestRunnerFiresHooks(t *testing.T) {
	rec := &hookRecorder{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	r := NewRunner(newMemCache(), nil, testLogger())
	if _, err := r.Execute(context.Background(), testRoot(), Options{Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}
	want := []string{"miss:layout", "resolve", "set:layout", "miss:artifact", "render", "set:artifact"}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("hook events (-want +got):\n%s", diff)
	}
}

func TestParseTree(t *testing.T) {
	root, err := ParseTree([]byte("id = \"r\"\nwidth = 1\nheight = 2\n"), Options{InputFormat: "toml"})
	if err != nil {
		t.Fatalf("ParseTree() error = %v", err)
	}
	if root.Height != 2 {
		t.Errorf("height = %v, want 2", root.Height)
	}
}

type hookRecorder struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *hookRecorder) OnResolveComplete(context.Context, string, int, time.Duration, error) {
	h.events = append(h.events, "resolve")
}

func (h *hookRecorder) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.events = append(h.events, "render")
}

func (h *hookRecorder) OnCacheHit(_ context.Context, k string)  { h.events = append(h.events, "hit:"+k) }
func (h *hookRecorder) OnCacheMiss(_ context.Context, k string) { h.events = append(h.events, "miss:"+k) }
func (h *hookRecorder) OnCacheSet(_ context.Context, k string, _ int) {
	h.events = append(h.events, "set:"+k)
}

func TestTreeHashDistinguishesTrees(t *testing.T) {
	leaf := func(n layout.Node) layout.Root {
		return layout.Root{ID: "r", Width: 100, Height: 100, Direction: layout.Row, Children: []layout.Node{n}}
	}
	tests := []struct {
		name string
		a, b layout.Root
	}{
		{"leaf vs empty container", leaf(layout.Node{ID: "a"}), leaf(layout.Node{ID: "a", Children: []layout.Node{}})},
		{"child direction set vs unset", leaf(layout.Node{ID: "a", Children: []layout.Node{}}),
			leaf(layout.Node{ID: "a", Direction: layout.Column, Children: []layout.Node{}})},
		{"root direction set vs unset", layout.Root{ID: "r", Width: 1, Height: 1, Children: []layout.Node{}},
			layout.Root{ID: "r", Width: 1, Height: 1, Direction: layout.Row, Children: []layout.Node{}}},
		{"root leaf vs empty container", layout.Root{ID: "r", Width: 1, Height: 1},
			layout.Root{ID: "r", Width: 1, Height: 1, Children: []layout.Node{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := boxio.MarshalTree(tt.a)
			if err != nil {
				t.Fatal(err)
			}
			b, err := boxio.MarshalTree(tt.b)
			if err != nil {
				t.Fatal(err)
			}
			if cache.Hash(a) == cache.Hash(b) {
				t.Errorf("trees share a hash: %s", a)
			}
		})
	}
}

func TestRunnerEmptyContainerNotServedFromCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, testLogger())

	good := layout.Root{ID: "r", Width: 100, Height: 100, Direction: layout.Row,
		Children: []layout.Node{{ID: "a"}}}
	if _, err := r.Resolve(ctx, good, Options{}); err != nil {
		t.Fatalf("Resolve(leaf child) error = %v", err)
	}

	bad := good
	bad.Children = []layout.Node{{ID: "a", Children: []layout.Node{}}}
	l, hit, err := r.ResolveWithCacheInfo(ctx, bad, Options{})
	if !errors.Is(err, errors.ErrCodeMissingDirection) {
		t.Errorf("ResolveWithCacheInfo(empty container) = hit %v, %d blocks, err %v; want MISSING_DIRECTION", hit, len(l), err)
	}
}
