package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnResolveStart(ctx, "root", 10)
	p.OnResolveComplete(ctx, "root", 11, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/v1/layout")
	s.OnResponse(ctx, "POST", "/v1/layout", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetServerHooks(rec)
	if Pipeline() != rec || Cache() != rec || Server() != rec {
		t.Error("setters should register custom hooks")
	}

	SetPipelineHooks(nil)
	if Pipeline() != rec {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestConcurrentAccess(t *testing.T) {
	Reset()
	defer Reset()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetCacheHooks(&recorder{})
		}()
		go func() {
			defer wg.Done()
			Cache().OnCacheHit(context.Background(), "layout")
		}()
	}
	wg.Wait()
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnResolveStart(ctx, "root", 3)
	h.OnResolveComplete(ctx, "root", 4, time.Millisecond, nil)
	h.OnResolveComplete(ctx, "root", 0, time.Millisecond, errors.New("Block widths are overflowing! 2 > 1"))
	h.OnCacheMiss(ctx, "layout")

	out := buf.String()
	for _, want := range []string{"resolve start", "resolve complete", "resolve failed", "overflowing", "cache miss"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnResolveStart(context.Context, string, int) { r.add("resolve-start") }
func (r *recorder) OnResolveComplete(context.Context, string, int, time.Duration, error) {
	r.add("resolve-complete")
}
func (r *recorder) OnRenderStart(context.Context, []string) { r.add("render-start") }
func (r *recorder) OnRenderComplete(context.Context, []string, time.Duration, error) {
	r.add("render-complete")
}
func (r *recorder) OnCacheHit(context.Context, string)      { r.add("hit") }
func (r *recorder) OnCacheMiss(context.Context, string)     { r.add("miss") }
func (r *recorder) OnCacheSet(context.Context, string, int) { r.add("set") }
func (r *recorder) OnRequest(context.Context, string, string) {
	r.add("request")
}
func (r *recorder) OnResponse(context.Context, string, string, int, time.Duration) {
	r.add("response")
}
