package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnBuildStart(ctx, "graph", 3)
	p.OnBuildComplete(ctx, "graph", 100, time.Second, nil)
	p.OnOutcomes(ctx, "graph", map[string]int{"found": 3})
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "graph")
	c.OnCacheMiss(ctx, "graph")
	c.OnCacheSet(ctx, "graph", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	m := NewPrometheusHooks()

	m.OnBuildStart(ctx, "graph", 3)
	m.OnBuildComplete(ctx, "graph", 7, 10*time.Millisecond, nil)
	m.OnBuildComplete(ctx, "pruned", 0, time.Millisecond, errors.New("boom"))
	m.OnOutcomes(ctx, "graph", map[string]int{"found": 5, "leaf": 2})
	m.OnRenderComplete(ctx, []string{"dot"}, time.Millisecond, nil)
	m.OnCacheMiss(ctx, "graph")
	m.OnCacheSet(ctx, "graph", 512)
	m.OnCacheHit(ctx, "graph")

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()

	want := []string{
		`collatzgraph_builds_total{mode="graph",status="ok"} 1`,
		`collatzgraph_builds_total{mode="pruned",status="error"} 1`,
		`collatzgraph_edges_total{mode="graph"} 7`,
		`collatzgraph_predecessor_outcomes_total{mode="graph",outcome="found"} 5`,
		`collatzgraph_predecessor_outcomes_total{mode="graph",outcome="leaf"} 2`,
		`collatzgraph_renders_total{status="ok"} 1`,
		`collatzgraph_cache_events_total{event="hit",key_type="graph"} 1`,
		`collatzgraph_cache_events_total{event="miss",key_type="graph"} 1`,
		`collatzgraph_cache_written_bytes_total{key_type="graph"} 512`,
		"# TYPE collatzgraph_build_duration_seconds histogram",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("WriteText() missing %q\n%s", w, out)
		}
	}
	if strings.Contains(out, `collatzgraph_edges_total{mode="pruned"}`) {
		t.Error("failed builds should not count edges")
	}
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
