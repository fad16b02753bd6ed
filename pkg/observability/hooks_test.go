package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopResolveHooks{}
	r.OnResolveStart(ctx, "radius", 22)
	r.OnResolveComplete(ctx, "radius", 0, time.Millisecond, nil)
	r.OnResolveComplete(ctx, "variable", 40, time.Millisecond, errors.New("infeasible"))

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/resolve")
	h.OnResponse(ctx, "POST", "/v1/resolve", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Resolve() should return NoopResolveHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customResolve := &testResolveHooks{}
	SetResolveHooks(customResolve)
	if Resolve() != customResolve {
		t.Error("SetResolveHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Reset() should restore NoopResolveHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testResolveHooks{}
	SetResolveHooks(custom)
	SetResolveHooks(nil)

	if Resolve() != custom {
		t.Error("SetResolveHooks(nil) should be ignored")
	}
	Reset()
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testResolveHooks{}
	SetResolveHooks(custom)

	ctx := context.Background()
	Resolve().OnResolveStart(ctx, "variable", 22)
	Resolve().OnResolveComplete(ctx, "variable", 41, time.Millisecond, nil)

	if custom.starts != 1 || custom.completes != 1 {
		t.Errorf("got starts=%d completes=%d, want 1/1", custom.starts, custom.completes)
	}
	if custom.lastIterations != 41 {
		t.Errorf("lastIterations = %d, want 41", custom.lastIterations)
	}
}

type testResolveHooks struct {
	NoopResolveHooks
	starts, completes int
	lastIterations    int
}

func (h *testResolveHooks) OnResolveStart(context.Context, string, int) { h.starts++ }
func (h *testResolveHooks) OnResolveComplete(_ context.Context, _ string, iterations int, _ time.Duration, _ error) {
	h.completes++
	h.lastIterations = iterations
}

type testHTTPHooks struct{ NoopHTTPHooks }
