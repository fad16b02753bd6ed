package api

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/chainring/pkg/errors"
	"github.com/matzehuels/chainring/pkg/observability"
	"github.com/matzehuels/chainring/pkg/pipeline"
	"github.com/matzehuels/chainring/pkg/snapshot"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(logger)
	s := New(snapshot.NewStore(runner, pipeline.DefaultOptions()), runner, logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
	if body["version"] == "" {
		t.Error("version missing")
	}
}

func TestResolve(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name     string
		body     string
		status   int
		code     apperrors.Code
		radius   float64
		variable float64
	}{
		{"radius drive", `{"links":22,"drive":"radius","radius":43}`, http.StatusOK, "", 43, 4.60},
		{"variable drive", `{"drive":"variable","variable_length":4.6}`, http.StatusOK, "", 43, 4.60},
		{"diameter drive", `{"drive":"diameter","inner_diameter":80}`, http.StatusOK, "", 43, 4.60},
		{"infeasible", `{"links":22,"radius":20}`, http.StatusUnprocessableEntity, apperrors.ErrCodeInfeasible, 0, 0},
		{"bad drive", `{"drive":"sideways"}`, http.StatusBadRequest, apperrors.ErrCodeInvalidDrive, 0, 0},
		{"malformed", `{"links":`, http.StatusBadRequest, apperrors.ErrCodeParse, 0, 0},
		{"unknown field", `{"color":"green"}`, http.StatusBadRequest, apperrors.ErrCodeParse, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/resolve", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusOK {
				var e ErrorResponse
				decodeBody(t, resp, &e)
				if e.Code != tt.code {
					t.Errorf("code = %q, want %q", e.Code, tt.code)
				}
				if e.Message == "" {
					t.Error("empty error message")
				}
				return
			}
			var r pipeline.Result
			decodeBody(t, resp, &r)
			if math.Abs(r.Radius-tt.radius) > 0.05 {
				t.Errorf("radius = %g, want ~%g", r.Radius, tt.radius)
			}
			if math.Abs(r.VariableLength-tt.variable) > 0.01 {
				t.Errorf("variable = %g, want ~%g", r.VariableLength, tt.variable)
			}
			if len(r.Layout.Placements) != r.Links {
				t.Errorf("placements = %d, want %d", len(r.Layout.Placements), r.Links)
			}
		})
	}
}

func TestResolve_DoesNotPublish(t *testing.T) {
	s, ts := newTestServer(t)
	before := s.store.Current()
	post(t, ts.URL+"/v1/resolve", `{"radius":60}`)
	if s.store.Current() != before {
		t.Error("stateless resolve replaced the snapshot")
	}
}

func TestSnapshot(t *testing.T) {
	_, ts := newTestServer(t)
	resp := get(t, ts.URL+"/v1/snapshot")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var snap snapshot.Snapshot
	decodeBody(t, resp, &snap)
	if snap.ID == "" || snap.Version != 1 {
		t.Errorf("snapshot = id %q version %d", snap.ID, snap.Version)
	}
	if snap.Result == nil {
		t.Fatal("default snapshot has no result")
	}
}

func TestParams(t *testing.T) {
	s, ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/params", `{"field":"variable","value":"4.6"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var snap snapshot.Snapshot
	decodeBody(t, resp, &snap)
	if snap.Version != 2 || snap.Options.Drive != pipeline.DriveVariable {
		t.Errorf("version %d drive %q", snap.Version, snap.Options.Drive)
	}
	if s.store.Current().ID != snap.ID {
		t.Error("response is not the published snapshot")
	}
}

func TestParams_ParseErrorKeepsSnapshot(t *testing.T) {
	s, ts := newTestServer(t)
	before := s.store.Current()

	resp := post(t, ts.URL+"/v1/params", `{"field":"radius","value":"forty"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var e ErrorResponse
	decodeBody(t, resp, &e)
	if e.Code != apperrors.ErrCodeParse {
		t.Errorf("code = %q, want %q", e.Code, apperrors.ErrCodeParse)
	}
	if s.store.Current() != before {
		t.Error("parse error replaced the snapshot")
	}
}

func TestParams_InfeasiblePublishesErrorState(t *testing.T) {
	s, ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/params", `{"field":"radius","value":"20"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var e ErrorResponse
	decodeBody(t, resp, &e)
	if e.Code != apperrors.ErrCodeInfeasible {
		t.Errorf("code = %q, want %q", e.Code, apperrors.ErrCodeInfeasible)
	}
	if e.Snapshot == nil || e.Snapshot.Result != nil {
		t.Error("expected an error snapshot without a result")
	}
	if s.store.Current().OK() {
		t.Error("published snapshot should be in the error state")
	}
}

func TestNotFound(t *testing.T) {
	_, ts := newTestServer(t)
	resp := get(t, ts.URL+"/v2/nothing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var e ErrorResponse
	decodeBody(t, resp, &e)
	if e.Code != apperrors.ErrCodeNotFound {
		t.Errorf("code = %q, want %q", e.Code, apperrors.ErrCodeNotFound)
	}
	if !strings.Contains(e.Message, "/v2/nothing") {
		t.Errorf("message = %q, should name the path", e.Message)
	}
}

type countingHTTPHooks struct {
	mu        sync.Mutex
	requests  int
	responses map[int]int
}

func (h *countingHTTPHooks) OnRequest(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *countingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses[status]++
}

func TestObserveHooks(t *testing.T) {
	hooks := &countingHTTPHooks{responses: map[int]int{}}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	_, ts := newTestServer(t)
	get(t, ts.URL+"/healthz")
	post(t, ts.URL+"/v1/params", `{"field":"radius","value":"x"}`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 2 {
		t.Errorf("requests = %d, want 2", hooks.requests)
	}
	if hooks.responses[http.StatusOK] != 1 || hooks.responses[http.StatusBadRequest] != 1 {
		t.Errorf("responses = %v", hooks.responses)
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
