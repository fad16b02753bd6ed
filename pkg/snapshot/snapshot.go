// Package snapshot holds the single source of truth for an interactive session.
//
// Every parameter change produces a brand-new immutable [Snapshot] that
// replaces the previous one in a [Store]. Views (the explore TUI, the HTTP
// API) render from [Store.Current] and never write to each other, so a
// reader always sees a complete snapshot: either a resolved ring or an error
// state with no layout, never a mix of old and new values.
//
// # Usage
//
//	store := snapshot.NewStore(pipeline.NewRunner(logger), pipeline.DefaultOptions())
//	if _, err := store.Apply(ctx, "variable", "4.6"); err != nil {
//	    // PARSE_ERROR: the published snapshot is unchanged
//	}
//	snap := store.Current()
//	if !snap.OK() {
//	    fmt.Println("Error:", snap.Error)
//	}
package snapshot

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/chainring/pkg/errors"
	"github.com/matzehuels/chainring/pkg/pipeline"
)

// Snapshot is one published recompute. It must not be modified after
// publication.
type Snapshot struct {
	ID        string           `json:"id"`
	Version   uint64           `json:"version"`
	CreatedAt time.Time        `json:"created_at"`
	Options   pipeline.Options `json:"options"`
	Result    *pipeline.Result `json:"result,omitempty"`

	// Error state; Result is nil when set.
	Error string         `json:"error,omitempty"`
	Code  apperrors.Code `json:"code,omitempty"`
}

// OK returns true if the snapshot carries a resolved ring.
func (s *Snapshot) OK() bool {
	return s != nil && s.Result != nil
}

// Store publishes snapshots. Readers are lock-free; writers are serialized
// so that read-modify-write edits do not lose updates.
type Store struct {
	runner  *pipeline.Runner
	current atomic.Pointer[Snapshot]
	writeMu sync.Mutex
	version uint64
}

// NewStore creates a store and publishes an initial snapshot computed from
// opts. A solver failure is published as an error snapshot; options that
// fail validation are replaced by the defaults.
func NewStore(runner *pipeline.Runner, opts pipeline.Options) *Store {
	if runner == nil {
		runner = pipeline.NewRunner(nil)
	}
	s := &Store{runner: runner}
	_, _ = s.Recompute(context.Background(), opts)
	if s.Current() == nil {
		_, _ = s.Recompute(context.Background(), pipeline.DefaultOptions())
	}
	return s
}

// Current returns the latest published snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Recompute resolves opts and publishes the outcome. Boundary errors
// (invalid options) are returned without publishing; geometry failures are
// published as an error snapshot and also returned.
func (s *Store) Recompute(ctx context.Context, opts pipeline.Options) (*Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.recompute(ctx, opts)
}

// Apply edits one field of the current options and recomputes. A malformed
// value leaves the published snapshot untouched.
func (s *Store) Apply(ctx context.Context, field, text string) (*Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	opts := pipeline.DefaultOptions()
	if cur := s.current.Load(); cur != nil {
		opts = cur.Options
	}
	if err := opts.Set(field, text); err != nil {
		return s.current.Load(), err
	}
	return s.recompute(ctx, opts)
}

func (s *Store) recompute(ctx context.Context, opts pipeline.Options) (*Snapshot, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return s.current.Load(), err
	}

	result, err := s.runner.Execute(ctx, opts)
	if err != nil && apperrors.IsBoundary(err) {
		return s.current.Load(), err
	}
	if ctx.Err() != nil {
		return s.current.Load(), ctx.Err()
	}

	s.version++
	snap := &Snapshot{
		ID:        uuid.NewString(),
		Version:   s.version,
		CreatedAt: time.Now(),
		Options:   opts,
	}
	if err != nil {
		snap.Error = apperrors.UserMessage(err)
		snap.Code = apperrors.GetCode(err)
	} else {
		snap.Result = result
		snap.Options.Adopt(result)
	}
	s.current.Store(snap)
	return snap, err
}
