// Package api serves the ring solver over HTTP.
//
// Routes:
//
//	GET  /healthz      build information
//	POST /v1/resolve   stateless: JSON options in, result out
//	GET  /v1/snapshot  the latest published snapshot
//	POST /v1/params    apply {field, value} to the current options and republish
//
// Input errors answer 400 and never touch the published snapshot. Geometry
// outcomes (infeasible, no convergence, not closed) answer 422.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chainring/pkg/buildinfo"
	apperrors "github.com/matzehuels/chainring/pkg/errors"
	"github.com/matzehuels/chainring/pkg/observability"
	"github.com/matzehuels/chainring/pkg/pipeline"
	"github.com/matzehuels/chainring/pkg/snapshot"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	store  *snapshot.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. runner and logger default when nil.
func New(store *snapshot.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(logger)
	}
	if store == nil {
		store = snapshot.NewStore(runner, pipeline.DefaultOptions())
	}
	return &Server{store: store, runner: runner, logger: logger}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.NotFound(s.handleNotFound)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Get("/snapshot", s.handleSnapshot)
		r.Post("/params", s.handleParams)
	})
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ParamChange is the body of POST /v1/params.
type ParamChange struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code     apperrors.Code     `json:"code"`
	Message  string             `json:"message"`
	Snapshot *snapshot.Snapshot `json:"snapshot,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, apperrors.New(apperrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path), nil)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decode(r, &opts); err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Current())
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	var change ParamChange
	if err := decode(r, &change); err != nil {
		s.writeError(w, r, err, nil)
		return
	}

	snap, err := s.store.Apply(r.Context(), change.Field, change.Value)
	if err != nil {
		s.writeError(w, r, err, snap)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// decode reads a JSON body, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeParse, err, "malformed request body")
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, snap *snapshot.Snapshot) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: apperrors.UserMessage(err), Snapshot: snap})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	if apperrors.IsBoundary(err) {
		return http.StatusBadRequest
	}
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInfeasible, apperrors.ErrCodeConvergence, apperrors.ErrCodeNotClosed:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// observe reports every request to the registered HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}
