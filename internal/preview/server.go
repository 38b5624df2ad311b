// Package preview serves the generated site locally, rebuilds it when the theme,
// data or configuration change, and reloads open browsers.
package preview

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/logfields"
	"github.com/fluxpress/theme-classic/internal/metrics"
	"github.com/fluxpress/theme-classic/internal/site"
)

// StatusPath serves the JSON build status.
const StatusPath = "/_fluxpress/status"

// Rebuild triggers.
const (
	TriggerInitial  = "initial"
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// BuildFunc runs one build and returns its report.
type BuildFunc func(ctx context.Context) (*site.BuildReport, error)

// Options configure a Server.
type Options struct {
	OutputDir       string
	Port            int
	LiveReload      bool
	RebuildInterval time.Duration
	WatchDirs       []string
	WatchFiles      []string
	Debounce        time.Duration
	// Metrics is mounted at MetricsPath when set.
	Metrics     http.Handler
	MetricsPath string
	Recorder    metrics.Recorder
}

// Server is the preview HTTP server with its rebuild loop.
type Server struct {
	opts    Options
	build   BuildFunc
	hub     *Hub
	errs    *errors.HTTPErrorAdapter
	rebuild chan string

	mu      sync.RWMutex
	status  Status
	httpSrv *http.Server
}

// NewServer creates a server. build is called for the initial build and every
// rebuild; calls never overlap.
func NewServer(opts Options, build BuildFunc) *Server {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return &Server{
		opts:    opts,
		build:   build,
		hub:     NewHub(opts.Recorder),
		errs:    errors.NewHTTPErrorAdapter(nil),
		rebuild: make(chan string, 1),
	}
}

// Hub returns the live reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP handler: the site, live reload endpoints, status and metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	pages := s.siteHandler()
	if s.opts.LiveReload {
		mux.Handle(EventsPath, s.hub)
		mux.HandleFunc(ScriptPath, serveClientScript)
		pages = injectMiddleware(pages)
	}
	mux.HandleFunc(StatusPath, s.serveStatus)
	if s.opts.Metrics != nil && s.opts.MetricsPath != "" {
		mux.Handle(s.opts.MetricsPath, s.opts.Metrics)
	}
	mux.Handle("/", pages)
	return mux
}

// siteHandler serves the output root. Unknown paths and directories without an
// index page get 404.html when present; directories are never listed.
func (s *Server) siteHandler() http.Handler {
	files := http.FileServer(http.Dir(s.opts.OutputDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		if !s.servable(r.URL.Path) {
			s.serveNotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func (s *Server) servable(urlPath string) bool {
	name := filepath.Join(s.opts.OutputDir, filepath.FromSlash(path.Clean("/"+urlPath)))
	st, err := os.Stat(name)
	if err != nil {
		return false
	}
	if !st.IsDir() {
		return true
	}
	st, err = os.Stat(filepath.Join(name, "index.html"))
	return err == nil && !st.IsDir()
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	page, err := os.ReadFile(filepath.Join(s.opts.OutputDir, "404.html"))
	if err != nil {
		s.errs.WriteErrorResponse(w, r, errors.NewError(errors.CategoryNotFound, "page not found").
			WithContext("path", r.URL.Path).Build())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(page)
}

// Trigger requests a rebuild. Requests arriving while a build runs are
// coalesced into one follow-up build.
func (s *Server) Trigger(trigger string) {
	select {
	case s.rebuild <- trigger:
	default:
	}
}

// Run performs the initial build, serves on the configured port and rebuilds on
// change until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.PreviewError("failed to listen").WithCause(err).WithContext("addr", addr).Build()
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. Every return after the listener is
// served goes through shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) (err error) {
	s.runBuild(ctx, TriggerInitial)

	s.mu.Lock()
	s.httpSrv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second, IdleTimeout: 5 * time.Minute}
	srv := s.httpSrv
	s.mu.Unlock()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", logfields.URL("http://"+ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	defer func() {
		if serr := s.shutdown(); err == nil {
			err = serr
		}
	}()

	var wg sync.WaitGroup
	loopCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		wg.Wait()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.rebuildLoop(loopCtx)
	}()

	if len(s.opts.WatchDirs)+len(s.opts.WatchFiles) > 0 {
		w, err := NewWatcher(s.opts.WatchDirs, s.opts.WatchFiles, s.opts.Debounce)
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = w.Run(loopCtx, func(string) { s.Trigger(TriggerWatch) })
		}()
	}

	if s.opts.RebuildInterval > 0 {
		sched, err := NewScheduler()
		if err != nil {
			return errors.PreviewError("failed to start rebuild scheduler").WithCause(err).Build()
		}
		if _, err := sched.Every(s.opts.RebuildInterval, "periodic-rebuild", func() { s.Trigger(TriggerSchedule) }); err != nil {
			return errors.PreviewError("failed to schedule rebuilds").WithCause(err).Build()
		}
		sched.Start()
		defer func() { _ = sched.Stop() }()
	}

	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok && err != nil {
			return errors.PreviewError("preview server failed").WithCause(err).Build()
		}
	}
	return nil
}

func (s *Server) shutdown() error {
	slog.Info("Shutting down preview server")
	s.hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.mu.RLock()
	srv := s.httpSrv
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return errors.PreviewError("preview server shutdown failed").WithCause(err).Build()
	}
	return nil
}

func (s *Server) rebuildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-s.rebuild:
			s.runBuild(ctx, trigger)
		}
	}
}

// runBuild builds once, records the status and notifies browsers of a new fingerprint.
func (s *Server) runBuild(ctx context.Context, trigger string) {
	s.setBuilding(trigger)
	s.opts.Recorder.IncRebuild(trigger)
	slog.Info("Rebuilding site", slog.String("trigger", trigger))

	report, err := s.build(ctx)
	s.finishBuild(report, err)
	if err != nil {
		slog.Warn("Rebuild failed", slog.String("trigger", trigger), logfields.Error(err))
		return
	}
	if report != nil {
		s.hub.Broadcast(report.Fingerprint)
	}
}
