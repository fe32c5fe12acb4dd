// Package server serves the playground: HTML pages, the JSON conversion API,
// preview documents and the /ws live channel.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/conneroisu/tailplay/internal/catalog"
	"github.com/conneroisu/tailplay/internal/config"
	"github.com/conneroisu/tailplay/internal/convert"
	"github.com/conneroisu/tailplay/internal/logging"
	"github.com/conneroisu/tailplay/internal/preview"
	"github.com/conneroisu/tailplay/internal/validation"
	"github.com/conneroisu/tailplay/internal/watcher"
)

// Debounce applied to snippet file changes before the catalog reloads.
const reloadDelay = 300 * time.Millisecond

// Server is the playground HTTP server.
type Server struct {
	config       *config.Config
	engine       convert.Engine
	wrap         bool
	catalog      *catalog.Catalog
	loader       *catalog.Loader
	watcher      *watcher.FileWatcher
	hub          *Hub
	logger       logging.Logger
	httpServer   *http.Server
	closed       bool
	serverMutex  sync.RWMutex // Protects httpServer, watcher and closed
	shutdownOnce sync.Once
}

// New creates a server for cfg and loads the snippet catalog. Snippet files
// that fail to load are logged and skipped. A nil logger discards output.
func New(cfg *config.Config, logger logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.WithComponent("server")

	engine, err := cfg.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to create converter: %w", err)
	}
	policy, err := convert.ParseStripPolicy(cfg.Converter.StripPolicy)
	if err != nil {
		return nil, err
	}

	loader := &catalog.Loader{
		Paths:    cfg.Catalog.Paths,
		Patterns: cfg.Catalog.Patterns,
		Builtin:  cfg.Catalog.Builtin,
	}
	entries, loadErr := loader.Load()
	if loadErr != nil {
		logger.Warn(context.Background(), loadErr, "Catalog loaded with errors")
	}

	return &Server{
		config:  cfg,
		engine:  engine,
		wrap:    policy == convert.StripRemove,
		catalog: catalog.New(entries),
		loader:  loader,
		hub:     newHub(logger),
		logger:  logger,
	}, nil
}

// Catalog returns the server's snippet catalog.
func (s *Server) Catalog() *catalog.Catalog { return s.catalog }

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Start serves until the server is shut down or fails. The catalog watcher
// and the WebSocket hub run until ctx is cancelled. Start returns nil at
// once if Shutdown has already run.
func (s *Server) Start(ctx context.Context) error {
	if s.isClosed() {
		return nil
	}

	if s.config.Catalog.Watch && len(s.config.Catalog.Paths) > 0 {
		if err := s.setupFileWatcher(ctx); err != nil {
			s.logger.Warn(ctx, err, "Catalog watching disabled")
		}
	}

	go s.hub.run(ctx)

	addr := s.config.Server.Addr()

	s.serverMutex.Lock()
	if s.closed {
		s.serverMutex.Unlock()
		return nil
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "Playground listening", "addr", addr, "snippets", s.catalog.Len())

	if s.config.Server.Open {
		go s.openBrowser(fmt.Sprintf("http://%s", addr))
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func (s *Server) setupFileWatcher(ctx context.Context) error {
	fw, err := watcher.NewFileWatcher(reloadDelay, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw.AddFilter(watcher.YAMLFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.NoEditorTempFilter)
	fw.AddFilter(s.loader.Matches)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		return s.handleCatalogChange(ctx, events)
	})

	for _, path := range s.config.Catalog.Paths {
		if err := fw.AddRecursive(path); err != nil {
			s.logger.Warn(ctx, err, "Failed to watch catalog path", "path", path)
		}
	}

	if err := fw.Start(ctx); err != nil {
		fw.Stop()
		return err
	}

	s.serverMutex.Lock()
	defer s.serverMutex.Unlock()
	if s.closed {
		return fw.Stop()
	}
	s.watcher = fw
	return nil
}

func (s *Server) isClosed() bool {
	s.serverMutex.RLock()
	defer s.serverMutex.RUnlock()
	return s.closed
}

func (s *Server) handleCatalogChange(ctx context.Context, events []watcher.ChangeEvent) error {
	for _, event := range events {
		s.logger.Debug(ctx, "Snippet file changed", "path", event.Path, "type", event.Type.String())
	}
	_, err := s.Reload(ctx)
	return err
}

// Reload re-reads the catalog, swaps it in and tells connected clients the
// new entry count. Snippets that loaded are kept even when others failed;
// the returned error describes the failures.
func (s *Server) Reload(ctx context.Context) (int, error) {
	op := logging.StartOperation(s.logger, "catalog_reload")

	entries, err := s.loader.Load()
	s.catalog.Replace(entries)
	count := s.catalog.Len()
	s.hub.Publish(Message{Type: TypeCatalog, Count: countPtr(count)})

	if err != nil {
		op.EndWithError(ctx, err)
		return count, err
	}
	op.End(ctx)
	s.logger.Info(ctx, "Catalog reloaded", "snippets", count)
	return count, nil
}

func (s *Server) openBrowser(target string) {
	time.Sleep(100 * time.Millisecond) // Give server time to start

	// Validate URL before passing it to system commands
	err := validation.ValidateURL(target)
	if err != nil {
		s.logger.Warn(context.Background(), err, "Browser open failed due to invalid URL", "url", target)
		return
	}

	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", target).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	case "darwin":
		err = exec.Command("open", target).Start()
	default:
		err = fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}

	if err != nil {
		s.logger.Warn(context.Background(), err, "Failed to open browser")
	}
}

// panelsFor returns the preview panels of a snippet. Converted examples
// are wrapped per the strip policy; templates are used as written.
func (s *Server) panelsFor(sn catalog.Snippet) preview.Panels {
	return preview.FromResult(sn.Convert(s.engine), s.wrap && sn.Kind != catalog.KindTemplate)
}

// Shutdown gracefully shuts down the server and cleans up resources
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		s.serverMutex.Lock()
		s.closed = true
		fw := s.watcher
		server := s.httpServer
		s.serverMutex.Unlock()

		if fw != nil {
			if err := fw.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Failed to stop file watcher")
			}
		}

		s.hub.stop()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})

	return shutdownErr
}
