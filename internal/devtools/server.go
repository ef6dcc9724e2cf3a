package devtools

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/formbucket/formbucket/internal/store"
	"github.com/formbucket/formbucket/model"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	shutdownTimeout = 5 * time.Second

	defaultTitle     = "formbucket devtools"
	titlePlaceholder = "{{.Title}}"

	redacted = "[redacted]"
)

// Server serves the state inspector.
type Server struct {
	store      store.Store
	port       int
	httpServer *http.Server
	assets     fs.FS
	title      string
	logger     *slog.Logger
}

// NewServer creates a new inspector [Server] over st.
//
// Parameters:
//   - st: the store to inspect
//   - port: TCP port to listen on (0 lets the OS pick one)
//   - assets: filesystem containing assets/index.html (may be nil)
//   - logger: logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(st store.Store, port int, assets fs.FS, logger *slog.Logger) *Server {
	return &Server{
		store:  st,
		port:   port,
		assets: assets,
		title:  defaultTitle,
		logger: logger,
	}
}

// Handler returns the inspector's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/sse", s.handleSSE)
	if s.assets != nil {
		mux.HandleFunc("GET /{$}", s.handleIndex)
	}
	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns once the port is bound. The server runs
// until ctx is cancelled, then shuts down gracefully.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// request contexts derive from ctx so SSE handlers exit on shutdown
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("devtools server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("devtools server shutdown error", "error", err)
		}
	}()

	return nil
}

// Redact returns a copy of st safe to expose: the user's token is masked.
func Redact(st model.State) model.State {
	if st.User.Token != "" {
		st.User.Token = redacted
	}
	return st
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Inspector not found", http.StatusInternalServerError)
		return
	}

	rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(s.title))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write inspector page", "error", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(Redact(s.store.Snapshot())); err != nil {
		s.logger.Error("failed to encode state response", "error", err)
	}
}

// handleSSE streams a redacted snapshot after every change, starting with
// the current one.
//
// Each write carries a deadline so a slow or vanished client cannot block the
// handler past shutdown.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)
	deadlinesSupported := true

	send := func(st model.State) error {
		data, err := json.Marshal(Redact(st))
		if err != nil {
			s.logger.Warn("failed to encode state snapshot", "error", err)
			return nil
		}
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				// deadline not supported by underlying connection, continue without
				s.logger.Debug("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	if err := send(s.store.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case st, ok := <-ch:
			if !ok {
				return
			}
			if err := send(st); err != nil {
				return
			}

		case <-r.Context().Done():
			// fires on both client disconnect and server shutdown
			return
		}
	}
}
