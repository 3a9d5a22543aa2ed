// Package web serves the chat page and its websocket sessions from a single
// endpoint.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/Fl0rencess720/SearchChat/chat"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TurnHandler answers one submitted message for a session.
type TurnHandler interface {
	HandleTurn(ctx context.Context, message string, transcript chat.Transcript, credential string, notify chat.Notifier) (string, chat.Transcript)
}

// Server owns the HTTP listener and the open sessions.
type Server struct {
	turns             TurnHandler
	logger            *slog.Logger
	server            *http.Server
	upgrader          websocket.Upgrader
	cancelServerScope context.CancelFunc

	mu       sync.Mutex
	sessions map[*session]struct{}
}

func New(addr string, turns TurnHandler, logger *slog.Logger) (*Server, error) {
	if addr == "" {
		return nil, errors.New("new server: empty addr")
	}
	if turns == nil {
		return nil, errors.New("new server: nil turn handler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	serverScopeCtx, cancelServerScope := context.WithCancel(context.Background())
	s := &Server{
		turns:             turns,
		logger:            logger,
		cancelServerScope: cancelServerScope,
		sessions:          make(map[*session]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return serverScopeCtx
		},
	}
	return s, nil
}

// Handler returns the single-route handler, wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	return requestLoggingMiddleware(s.logger)(mux)
}

func (s *Server) Start() error {
	s.logger.Info("Chat UI listening", "addr", s.server.Addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return errors.New("shutdown: nil context")
	}
	s.cancelServerScope()
	err := s.server.Shutdown(ctx)

	// Hijacked connections are not tracked by http.Server.
	s.mu.Lock()
	for sess := range s.sessions {
		_ = sess.close()
	}
	s.mu.Unlock()
	return err
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if websocket.IsWebSocketUpgrade(r) {
		s.serveSession(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	servePage(w, r)
}

func (s *Server) serveSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WS Upgrade failed", "error", err)
		return
	}

	sess := &session{
		id:     r.RemoteAddr,
		conn:   conn,
		turns:  s.turns,
		logger: s.logger,
	}
	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
	s.logger.Info("session opened", "session", sess.id)

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		_ = sess.close()
		s.logger.Info("session closed", "session", sess.id)
	}()

	sess.run(r.Context())
}
