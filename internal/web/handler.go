package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/retrodefender/internal/loop/config"
	"github.com/tomz197/retrodefender/internal/loop/server"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 1024
)

// Options configures a Handler.
type Options struct {
	Logger *log.Logger
	// Page is the HTML served at "/". "{{.SSHHost}}" is replaced by SSHHost.
	Page    string
	SSHHost string
}

// Handler serves the browser client and its WebSocket endpoint.
type Handler struct {
	tuning   config.Tuning
	logger   *log.Logger
	page     string
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	mu       sync.Mutex
	sessions map[*server.Session]struct{}
}

// NewHandler creates a handler whose sessions run with tuning t.
func NewHandler(t config.Tuning, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{
		tuning: t,
		logger: logger,
		page:   strings.ReplaceAll(opts.Page, "{{.SSHHost}}", opts.SSHHost),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux:      http.NewServeMux(),
		sessions: make(map[*server.Session]struct{}),
	}
	h.mux.HandleFunc("GET /{$}", h.servePage)
	h.mux.HandleFunc("GET /ws", h.serveWS)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(h.page))
}

// serveWS upgrades the request and runs one game session for the socket.
// Closing the socket stops the session.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	sess := server.NewSession(h.tuning, server.Options{Logger: h.logger})
	logger := h.logger.With("session", sess.ID, "remote", r.RemoteAddr)
	logger.Info("web session opened")
	defer logger.Info("web session closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go sess.Run(ctx)
	defer sess.Stop()
	h.track(sess)
	defer h.untrack(sess)

	hello, _ := json.Marshal(helloMsg{Type: "hello", Session: sess.ID})
	if err := h.write(conn, websocket.TextMessage, hello); err != nil {
		return
	}
	if err := h.writeSnapshot(conn, sess); err != nil {
		return
	}

	go func() {
		defer cancel()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.TextMessage {
				logger.Debug("ignoring non-text frame", "type", msgType)
				continue
			}
			if err := dispatch(sess, data); err != nil {
				logger.Debug("bad message", "err", err)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Done():
			return
		case snap := <-sess.Updates():
			data, err := encodeSnapshot(snap)
			if err != nil {
				logger.Error("encode snapshot", "err", err)
				return
			}
			if err := h.write(conn, websocket.BinaryMessage, data); err != nil {
				return
			}
		}
	}
}

func (h *Handler) track(s *server.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = struct{}{}
}

func (h *Handler) untrack(s *server.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s)
}

// Close stops every live session, which closes their sockets. Intended for
// http.Server.RegisterOnShutdown since hijacked connections outlive Shutdown.
func (h *Handler) Close() {
	h.mu.Lock()
	sessions := make([]*server.Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
}

// Sessions returns the number of open sockets.
func (h *Handler) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Handler) writeSnapshot(conn *websocket.Conn, sess *server.Session) error {
	data, err := encodeSnapshot(sess.GetSnapshot())
	if err != nil {
		return err
	}
	return h.write(conn, websocket.BinaryMessage, data)
}

func (h *Handler) write(conn *websocket.Conn, msgType int, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(msgType, data)
}
