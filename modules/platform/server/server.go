// Package server exposes the entry store over HTTP and WebSocket. One
// process on a machine hosts the server of record; every other process
// discovers it and sends entries to it instead.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mdp/qrterminal/v3"
	"golang.org/x/term"

	"github.com/jskopek/shellviz/modules/core/broadcast"
	"github.com/jskopek/shellviz/modules/core/entries"
	"github.com/jskopek/shellviz/modules/platform/config"
	"github.com/jskopek/shellviz/modules/platform/logger"
)

// Server is the HTTP/WebSocket server for the viewer UI.
type Server struct {
	mu sync.Mutex

	port    int
	showURL bool

	store *entries.Store
	bus   *broadcast.Bus
	hub   *Hub

	httpServer *http.Server
	listener   net.Listener
	running    bool
}

// New creates a server around a fresh store and broadcast bus.
func New(cfg *config.Config) *Server {
	port := config.DefaultPort
	showURL := true
	if cfg != nil {
		port = cfg.Port
		showURL = cfg.ShowURL
	}

	bus := broadcast.NewBus()
	s := &Server{
		port:    port,
		showURL: showURL,
		store:   entries.NewStore(bus),
		bus:     bus,
		hub:     NewHub(bus),
	}
	return s
}

// Store returns the server's entry store. Hosting-mode clients write to
// it directly.
func (s *Server) Store() *entries.Store {
	return s.store
}

// Bus returns the broadcast bus.
func (s *Server) Bus() *broadcast.Bus {
	return s.bus
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start binds the listening socket and serves in the background. The
// bind error is returned as-is so callers can distinguish an
// address-in-use race (another process became the server first) from a
// fatal failure; use IsAddrInUse for that check.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port
	s.httpServer = &http.Server{
		Handler:     corsMiddleware(s.createHandler()),
		IdleTimeout: 60 * time.Second,
	}
	s.running = true
	s.mu.Unlock()

	go s.hub.Run()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("server error: %v", err)
		}
	}()

	logger.Debug("serving on %s", s.URL())
	if s.showURL {
		s.ShowURL()
		s.ShowQR()
	}
	return nil
}

// Stop shuts the server down, closing all viewer connections.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	httpServer := s.httpServer
	s.mu.Unlock()

	s.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

// IsRunning returns whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Port returns the bound port (resolved after Start when the configured
// port was 0).
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// URL returns the local viewer URL.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.Port())
}

// ShowURL prints the viewer URL.
func (s *Server) ShowURL() {
	fmt.Printf("Shellviz running on %s\n", s.URL())
}

// ShowQR prints a QR code for the LAN viewer URL. Skipped when stdout
// is not an interactive terminal (piped output would get garbage).
func (s *Server) ShowQR() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	url := fmt.Sprintf("http://%s:%d", localIP(), s.Port())
	qrterminal.GenerateWithConfig(url, qrterminal.Config{
		Level:     qrterminal.L,
		Writer:    os.Stdout,
		BlackChar: qrterminal.BLACK,
		WhiteChar: qrterminal.WHITE,
		QuietZone: 1,
	})
}

// IsAddrInUse reports whether err is a bind failure caused by the
// address already being taken.
func IsAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}

// createHandler creates the HTTP handler with all routes.
func (s *Server) createHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/running", s.handleRunning)
	mux.HandleFunc("GET /api/entries", s.handleEntries)
	mux.HandleFunc("POST /api/send", s.handleSend)
	mux.HandleFunc("DELETE /api/delete/{id}", s.handleDelete)
	mux.HandleFunc("DELETE /api/clear", s.handleClear)
	mux.HandleFunc("GET /api/wait", s.handleWait)

	mux.HandleFunc("GET /ws", s.hub.ServeWS)
	mux.HandleFunc("GET /", s.handleRoot)

	return mux
}

// handleRoot serves the embedded viewer page. A WebSocket upgrade at
// the server root is treated the same as /ws, matching what existing
// viewer builds expect.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		s.hub.ServeWS(w, r)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(indexHTML))
}

// corsMiddleware adds CORS headers. The facade may run on a different
// origin/port than the hosting server, so all origins are allowed.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// localIP returns the first non-loopback IPv4 address, falling back to
// localhost.
func localIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return "127.0.0.1"
}
