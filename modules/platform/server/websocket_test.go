package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jskopek/shellviz/modules/core/entries"
	"github.com/jskopek/shellviz/modules/platform/config"
)

// dialTestServer starts a hub-backed test server and connects a viewer
// to the given path.
func dialTestServer(t *testing.T, path string) (*Server, *websocket.Conn) {
	t.Helper()

	s := New(&config.Config{ShowURL: false})
	go s.hub.Run()
	t.Cleanup(s.hub.Close)

	ts := httptest.NewServer(corsMiddleware(s.createHandler()))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return s, conn
}

func readEntry(t *testing.T, conn *websocket.Conn) entries.Entry {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var entry entries.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("failed to decode %q: %v", data, err)
	}
	return entry
}

func waitForViewers(t *testing.T, s *Server, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.hub.ClientCount() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d viewers, got %d", n, s.hub.ClientCount())
}

func TestViewerReceivesMutations(t *testing.T) {
	s, conn := dialTestServer(t, "/ws")
	waitForViewers(t, s, 1)

	s.Store().Put("metric", float64(0.5), "progress", false)

	entry := readEntry(t, conn)
	if entry.ID != "metric" || entry.Data != float64(0.5) || entry.View != "progress" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestViewerReceivesClearSentinel(t *testing.T) {
	s, conn := dialTestServer(t, "/ws")
	waitForViewers(t, s, 1)

	s.Store().Put("a", 1, "", false)
	readEntry(t, conn)

	s.Store().Clear()
	entry := readEntry(t, conn)
	if !entries.IsClear(entry.Data) {
		t.Errorf("expected the clear sentinel, got %+v", entry)
	}
}

func TestRootUpgradeActsAsWS(t *testing.T) {
	s, conn := dialTestServer(t, "/")
	waitForViewers(t, s, 1)

	s.Store().Put("root", "works", "", false)

	entry := readEntry(t, conn)
	if entry.ID != "root" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestMutationOrderReachesViewerInSequence(t *testing.T) {
	s, conn := dialTestServer(t, "/ws")
	waitForViewers(t, s, 1)

	s.Store().Put("seq", "a", "", false)
	s.Store().Put("seq", "b", "", true)
	s.Store().Put("seq", "c", "", true)

	want := []any{"a", "ab", "abc"}
	for i, expected := range want {
		entry := readEntry(t, conn)
		if entry.Data != expected {
			t.Fatalf("message %d: expected %v, got %v", i, expected, entry.Data)
		}
	}
}

func TestDisconnectedViewerIsUnregistered(t *testing.T) {
	s, conn := dialTestServer(t, "/ws")
	waitForViewers(t, s, 1)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.hub.ClientCount() == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("viewer still registered after disconnect")
}

func TestWaitIdleNoViewers(t *testing.T) {
	s := New(&config.Config{ShowURL: false})
	go s.hub.Run()
	defer s.hub.Close()

	done := make(chan struct{})
	go func() {
		s.hub.WaitIdle(t.Context(), time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("WaitIdle must return immediately with no viewers")
	}
}
