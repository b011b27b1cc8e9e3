package shellviz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jskopek/shellviz/modules/core/entries"
	"github.com/jskopek/shellviz/modules/platform/config"
	"github.com/jskopek/shellviz/modules/platform/logger"
	"github.com/jskopek/shellviz/modules/platform/server"
)

// Mode is the terminal state a client settles into after discovery.
type Mode int

const (
	// ModeHosting means this process bound the port and is the server
	// of record: sends go straight to the in-process store.
	ModeHosting Mode = iota

	// ModeRemote means another process (or a configured URL) is the
	// server: sends are forwarded over HTTP.
	ModeRemote

	// ModeDisabled means no server could be reached or started.
	// Sends are dropped with a warning; visualization must never take
	// the host program down with it.
	ModeDisabled
)

func (m Mode) String() string {
	switch m {
	case ModeHosting:
		return "hosting"
	case ModeRemote:
		return "remote"
	case ModeDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// SendOptions control a single send.
type SendOptions struct {
	ID     string
	View   string
	Append bool
	Wait   bool
}

// SendOption mutates SendOptions.
type SendOption func(*SendOptions)

// WithID sets the entry id. Without it the server generates a
// time-based id.
func WithID(id string) SendOption { return func(o *SendOptions) { o.ID = id } }

// WithView sets the view hint for a plain Send.
func WithView(view string) SendOption { return func(o *SendOptions) { o.View = view } }

// WithAppend merges the data into the existing entry instead of
// replacing it.
func WithAppend() SendOption { return func(o *SendOptions) { o.Append = true } }

// WithWait makes the send pause briefly afterwards, giving the
// broadcast a chance to flush before the caller's process exits. Best
// effort only, not a delivery guarantee.
func WithWait() SendOption { return func(o *SendOptions) { o.Wait = true } }

// waitGrace is the fixed delay applied by WithWait.
const waitGrace = 100 * time.Millisecond

// probeTimeout bounds the discovery reachability check: an unreachable
// address is "no existing server", not a hang.
const probeTimeout = time.Second

// Client sends entries to a shellviz server, hosting one itself when
// none is running.
type Client struct {
	mode     Mode
	endpoint string
	srv      *server.Server
	httpc    *http.Client
	dropOnce sync.Once
}

// New discovers or starts a server and returns a connected client.
//
// With cfg.URL set, the client is pinned to that server and it is an
// error for it to be unreachable. Otherwise the local port is probed;
// if a server answers this process becomes a remote client, and if not
// it binds and hosts. Losing the bind race to another process is not
// an error - the loser silently becomes a remote client of the winner.
// Any other bind failure is returned.
func New(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		loaded, err := config.Load("")
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	c := &Client{
		httpc: &http.Client{Timeout: 5 * time.Second},
	}

	if cfg.URL != "" {
		c.endpoint = strings.TrimRight(cfg.URL, "/")
		if !c.probe() {
			return nil, fmt.Errorf("cannot connect to shellviz server at %s", c.endpoint)
		}
		c.mode = ModeRemote
		return c, nil
	}

	c.endpoint = fmt.Sprintf("http://localhost:%d", cfg.Port)
	if cfg.Port != 0 && c.probe() {
		c.mode = ModeRemote
		return c, nil
	}

	srv := server.New(cfg)
	err := srv.Start()
	if err == nil {
		c.mode = ModeHosting
		c.srv = srv
		c.endpoint = srv.URL()
		return c, nil
	}
	if server.IsAddrInUse(err) {
		// Another process bound the port between probe and bind.
		logger.Debug("lost bind race for port %d, using existing server", cfg.Port)
		c.mode = ModeRemote
		return c, nil
	}
	return nil, fmt.Errorf("failed to start shellviz server: %w", err)
}

// newDisabledClient returns a client that drops everything. Used by the
// package-level singleton when discovery fails outright.
func newDisabledClient() *Client {
	return &Client{mode: ModeDisabled, httpc: http.DefaultClient}
}

// Mode returns the terminal discovery state.
func (c *Client) Mode() Mode {
	return c.mode
}

// URL returns the server endpoint this client talks to.
func (c *Client) URL() string {
	return c.endpoint
}

// Server returns the embedded server, or nil unless hosting.
func (c *Client) Server() *server.Server {
	return c.srv
}

// probe checks whether a server is answering at the endpoint.
func (c *Client) probe() bool {
	probeClient := &http.Client{Timeout: probeTimeout}
	resp, err := probeClient.Get(c.endpoint + "/api/running")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// Send sends one entry. Data may be any JSON-serializable value.
func (c *Client) Send(data any, opts ...SendOption) error {
	var options SendOptions
	for _, opt := range opts {
		opt(&options)
	}
	return c.sendEntry(data, options)
}

func (c *Client) sendEntry(data any, options SendOptions) error {
	var err error
	switch c.mode {
	case ModeHosting:
		c.srv.Store().Put(options.ID, toJSONValue(data), options.View, options.Append)
	case ModeRemote:
		err = c.postSend(options.ID, data, options.View, options.Append)
	case ModeDisabled:
		c.dropOnce.Do(func() {
			logger.Warn("no server available, visualization data is being dropped")
		})
	}

	if options.Wait {
		time.Sleep(waitGrace)
	}
	return err
}

// postSend forwards an entry to the remote server.
func (c *Client) postSend(id string, data any, view string, appendData bool) error {
	body, err := json.Marshal(map[string]any{
		"id":     id,
		"data":   data,
		"view":   view,
		"append": appendData,
	})
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}

	resp, err := c.httpc.Post(c.endpoint+"/api/send", "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Warn("failed to send entry: %v", err)
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server rejected entry: %s", resp.Status)
	}
	return nil
}

// Clear removes every entry and tells all viewers to wipe their
// display.
func (c *Client) Clear() error {
	switch c.mode {
	case ModeHosting:
		c.srv.Store().Clear()
		return nil
	case ModeRemote:
		return c.doDelete("/api/clear")
	}
	return nil
}

// Delete removes a single entry by id. Unknown ids are ignored.
func (c *Client) Delete(id string) error {
	switch c.mode {
	case ModeHosting:
		c.srv.Store().Delete(id)
		return nil
	case ModeRemote:
		return c.doDelete("/api/delete/" + url.PathEscape(id))
	}
	return nil
}

// Entries returns the server's current snapshot in insertion order.
func (c *Client) Entries() ([]entries.Entry, error) {
	switch c.mode {
	case ModeHosting:
		return c.srv.Store().List(), nil
	case ModeRemote:
		resp, err := c.httpc.Get(c.endpoint + "/api/entries")
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("server rejected entries request: %s", resp.Status)
		}
		var list []entries.Entry
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			return nil, fmt.Errorf("failed to decode entries: %w", err)
		}
		return list, nil
	}
	return nil, nil
}

// Wait blocks until the server has flushed its broadcast backlog to all
// connected viewers, bounded by a timeout.
func (c *Client) Wait() error {
	switch c.mode {
	case ModeHosting:
		c.srv.Hub().WaitIdle(context.Background(), 10*time.Second)
		return nil
	case ModeRemote:
		waitClient := &http.Client{Timeout: 15 * time.Second}
		resp, err := waitClient.Get(c.endpoint + "/api/wait")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return nil
}

// Stop shuts down the embedded server when hosting. Remote and
// disabled clients have nothing to release.
func (c *Client) Stop() error {
	if c.mode == ModeHosting && c.srv != nil {
		return c.srv.Stop()
	}
	return nil
}

func (c *Client) doDelete(path string) error {
	req, err := http.NewRequest(http.MethodDelete, c.endpoint+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		logger.Warn("request failed: %v", err)
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}
