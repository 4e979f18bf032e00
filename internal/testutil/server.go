package testutil

import (
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// Route is a canned response served by a ConfigServer.
type Route struct {
	Status      int
	Body        string
	ContentType string
	// Delay holds the response back, to exercise ordering under concurrency
	Delay time.Duration
}

// JSONRoute returns a 200 application/json route.
func JSONRoute(body string) Route {
	return Route{Status: http.StatusOK, Body: body, ContentType: "application/json"}
}

// ConfigServer is a mock service exposing configuration endpoints.
// Unknown paths answer 404.
type ConfigServer struct {
	routes map[string]Route

	mu       sync.Mutex
	requests []*http.Request
}

// NewConfigServer starts an httptest server over TCP serving routes and
// returns the server URL.
func NewConfigServer(t *testing.T, routes map[string]Route) (*ConfigServer, string) {
	t.Helper()

	cs := &ConfigServer{routes: routes}
	srv := httptest.NewServer(cs)
	t.Cleanup(srv.Close)
	return cs, srv.URL
}

// NewUnixConfigServer starts a server on a unix domain socket and returns
// the socket path.
func NewUnixConfigServer(t *testing.T, routes map[string]Route) (*ConfigServer, string) {
	t.Helper()

	// t.TempDir paths can exceed the sun_path limit on some platforms.
	dir, err := os.MkdirTemp("", "rc")
	if err != nil {
		t.Fatalf("Failed to create socket dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	socket := filepath.Join(dir, "cfg.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("Failed to listen on unix socket: %v", err)
	}

	cs := &ConfigServer{routes: routes}
	srv := httptest.NewUnstartedServer(cs)
	srv.Listener = ln
	srv.Start()
	t.Cleanup(srv.Close)
	return cs, socket
}

// ServeHTTP implements http.Handler.
func (cs *ConfigServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cs.mu.Lock()
	cs.requests = append(cs.requests, r.Clone(r.Context()))
	cs.mu.Unlock()

	route, ok := cs.routes[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if route.Delay > 0 {
		select {
		case <-time.After(route.Delay):
		case <-r.Context().Done():
			return
		}
	}
	if route.ContentType != "" {
		w.Header().Set("Content-Type", route.ContentType)
	}
	status := route.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(route.Body))
}

// Requests returns the requests received so far, in arrival order.
func (cs *ConfigServer) Requests() []*http.Request {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]*http.Request(nil), cs.requests...)
}

// Paths returns the request paths received so far, in arrival order.
func (cs *ConfigServer) Paths() []string {
	reqs := cs.Requests()
	paths := make([]string, len(reqs))
	for i, r := range reqs {
		paths[i] = r.URL.Path
	}
	return paths
}
