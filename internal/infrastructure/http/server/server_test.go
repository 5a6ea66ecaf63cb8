package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"forgeai/omega_gateway/internal/testutil"
)

func healthyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
}

func newTestServer(t *testing.T, addr string) *Server {
	t.Helper()
	srv, err := New(Options{
		Addr:            addr,
		Logger:          testutil.NewNullLogger(),
		HealthHandler:   healthyHandler(),
		ShutdownTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return srv
}

func TestNew_NilLogger(t *testing.T) {
	_, err := New(Options{HealthHandler: healthyHandler()})

	if err == nil {
		t.Fatal("expected error for nil logger")
	}
	if err.Error() != "logger is required" {
		t.Errorf("expected error 'logger is required', got %q", err.Error())
	}
}

func TestNew_NilHealthHandler(t *testing.T) {
	_, err := New(Options{Logger: testutil.NewNullLogger()})

	if err == nil {
		t.Fatal("expected error for nil health handler")
	}
	if err.Error() != "health handler is required" {
		t.Errorf("expected error 'health handler is required', got %q", err.Error())
	}
}

func TestNew_Defaults(t *testing.T) {
	srv, err := New(Options{Logger: testutil.NewNullLogger(), HealthHandler: healthyHandler()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if srv.httpServer.Addr != ":3001" {
		t.Errorf("expected default address ':3001', got %q", srv.httpServer.Addr)
	}
	if srv.httpServer.ReadTimeout != 10*time.Second {
		t.Errorf("expected default read timeout 10s, got %v", srv.httpServer.ReadTimeout)
	}
	if srv.shutdownTimeout != 30*time.Second {
		t.Errorf("expected default shutdown timeout 30s, got %v", srv.shutdownTimeout)
	}
}

func TestServer_HealthEndpoint(t *testing.T) {
	srv := newTestServer(t, ":0")

	w := httptest.NewRecorder()
	srv.handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != `{"status":"healthy"}` {
		t.Errorf("unexpected body %q", w.Body.String())
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header to be set")
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := newTestServer(t, ":0")

	w := httptest.NewRecorder()
	srv.handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	response := testutil.ReadErrorResponse(t, w)
	if response["message"] != "Not Found" {
		t.Errorf("expected message 'Not Found', got %v", response["message"])
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, ":0")

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.handler().ServeHTTP(w, httptest.NewRequest(method, "/health", nil))

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected status 405, got %d", w.Code)
			}
		})
	}
}

func TestServer_RecoversPanics(t *testing.T) {
	srv, err := New(Options{
		Logger: testutil.NewNullLogger(),
		HealthHandler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := httptest.NewRecorder()
	srv.handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestServer_Run_ServesUntilCancelled(t *testing.T) {
	srv := newTestServer(t, "127.0.0.1:0")

	ln, err := srv.Listen()
	if err != nil {
		t.Fatalf("unexpected listen error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/health", ln.Addr().String()))
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil || payload["status"] != "healthy" {
		t.Errorf("expected healthy payload, got %q (err %v)", body, err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}

func TestServer_Run_PortInUse(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to occupy a port: %v", err)
	}
	defer occupied.Close()

	addr := occupied.Addr().String()
	srv := newTestServer(t, addr)

	err = srv.Run(context.Background())
	if err == nil {
		t.Fatal("expected error when the port is already in use")
	}

	_, port, _ := net.SplitHostPort(addr)
	if !strings.Contains(err.Error(), port) {
		t.Errorf("expected error to name port %s, got %q", port, err.Error())
	}
	if !strings.Contains(err.Error(), "address already in use") {
		t.Errorf("expected error to carry the bind reason, got %q", err.Error())
	}
}

func TestServer_Run_ContextAlreadyCancelled(t *testing.T) {
	srv := newTestServer(t, "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := srv.Run(ctx); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestServer_IndependentInstances(t *testing.T) {
	first := newTestServer(t, "127.0.0.1:0")
	second := newTestServer(t, "127.0.0.1:0")

	ln1, err := first.Listen()
	if err != nil {
		t.Fatalf("first listen failed: %v", err)
	}
	defer ln1.Close()

	ln2, err := second.Listen()
	if err != nil {
		t.Fatalf("second listen failed: %v", err)
	}
	defer ln2.Close()

	if ln1.Addr().String() == ln2.Addr().String() {
		t.Error("expected distinct listeners for distinct servers")
	}
}

func TestServer_HealthContextHasDeadline(t *testing.T) {
	var hasDeadline bool
	srv, err := New(Options{
		Logger:       testutil.NewNullLogger(),
		WriteTimeout: 2 * time.Second,
		HealthHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasDeadline = r.Context().Deadline()
		}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv.handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if !hasDeadline {
		t.Error("expected the write timeout to bound the request context")
	}
}
