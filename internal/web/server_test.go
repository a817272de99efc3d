package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, srv *Server) {
	t.Helper()
	go func() { _ = srv.Start() }()
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	require.Eventually(t, func() bool {
		if srv.listener == nil {
			return false
		}
		resp, err := http.Get(srv.BaseURL() + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
}

func TestServer_HealthEndpoint(t *testing.T) {
	srv := NewServer(&Config{Port: 0, Version: "1.2.3"}, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)
}

func TestServer_DefaultVersion(t *testing.T) {
	cfg := &Config{}
	NewServer(cfg, nil)
	assert.Equal(t, "dev", cfg.Version)
}

func TestServer_ServesAssets(t *testing.T) {
	staticDir := t.TempDir()
	assetsDir := filepath.Join(staticDir, "dist", "assets")
	require.NoError(t, os.MkdirAll(assetsDir, 0755))

	cssContent := "body { background: #0d1117; }"
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "style.css"), []byte(cssContent), 0644))

	srv := NewServer(&Config{StaticDir: staticDir}, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/assets/style.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, cssContent, string(body))
}

func TestServer_SPAFallback(t *testing.T) {
	staticDir := t.TempDir()
	distDir := filepath.Join(staticDir, "dist")
	require.NoError(t, os.MkdirAll(distDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(distDir, "index.html"), []byte("<html>app</html>"), 0644))

	srv := NewServer(&Config{StaticDir: staticDir}, nil)
	srv.RegisterApplicationsHandler(&stubApplications{})
	srv.SetupSPAFallback()

	tests := []struct {
		path string
		code int
		body string
	}{
		{"/applications", http.StatusOK, "<html>app</html>"},
		{"/applications/new", http.StatusOK, "<html>app</html>"},
		{"/api/unknown", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
}

func TestServer_SPAFallbackWithoutBuild(t *testing.T) {
	srv := NewServer(&Config{StaticDir: t.TempDir()}, nil)
	srv.SetupSPAFallback()

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/applications", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RegisterApplicationsHandler(t *testing.T) {
	srv := NewServer(&Config{}, nil)
	h := &stubApplications{}
	srv.RegisterApplicationsHandler(h)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/api/applications", "list"},
		{"POST", "/api/applications", "create"},
		{"GET", "/api/applications/stats", "stats"},
		{"GET", "/api/applications/42", "get"},
		{"PATCH", "/api/applications/42", "update"},
		{"DELETE", "/api/applications/42", "delete"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestServer_RejectsNonJSONBody(t *testing.T) {
	srv := NewServer(&Config{}, nil)
	srv.RegisterApplicationsHandler(&stubApplications{})

	req := httptest.NewRequest("POST", "/api/applications", strings.NewReader("company=acme"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := NewServer(&Config{AllowedOrigins: []string{"http://localhost:5173"}}, nil)
	srv.RegisterApplicationsHandler(&stubApplications{})

	req := httptest.NewRequest("OPTIONS", "/api/applications", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/api/applications", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RateLimit(t *testing.T) {
	srv := NewServer(&Config{RateLimitRPS: 0.001, RateLimitBurst: 2}, nil)
	srv.RegisterApplicationsHandler(&stubApplications{})

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/applications", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// health is outside the API group
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_StartsAndServesWebSocket(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	srv := NewServer(&Config{Port: 0}, hub)
	startServer(t, srv)

	u := url.URL{Scheme: "ws", Host: srv.listener.Addr().String(), Path: "/ws"}
	c, wsResp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer c.Close()
	if wsResp != nil && wsResp.Body != nil {
		defer wsResp.Body.Close()
	}

	// Allow time for registration
	time.Sleep(50 * time.Millisecond)
	hub.Broadcast([]byte(`{"type":"ping"}`))

	_ = c.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := c.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ping"}`, string(msg))
}

type stubApplications struct{}

func (stubApplications) List(w http.ResponseWriter, _ *http.Request)    { _, _ = w.Write([]byte("list")) }
func (stubApplications) Create(w http.ResponseWriter, _ *http.Request)  { _, _ = w.Write([]byte("create")) }
func (stubApplications) GetByID(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("get")) }
func (stubApplications) Update(w http.ResponseWriter, _ *http.Request)  { _, _ = w.Write([]byte("update")) }
func (stubApplications) Delete(w http.ResponseWriter, _ *http.Request)  { _, _ = w.Write([]byte("delete")) }
func (stubApplications) Stats(w http.ResponseWriter, _ *http.Request)   { _, _ = w.Write([]byte("stats")) }
