package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqsmith/reqsmith/pkg/manifest"
	"github.com/reqsmith/reqsmith/pkg/reconcile"
)

type staticRegistry map[string]string

func (s staticRegistry) ListInstalled(context.Context) (map[string]string, error) {
	return s, nil
}

func (s staticRegistry) Version(_ context.Context, pkg string) (string, bool) {
	v, ok := s[pkg]
	return v, ok
}

func newTestServer(t *testing.T, files map[string]string, installed map[string]string) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
	srv := New(Config{
		Addr: ":0",
		Dir:  dir,
		Reconciler: &reconcile.Reconciler{
			Registry: staticRegistry(installed),
		},
	})
	return srv, dir
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil, nil)
	rec := get(t, srv.Router(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReport(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, map[string]string{
		"app.py": "import os\nimport requests\nimport bs4\n",
	}, map[string]string{"requests": "2.32.3"})

	rec := get(t, srv.Router(), "/api/report")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"beautifulsoup4", "requests"}, body.Packages)
	assert.Equal(t, 1, body.Files)
}

func TestReport_EmptyProject(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, map[string]string{
		"app.py": "import os\n",
	}, nil)

	rec := get(t, srv.Router(), "/api/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var body reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	// Empty package set encodes as [], not null.
	assert.NotNil(t, body.Packages)
}

func TestCheckEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, map[string]string{
		manifest.DefaultFilename: "requests==2.32.3\nzeep==4.2.1\n",
	}, map[string]string{"requests": "2.32.3"})

	rec := get(t, srv.Router(), "/api/check")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report reconcile.CheckReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report.Satisfied, 1)
	assert.Len(t, report.Missing, 1)
}

func TestCheckEndpoint_NoManifest(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil, nil)

	rec := get(t, srv.Router(), "/api/check")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil, nil)
	rec := get(t, srv.Router(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
