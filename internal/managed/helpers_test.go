package managed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropDatabas3/instancestore/internal/disk"
)

const (
	testHost   = "acme.cloud.example.com"
	testDocDir = "/var/www/acme/public"
)

// fakeConsole responde POST /ops/status con lo que devuelva respond.
type fakeConsole struct {
	srv     *httptest.Server
	calls   atomic.Int32
	mu      sync.Mutex
	last    map[string]any
	respond func() (int, any)
}

func newFakeConsole(t *testing.T, respond func() (int, any)) *fakeConsole {
	t.Helper()
	fc := &fakeConsole{respond: respond}
	r := chi.NewRouter()
	r.Post("/ops/status", func(w http.ResponseWriter, r *http.Request) {
		fc.calls.Add(1)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		fc.mu.Lock()
		fc.last = body
		fc.mu.Unlock()

		status, payload := fc.respond()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if s, ok := payload.(string); ok {
			_, _ = w.Write([]byte(s))
			return
		}
		_ = json.NewEncoder(w).Encode(payload)
	})
	fc.srv = httptest.NewServer(r)
	t.Cleanup(fc.srv.Close)
	return fc
}

func (fc *fakeConsole) lastBody() map[string]any {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.last
}

func okStatus() (int, any) {
	return http.StatusOK, map[string]any{
		"success": true,
		"response": map[string]any{
			"metadata": map[string]any{
				"storage-map": map[string]any{"zone": "z1", "partition": "ab"},
				"env":         map[string]any{"cluster-id": "cluster-east-1", "instance-id": "acme"},
				"audit":       map[string]any{"host": "audit.local"},
				"paths": map[string]any{
					"storage-path":       "z1/ab/owner/acme/storage",
					"private-path":       "z1/ab/owner/acme/.private",
					"owner-private-path": "z1/ab/owner/.private",
				},
				"db": []any{
					map[string]any{"driver": "pgsql", "host": "db1", "database": "acme"},
					map[string]any{"driver": "pgsql", "host": "db2", "database": "acme"},
				},
				"limits": map[string]any{"api": float64(1000)},
			},
			"home-links": []any{"https://console.example.com"},
		},
	}
}

func statusWith(mut func(resp map[string]any, root map[string]any)) func() (int, any) {
	return func() (int, any) {
		code, payload := okStatus()
		root := payload.(map[string]any)
		mut(root["response"].(map[string]any), root)
		return code, root
	}
}

type env struct {
	fs      afero.Fs
	console *fakeConsole
}

func writeManifest(t *testing.T, fs afero.Fs, dir string, m map[string]any) {
	t.Helper()
	b, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, fs.MkdirAll(dir, 0o755))
	require.NoError(t, afero.WriteFile(fs, dir+"/"+ManifestFile, b, 0o600))
}

func validManifest(consoleURL string) map[string]any {
	return map[string]any{
		"client-id":        "client-123",
		"client-secret":    "s3cr3t",
		"signature-method": "sha256",
		"console-api-url":  consoleURL + "/ops",
		"default-domain":   ".cloud.example.com",
		"storage-root":     "/data/storage/",
	}
}

// newEnv arma un filesystem en memoria con el manifest dos niveles arriba del
// document root y un console falso.
func newEnv(t *testing.T, respond func() (int, any)) *env {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testDocDir, 0o755))
	fc := newFakeConsole(t, respond)
	writeManifest(t, fs, "/var/www", validManifest(fc.srv.URL))
	return &env{fs: fs, console: fc}
}

func (e *env) options() Options {
	return Options{
		HostName: testHost,
		StartDir: testDocDir,
		Disk:     disk.New(e.fs),
		Logger:   zap.NewNop(),
	}
}
