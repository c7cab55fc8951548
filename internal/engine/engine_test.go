package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"fileproc/internal/config"
	"fileproc/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConfig(t *testing.T, recordID string) config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blobs", "nuufovus"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blobs", "nuufovus", "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "table.yml"), []byte("records:\n  - id: X\n    filepath: s3://nuufovus/a.txt\n"), 0o644))

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Resolver.RecordID = recordID
	cfg.Records.Driver = "yamlfile"
	cfg.Records.Path = filepath.Join(dir, "table.yml")
	cfg.Blobs.Driver = "localfs"
	cfg.Blobs.Root = filepath.Join(dir, "blobs")
	return cfg
}

func TestEngine_RunPushesMetrics(t *testing.T) {
	var pushes atomic.Int32
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	cfg := localConfig(t, "X")
	cfg.Telemetry.Pushgateway = gw.URL

	e, err := Bootstrap(context.Background(), cfg)
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s3://nuufovus/modified_a.txt", res.Derived.Filepath)
	assert.Equal(t, int32(1), pushes.Load())
}

func TestEngine_RunFailurePropagates(t *testing.T) {
	e, err := Bootstrap(context.Background(), localConfig(t, "missing"))
	require.NoError(t, err)
	_, err = e.Run(context.Background())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBootstrap_BadConfig(t *testing.T) {
	cfg := localConfig(t, "X")
	cfg.Records.Driver = "cassandra"
	_, err := Bootstrap(context.Background(), cfg)
	assert.Error(t, err)
}
