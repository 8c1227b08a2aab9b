package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goldbook/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3BackupStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3BackupStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3BackupStorage(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3BackupStorage(&config.StorageConfig{Bucket: "b", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3BackupStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		s, err := NewS3BackupStorage(&config.StorageConfig{
			Bucket:    "gold-backups",
			AccessKey: "k",
			SecretKey: "s",
			Endpoint:  "localhost:9000",
		})
		require.NoError(t, err)
		assert.Equal(t, "gold-backups", s.GetBucket())
	})
}

func TestS3BackupStorage_KeyFor(t *testing.T) {
	s, err := NewS3BackupStorage(&config.StorageConfig{
		Bucket: "b", AccessKey: "k", SecretKey: "s", Prefix: "/goldbook/backups/",
	})
	require.NoError(t, err)
	assert.Equal(t, "goldbook/backups/gold_jewelry_backup_20240115_230000.db", s.KeyFor("gold_jewelry_backup_20240115_230000.db"))

	bare, err := NewS3BackupStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "x.db", bare.KeyFor("x.db"))
}

// fakeS3 records PUT requests made against a path-style endpoint
type fakeS3 struct {
	mu     sync.Mutex
	paths  []string
	bodies []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	if r.Method == http.MethodPut {
		f.mu.Lock()
		f.paths = append(f.paths, r.URL.Path)
		f.bodies = append(f.bodies, string(body))
		f.mu.Unlock()
		w.Header().Set("ETag", `"etag"`)
	}
	w.WriteHeader(http.StatusOK)
}

func TestS3BackupStorage_Upload(t *testing.T) {
	fake := &fakeS3{}
	server := httptest.NewServer(fake)
	defer server.Close()

	s, err := NewS3BackupStorage(&config.StorageConfig{
		Bucket:       "gold-backups",
		AccessKey:    "k",
		SecretKey:    "s",
		Endpoint:     server.URL,
		Prefix:       "shop",
		UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	data := []byte("sqlite backup bytes")
	key, err := s.Upload(context.Background(), "gold_jewelry_backup_20240115_230000.db", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, "shop/gold_jewelry_backup_20240115_230000.db", key)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.paths, 1)
	assert.Equal(t, "/gold-backups/shop/gold_jewelry_backup_20240115_230000.db", fake.paths[0])
	assert.Contains(t, fake.bodies[0], "sqlite backup bytes")
}

func TestS3BackupStorage_UploadRequiresName(t *testing.T) {
	s, err := NewS3BackupStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "", bytes.NewReader(nil), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}
