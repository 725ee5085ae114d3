package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"babsa/app/fileloader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeRecorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *changeRecorder) record(c Change) {
	r.mu.Lock()
	r.changes = append(r.changes, c)
	r.mu.Unlock()
}

func (r *changeRecorder) snapshot() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change{}, r.changes...)
}

func startWatcher(t *testing.T, path string, known func() string) *changeRecorder {
	t.Helper()
	rec := &changeRecorder{}
	w, err := NewFileWatcher(path, known, rec.record, nil)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return rec
}

func TestWatcherReportsExternalChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte("id\n1\n"), 0o644))
	known := fileloader.FingerprintBytes([]byte("id\n1\n"))

	rec := startWatcher(t, path, func() string { return known })

	require.NoError(t, os.WriteFile(path, []byte("id\n1\n2\n"), 0o644))

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 3*time.Second, 10*time.Millisecond)
	got := rec.snapshot()[0]
	assert.False(t, got.Removed)
	assert.Equal(t, fileloader.FingerprintBytes([]byte("id\n1\n2\n")), got.Fingerprint)
}

func TestWatcherIgnoresMatchingContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte("id\n1\n"), 0o644))
	known := fileloader.FingerprintBytes([]byte("id\n1\n"))

	rec := startWatcher(t, path, func() string { return known })

	require.NoError(t, os.WriteFile(path, []byte("id\n1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x\n"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestWatcherReportsRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte("id\n1\n"), 0o644))
	known := fileloader.FingerprintBytes([]byte("id\n1\n"))

	rec := startWatcher(t, path, func() string { return known })

	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.True(t, rec.snapshot()[0].Removed)
}
