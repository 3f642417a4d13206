package jsonfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeRecorder struct {
	mu       sync.Mutex
	variants []string
}

func (r *changeRecorder) record(_ context.Context, variant string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants = append(r.variants, variant)
}

func (r *changeRecorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.variants...)
}

func startWatcher(t *testing.T, paths map[string]string) *changeRecorder {
	t.Helper()
	rec := &changeRecorder{}
	w, err := NewWatcher(paths, 30*time.Millisecond, rec.record, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return rec
}

func TestWatcher_ReportsRewrittenExport(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "data.json", `[]`)
	rec := startWatcher(t, map[string]string{"entry": entry})

	// Several writes in a row settle into one change.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(entry, []byte(`[{"ad":"Ayşe"}]`), 0o600))
	}

	require.Eventually(t, func() bool { return len(rec.seen()) > 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "entry", rec.seen()[0])
}

func TestWatcher_ReportsReplacedExport(t *testing.T) {
	dir := t.TempDir()
	exit := writeFile(t, dir, "datacikis.json", `[]`)
	rec := startWatcher(t, map[string]string{"exit": exit})

	tmp := writeFile(t, dir, "datacikis.json.tmp", `[{"ad":"Ali"}]`)
	require.NoError(t, os.Rename(tmp, exit))

	require.Eventually(t, func() bool { return len(rec.seen()) > 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "exit", rec.seen()[0])
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "data.json", `[]`)
	rec := startWatcher(t, map[string]string{"entry": entry})

	writeFile(t, dir, "notes.txt", "hello")

	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, rec.seen())
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(
		map[string]string{"entry": filepath.Join(t.TempDir(), "absent", "data.json")},
		time.Second,
		func(context.Context, string) {},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.Error(t, err)
}
