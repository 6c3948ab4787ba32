package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ageflow/internal/config"
	"github.com/tartampluch/go-ageflow/internal/store"
	"github.com/tartampluch/go-ageflow/internal/widget"
)

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func TestRun_OncePrintsTimeline(t *testing.T) {
	var out bytes.Buffer
	opts := options{
		Settings: config.Settings{Backend: config.BackendMemory},
		Once:     true,
		NoTray:   true,
		Family:   config.DefaultFamily,
	}

	require.NoError(t, run(context.Background(), opts, &out))

	var tl widget.Timeline
	require.NoError(t, json.Unmarshal(out.Bytes(), &tl))
	require.Len(t, tl.Entries, config.WidgetEntries)
	for _, e := range tl.Entries {
		assert.Equal(t, config.AgeSentinelWidget, e.Age)
	}
	assert.True(t, tl.RefreshAfter.After(tl.Entries[len(tl.Entries)-1].Instant))
}

func TestRun_OnceReadsSharedSQLite(t *testing.T) {
	dir := t.TempDir()
	settings := config.Settings{Backend: config.BackendSQLite, GroupDir: dir}

	// The interactive process writes first.
	writer, err := store.OpenSQLite(filepath.Join(dir, config.SharedDBFile))
	require.NoError(t, err)
	require.NoError(t, writer.SetBirthDate(context.Background(), time.Now().AddDate(-30, -6, 0)))
	require.NoError(t, writer.Close())

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), options{Settings: settings, Once: true, NoTray: true}, &out))

	var tl widget.Timeline
	require.NoError(t, json.Unmarshal(out.Bytes(), &tl))
	require.NotEmpty(t, tl.Entries)
	assert.NotEqual(t, config.AgeSentinelWidget, tl.Entries[0].Age)
	assert.Contains(t, tl.Entries[0].Age, "30.")
}

func TestRun_HeadlessStopsOnCancel(t *testing.T) {
	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	opts := options{
		Settings: config.Settings{Backend: config.BackendMemory},
		NoTray:   true,
		Family:   config.FamilyInline,
	}

	done := make(chan error, 1)
	go func() { done <- run(ctx, opts, &out) }()

	require.Eventually(t, func() bool {
		return bytes.Contains(out.Bytes(), []byte(config.AgeSentinelWidget+" years"))
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("widget host did not stop")
	}
}

func TestRun_UnknownBackend(t *testing.T) {
	err := run(context.Background(), options{Settings: config.Settings{Backend: "floppy"}, Once: true, NoTray: true}, &bytes.Buffer{})
	assert.Error(t, err)
}
