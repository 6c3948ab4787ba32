package widget_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ageflow/internal/config"
	"github.com/tartampluch/go-ageflow/internal/widget"
)

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// recorder collects rendered entries and observed timelines.
type recorder struct {
	mu        sync.Mutex
	entries   []widget.Entry
	timelines []widget.Timeline
	onRender  func(n int)
}

func (r *recorder) Render(e widget.Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	n := len(r.entries)
	cb := r.onRender
	r.mu.Unlock()
	if cb != nil {
		cb(n)
	}
}

func (r *recorder) ObserveTimeline(tl widget.Timeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timelines = append(r.timelines, tl)
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries), len(r.timelines)
}

// firedAfter makes every wait elapse immediately.
func firedAfter(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

// neverAfter makes every future wait block until ctx or a reload.
func neverAfter(time.Duration) <-chan time.Time {
	return nil
}

func runHost(h *widget.Host, ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Run(ctx)
	}()
	return done
}

func waitStopped(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("host did not stop")
	}
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestHost_RendersEntriesInOrder(t *testing.T) {
	p := newProvider(t, &fixedBirth)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	rec.onRender = func(n int) {
		if n == config.WidgetEntries {
			cancel()
		}
	}

	h := widget.NewHost(p, MockClock{CurrentTime: fixedNow}, rec)
	h.Observers = []widget.TimelineObserver{rec}
	h.After = firedAfter

	waitStopped(t, runHost(h, ctx))

	rec.mu.Lock()
	defer rec.mu.Unlock()

	require.Len(t, rec.timelines, 1)
	require.Equal(t, rec.timelines[0].Entries, rec.entries, "entries are shown exactly as received")
	for i := 1; i < len(rec.entries); i++ {
		assert.True(t, rec.entries[i].Instant.After(rec.entries[i-1].Instant))
	}
}

func TestHost_RequestsNewTimelineAfterRefreshHint(t *testing.T) {
	p := newProvider(t, &fixedBirth)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	rec.onRender = func(n int) {
		if n == 2*config.WidgetEntries {
			cancel()
		}
	}

	h := widget.NewHost(p, MockClock{CurrentTime: fixedNow}, rec)
	h.Observers = []widget.TimelineObserver{rec}
	h.After = firedAfter

	waitStopped(t, runHost(h, ctx))

	rendered, observed := rec.counts()
	assert.Equal(t, 2*config.WidgetEntries, rendered)
	assert.Equal(t, 2, observed)
}

func TestHost_ReloadRequestsFreshTimeline(t *testing.T) {
	p := newProvider(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	h := widget.NewHost(p, MockClock{CurrentTime: fixedNow}, rec)
	h.Observers = []widget.TimelineObserver{rec}
	h.After = neverAfter

	done := runHost(h, ctx)

	// Only the first entry is due; the host then blocks on the second.
	require.Eventually(t, func() bool {
		n, _ := rec.counts()
		return n == 1
	}, time.Second, 5*time.Millisecond)

	h.Reload()

	require.Eventually(t, func() bool {
		n, tl := rec.counts()
		return n == 2 && tl == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	waitStopped(t, done)
}

func TestHost_ReloadNeverBlocks(t *testing.T) {
	h := widget.NewHost(newProvider(t, nil), MockClock{CurrentTime: fixedNow})

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Reload()
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Reload blocked without a running host")
	}
}

func TestHost_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	h := widget.NewHost(newProvider(t, &fixedBirth), MockClock{CurrentTime: fixedNow}, rec)
	h.After = neverAfter

	waitStopped(t, runHost(h, ctx))

	n, _ := rec.counts()
	assert.Zero(t, n)
}

func TestWriterRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := widget.NewWriterRenderer(&buf, config.FamilyInline)

	r.Render(widget.Entry{Instant: fixedNow, Age: "27.00001"})
	r.Render(widget.Entry{Instant: fixedNow.Add(config.WidgetTick), Age: "27.00002"})

	assert.Equal(t, "27.00001 years\n27.00002 years\n", buf.String())
}

func TestRendererFunc(t *testing.T) {
	var got widget.Entry
	widget.RendererFunc(func(e widget.Entry) { got = e }).Render(widget.Entry{Age: "1.00000"})
	assert.Equal(t, "1.00000", got.Age)
}
