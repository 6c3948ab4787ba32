package widget

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-ageflow/internal/config"
	"github.com/tartampluch/go-ageflow/internal/engine"
)

// Renderer displays one entry. It is called from the host goroutine.
type Renderer interface {
	Render(Entry)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Entry)

// Render calls f(e).
func (f RendererFunc) Render(e Entry) { f(e) }

// TimelineObserver is notified of every timeline the host requests,
// before its first entry is rendered.
type TimelineObserver interface {
	ObserveTimeline(Timeline)
}

// Host plays the role of the OS widget host: it requests a timeline,
// shows each entry when its instant arrives, then waits for the refresh
// hint before asking again. Timelines are never recomputed once received.
type Host struct {
	Provider  *Provider
	Renderers []Renderer
	Observers []TimelineObserver
	Clock     engine.Clock

	// After returns a channel that fires after d; time.After by default.
	After func(d time.Duration) <-chan time.Time

	reload chan struct{}
}

// NewHost wires a host for p.
func NewHost(p *Provider, clock engine.Clock, renderers ...Renderer) *Host {
	return &Host{
		Provider:  p,
		Renderers: renderers,
		Clock:     clock,
		After:     time.After,
		reload:    make(chan struct{}, config.ChannelBufferSize),
	}
}

// Reload drops the current timeline and requests a new one immediately.
// It never blocks; repeated calls before the host reacts collapse into one.
func (h *Host) Reload() {
	select {
	case h.reload <- struct{}{}:
	default:
	}
}

// Run drives the refresh loop until ctx is done.
func (h *Host) Run(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWidget)
	log.Info(config.MsgHostStart)

	for {
		tl := h.Provider.Timeline(ctx)
		for _, o := range h.Observers {
			o.ObserveTimeline(tl)
		}

		if !h.play(ctx, tl) {
			if ctx.Err() != nil {
				log.Info(config.MsgHostStop)
				return
			}
			log.Debug(config.MsgHostReload)
			continue
		}

		switch h.wait(ctx, tl.RefreshAfter) {
		case waitDone:
			log.Info(config.MsgHostStop)
			return
		case waitReload:
			log.Debug(config.MsgHostReload)
		}
	}
}

// play renders the entries at their instants. It returns false when
// interrupted by a reload or by ctx.
func (h *Host) play(ctx context.Context, tl Timeline) bool {
	for _, e := range tl.Entries {
		if h.wait(ctx, e.Instant) != waitElapsed {
			return false
		}
		for _, r := range h.Renderers {
			r.Render(e)
		}
	}
	return true
}

type waitResult int

const (
	waitElapsed waitResult = iota
	waitReload
	waitDone
)

func (h *Host) wait(ctx context.Context, until time.Time) waitResult {
	// Give priority to cancellation and reloads already pending.
	select {
	case <-ctx.Done():
		return waitDone
	case <-h.reload:
		return waitReload
	default:
	}

	d := until.Sub(h.Clock.Now())
	if d <= 0 {
		return waitElapsed
	}

	after := h.After
	if after == nil {
		after = time.After
	}

	select {
	case <-ctx.Done():
		return waitDone
	case <-h.reload:
		return waitReload
	case <-after(d):
		return waitElapsed
	}
}
