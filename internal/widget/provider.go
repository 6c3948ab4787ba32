// Package widget produces the lock-screen style widget surface: an
// immutable timeline of precomputed age strings and the host loop that
// displays them.
package widget

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-ageflow/internal/config"
	"github.com/tartampluch/go-ageflow/internal/engine"
	"github.com/tartampluch/go-ageflow/internal/store"
)

// Entry is one precomputed state of the widget.
type Entry struct {
	Instant time.Time `json:"instant"`
	Age     string    `json:"age"`
}

// Timeline is an ordered, finite sequence of entries plus the earliest
// time the host should ask for a new one.
type Timeline struct {
	Entries      []Entry   `json:"entries"`
	RefreshAfter time.Time `json:"refresh_after"`
}

// Provider answers the three requests of a widget host. It never fails:
// without a birth date it returns sentinel entries.
type Provider struct {
	Store store.DateStore
	Clock engine.Clock

	Entries      int
	Tick         time.Duration
	RefreshDelay time.Duration
}

// NewProvider returns a provider with the standard widget cadence.
func NewProvider(st store.DateStore, clock engine.Clock) *Provider {
	return &Provider{
		Store:        st,
		Clock:        clock,
		Entries:      config.WidgetEntries,
		Tick:         config.WidgetTick,
		RefreshDelay: config.WidgetRefreshDelay,
	}
}

// Placeholder is shown before any real data is available. It does not
// touch the store.
func (p *Provider) Placeholder() Entry {
	return Entry{Instant: p.Clock.Now(), Age: config.AgePlaceholderWidget}
}

// Snapshot returns a single entry for the current instant.
func (p *Provider) Snapshot(ctx context.Context) Entry {
	now := p.Clock.Now()
	birth, ok := p.birthDate(ctx)
	return entryAt(now, birth, ok)
}

// Timeline returns p.Entries entries spaced p.Tick apart, starting now.
// Each age is computed with the entry's own instant. RefreshAfter is
// now+RefreshDelay, moved to one tick after the last entry when it would
// not fall strictly after it.
func (p *Provider) Timeline(ctx context.Context) Timeline {
	now := p.Clock.Now()
	birth, ok := p.birthDate(ctx)

	n := p.Entries
	if n <= 0 {
		n = config.WidgetEntries
	}
	tick := p.Tick
	if tick <= 0 {
		tick = config.WidgetTick
	}

	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, entryAt(now.Add(time.Duration(i)*tick), birth, ok))
	}

	last := entries[len(entries)-1].Instant
	refresh := now.Add(p.RefreshDelay)
	if !refresh.After(last) {
		refresh = last.Add(tick)
	}

	msg := config.MsgTimelineBuilt
	if !ok {
		msg = config.MsgTimelineUnset
	}
	slog.Debug(msg,
		config.LogKeyComponent, config.CompWidget,
		config.LogKeyEntries, len(entries),
		config.LogKeyRefresh, refresh)

	return Timeline{Entries: entries, RefreshAfter: refresh}
}

// birthDate reads the store, treating errors like an unset value so the
// host always receives a valid timeline.
func (p *Provider) birthDate(ctx context.Context) (time.Time, bool) {
	if p.Store == nil {
		return time.Time{}, false
	}
	birth, ok, err := p.Store.BirthDate(ctx)
	if err != nil {
		slog.Warn(config.ErrStoreRead,
			config.LogKeyComponent, config.CompWidget,
			config.LogKeyError, err)
		return time.Time{}, false
	}
	return birth, ok
}

func entryAt(instant, birth time.Time, ok bool) Entry {
	if !ok {
		return Entry{Instant: instant, Age: config.AgeSentinelWidget}
	}
	return Entry{Instant: instant, Age: engine.FormatWidget(engine.Age(birth, instant))}
}
