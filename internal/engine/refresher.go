package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-ageflow/internal/config"
)

// State describes the lifecycle of a Refresher.
type State int

const (
	// StateIdle means no birth date is known and no interval is active.
	StateIdle State = iota
	// StateRunning means exactly one interval is recomputing the age.
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// Refresher recomputes the age of a birth date at a fixed interval and
// hands each value to OnUpdate. Restarting it with a new birth date
// cancels the previous interval before the new one begins.
type Refresher struct {
	Clock    Clock
	Interval time.Duration

	// OnUpdate receives every computed age. It runs on the refresher
	// goroutine and must not block on a caller of Start or Stop.
	OnUpdate func(age float64)

	mu     sync.Mutex
	state  State
	birth  time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher returns an idle refresher using the interactive cadence.
func NewRefresher(clock Clock, onUpdate func(float64)) *Refresher {
	return &Refresher{
		Clock:    clock,
		Interval: config.InteractiveInterval,
		OnUpdate: onUpdate,
	}
}

// Start (re)starts the interval for birth. Any running interval is
// cancelled and its goroutine has exited before the new one is created.
// The first value is published immediately, then once per Interval.
func (r *Refresher) Start(ctx context.Context, birth time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()

	interval := r.Interval
	if interval <= 0 {
		interval = config.InteractiveInterval
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.birth = birth
	r.cancel = cancel
	r.done = done
	r.state = StateRunning

	slog.Debug(config.MsgRefresherStart,
		config.LogKeyComponent, config.CompRefresher,
		config.LogKeyDOB, birth.Format(config.DateFormatDisplay),
		config.LogKeyInterval, interval,
		config.LogKeyState, r.state.String())

	go r.loop(loopCtx, birth, interval, done)
}

// Stop cancels the active interval, if any, and returns to idle.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// State reports whether an interval is active.
func (r *Refresher) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reapLocked()
	return r.state
}

// BirthDate returns the birth date of the active interval.
func (r *Refresher) BirthDate() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reapLocked()
	return r.birth, r.state == StateRunning
}

// reapLocked returns to idle when the parent context ended the loop.
func (r *Refresher) reapLocked() {
	if r.done == nil {
		return
	}
	select {
	case <-r.done:
		r.cancel()
		r.cancel = nil
		r.done = nil
		r.state = StateIdle
	default:
	}
}

func (r *Refresher) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
	r.state = StateIdle

	slog.Debug(config.MsgRefresherStop,
		config.LogKeyComponent, config.CompRefresher,
		config.LogKeyState, r.state.String())
}

func (r *Refresher) loop(ctx context.Context, birth time.Time, interval time.Duration, done chan struct{}) {
	defer close(done)

	r.tick(birth)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(birth)
		}
	}
}

func (r *Refresher) tick(birth time.Time) {
	if r.OnUpdate == nil {
		return
	}
	r.OnUpdate(Age(birth, r.Clock.Now()))
}
