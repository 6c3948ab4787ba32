// Package server exposes the widget on localhost so that status bars,
// scripts and calendar clients can read the same timeline the tray shows.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-ageflow/internal/config"
	"github.com/tartampluch/go-ageflow/internal/engine"
	"github.com/tartampluch/go-ageflow/internal/store"
	"github.com/tartampluch/go-ageflow/internal/widget"
)

// cacheItem stores a rendered payload and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

func newCacheItem(data []byte, modified time.Time) *cacheItem {
	hash := sha256.Sum256(data)
	return &cacheItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: modified.UTC().Format(http.TimeFormat),
	}
}

// TimelineServer serves the widget timeline, the entry currently shown
// and the birthday calendar.
//
// It is a widget.TimelineObserver and a widget.Renderer: the host pushes
// each timeline and each displayed entry, and handlers only read the
// cached copies.
type TimelineServer struct {
	// timeline and current use atomic.Pointer for lock-free reads: the
	// host writes a few times per minute, clients may poll much faster.
	timeline atomic.Pointer[cacheItem]
	current  atomic.Pointer[cacheItem]

	Port  string
	Store store.DateStore
	Clock engine.Clock
}

// NewTimelineServer creates a server bound to localhost:port. st and
// clock back the calendar route.
func NewTimelineServer(port string, st store.DateStore, clock engine.Clock) *TimelineServer {
	return &TimelineServer{
		Port:  port,
		Store: st,
		Clock: clock,
	}
}

// Handler returns the route table.
func (s *TimelineServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteTimeline, s.handleTimeline)
	mux.HandleFunc(config.RouteAge, s.handleAge)
	mux.HandleFunc(config.RouteCalendar, s.handleCalendar)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *TimelineServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return fmt.Errorf("%s", config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// ObserveTimeline implements widget.TimelineObserver.
func (s *TimelineServer) ObserveTimeline(tl widget.Timeline) {
	data, err := json.Marshal(tl)
	if err != nil {
		slog.Error(config.ErrJSONEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		return
	}

	item := newCacheItem(data, time.Now())
	s.timeline.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, item.etag,
	)
}

// Render implements widget.Renderer.
func (s *TimelineServer) Render(e widget.Entry) {
	s.current.Store(newCacheItem([]byte(e.Age+"\n"), e.Instant))
}

func (s *TimelineServer) handleTimeline(w http.ResponseWriter, r *http.Request) {
	serveCached(w, r, s.timeline.Load(), config.MimeJSON)
}

func (s *TimelineServer) handleAge(w http.ResponseWriter, r *http.Request) {
	serveCached(w, r, s.current.Load(), config.MimeText)
}

// handleCalendar renders the feed on demand: it follows the store, not
// the timeline, and is requested rarely.
func (s *TimelineServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r) {
		return
	}

	var (
		birth time.Time
		ok    bool
		err   error
	)
	if s.Store != nil {
		birth, ok, err = s.Store.BirthDate(r.Context())
	}
	if err != nil {
		slog.Warn(config.ErrStoreRead,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
	if !ok {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgNoBirthDate, http.StatusServiceUnavailable)
		return
	}

	clock := s.Clock
	if clock == nil {
		clock = engine.RealClock{}
	}
	now := clock.Now()
	data, err := engine.BuildCalendar(birth, now)
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	serveItem(w, r, newCacheItem(data, now), config.MimeTextCalendar)
}

// allowMethod rejects anything but GET and HEAD.
func allowMethod(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// serveCached answers 503 until the host has published a first value.
func serveCached(w http.ResponseWriter, r *http.Request, item *cacheItem, mime string) {
	if !allowMethod(w, r) {
		return
	}
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}
	serveItem(w, r, item, mime)
}

// serveItem writes item with HTTP caching support.
func serveItem(w http.ResponseWriter, r *http.Request, item *cacheItem, mime string) {
	w.Header().Set(config.HeaderContentType, mime)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	// Validation is by content only. Last-Modified is informational: a
	// birth date moved earlier or a reload within the same second would
	// otherwise satisfy If-Modified-Since with a changed body.
	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
