// Package server publishes the anniversary calendar feed and a JSON listing
// over HTTP on the loopback interface.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-anniversary/internal/config"
)

// resource is one rendered document with its HTTP cache validators.
type resource struct {
	data         []byte
	mime         string
	etag         string
	lastModified string // RFC1123, as required by HTTP headers
}

func newResource(data []byte, mime string) *resource {
	hash := sha256.Sum256(data)
	return &resource{
		data:         data,
		mime:         mime,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
}

// Entry is one row of the JSON listing, in display order.
type Entry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	CalendarType string `json:"calendarType"`
	Icon         string `json:"icon"`
	Repeats      bool   `json:"repeats"`

	// Offset is nil when the stored date cannot be parsed.
	Offset    *int   `json:"offset"`
	Category  string `json:"category"`
	Countdown string `json:"countdown"`
	DateLabel string `json:"dateLabel"`
}

// FeedServer serves the last published calendar and listing.
// Reads are lock-free: publishers swap whole documents atomically.
type FeedServer struct {
	calendar atomic.Pointer[resource]
	listing  atomic.Pointer[resource]
	Port     string

	addr atomic.Value // string, set once listening
}

func NewFeedServer(port string) *FeedServer {
	return &FeedServer{Port: port}
}

// Handler returns the routes of the server.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleCalendar)
	mux.HandleFunc(config.RouteCalendar, s.handleCalendar)
	mux.HandleFunc(config.RouteListing, s.handleListing)
	return mux
}

// Start listens on the loopback interface and blocks until ctx is cancelled.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	ln, err := net.Listen("tcp", config.LocalhostBindAddr+config.AddrSeparator+s.Port)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
	s.addr.Store(ln.Addr().String())

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, ln.Addr().String(),
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Addr returns the bound address once Start is listening, or "".
func (s *FeedServer) Addr() string {
	if v, ok := s.addr.Load().(string); ok {
		return v
	}
	return ""
}

// PublishCalendar replaces the served iCalendar document.
func (s *FeedServer) PublishCalendar(ics []byte) {
	item := newResource(ics, config.MimeTextCalendar)
	s.calendar.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(ics),
		config.LogKeyETag, item.etag,
	)
}

// PublishListing replaces the served JSON listing.
func (s *FeedServer) PublishListing(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrListingEncode, err)
	}
	s.listing.Store(newResource(data, config.MimeJSON))

	slog.Debug(config.MsgListingUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyCount, len(entries),
	)
	return nil
}

func (s *FeedServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != config.RouteRoot && r.URL.Path != config.RouteCalendar {
		http.NotFound(w, r)
		return
	}
	serve(w, r, s.calendar.Load())
}

func (s *FeedServer) handleListing(w http.ResponseWriter, r *http.Request) {
	serve(w, r, s.listing.Load())
}

// serve writes item with conditional GET support.
func serve(w http.ResponseWriter, r *http.Request, item *resource) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, item.mime)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		clientTime, err1 := time.Parse(http.TimeFormat, since)
		serverTime, err2 := time.Parse(http.TimeFormat, item.lastModified)
		if err1 == nil && err2 == nil && !serverTime.After(clientTime) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
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
