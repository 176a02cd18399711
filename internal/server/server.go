// Package server publishes the rendered board and the anniversary calendar
// over HTTP.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/engine"
)

// cacheItem stores a published document and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// Server serves the last published board and calendar.
type Server struct {
	// Reads are frequent and publications rare: atomic pointers keep the
	// HTTP path lock-free.
	board    atomic.Pointer[cacheItem]
	calendar atomic.Pointer[cacheItem]

	Addr    string
	Metrics *Metrics
}

// NewServer creates a server listening on addr ("host:port").
func NewServer(addr string) *Server {
	return &Server{
		Addr:    addr,
		Metrics: NewMetrics(),
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteBoard, s.serveCached(config.RouteBoard, &s.board, config.MimeJSON))
	mux.HandleFunc(config.RouteCalendar, s.serveCached(config.RouteCalendar, &s.calendar, config.MimeTextCalendar))
	mux.Handle(config.RouteMetrics, promhttp.HandlerFor(s.Metrics.Registry(), promhttp.HandlerOpts{}))
	return mux
}

// Start runs the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.Addr == "" {
		return errors.New(config.ErrServerAddr)
	}

	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, s.Addr,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// PublishBoard encodes the board as JSON and replaces the served copy.
func (s *Server) PublishBoard(trigger string, board engine.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrBoardEncode, err)
	}
	store(&s.board, config.RouteBoard, data)
	s.Metrics.ObserveRender(trigger, board)
	return nil
}

// PublishCalendar replaces the served iCalendar document.
func (s *Server) PublishCalendar(data []byte) {
	store(&s.calendar, config.RouteCalendar, data)
}

func store(slot *atomic.Pointer[cacheItem], route string, data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	// Readers see either the old or the new complete item, never a partial one.
	slot.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyPath, route,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// serveCached serves a published document with HTTP caching support.
func (s *Server) serveCached(route string, slot *atomic.Pointer[cacheItem], mime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := s.writeCached(w, r, slot.Load(), mime)
		s.Metrics.observeRequest(route, status)
	}
}

func (s *Server) writeCached(w http.ResponseWriter, r *http.Request, item *cacheItem, mime string) int {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return http.StatusMethodNotAllowed
	}

	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return http.StatusServiceUnavailable
	}

	w.Header().Set(config.HeaderContentType, mime)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		if match == item.etag {
			w.WriteHeader(http.StatusNotModified)
			return http.StatusNotModified
		}
	} else if notModifiedSince(r.Header.Get(config.HeaderIfModifiedSince), item.lastModified) {
		w.WriteHeader(http.StatusNotModified)
		return http.StatusNotModified
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
	return http.StatusOK
}

// notModifiedSince reports whether the content is not newer than the client copy.
func notModifiedSince(since, lastModified string) bool {
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
