package stream

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/thermolineco/thermoline/pkg/logger"
	"github.com/thermolineco/thermoline/pkg/sensor"
	"github.com/thermolineco/thermoline/pkg/sse"
	"github.com/thermolineco/thermoline/pkg/utils"
)

const (
	// defaultConnectTimeout bounds dialing and waiting for response headers.
	defaultConnectTimeout = 3 * time.Second

	// readChunkSize is the read buffer handed to the response body. The
	// decoder is granularity-independent, so the size only affects syscall
	// count, never framing.
	readChunkSize = 4 * 1024
)

// Handler receives each successfully decoded reading, synchronously and in
// arrival order. It runs on the session's goroutine: a handler that blocks
// stalls stream processing, so hand off to a channel or queue if the
// downstream work is slow.
type Handler func(sensor.Reading)

// Session owns one physical connection attempt against the stream endpoint.
// It opens the connection, feeds received bytes through a fresh SSE decoder,
// maps payloads into readings, and delivers them to the handler until the
// stream ends, fails, or the Stop handle is signaled.
type Session struct {
	url        string
	stop       *Stop
	handler    Handler
	httpClient *http.Client
	logger     *slog.Logger
	maxEvents  int
	deadline   time.Duration
	onConnect  func()
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHTTPClient overrides the HTTP client. The default dials with a short
// connect timeout and keeps the read side open-ended so an idle-but-healthy
// feed is never dropped.
func WithHTTPClient(hc *http.Client) SessionOption {
	return func(s *Session) {
		s.httpClient = hc
	}
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// WithMaxEvents makes the session stop itself cleanly after delivering n
// readings. Zero means unbounded.
func WithMaxEvents(n int) SessionOption {
	return func(s *Session) {
		s.maxEvents = n
	}
}

// WithDeadline makes the session stop itself cleanly after the given
// wall-clock duration. Zero means no deadline.
func WithDeadline(d time.Duration) SessionOption {
	return func(s *Session) {
		s.deadline = d
	}
}

// WithConnectFunc registers a callback invoked once the endpoint has
// accepted the connection, before any reading is delivered.
func WithConnectFunc(fn func()) SessionOption {
	return func(s *Session) {
		s.onConnect = fn
	}
}

// NewSession creates a session for one connection attempt. The Stop handle
// is observed, never mutated; pass the same handle to the supervisor and
// every session it spawns.
func NewSession(url string, stop *Stop, handler Handler, opts ...SessionOption) *Session {
	s := &Session{
		url:        url,
		stop:       stop,
		handler:    handler,
		httpClient: defaultHTTPClient(),
		logger:     logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func defaultHTTPClient() *http.Client {
	return NewHTTPClient(defaultConnectTimeout)
}

// NewHTTPClient builds a client suited to long-lived streams: dialing and
// waiting for response headers are bounded by connectTimeout, but there is
// no overall request timeout, so an idle-but-healthy feed is never dropped.
func NewHTTPClient(connectTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	return &http.Client{
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
			ResponseHeaderTimeout: connectTimeout,
		},
	}
}

// Run performs the connection attempt and blocks until it ends. Outcomes:
//
//   - nil: the session reached its own bound (max events or deadline), or a
//     bounded session's stream ended.
//   - ErrStopped: the Stop handle was signaled.
//   - *ProtocolError: the endpoint answered with a non-success status.
//   - *TransportError: a connection-level failure, including the server
//     closing an indefinite stream. Retryable by the supervisor.
//
// Cancellation is cooperative but prompt: the Stop handle cancels the
// request context, which unblocks an in-flight body read, so the session
// returns within one read cycle of the signal.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-s.stop.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	var expired atomic.Bool
	if s.deadline > 0 {
		timer := time.AfterFunc(s.deadline, func() {
			expired.Store(true)
			cancel()
		})
		defer timer.Stop()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return s.classify(err, &expired)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &ProtocolError{Status: resp.StatusCode}
	}

	s.logger.Debug("stream connected", "url", s.url)
	if s.onConnect != nil {
		s.onConnect()
	}

	// Fresh decoder per physical connection: a partial frame from a dropped
	// connection must never leak into the next attempt.
	dec := sse.NewDecoder()
	buf := make([]byte, readChunkSize)
	delivered := 0

	for {
		if s.stop.Signaled() {
			return ErrStopped
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, ev := range dec.Feed(buf[:n]) {
				for _, payload := range ev.Data {
					reading, perr := sensor.ParseReading(payload)
					if perr != nil {
						// Best-effort policy: one corrupt event must never
						// take the stream down.
						s.logger.Debug("dropping malformed payload",
							"err", perr,
							"payload", utils.Truncate(payload, 120),
						)
						continue
					}

					s.handler(reading)
					delivered++

					if s.maxEvents > 0 && delivered >= s.maxEvents {
						s.logger.Debug("event bound reached", "delivered", delivered)
						return nil
					}
				}
			}
		}

		if readErr != nil {
			return s.classifyRead(readErr, &expired)
		}
	}
}

// classify maps a request-phase error to the session's error taxonomy.
func (s *Session) classify(err error, expired *atomic.Bool) error {
	switch {
	case s.stop.Signaled():
		return ErrStopped
	case expired.Load():
		return nil
	default:
		return &TransportError{Err: err}
	}
}

// classifyRead maps a body-read error. EOF on a bounded session is the
// natural end of a finite stream; on an indefinite session it means the
// server dropped us, which is a transport-level event for the supervisor
// to recover from.
func (s *Session) classifyRead(err error, expired *atomic.Bool) error {
	switch {
	case s.stop.Signaled():
		return ErrStopped
	case expired.Load():
		return nil
	case errors.Is(err, io.EOF):
		if s.maxEvents > 0 || s.deadline > 0 {
			return nil
		}
		return &TransportError{Err: io.ErrUnexpectedEOF}
	default:
		return &TransportError{Err: err}
	}
}
