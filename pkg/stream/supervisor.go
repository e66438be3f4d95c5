package stream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/thermolineco/thermoline/pkg/logger"
)

// defaultBackoff is the fixed pause between reconnect attempts. The retry
// loop is deliberately unbounded with a flat interval: the feed does not
// distinguish persistent outages from transient ones, so neither do we.
const defaultBackoff = time.Second

// State describes where the supervisor currently is in its connect/stream/
// retry cycle.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateStreaming
	StateBackingOff
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateBackingOff:
		return "backing off"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// SupervisorConfig is the configuration for a Supervisor.
type SupervisorConfig struct {
	// URL is the stream endpoint.
	URL string

	// Stop is the shared cancellation handle. Required.
	Stop *Stop

	// Handler receives every delivered reading. Required.
	Handler Handler

	// Backoff is the pause after a transport failure (defaults to 1s).
	Backoff time.Duration

	// DisableRetry surfaces the first transport failure instead of
	// reconnecting.
	DisableRetry bool

	// HTTPClient overrides the client used by each session.
	HTTPClient *http.Client

	// Logger is the structured logger (defaults to no-op).
	Logger *slog.Logger
}

// Supervisor wraps connection sessions in a reconnect loop. It runs until
// the Stop handle is signaled, restarting a fresh session — with a fresh
// decode buffer — after every transport-level failure. Protocol errors are
// not retried; they surface to the caller.
//
// At most one session is active at a time per supervisor.
type Supervisor struct {
	config *SupervisorConfig
	logger *slog.Logger
	state  atomic.Int32
}

// NewSupervisor validates the config and returns a Supervisor in the
// Disconnected state.
func NewSupervisor(config *SupervisorConfig) (*Supervisor, error) {
	if config.URL == "" {
		return nil, errors.New("stream URL is required")
	}
	if config.Stop == nil {
		return nil, errors.New("stop handle is required")
	}
	if config.Handler == nil {
		return nil, errors.New("handler is required")
	}

	if config.Backoff == 0 {
		config.Backoff = defaultBackoff
	}
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}

	return &Supervisor{
		config: config,
		logger: config.Logger,
	}, nil
}

// State returns the current lifecycle state. Safe to call from any
// goroutine, e.g. a UI polling for connection status.
func (sv *Supervisor) State() State {
	return State(sv.state.Load())
}

func (sv *Supervisor) setState(s State) {
	sv.state.Store(int32(s))
}

// Start runs the supervisor on its own goroutine and returns a channel that
// carries the single terminal outcome. The channel is distinct from the Stop
// handle so callers can tell "stopped by request" (ErrStopped) from
// "stopped due to unrecoverable error" from "still running" (no value yet).
func (sv *Supervisor) Start(ctx context.Context) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- sv.Run(ctx)
	}()
	return result
}

// Run blocks until the Stop handle is signaled (ErrStopped), the context is
// canceled, or a terminal error occurs. Transport failures are absorbed:
// the supervisor pauses for the back-off interval and starts a new session,
// indefinitely.
func (sv *Supervisor) Run(ctx context.Context) error {
	for {
		if sv.config.Stop.Signaled() {
			sv.setState(StateStopped)
			return ErrStopped
		}

		sv.setState(StateConnecting)
		sv.logger.Debug("starting stream session", "url", sv.config.URL)

		opts := []SessionOption{
			WithLogger(sv.logger),
			WithConnectFunc(func() { sv.setState(StateStreaming) }),
		}
		if sv.config.HTTPClient != nil {
			opts = append(opts, WithHTTPClient(sv.config.HTTPClient))
		}

		session := NewSession(sv.config.URL, sv.config.Stop, sv.config.Handler, opts...)
		err := session.Run(ctx)

		switch {
		case errors.Is(err, ErrStopped):
			sv.setState(StateStopped)
			sv.logger.Info("streaming stopped by request")
			return ErrStopped

		case IsTransport(err):
			sv.setState(StateDisconnected)

			// Re-check the stop handle so a shutdown racing a failure
			// does not trigger a useless retry.
			if sv.config.Stop.Signaled() {
				sv.setState(StateStopped)
				return ErrStopped
			}
			if sv.config.DisableRetry {
				return err
			}

			sv.setState(StateBackingOff)
			sv.logger.Warn("stream dropped, reconnecting",
				"backoff", sv.config.Backoff,
				"err", err,
			)

			select {
			case <-time.After(sv.config.Backoff):
			case <-sv.config.Stop.Done():
				sv.setState(StateStopped)
				return ErrStopped
			case <-ctx.Done():
				sv.setState(StateStopped)
				return ctx.Err()
			}

		case err == nil:
			// An indefinite session only ends nil if the caller configured
			// bounds on it; the supervisor never does. Loop defensively.
			sv.setState(StateDisconnected)

		default:
			// Protocol or context error: terminal, never silently retried.
			sv.setState(StateStopped)
			sv.logger.Error("stream ended with terminal error", "err", err)
			return err
		}
	}
}
