// Package sensord implements a simulated temperature sensor feed. It serves
// the same HTTP surface the thermoline client consumes: a JSON batch at
// /history and a live SSE feed at /stream, backed by a bounded random walk.
package sensord

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/thermolineco/thermoline/pkg/logger"
	"github.com/thermolineco/thermoline/pkg/sensor"
)

// historyLimit caps how many readings the in-memory history retains.
const historyLimit = 1000

// Config holds the simulator settings.
type Config struct {
	// ListenAddr is the address to serve on (e.g. ":3000").
	ListenAddr string

	// Interval is the delay between generated readings.
	Interval time.Duration

	// StartTemp seeds the random walk.
	StartTemp float64
}

// Server is the simulated sensor daemon.
type Server struct {
	config Config
	logger *slog.Logger
	app    *fiber.App
	gen    *Generator
	hub    *hub

	interval atomicDuration

	mu      sync.Mutex
	history []sensor.Reading

	done chan struct{}
	once sync.Once
}

// atomicDuration is a mutex-guarded duration that the generator loop reads
// every tick, so interval changes apply without restarting the server.
type atomicDuration struct {
	mu sync.Mutex
	d  time.Duration
}

func (a *atomicDuration) get() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.d
}

func (a *atomicDuration) set(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.d = d
}

// NewServer creates a new simulator server.
func NewServer(config Config, log *slog.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		logger: log,
		app:    app,
		gen:    NewGenerator(config.StartTemp),
		hub:    newHub(),
		done:   make(chan struct{}),
	}
	s.interval.set(config.Interval)

	app.Get("/ping", s.handlePing)
	app.Get("/history", s.handleHistory)
	app.Get("/stream", s.handleStream)

	return s
}

// Run starts the generator loop and serves on the configured address.
// It blocks until Shutdown is called or the listener fails.
func (s *Server) Run() error {
	s.logger.Info("starting sensor simulator",
		"listen", s.config.ListenAddr,
		"interval", s.interval.get().String(),
		"start_temp", s.config.StartTemp,
	)

	go s.generate()

	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown stops the generator and gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.once.Do(func() { close(s.done) })
	return s.app.Shutdown()
}

// UpdateInterval changes the delay between generated readings. Takes effect
// on the next tick.
func (s *Server) UpdateInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.interval.set(d)
	s.logger.Info("updated emit interval", "interval", d.String())
}

// Subscribers returns the number of connected stream clients.
func (s *Server) Subscribers() int {
	return s.hub.count()
}

// generate runs the random walk, recording each reading in the history and
// broadcasting it to stream subscribers.
func (s *Server) generate() {
	timer := time.NewTimer(s.interval.get())
	defer timer.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-timer.C:
		}

		r := sensor.Reading{
			Temperature: s.gen.Next(),
			Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		}
		s.record(r)
		s.hub.broadcast(r)

		timer.Reset(s.interval.get())
	}
}

// record appends a reading to the capped history.
func (s *Server) record(r sensor.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, r)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
}

// History returns a copy of the recorded readings in arrival order.
func (s *Server) History() []sensor.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sensor.Reading(nil), s.history...)
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleHistory returns all recorded readings as a JSON array.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	return c.JSON(s.History())
}

// handleStream serves the live SSE feed.
//
// Uses io.Pipe + SetBodyStream instead of SetBodyStreamWriter: with io.Pipe,
// pw.Write blocks until fasthttp's chunked writer consumes the data and
// flushes it to the TCP socket, giving true per-event streaming instead of
// buffering events in memory.
func (s *Server) handleStream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	pr, pw := io.Pipe()
	go s.streamToPipe(pw)

	// Unknown size (-1) triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// streamToPipe subscribes to the hub and writes each reading to the pipe as
// an SSE event until the client goes away or the server shuts down.
func (s *Server) streamToPipe(pw *io.PipeWriter) {
	defer pw.Close()

	ch, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	s.logger.Debug("stream client connected", "subscribers", s.hub.count())

	for {
		select {
		case <-s.done:
			return
		case r, ok := <-ch:
			if !ok {
				return
			}

			payload, err := json.Marshal(r)
			if err != nil {
				s.logger.Error("marshaling reading", "error", err)
				continue
			}

			frame := fmt.Sprintf("id: %s\nevent: reading\ndata: %s\n\n", uuid.NewString(), payload)
			if _, err := io.WriteString(pw, frame); err != nil {
				// Client disconnected.
				s.logger.Debug("stream client gone", "error", err)
				return
			}
		}
	}
}
