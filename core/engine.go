package core

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"github.com/searchktools/mini-server/core/http"
	"github.com/searchktools/mini-server/core/observability"
	"github.com/searchktools/mini-server/core/pools"
	"github.com/searchktools/mini-server/core/router"
)

// Engine accepts connections and serves one request per connection on a
// fixed-size worker pool.
//
// Routes must be registered before Run or Serve; the routing table is sealed
// when the accept loop starts.
type Engine struct {
	router   *router.Table
	pool     *pools.WorkerPool
	bytePool *pools.BytePool
	monitor  *observability.PerformanceMonitor
	logger   zerolog.Logger

	poolSize       int
	maxConnections int
	reusePort      bool

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// Option configures an Engine
type Option func(*Engine)

// WithPoolSize sets the number of connection workers
func WithPoolSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.poolSize = n
		}
	}
}

// WithLogger sets the logger used for connection and accept failures
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMonitor sets the monitor that receives every connection outcome
func WithMonitor(monitor *observability.PerformanceMonitor) Option {
	return func(e *Engine) {
		if monitor != nil {
			e.monitor = monitor
		}
	}
}

// WithMaxConnections caps concurrently open connections by pausing Accept.
// Zero, the default, leaves excess connections queued for a worker.
func WithMaxConnections(n int) Option {
	return func(e *Engine) {
		e.maxConnections = n
	}
}

// WithReusePort sets SO_REUSEPORT on the listening socket where supported
func WithReusePort(enabled bool) Option {
	return func(e *Engine) {
		e.reusePort = enabled
	}
}

// NewEngine creates a new engine instance
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		router:   router.NewTable(),
		bytePool: pools.NewBytePool(),
		monitor:  observability.NewPerformanceMonitor(),
		logger:   zerolog.New(os.Stderr).With().Timestamp().Logger(),
		poolSize: PoolSize,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.pool = pools.NewWorkerPool(e.poolSize)
	e.pool.PanicHandler = func(r any) {
		e.logger.Error().Interface("panic", r).Msg("connection task panicked")
	}

	return e
}

// Router returns the routing table
func (e *Engine) Router() *router.Table {
	return e.router
}

// Monitor returns the performance monitor
func (e *Engine) Monitor() *observability.PerformanceMonitor {
	return e.monitor
}

// Logger returns the engine logger
func (e *Engine) Logger() zerolog.Logger {
	return e.logger
}

// Handle registers a handler for an exact method and path
func (e *Engine) Handle(method, path string, handler http.Handler) {
	e.router.Register(method, path, handler)
}

// Default registers the handler used when no route matches
func (e *Engine) Default(handler http.Handler) {
	e.router.SetDefault(handler)
}

// GET registers a GET route
func (e *Engine) GET(path string, handler http.Handler) {
	e.Handle("GET", path, handler)
}

// POST registers a POST route
func (e *Engine) POST(path string, handler http.Handler) {
	e.Handle("POST", path, handler)
}

// PUT registers a PUT route
func (e *Engine) PUT(path string, handler http.Handler) {
	e.Handle("PUT", path, handler)
}

// DELETE registers a DELETE route
func (e *Engine) DELETE(path string, handler http.Handler) {
	e.Handle("DELETE", path, handler)
}

// PATCH registers a PATCH route
func (e *Engine) PATCH(path string, handler http.Handler) {
	e.Handle("PATCH", path, handler)
}

// HEAD registers a HEAD route
func (e *Engine) HEAD(path string, handler http.Handler) {
	e.Handle("HEAD", path, handler)
}

// OPTIONS registers an OPTIONS route
func (e *Engine) OPTIONS(path string, handler http.Handler) {
	e.Handle("OPTIONS", path, handler)
}

// Run listens on addr and serves until the listener is closed
func (e *Engine) Run(addr string) error {
	ln, err := listenConfig(e.reusePort).Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	return e.Serve(ln)
}

// Serve accepts connections on ln. Accept failures are logged and retried
// with backoff; only closing the listener ends the loop, with ErrServerClosed.
func (e *Engine) Serve(ln net.Listener) error {
	e.router.Seal()

	if e.maxConnections > 0 {
		ln = netutil.LimitListener(ln, e.maxConnections)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	e.listener = ln
	e.mu.Unlock()

	e.logger.Info().
		Str("addr", ln.Addr().String()).
		Int("workers", e.poolSize).
		Int("routes", e.router.Len()).
		Bool("default_handler", e.router.HasDefault()).
		Msg("server listening")

	var tempDelay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}

			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if tempDelay > time.Second {
				tempDelay = time.Second
			}
			e.logger.Warn().Err(err).Dur("retry_in", tempDelay).Msg("accept failed")
			time.Sleep(tempDelay)
			continue
		}
		tempDelay = 0

		if !e.pool.Submit(func() { e.serveConn(conn) }) {
			conn.Close()
			return ErrServerClosed
		}
	}
}

// Addr returns the listening address, or nil before Serve
func (e *Engine) Addr() net.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listener == nil {
		return nil
	}
	return e.listener.Addr()
}

// Close stops accepting connections. Connections already accepted or queued
// are still served; there is no drain timeout.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	ln := e.listener
	e.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	e.pool.Close()
	return err
}

// Wait blocks until Close has been called and every accepted connection
// has been served
func (e *Engine) Wait() {
	e.pool.Wait()
}
