package app

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/searchktools/mini-server/config"
	"github.com/searchktools/mini-server/core"
)

// App ties configuration, logging and the engine together
type App struct {
	cfg    *config.Config
	engine *core.Engine
	logger zerolog.Logger
}

// New creates an application instance with an engine built from cfg
func New(cfg *config.Config) *App {
	logger := NewLogger(cfg)

	engine := core.NewEngine(
		core.WithPoolSize(cfg.PoolSize),
		core.WithMaxConnections(cfg.MaxConnections),
		core.WithLogger(logger),
	)

	return NewWithEngine(cfg, engine)
}

// NewWithEngine creates an application instance with a pre-configured engine
func NewWithEngine(cfg *config.Config, engine *core.Engine) *App {
	return &App{
		cfg:    cfg,
		engine: engine,
		logger: engine.Logger(),
	}
}

// NewLogger builds the process logger: human-readable console output in
// development, JSON lines in production
func NewLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Production() {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	return logger.Level(level).With().Timestamp().Logger()
}

// Engine returns the underlying engine for route registration
func (a *App) Engine() *core.Engine {
	return a.engine
}

// Logger returns the application logger
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// Run starts the server and blocks until it is shut down by a signal. A
// failure to start is fatal.
func (a *App) Run() {
	go a.awaitSignal()

	a.logger.Info().
		Int("port", a.cfg.Port).
		Str("env", a.cfg.Env).
		Int("pool_size", a.cfg.PoolSize).
		Str("public", a.cfg.PublicDir).
		Msg("starting server")

	if err := a.engine.Run(a.cfg.Addr()); err != nil && !errors.Is(err, core.ErrServerClosed) {
		a.logger.Fatal().Err(err).Msg("server startup failed")
	}

	// Let queued connections finish before returning
	a.engine.Wait()
	a.logger.Info().Msg("server stopped")
}

func (a *App) awaitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	a.logger.Info().Str("signal", sig.String()).Msg("shutting down")
	a.logger.Info().Msg("\n" + a.engine.StatsText())

	if err := a.engine.Close(); err != nil {
		a.logger.Error().Err(err).Msg("close engine")
	}
}
