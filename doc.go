/*
Package miniserver is a small HTTP/1.1 server built directly on TCP sockets.

Each accepted connection carries exactly one request. The request is parsed
from a single bounded read, dispatched to the handler registered for its
exact method and path (or to a default handler), and the connection is
closed once the handler returns. Connections are served by a fixed pool of
workers fed from an unbounded queue.

# Quick Start

	package main

	import (
		"github.com/searchktools/mini-server/app"
		"github.com/searchktools/mini-server/config"
		"github.com/searchktools/mini-server/core/http"
		"github.com/searchktools/mini-server/handlers"
	)

	func main() {
		cfg := config.New()
		application := app.New(cfg)

		engine := application.Engine()
		engine.Default(handlers.Static(cfg.PublicDir))
		engine.GET("/hello", func(req *http.Request, w *http.ResponseWriter) error {
			body := []byte("Hello, " + req.QueryParam("name"))
			if err := w.Answer("text/plain", int64(len(body))); err != nil {
				return err
			}
			_, err := w.Write(body)
			return err
		})

		application.Run()
	}

Routes must be registered before the server starts. Requests that cannot be
parsed, and requests with no matching route and no default handler, get a
bare 404 response.

# Modules

  - app: process lifecycle, logging setup and signal handling
  - config: flags, JSON file and MINI_* environment configuration
  - core: engine, accept loop and per-connection processing
  - core/http: request parsing, parameter decoding and response writing
  - core/router: exact (method, path) routing table
  - core/pools: worker pool and read buffer pool
  - core/observability: per-route outcome and latency recording
  - handlers: static files, time templates and statistics

Configuration

	-port       listen port (default 9999, MINI_PORT)
	-pool-size  number of workers (default 64, MINI_POOL_SIZE)
	-public     directory served by the static handler (MINI_PUBLIC)
	-env        development or production (MINI_ENV)
	-log-level  debug, info, warn or error (MINI_LOG_LEVEL)
	-max-conns  limit on simultaneous connections (MINI_MAX_CONNS)
	-config     JSON configuration file
*/
package miniserver
