package core

import (
	"bufio"
	"errors"
	"net"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/searchktools/mini-server/core/http"
	"github.com/searchktools/mini-server/core/observability"
)

// RouteDefault is the monitor key for requests served by the default handler
const RouteDefault = "default"

// serveConn processes one connection to completion and records the outcome.
// It never returns an error: every failure is terminal only for this
// connection and is reported to the logger and the monitor.
func (e *Engine) serveConn(c net.Conn) {
	start := e.monitor.StartTrace()
	route, outcome := e.handleConn(c)
	e.monitor.EndTrace(route, start, outcome)
}

// handleConn reads, parses, routes and dispatches a single request. The
// connection, its writer and the read buffer are released on every path.
func (e *Engine) handleConn(c net.Conn) (route string, outcome observability.Outcome) {
	log := e.logger.With().Str("remote", remoteAddr(c)).Logger()

	buf := e.bytePool.Get(ReadBufferSize)
	w := bufio.NewWriter(c)

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("route", route).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			outcome = observability.OutcomeHandlerError
		}
		if err := w.Flush(); err != nil && outcome == observability.OutcomeOK {
			log.Warn().Err(err).Str("route", route).Msg("flush response failed")
			outcome = observability.OutcomeIOError
		}
		if err := c.Close(); err != nil {
			log.Debug().Err(err).Msg("close connection failed")
		}
		e.bytePool.Put(buf)
	}()

	req, err := http.ParseRequest(c, buf)
	if err != nil {
		if errors.Is(err, http.ErrMalformedRequest) {
			log.Debug().Err(err).Msg("rejecting malformed request")
			return e.notFound(log, w, observability.RouteMalformed, observability.OutcomeMalformed)
		}
		log.Warn().Err(err).Msg("read request failed")
		return observability.RouteIO, observability.OutcomeIOError
	}

	handler, ok := e.router.Resolve(req.Method, req.Path)
	if !ok {
		log.Debug().Str("method", req.Method).Str("path", req.Path).Msg("no route")
		return e.notFound(log, w, observability.RouteUnmatched, observability.OutcomeNotFound)
	}

	route = RouteDefault
	if e.router.Has(req.Method, req.Path) {
		route = req.String()
	}

	rw := http.NewResponseWriter(w)
	if err := handler(req, rw); err != nil {
		log.Error().
			Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Str("route", route).
			Msg("handler failed")
		return route, observability.OutcomeHandlerError
	}
	if !rw.HeaderWritten() {
		log.Warn().Str("route", route).Msg("handler wrote no response")
	}

	return route, observability.OutcomeOK
}

// notFound sends the built-in 404. A write failure turns the outcome into
// an I/O error.
func (e *Engine) notFound(log zerolog.Logger, w *bufio.Writer, route string, outcome observability.Outcome) (string, observability.Outcome) {
	if err := http.WriteNotFound(w); err != nil {
		log.Warn().Err(err).Msg("write 404 failed")
		return observability.RouteIO, observability.OutcomeIOError
	}
	return route, outcome
}

func remoteAddr(c net.Conn) string {
	if addr := c.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
