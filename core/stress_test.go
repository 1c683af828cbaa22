package core

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/searchktools/mini-server/core/http"
	"github.com/searchktools/mini-server/core/observability"
)

func TestStressMixedTraffic(t *testing.T) {
	if testing.Short() {
		t.Skip("stress test skipped in short mode")
	}

	const clients = 200

	e, addr := startEngine(t, func(e *Engine) {
		e.GET("/hello", text("hello"))
		e.POST("/login", func(req *http.Request, w *http.ResponseWriter) error {
			body := []byte(http.FirstParam(req.PostParam("login"), "login"))
			if err := w.Answer("text/plain", int64(len(body))); err != nil {
				return err
			}
			_, err := w.Write(body)
			return err
		})
	}, WithPoolSize(8))

	var wg sync.WaitGroup
	errs := make(chan string, clients)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			var raw, want string
			switch i % 3 {
			case 0:
				raw, want = "GET /hello HTTP/1.1\r\nHost: x\r\n\r\n", "hello"
			case 1:
				form := fmt.Sprintf("login=user%d", i)
				raw = fmt.Sprintf("POST /login HTTP/1.1\r\nContent-Length: %d\r\n\r\n%s", len(form), form)
				want = fmt.Sprintf("user%d", i)
			default:
				raw, want = "GET /missing HTTP/1.1\r\n\r\n", notFoundResponse
			}

			resp, err := exchange(addr, raw)
			if err != nil {
				errs <- fmt.Sprintf("client %d: %v", i, err)
				return
			}
			if !strings.HasSuffix(resp, want) {
				errs <- fmt.Sprintf("client %d: expected suffix %q, got %q", i, want, resp)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}

	waitForRequests(t, e, clients)
	if got := e.Monitor().Outcomes(observability.RouteUnmatched)[observability.OutcomeNotFound]; got != clients/3 {
		t.Errorf("Expected %d unmatched requests, got %d", clients/3, got)
	}
	if stats := e.Stats(); stats.Workers.TasksPanicked != 0 {
		t.Errorf("Expected no panics, got %d", stats.Workers.TasksPanicked)
	}
}
