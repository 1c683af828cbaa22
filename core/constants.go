package core

import (
	"errors"

	"github.com/searchktools/mini-server/core/http"
)

// Server limits
const (
	// PoolSize is the default number of connection workers
	PoolSize = 64

	// ReadBufferSize is the single-read window for request line and headers
	ReadBufferSize = http.MaxRequestSize
)

// Error definitions
var (
	ErrServerClosed = errors.New("server closed")
)
