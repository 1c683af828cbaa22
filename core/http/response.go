package http

import (
	"bufio"
	"errors"
	"io"
	"strconv"
)

// Status lines
const (
	StatusOK       = "HTTP/1.1 200 OK"
	StatusNotFound = "HTTP/1.1 404 Not Found"
)

var ErrHeaderWritten = errors.New("response header already written")

// WriteHeaders writes the status line and the fixed header set. Content-Type
// is skipped for 404 responses and when contentType is empty. The caller
// writes exactly contentLength body bytes afterwards and flushes.
func WriteHeaders(w io.Writer, statusLine, contentType string, contentLength int64) error {
	buf := make([]byte, 0, 128)

	buf = append(buf, statusLine...)
	buf = append(buf, "\r\n"...)
	if contentType != "" && statusLine != StatusNotFound {
		buf = append(buf, "Content-Type: "...)
		buf = append(buf, contentType...)
		buf = append(buf, "\r\n"...)
	}
	buf = append(buf, "Content-Length: "...)
	buf = strconv.AppendInt(buf, contentLength, 10)
	buf = append(buf, "\r\nConnection: close\r\n\r\n"...)

	_, err := w.Write(buf)
	return err
}

// WriteNotFound writes a complete 404 response and flushes it
func WriteNotFound(w *bufio.Writer) error {
	if err := WriteHeaders(w, StatusNotFound, "", 0); err != nil {
		return err
	}
	return w.Flush()
}

// ResponseWriter is the response sink handed to handlers
type ResponseWriter struct {
	w             *bufio.Writer
	headerWritten bool
	written       int64
}

// NewResponseWriter wraps a buffered connection writer
func NewResponseWriter(w *bufio.Writer) *ResponseWriter {
	return &ResponseWriter{w: w}
}

// WriteHeader writes the status line and headers. It may be called once.
func (rw *ResponseWriter) WriteHeader(statusLine, contentType string, contentLength int64) error {
	if rw.headerWritten {
		return ErrHeaderWritten
	}
	rw.headerWritten = true
	return WriteHeaders(rw.w, statusLine, contentType, contentLength)
}

// Answer writes a 200 header block; the body follows via Write or ReadFrom
func (rw *ResponseWriter) Answer(contentType string, contentLength int64) error {
	return rw.WriteHeader(StatusOK, contentType, contentLength)
}

// NotFound writes a complete 404 response and flushes
func (rw *ResponseWriter) NotFound() error {
	if rw.headerWritten {
		return ErrHeaderWritten
	}
	rw.headerWritten = true
	return WriteNotFound(rw.w)
}

func (rw *ResponseWriter) Write(p []byte) (int, error) {
	n, err := rw.w.Write(p)
	rw.written += int64(n)
	return n, err
}

func (rw *ResponseWriter) ReadFrom(r io.Reader) (int64, error) {
	n, err := rw.w.ReadFrom(r)
	rw.written += n
	return n, err
}

func (rw *ResponseWriter) Flush() error {
	return rw.w.Flush()
}

// HeaderWritten reports whether a status line has been sent
func (rw *ResponseWriter) HeaderWritten() bool {
	return rw.headerWritten
}

// Written returns the number of body bytes written so far
func (rw *ResponseWriter) Written() int64 {
	return rw.written
}
