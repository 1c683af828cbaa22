package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// MaxRequestSize bounds the request line plus headers; both must arrive in
// the first read of this many bytes
const MaxRequestSize = 4096

const requestLineParts = 3

// Header names the parser looks up
const (
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
)

var (
	ErrMalformedRequest = errors.New("malformed HTTP request")
	ErrUnknownCharset   = errors.New("unknown charset")
)

var (
	crlf     = []byte("\r\n")
	crlfCRLF = []byte("\r\n\r\n")
)

// ParseRequest reads one request from r using buf as the read window.
//
// A single Read fills buf; the request line and header block must be
// complete within it. The bytes already read are replayed in front of r, so
// the returned Request.Body continues exactly where parsing stopped.
// Structural problems wrap ErrMalformedRequest, anything else is an I/O error.
func ParseRequest(r io.Reader, buf []byte) (*Request, error) {
	n, err := r.Read(buf)
	if n == 0 {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read request: %w", err)
	}
	data := buf[:n]

	// Request line
	lineEnd := bytes.Index(data, crlf)
	if lineEnd == -1 {
		return nil, malformed("request line not terminated within %d bytes", len(buf))
	}

	parts := strings.Split(string(data[:lineEnd]), " ")
	if len(parts) != requestLineParts {
		return nil, malformed("request line has %d parts", len(parts))
	}

	method, target := parts[0], parts[1]
	if !httpguts.ValidHeaderFieldName(method) {
		return nil, malformed("invalid method %q", method)
	}
	if !strings.HasPrefix(target, "/") {
		return nil, malformed("invalid target %q", target)
	}
	path, query, _ := strings.Cut(target, "?")

	// Header block; with no header lines the terminator overlaps the
	// request line's CRLF
	headersStart := lineEnd + len(crlf)
	headersEnd := bytes.Index(data[lineEnd:], crlfCRLF)
	if headersEnd == -1 {
		return nil, malformed("headers not terminated within %d bytes", len(buf))
	}
	headersEnd += lineEnd
	headersLen := max(headersEnd-headersStart, 0)

	// Rewind: replay the window, then continue with the rest of the stream
	stream := io.MultiReader(bytes.NewReader(data), r)

	if _, err := io.CopyN(io.Discard, stream, int64(headersStart)); err != nil {
		return nil, fmt.Errorf("skip request line: %w", err)
	}
	raw := make([]byte, headersLen)
	if _, err := io.ReadFull(stream, raw); err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	headers := splitHeaders(raw)

	req := &Request{
		Method:     method,
		Path:       path,
		Headers:    headers,
		PostParams: NewParamSet(),
	}

	if method != "GET" {
		terminator := headersEnd + len(crlfCRLF) - (headersStart + headersLen)
		if _, err := io.CopyN(io.Discard, stream, int64(terminator)); err != nil {
			return nil, fmt.Errorf("skip header terminator: %w", err)
		}

		if cl, ok := findHeader(headers, HeaderContentLength); ok {
			length, err := strconv.ParseInt(cl, 10, 64)
			if err != nil || length < 0 {
				return nil, malformed("invalid Content-Length %q", cl)
			}

			body, err := io.ReadAll(io.LimitReader(stream, length))
			if err != nil {
				return nil, fmt.Errorf("read body: %w", err)
			}
			if int64(len(body)) != length {
				return nil, fmt.Errorf("read body: %w", io.ErrUnexpectedEOF)
			}

			contentType, _ := findHeader(headers, HeaderContentType)
			params, err := ParseForm(body, charsetOf(contentType))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
			}
			req.PostParams = params
		}
	}

	req.QueryParams = ParseQuery(query)
	req.Body = stream

	return req, nil
}

func splitHeaders(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	return strings.Split(string(raw), "\r\n")
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRequest, fmt.Sprintf(format, args...))
}
