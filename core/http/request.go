package http

import (
	"io"
	"strings"
)

// Request is a parsed HTTP request. Everything but Body is fixed once
// ParseRequest returns.
type Request struct {
	Method string
	Path   string

	// Raw "Name: value" lines in arrival order, not decomposed
	Headers []string

	// Query parameters in the order they appeared
	QueryParams []Param

	// Form parameters decoded from the body, if one was declared
	PostParams ParamSet

	// Body is the connection stream positioned after the parsed bytes.
	// It is owned by the connection and must not be used after the
	// handler returns.
	Body io.Reader
}

// Equal reports whether two requests share method and path.
// Headers and body are not compared.
func (r *Request) Equal(other *Request) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Method == other.Method && r.Path == other.Path
}

// QueryParam returns the first query value named name, or ""
func (r *Request) QueryParam(name string) string {
	return FirstParam(r.QueryParams, name)
}

// PostParam returns every form pair named name
func (r *Request) PostParam(name string) []Param {
	return r.PostParams.Get(name)
}

// Header returns the value of the first raw header line whose name matches
// (case-insensitively). The value is the text after the first space, trimmed.
func (r *Request) Header(name string) (string, bool) {
	return findHeader(r.Headers, name)
}

func (r *Request) String() string {
	return r.Method + " " + r.Path
}

func findHeader(lines []string, name string) (string, bool) {
	for _, line := range lines {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 || !strings.EqualFold(line[:colon], name) {
			continue
		}
		sp := strings.IndexByte(line, ' ')
		if sp == -1 {
			return "", true
		}
		return strings.TrimSpace(line[sp+1:]), true
	}
	return "", false
}
