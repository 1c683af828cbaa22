package http

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

type decodeFunc func(string) (string, error)

func identity(s string) (string, error) { return s, nil }

// lookupDecoder resolves a charset label (WHATWG names and aliases) to a
// function converting text in that charset to UTF-8
func lookupDecoder(charset string) (decodeFunc, error) {
	label := strings.ToLower(strings.TrimSpace(charset))
	if label == "" || label == "utf-8" || label == "utf8" {
		return identity, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, charset)
	}

	dec := enc.NewDecoder()
	return func(s string) (string, error) {
		return dec.String(s)
	}, nil
}

// charsetOf extracts the charset parameter from a raw Content-Type value
func charsetOf(contentType string) string {
	for _, part := range strings.Split(contentType, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && strings.EqualFold(strings.TrimSpace(name), "charset") {
			return strings.Trim(strings.TrimSpace(value), `"`)
		}
	}
	return ""
}
