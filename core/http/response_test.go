package http

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

const notFoundResponse = "HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"

func TestWriteNotFound(t *testing.T) {
	var out bytes.Buffer
	w := bufio.NewWriter(&out)

	if err := WriteNotFound(w); err != nil {
		t.Fatalf("WriteNotFound error: %v", err)
	}
	if out.String() != notFoundResponse {
		t.Errorf("Expected %q, got %q", notFoundResponse, out.String())
	}
}

func TestResponseWriterAnswer(t *testing.T) {
	var out bytes.Buffer
	rw := NewResponseWriter(bufio.NewWriter(&out))

	body := "<h1>hi</h1>"
	if err := rw.Answer("text/html", int64(len(body))); err != nil {
		t.Fatalf("Answer error: %v", err)
	}
	if out.Len() != 0 {
		t.Error("Expected headers to stay buffered until Flush")
	}
	if _, err := rw.Write([]byte(body)); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := rw.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}

	want := "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: 11\r\nConnection: close\r\n\r\n<h1>hi</h1>"
	if out.String() != want {
		t.Errorf("Expected %q, got %q", want, out.String())
	}
	if rw.Written() != int64(len(body)) {
		t.Errorf("Expected %d body bytes, got %d", len(body), rw.Written())
	}
}

func TestResponseWriterHeaderOnce(t *testing.T) {
	var out bytes.Buffer
	rw := NewResponseWriter(bufio.NewWriter(&out))

	if err := rw.Answer("text/plain", 0); err != nil {
		t.Fatalf("Answer error: %v", err)
	}
	if !rw.HeaderWritten() {
		t.Error("Expected HeaderWritten after Answer")
	}
	if err := rw.Answer("text/plain", 0); !errors.Is(err, ErrHeaderWritten) {
		t.Errorf("Expected ErrHeaderWritten on second call, got %v", err)
	}
	if err := rw.NotFound(); !errors.Is(err, ErrHeaderWritten) {
		t.Errorf("Expected ErrHeaderWritten from NotFound after Answer, got %v", err)
	}
}

func TestResponseWriterNotFoundFlushes(t *testing.T) {
	var out bytes.Buffer
	rw := NewResponseWriter(bufio.NewWriter(&out))

	if err := rw.NotFound(); err != nil {
		t.Fatalf("NotFound error: %v", err)
	}
	if out.String() != notFoundResponse {
		t.Errorf("Expected %q, got %q", notFoundResponse, out.String())
	}
}

func TestWriteHeadersOmitsContentTypeFor404(t *testing.T) {
	var out bytes.Buffer
	if err := WriteHeaders(&out, StatusNotFound, "text/html", 0); err != nil {
		t.Fatalf("WriteHeaders error: %v", err)
	}
	if strings.Contains(out.String(), "Content-Type") {
		t.Errorf("Expected no Content-Type on 404, got %q", out.String())
	}
}

func TestResponseWriterReadFrom(t *testing.T) {
	var out bytes.Buffer
	rw := NewResponseWriter(bufio.NewWriter(&out))

	_ = rw.Answer("text/plain", 5)
	if _, err := rw.ReadFrom(strings.NewReader("hello")); err != nil {
		t.Fatalf("ReadFrom error: %v", err)
	}
	_ = rw.Flush()

	if !strings.HasSuffix(out.String(), "\r\n\r\nhello") {
		t.Errorf("Expected body after headers, got %q", out.String())
	}
	if rw.Written() != 5 {
		t.Errorf("Expected 5 bytes written, got %d", rw.Written())
	}
}
