package http

import (
	"errors"
	"testing"
)

func TestParseQueryOrderAndDuplicates(t *testing.T) {
	params := ParseQuery("a=1&a=2&b=3")

	want := []Param{{"a", "1"}, {"a", "2"}, {"b", "3"}}
	if len(params) != len(want) {
		t.Fatalf("Expected %d params, got %d: %v", len(want), len(params), params)
	}
	for i := range want {
		if params[i] != want[i] {
			t.Errorf("Param %d: expected %v, got %v", i, want[i], params[i])
		}
	}

	if v := FirstParam(params, "a"); v != "1" {
		t.Errorf("Expected a=1, got %q", v)
	}
	if v := FirstParam(params, "c"); v != "" {
		t.Errorf("Expected empty value for missing name, got %q", v)
	}
}

func TestParseQueryEmpty(t *testing.T) {
	params := ParseQuery("")
	if params == nil || len(params) != 0 {
		t.Errorf("Expected empty non-nil sequence, got %#v", params)
	}
}

func TestParseQueryDecoding(t *testing.T) {
	params := ParseQuery("q=hello+world&path=%2Fa%2Fb&flag&bad=%zz")

	tests := []struct {
		name string
		want string
	}{
		{"q", "hello world"},
		{"path", "/a/b"},
		{"bad", "%zz"},
	}

	for _, tt := range tests {
		if got := FirstParam(params, tt.name); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestParseQueryDropsTokensWithoutEquals(t *testing.T) {
	if params := ParseQuery("flag"); len(params) != 0 {
		t.Errorf("Expected empty sequence for a pair with no '=', got %v", params)
	}

	params := ParseQuery("a=1&flag&b=")
	want := []Param{{Name: "a", Value: "1"}, {Name: "b", Value: ""}}
	if len(params) != len(want) {
		t.Fatalf("Expected %v, got %v", want, params)
	}
	for i := range want {
		if params[i] != want[i] {
			t.Errorf("param %d: expected %v, got %v", i, want[i], params[i])
		}
	}
}

func TestParseFormSet(t *testing.T) {
	set, err := ParseForm([]byte("login=bob&pass=secret"), "")
	if err != nil {
		t.Fatalf("ParseForm error: %v", err)
	}

	if set.Len() != 2 {
		t.Fatalf("Expected 2 pairs, got %d", set.Len())
	}
	if !set.Has(Param{"login", "bob"}) || !set.Has(Param{"pass", "secret"}) {
		t.Errorf("Missing expected pairs: %v", set.All())
	}

	login := set.Get("login")
	if len(login) != 1 || login[0].Value != "bob" {
		t.Errorf("Expected [login=bob], got %v", login)
	}
	if missing := set.Get("nope"); len(missing) != 0 {
		t.Errorf("Expected no pairs for missing name, got %v", missing)
	}
}

func TestParseFormDuplicatesCollapse(t *testing.T) {
	set, err := ParseForm([]byte("a=1&a=1"), "")
	if err != nil {
		t.Fatalf("ParseForm error: %v", err)
	}
	if set.Len() != 1 {
		t.Errorf("Expected exact duplicates to collapse to 1 pair, got %d", set.Len())
	}

	set, _ = ParseForm([]byte("a=1&a=2"), "")
	if got := len(set.Get("a")); got != 2 {
		t.Errorf("Expected 2 distinct values for a, got %d", got)
	}
}

func TestParseFormDropsMalformedTokens(t *testing.T) {
	set, err := ParseForm([]byte("ok=1&novalue&x=1=2&&=empty"), "")
	if err != nil {
		t.Fatalf("ParseForm error: %v", err)
	}

	if !set.Has(Param{"ok", "1"}) {
		t.Error("Expected ok=1 to be kept")
	}
	if !set.Has(Param{"", "empty"}) {
		t.Error("Expected =empty to split into two parts and be kept")
	}
	if set.Len() != 2 {
		t.Errorf("Expected 2 pairs, got %v", set.All())
	}
}

func TestParseFormCharset(t *testing.T) {
	set, err := ParseForm([]byte("name=Jos%E9"), "ISO-8859-1")
	if err != nil {
		t.Fatalf("ParseForm error: %v", err)
	}
	if !set.Has(Param{"name", "José"}) {
		t.Errorf("Expected name=José, got %v", set.All())
	}

	_, err = ParseForm([]byte("a=1"), "no-such-charset")
	if !errors.Is(err, ErrUnknownCharset) {
		t.Errorf("Expected ErrUnknownCharset, got %v", err)
	}
}

func TestCharsetOf(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"application/x-www-form-urlencoded", ""},
		{"application/x-www-form-urlencoded; charset=UTF-8", "UTF-8"},
		{`text/plain;Charset="latin1"`, "latin1"},
	}

	for _, tt := range tests {
		if got := charsetOf(tt.contentType); got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.contentType, tt.want, got)
		}
	}
}

func BenchmarkParseQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = ParseQuery("a=1&b=2&c=hello+world&d=%2Froot")
	}
}

func BenchmarkParseForm(b *testing.B) {
	body := []byte("login=bob&pass=secret&remember=on")
	for i := 0; i < b.N; i++ {
		_, _ = ParseForm(body, "")
	}
}
