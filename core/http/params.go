package http

import (
	"net/url"
	"strings"
)

// Param is a single decoded name/value pair
type Param struct {
	Name  string
	Value string
}

func (p Param) String() string {
	return p.Name + "=" + p.Value
}

// ParamSet is an unordered collection of params where exact duplicates collapse
type ParamSet struct {
	items map[Param]struct{}
}

// NewParamSet creates an empty set
func NewParamSet() ParamSet {
	return ParamSet{items: make(map[Param]struct{})}
}

// Add inserts p, reporting whether it was not already present
func (s *ParamSet) Add(p Param) bool {
	if s.items == nil {
		s.items = make(map[Param]struct{})
	}
	if _, ok := s.items[p]; ok {
		return false
	}
	s.items[p] = struct{}{}
	return true
}

// Has reports whether the exact pair is present
func (s ParamSet) Has(p Param) bool {
	_, ok := s.items[p]
	return ok
}

// Get returns every pair with the given name. Order is unspecified.
func (s ParamSet) Get(name string) []Param {
	result := make([]Param, 0, 1)
	for p := range s.items {
		if p.Name == name {
			result = append(result, p)
		}
	}
	return result
}

// Len returns the number of distinct pairs
func (s ParamSet) Len() int {
	return len(s.items)
}

// All returns a copy of every pair. Order is unspecified.
func (s ParamSet) All() []Param {
	result := make([]Param, 0, len(s.items))
	for p := range s.items {
		result = append(result, p)
	}
	return result
}

// ParseQuery decodes a query string into an ordered sequence of pairs.
// Duplicate names are kept in the order they appear; tokens without '='
// are dropped.
func ParseQuery(query string) []Param {
	params := make([]Param, 0, strings.Count(query, "&")+1)
	if query == "" {
		return params
	}

	for _, token := range strings.Split(query, "&") {
		if token == "" {
			continue
		}
		name, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		params = append(params, Param{
			Name:  unescape(name),
			Value: unescape(value),
		})
	}

	return params
}

// FirstParam returns the value of the first pair named name, or ""
func FirstParam(params []Param, name string) string {
	for _, p := range params {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// ParseForm decodes an application/x-www-form-urlencoded body.
// Tokens that do not split into exactly one name and one value are dropped.
// Escaped bytes are interpreted in charset; an empty charset means UTF-8.
func ParseForm(body []byte, charset string) (ParamSet, error) {
	set := NewParamSet()

	dec, err := lookupDecoder(charset)
	if err != nil {
		return set, err
	}

	for _, token := range strings.Split(string(body), "&") {
		kv := strings.Split(token, "=")
		if len(kv) != 2 {
			continue
		}
		name, err := dec(unescape(kv[0]))
		if err != nil {
			continue
		}
		value, err := dec(unescape(kv[1]))
		if err != nil {
			continue
		}
		set.Add(Param{Name: name, Value: value})
	}

	return set, nil
}

// unescape decodes percent escapes and '+'; invalid escapes are kept as-is
func unescape(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
