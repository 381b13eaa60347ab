package checker

import (
	"net/http"
	"sort"
	"strings"
)

// Headers is a case-insensitive view over response headers. Lookups fold the
// key to lowercase; the original-case mapping is kept for output.
type Headers struct {
	original map[string]string
	folded   map[string]string
}

// NewHeaders builds a Headers view from a name/value mapping. When two names
// fold to the same lowercase key, the name that sorts last wins so the result
// does not depend on map iteration order.
func NewHeaders(m map[string]string) Headers {
	h := Headers{
		original: make(map[string]string, len(m)),
		folded:   make(map[string]string, len(m)),
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		h.original[name] = m[name]
		h.folded[strings.ToLower(name)] = m[name]
	}
	return h
}

// HeadersFromHTTP converts an http.Header into a Headers view. Repeated
// header lines are joined with ", ".
func HeadersFromHTTP(header http.Header) Headers {
	m := make(map[string]string, len(header))
	for name, values := range header {
		m[name] = strings.Join(values, ", ")
	}
	return NewHeaders(m)
}

// Get returns the value stored under name, ignoring case.
func (h Headers) Get(name string) (string, bool) {
	v, ok := h.folded[strings.ToLower(name)]
	return v, ok
}

// Original returns a copy of the original-case mapping.
func (h Headers) Original() map[string]string {
	out := make(map[string]string, len(h.original))
	for k, v := range h.original {
		out[k] = v
	}
	return out
}

// Len reports how many distinct original-case names are held.
func (h Headers) Len() int {
	return len(h.original)
}
