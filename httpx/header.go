package httpx

import (
	"net/textproto"
	"sort"
	"strings"

	"dqx0.com/go/rawhttp/httpx/internal/http1"
)

// Header holds the header fields of one message keyed by lowercase name.
// A name has at most one value; setting it again replaces the old one.
type Header map[string]string

func (h Header) Get(name string) string {
	if h == nil {
		return ""
	}
	return h[strings.ToLower(name)]
}

// Lookup reports whether name is present, distinguishing an empty value
// from an absent field.
func (h Header) Lookup(name string) (string, bool) {
	if h == nil {
		return "", false
	}
	v, ok := h[strings.ToLower(name)]
	return v, ok
}

func (h Header) Set(name, value string) {
	if h == nil {
		return
	}
	h[strings.ToLower(name)] = value
}

func (h Header) Del(name string) {
	if h == nil {
		return
	}
	delete(h, strings.ToLower(name))
}

// fields returns the header as wire fields with canonical names, sorted by
// name so serialization is stable.
func (h Header) fields() []http1.Field {
	out := make([]http1.Field, 0, len(h))
	for k, v := range h {
		out = append(out, http1.Field{Name: textproto.CanonicalMIMEHeaderKey(k), Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
