package httpx

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"
)

// DefaultEncodings is the supported set used when a Server has none configured.
var DefaultEncodings = []string{"gzip"}

type codec func(w io.Writer) io.WriteCloser

var codecs = map[string]codec{
	"gzip":    func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) },
	"deflate": func(w io.Writer) io.WriteCloser { return zlib.NewWriter(w) },
}

// ValidateEncodings returns ErrUnknownEncoding for the first name that has
// no registered codec.
func ValidateEncodings(names []string) error {
	for _, n := range names {
		if _, ok := codecs[n]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownEncoding, n)
		}
	}
	return nil
}

// Negotiate picks the first coding in the client's Accept-Encoding list that
// is also in supported. It returns "" when the header is empty or nothing
// overlaps. Parameters other than a zero q-value are ignored.
func Negotiate(acceptEncoding string, supported []string) string {
	if acceptEncoding == "" || len(supported) == 0 {
		return ""
	}
	for _, item := range strings.Split(acceptEncoding, ",") {
		name, params, _ := strings.Cut(item, ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || refused(params) {
			continue
		}
		for _, s := range supported {
			if s == name {
				return s
			}
		}
	}
	return ""
}

// refused reports whether the parameters carry q=0.
func refused(params string) bool {
	for _, p := range strings.Split(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), "q") {
			continue
		}
		v = strings.TrimRight(strings.TrimSpace(v), "0")
		return v == "" || v == "0." || v == "."
	}
	return false
}

// encode compresses body with the named codec.
func encode(name string, body []byte) ([]byte, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	var buf bytes.Buffer
	w := c(&buf)
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
