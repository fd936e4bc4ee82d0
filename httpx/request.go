package httpx

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"

	"dqx0.com/go/rawhttp/httpx/internal/http1"
)

// Method is a request method this server understands.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

func parseMethod(s string) (Method, bool) {
	switch Method(s) {
	case MethodGet, MethodPost:
		return Method(s), true
	}
	return "", false
}

// Request is one parsed request. It is not modified after ReadRequest
// returns, except that the body is read lazily and at most once.
type Request struct {
	Method Method
	// Target is the raw request-target, e.g. "/files/foo.txt".
	Target string
	// Path is Target split on '/', e.g. ["", "files", "foo.txt"].
	Path   []string
	Header Header
	// Encoding is the negotiated response content-coding, "" for none.
	Encoding string

	params map[string]string
	body   *requestBody
	ctx    context.Context
}

type requestBody struct {
	once sync.Once
	r    *http1.Reader
	n    int64
	b    []byte
}

// Context returns the request's context. If nil, returns Background.
func (r *Request) Context() context.Context {
	if r == nil || r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext returns a shallow copy of r with its context changed to ctx.
func WithContext(r *Request, ctx context.Context) *Request {
	if r == nil {
		return nil
	}
	r2 := *r
	r2.ctx = ctx
	return &r2
}

// Param returns the path segment bound to a {name} pattern segment.
func (r *Request) Param(name string) string {
	return r.params[name]
}

// Body reads the body declared by Content-Length. The first call reads
// from the connection; later calls return the same bytes. A short stream
// gives a truncated body.
func (r *Request) Body() []byte {
	if r.body == nil {
		return []byte{}
	}
	r.body.once.Do(func() {
		r.body.b = r.body.r.ReadBody(r.body.n)
	})
	return r.body.b
}

// discardBody consumes a declared body the handler never read so the
// connection can close without a reset. Bodies over limit are left unread.
func (r *Request) discardBody(limit int64) error {
	if r.body == nil {
		return nil
	}
	var err error
	r.body.once.Do(func() {
		r.body.b = []byte{}
		if r.body.n > limit {
			err = fmt.Errorf("%w: %d bytes", errBodyTooLargeToDrain, r.body.n)
			return
		}
		err = r.body.r.DiscardBody(r.body.n)
	})
	return err
}

// ReadRequest parses the request line and header block from br. The body
// is left on br until Body is called. maxHeader caps any single line and
// the head as a whole. Any failure is wrapped in ErrBadRequest.
func ReadRequest(br *bufio.Reader, maxHeader int) (*Request, error) {
	rr := &http1.Reader{BR: br, MaxLineSize: maxHeader, MaxHeaderBytes: maxHeader}
	rl, err := rr.ReadRequestLine()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	m, ok := parseMethod(rl.Method)
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", ErrBadRequest, ErrUnsupportedMethod, rl.Method)
	}
	hdr, err := rr.ReadHeaders()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	h := Header(hdr)
	return &Request{
		Method: m,
		Target: rl.Target,
		Path:   SplitPath(rl.Target),
		Header: h,
		body: &requestBody{
			r: rr,
			n: http1.ParseContentLength(h.Get("Content-Length")),
		},
	}, nil
}

// SplitPath splits a request-target on '/' keeping the leading empty
// segment. "/" gives [""]; a trailing slash gives a trailing "".
func SplitPath(target string) []string {
	if target == "/" {
		return []string{""}
	}
	return strings.Split(target, "/")
}
