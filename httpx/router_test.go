package httpx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tag(name string) HandlerFunc {
	return func(r *Request) *Response {
		res := NewResponse(StatusOK)
		res.Header.Set("X-Route", name)
		res.Header.Set("X-Param", r.Param("p"))
		return res
	}
}

func serve(rt *Router, m Method, target string) *Response {
	return rt.Serve(&Request{Method: m, Target: target, Path: SplitPath(target), Header: Header{}})
}

func TestRouter_LiteralBeatsParam(t *testing.T) {
	rt := NewRouter()
	rt.Handle(MethodGet, "/files/{p}", tag("param"))
	rt.Handle(MethodGet, "/files/index", tag("literal"))

	res := serve(rt, MethodGet, "/files/index")
	require.Equal(t, "literal", res.Header.Get("X-Route"))

	res = serve(rt, MethodGet, "/files/other")
	require.Equal(t, "param", res.Header.Get("X-Route"))
	require.Equal(t, "other", res.Header.Get("X-Param"))
}

func TestRouter_MethodTables(t *testing.T) {
	rt := NewRouter()
	rt.Handle(MethodPost, "/files/{p}", tag("post"))

	require.Equal(t, StatusNotFound, serve(rt, MethodGet, "/files/a").Status)
	require.Equal(t, "post", serve(rt, MethodPost, "/files/a").Header.Get("X-Route"))
}

func TestRouter_SegmentCountMustMatch(t *testing.T) {
	rt := NewRouter()
	rt.Handle(MethodGet, "/", tag("root"))
	rt.Handle(MethodGet, "/echo/{p}", tag("echo"))

	require.Equal(t, "root", serve(rt, MethodGet, "/").Header.Get("X-Route"))
	require.Equal(t, StatusNotFound, serve(rt, MethodGet, "/echo").Status)
	require.Equal(t, StatusNotFound, serve(rt, MethodGet, "/echo/a/b").Status)
	require.Equal(t, StatusNotFound, serve(rt, MethodGet, "/unknown/path").Status)

	res := serve(rt, MethodGet, "/echo/")
	require.Equal(t, "echo", res.Header.Get("X-Route"))
	require.Equal(t, "", res.Header.Get("X-Param"))
}

func TestRouter_NotFoundHandler(t *testing.T) {
	rt := NewRouter()
	rt.NotFound = tag("fallback")
	require.Equal(t, "fallback", serve(rt, MethodGet, "/nope").Header.Get("X-Route"))
}

func TestRouter_NilResponseIsNotFound(t *testing.T) {
	rt := NewRouter()
	rt.HandleFunc(MethodGet, "/nil", func(*Request) *Response { return nil })
	require.Equal(t, StatusNotFound, serve(rt, MethodGet, "/nil").Status)
}
