// Package httpx is a small HTTP/1.1 server that speaks the wire format
// directly on a net.Conn, without net/http.
//
// Each accepted connection carries exactly one request: the request line
// and header block are parsed by hand, the response content-coding is
// negotiated from Accept-Encoding, a Router turns the request into a
// logical Response, and Serialize renders it (compressing first, so
// Content-Length counts the bytes sent). The connection is then closed.
// Requests that cannot be parsed are dropped without a reply.
//
// Only GET and POST are accepted. Keep-alive, chunked transfer-coding and
// pipelining are not supported.
//
// Quick start:
//
//	rt := httpx.NewRouter()
//	rt.HandleFunc(httpx.MethodGet, "/echo/{text}", func(r *httpx.Request) *httpx.Response {
//	    return httpx.NewResponse(httpx.StatusOK).
//	        SetBody("text/plain", []byte(r.Param("text"))).
//	        Encode(r.Encoding)
//	})
//	s := &httpx.Server{Addr: "127.0.0.1:4221", Handler: rt}
//	if err := s.ListenAndServe(); err != nil { log.Fatal(err) }
package httpx
