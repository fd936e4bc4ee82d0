package httpx

import "strings"

// Handler turns a request into a logical response. It must not write to
// the connection.
type Handler interface {
	Serve(*Request) *Response
}

type HandlerFunc func(*Request) *Response

func (f HandlerFunc) Serve(r *Request) *Response {
	return f(r)
}

type route struct {
	pattern  []string
	literals int
	h        Handler
}

// Router dispatches on method and path segments. Patterns are split like
// request targets; a segment written as {name} matches any single segment
// and binds it for Request.Param. When several routes match, the one with
// the most literal segments wins, then the earliest registered.
type Router struct {
	routes map[Method][]route
	// NotFound serves requests no route matches. Nil means an empty 404.
	NotFound Handler
}

func NewRouter() *Router {
	return &Router{routes: make(map[Method][]route)}
}

func (rt *Router) Handle(m Method, pattern string, h Handler) {
	segs := SplitPath(pattern)
	n := 0
	for _, s := range segs {
		if !isParam(s) {
			n++
		}
	}
	rt.routes[m] = append(rt.routes[m], route{pattern: segs, literals: n, h: h})
}

func (rt *Router) HandleFunc(m Method, pattern string, f func(*Request) *Response) {
	rt.Handle(m, pattern, HandlerFunc(f))
}

func (rt *Router) Serve(r *Request) *Response {
	var best *route
	var bestParams map[string]string
	for i := range rt.routes[r.Method] {
		rte := &rt.routes[r.Method][i]
		params, ok := rte.match(r.Path)
		if !ok {
			continue
		}
		if best == nil || rte.literals > best.literals {
			best, bestParams = rte, params
		}
	}
	if best == nil {
		if rt.NotFound != nil {
			return rt.NotFound.Serve(r)
		}
		return NotFound()
	}
	r2 := *r
	r2.params = bestParams
	res := best.h.Serve(&r2)
	if res == nil {
		return NotFound()
	}
	return res
}

func (rte *route) match(path []string) (map[string]string, bool) {
	if len(path) != len(rte.pattern) {
		return nil, false
	}
	var params map[string]string
	for i, p := range rte.pattern {
		if isParam(p) {
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:len(p)-1]] = path[i]
			continue
		}
		if p != path[i] {
			return nil, false
		}
	}
	return params, true
}

func isParam(seg string) bool {
	return len(seg) > 2 && strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}
