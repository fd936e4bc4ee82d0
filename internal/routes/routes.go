// Package routes registers the server's endpoints on an httpx.Router.
package routes

import (
	"github.com/rs/zerolog"

	"dqx0.com/go/rawhttp/httpx"
)

const (
	contentTypeText   = "text/plain"
	contentTypeBinary = "application/octet-stream"
)

// FileStore is the named-blob storage behind /files.
type FileStore interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// New returns a router serving /, /echo/{text}, /user-agent and
// GET/POST /files/{name}. Everything else is 404.
func New(store FileStore) *httpx.Router {
	rt := httpx.NewRouter()
	rt.HandleFunc(httpx.MethodGet, "/", root)
	rt.HandleFunc(httpx.MethodGet, "/echo/{text}", echo)
	rt.HandleFunc(httpx.MethodGet, "/user-agent", userAgent)
	rt.Handle(httpx.MethodGet, "/files/{name}", readFile(store))
	rt.Handle(httpx.MethodPost, "/files/{name}", writeFile(store))
	return rt
}

func root(*httpx.Request) *httpx.Response {
	return httpx.NewResponse(httpx.StatusOK)
}

func echo(r *httpx.Request) *httpx.Response {
	return httpx.NewResponse(httpx.StatusOK).
		SetBody(contentTypeText, []byte(r.Param("text"))).
		Encode(r.Encoding)
}

func userAgent(r *httpx.Request) *httpx.Response {
	ua, ok := r.Header.Lookup("User-Agent")
	if !ok {
		zerolog.Ctx(r.Context()).Debug().Msg("user-agent requested without header")
		return httpx.NewResponse(httpx.StatusBadRequest)
	}
	return httpx.NewResponse(httpx.StatusOK).SetBody(contentTypeText, []byte(ua))
}

func readFile(store FileStore) httpx.HandlerFunc {
	return func(r *httpx.Request) *httpx.Response {
		name := r.Param("name")
		b, err := store.Read(name)
		if err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Str("file", name).Msg("file read failed")
			return httpx.NotFound()
		}
		return httpx.NewResponse(httpx.StatusOK).
			SetBody(contentTypeBinary, b).
			Encode(r.Encoding)
	}
}

func writeFile(store FileStore) httpx.HandlerFunc {
	return func(r *httpx.Request) *httpx.Response {
		name := r.Param("name")
		if err := store.Write(name, r.Body()); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("file", name).Msg("file write failed")
			return httpx.NewResponse(httpx.StatusInternalServerError)
		}
		return httpx.NewResponse(httpx.StatusCreated)
	}
}
