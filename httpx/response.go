package httpx

import (
	"bufio"
	"bytes"
	"strconv"

	"dqx0.com/go/rawhttp/httpx/internal/http1"
)

// Status is a response status code.
type Status int

const (
	StatusOK                  Status = 200
	StatusCreated             Status = 201
	StatusBadRequest          Status = 400
	StatusNotFound            Status = 404
	StatusInternalServerError Status = 500
)

// Text returns the reason phrase, e.g. "Not Found".
func (s Status) Text() string { return http1.StatusText(int(s)) }

// Response is a logical response built by a handler. Serialize consumes it:
// a second call returns ErrResponseConsumed instead of compressing again.
type Response struct {
	Status Status
	Header Header

	body     []byte
	encoding string
	consumed bool
}

// NewResponse returns an empty response with the given status.
func NewResponse(status Status) *Response {
	return &Response{Status: status, Header: Header{}}
}

// NotFound returns a 404 with an empty body.
func NotFound() *Response { return NewResponse(StatusNotFound) }

// SetBody sets a raw body and its Content-Type.
func (r *Response) SetBody(contentType string, body []byte) *Response {
	if contentType != "" {
		if r.Header == nil {
			r.Header = Header{}
		}
		r.Header.Set("Content-Type", contentType)
	}
	r.body = body
	return r
}

// Encode marks the body to be compressed with the named coding when
// serialized. An empty name leaves the body raw.
func (r *Response) Encode(coding string) *Response {
	r.encoding = coding
	return r
}

// Encoding returns the coding the body will be sent with, "" for raw.
func (r *Response) Encoding() string { return r.encoding }

// Serialize renders the status line, headers and body. The body is
// compressed first when a coding is set, and Content-Length always counts
// the bytes actually sent.
func (r *Response) Serialize() ([]byte, error) {
	if r.consumed {
		return nil, ErrResponseConsumed
	}
	r.consumed = true
	if r.Header == nil {
		r.Header = Header{}
	}
	body := r.body
	if r.encoding != "" {
		enc, err := encode(r.encoding, body)
		if err != nil {
			return nil, err
		}
		body = enc
		r.Header.Set("Content-Encoding", r.encoding)
	}
	r.Header.Set("Content-Length", strconv.Itoa(len(body)))

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := http1.WriteResponse(bw, int(r.Status), "", r.Header.fields(), body); err != nil {
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
