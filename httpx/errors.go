package httpx

import (
	"errors"

	"dqx0.com/go/rawhttp/httpx/internal/http1"
)

var (
	ErrBadRequest        = errors.New("httpx: bad request")
	ErrUnsupportedMethod = errors.New("httpx: unsupported method")
	ErrMissingTarget     = http1.ErrMissingTarget
	ErrLineTooLong       = http1.ErrLineTooLong
	ErrHeaderTooLarge    = http1.ErrHeaderTooLarge
	ErrResponseConsumed  = errors.New("httpx: response already serialized")
	ErrUnknownEncoding   = errors.New("httpx: unknown content encoding")
	ErrServerClosed      = errors.New("httpx: server closed")

	errBodyTooLargeToDrain = errors.New("httpx: unread body too large to drain")
)
