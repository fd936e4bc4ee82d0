package httpx

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerialize_Empty(t *testing.T) {
	b, err := NewResponse(StatusOK).Serialize()
	require.NoError(t, err)
	require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n", string(b))
}

func TestSerialize_Text(t *testing.T) {
	b, err := NewResponse(StatusOK).SetBody("text/plain", []byte("abc")).Serialize()
	require.NoError(t, err)
	require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 3\r\nContent-Type: text/plain\r\n\r\nabc", string(b))
}

func TestSerialize_StatusLines(t *testing.T) {
	for status, line := range map[Status]string{
		StatusCreated:             "HTTP/1.1 201 Created\r\n",
		StatusBadRequest:          "HTTP/1.1 400 Bad Request\r\n",
		StatusNotFound:            "HTTP/1.1 404 Not Found\r\n",
		StatusInternalServerError: "HTTP/1.1 500 Internal Server Error\r\n",
	} {
		b, err := NewResponse(status).Serialize()
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(string(b), line), "got %q", b)
	}
	require.Equal(t, "Not Found", StatusNotFound.Text())
}

func TestSerialize_GzipLengthAfterCompression(t *testing.T) {
	body := strings.Repeat("abc", 100)
	res := NewResponse(StatusOK).SetBody("text/plain", []byte(body)).Encode("gzip")
	b, err := res.Serialize()
	require.NoError(t, err)

	br := bufio.NewReader(bytes.NewReader(b))
	status, err := br.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "HTTP/1.1 200 OK\r\n", status)
	hdr := map[string]string{}
	for {
		line, err := br.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSuffix(line, "\r\n")
		if line == "" {
			break
		}
		k, v, _ := strings.Cut(line, ": ")
		hdr[k] = v
	}
	require.Equal(t, "gzip", hdr["Content-Encoding"])
	rest, err := io.ReadAll(br)
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(len(rest)), hdr["Content-Length"])
	require.NotEqual(t, len(body), len(rest))

	zr, err := gzip.NewReader(bytes.NewReader(rest))
	require.NoError(t, err)
	dec, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Equal(t, body, string(dec))
}

func TestSerialize_OneShot(t *testing.T) {
	res := NewResponse(StatusOK).SetBody("text/plain", []byte("abc")).Encode("gzip")
	_, err := res.Serialize()
	require.NoError(t, err)
	_, err = res.Serialize()
	require.ErrorIs(t, err, ErrResponseConsumed)
}

func TestSerialize_UnknownEncoding(t *testing.T) {
	_, err := NewResponse(StatusOK).SetBody("text/plain", []byte("abc")).Encode("br").Serialize()
	require.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestSerialize_NilHeader(t *testing.T) {
	res := &Response{Status: StatusNotFound}
	b, err := res.Serialize()
	require.NoError(t, err)
	require.Equal(t, "HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n", string(b))
}

func TestSetBody_NilHeader(t *testing.T) {
	res := (&Response{Status: StatusOK}).SetBody("text/plain", []byte("hi"))
	require.Equal(t, "text/plain", res.Header.Get("Content-Type"))
	b, err := res.Serialize()
	require.NoError(t, err)
	require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\nContent-Type: text/plain\r\n\r\nhi", string(b))
}
