package http1

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrMissingTarget is returned when the request line has no request-target.
	ErrMissingTarget = errors.New("http1: request line has no target")
	// ErrLineTooLong is returned when a line exceeds the reader's limit.
	ErrLineTooLong = errors.New("http1: line too long")
	// ErrHeaderTooLarge is returned when the request line and header block
	// together exceed MaxHeaderBytes.
	ErrHeaderTooLarge = errors.New("http1: header block too large")
)

// RequestLine holds the tokens of an HTTP request line.
type RequestLine struct {
	Method string
	Target string
	Proto  string
}

// Reader parses the head of one HTTP/1.1 request from BR and can then
// read a declared-length body from the same buffer.
type Reader struct {
	BR          *bufio.Reader
	MaxLineSize int
	// MaxHeaderBytes caps the bytes read by ReadRequestLine and ReadHeaders
	// combined, line terminators included. Zero means no cap.
	MaxHeaderBytes int

	headBytes int
}

// ReadRequestLine reads one CRLF-terminated line and splits it on single
// spaces. The method and target are the first two fields.
func (r *Reader) ReadRequestLine() (RequestLine, error) {
	line, err := r.readLine()
	if err != nil {
		return RequestLine{}, err
	}
	parts := strings.Split(line, " ")
	if len(parts) < 2 || parts[1] == "" {
		return RequestLine{Method: parts[0]}, ErrMissingTarget
	}
	rl := RequestLine{Method: parts[0], Target: parts[1]}
	if len(parts) > 2 {
		rl.Proto = parts[2]
	}
	return rl, nil
}

// ReadHeaders reads header lines up to the blank line that ends the block.
// Names are lowercased and the last occurrence of a name wins. A line
// without a ": " separator ends the block early; so does end of stream.
func (r *Reader) ReadHeaders() (map[string]string, error) {
	h := make(map[string]string)
	for {
		line, err := r.readLine()
		if err == io.EOF {
			return h, nil
		}
		if err != nil {
			return nil, err
		}
		if line == "" {
			return h, nil
		}
		i := strings.Index(line, ": ")
		if i < 0 {
			return h, nil
		}
		h[strings.ToLower(line[:i])] = line[i+2:]
	}
}

// ReadBody reads up to n bytes of body. A stream that ends early yields
// the bytes that did arrive rather than an error.
func (r *Reader) ReadBody(n int64) []byte {
	if n <= 0 {
		return []byte{}
	}
	b, _ := io.ReadAll(io.LimitReader(r.BR, n))
	return b
}

// DiscardBody skips up to n bytes of body. A stream that ends early is
// not an error.
func (r *Reader) DiscardBody(n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r.BR, n)
	if err == io.EOF {
		return nil
	}
	return err
}

// ParseContentLength returns the declared body length. Absent, malformed
// and negative values all mean zero.
func ParseContentLength(v string) int64 {
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// readLine returns the next line without its LF and trailing CR. A final
// unterminated line is returned as is; io.EOF is returned only when no
// bytes were read.
func (r *Reader) readLine() (string, error) {
	var sb strings.Builder
	for {
		b, err := r.BR.ReadByte()
		if err == io.EOF && sb.Len() > 0 {
			break
		}
		if err != nil {
			return "", err
		}
		r.headBytes++
		if b == '\n' {
			break
		}
		sb.WriteByte(b)
		if r.MaxLineSize > 0 && sb.Len() > r.MaxLineSize {
			return "", ErrLineTooLong
		}
		if r.headTooLarge() {
			return "", ErrHeaderTooLarge
		}
	}
	if r.headTooLarge() {
		return "", ErrHeaderTooLarge
	}
	return strings.TrimSuffix(sb.String(), "\r"), nil
}

func (r *Reader) headTooLarge() bool {
	return r.MaxHeaderBytes > 0 && r.headBytes > r.MaxHeaderBytes
}
