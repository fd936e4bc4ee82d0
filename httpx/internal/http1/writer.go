package http1

import (
	"bufio"
	"fmt"
	"strings"
)

// Field is one response header line. Fields are written in slice order.
type Field struct {
	Name  string
	Value string
}

// WriteResponse writes status line, header fields, the blank line and body.
// Fields with an invalid name are skipped and values are stripped of
// control characters so a caller cannot split the message.
func WriteResponse(bw *bufio.Writer, status int, reason string, fields []Field, body []byte) error {
	if reason == "" {
		reason = StatusText(status)
	}
	if _, err := fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", status, reason); err != nil {
		return err
	}
	for _, f := range fields {
		name := SanitizeHeaderKey(f.Name)
		if name == "" {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", name, SanitizeHeaderValue(f.Value)); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := bw.Write(body); err != nil {
			return err
		}
	}
	return nil
}

// StatusText returns the reason phrase for the status codes this server emits.
func StatusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 500:
		return "Internal Server Error"
	default:
		return ""
	}
}

// SanitizeHeaderKey returns k if it is a valid token, else "".
func SanitizeHeaderKey(k string) string {
	if k == "" {
		return ""
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			continue
		}
		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
			continue
		default:
			return ""
		}
	}
	return k
}

// SanitizeHeaderValue removes CR, LF and control chars except HTAB.
func SanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
