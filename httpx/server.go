package httpx

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dqx0.com/go/rawhttp/internal/obs"
)

const (
	maxDrainBytes = 4 << 20
	drainTimeout  = 2 * time.Second
)

// Server accepts connections and runs one request/response cycle on each:
// parse, negotiate, route, serialize, write, close.
type Server struct {
	Addr    string
	Handler Handler
	// Encodings is the supported content-coding set in preference order.
	// Nil means DefaultEncodings.
	Encodings []string
	// Dispatcher schedules connections. Nil means GoDispatcher.
	Dispatcher Dispatcher
	// ReadTimeout bounds reading the request when positive. Zero waits forever.
	ReadTimeout time.Duration
	// MaxHeaderBytes caps the request line and header block together.
	// Zero means 8 KiB.
	MaxHeaderBytes int

	Logger *zerolog.Logger
	Meter  obs.Meter

	mu       sync.Mutex
	listener net.Listener
	closed   bool
	conns    sync.WaitGroup
}

func (s *Server) ListenAndServe() error {
	addr := s.Addr
	if addr == "" {
		addr = "127.0.0.1:4221"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on l until l fails or Shutdown is called, in
// which case it returns ErrServerClosed.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		l.Close()
		return ErrServerClosed
	}
	s.listener = l
	s.mu.Unlock()
	defer l.Close()

	ctx := context.Background()
	log := s.logger()
	log.Info().Str("addr", l.Addr().String()).Msg("listening")
	d := s.dispatcher()
	for {
		c, err := l.Accept()
		if err != nil {
			if s.shuttingDown() {
				return ErrServerClosed
			}
			log.Error().Err(err).Msg("accept failed")
			return err
		}
		if !s.track() {
			c.Close()
			return ErrServerClosed
		}
		if err := d.Dispatch(ctx, func() {
			defer s.conns.Done()
			s.serveConn(ctx, c)
		}); err != nil {
			s.conns.Done()
			c.Close()
		}
	}
}

// Shutdown stops accepting connections and waits for in-flight ones to
// finish or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	ln := s.listener
	s.mu.Unlock()
	var err error
	if ln != nil {
		err = ln.Close()
	}
	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
		if errors.Is(err, net.ErrClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// track registers a connection unless shutdown has begun, so Shutdown's
// Wait never races an Add.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns.Add(1)
	return true
}

func (s *Server) shuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) serveConn(ctx context.Context, c net.Conn) {
	defer c.Close()
	start := time.Now()
	id := newConnID()
	log := s.logger().With().Str("conn_id", id).Str("remote", c.RemoteAddr().String()).Logger()
	ctx = WithConnID(log.WithContext(ctx), id)
	defer func() {
		if p := recover(); p != nil {
			log.Error().Str("panic", fmt.Sprint(p)).Msg("handler panicked, dropping connection")
		}
	}()
	log.Debug().Msg("connection accepted")

	if s.ReadTimeout > 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			log.Warn().Err(err).Msg("set read deadline failed, dropping connection")
			return
		}
	}
	br := bufio.NewReader(c)
	req, err := ReadRequest(br, s.headerLimit())
	if err != nil {
		log.Warn().Err(err).Msg("dropping connection")
		return
	}
	req.ctx = ctx
	req.Encoding = Negotiate(req.Header.Get("Accept-Encoding"), s.encodings())
	log.Debug().Str("method", string(req.Method)).Str("target", req.Target).Msg("request parsed")

	h := s.Handler
	if h == nil {
		h = HandlerFunc(func(*Request) *Response { return NotFound() })
	}
	res := h.Serve(req)
	if res == nil {
		res = NotFound()
	}
	b, err := res.Serialize()
	if err != nil {
		log.Error().Err(err).Msg("serialize failed")
		res = NewResponse(StatusInternalServerError)
		if b, err = res.Serialize(); err != nil {
			return
		}
	}
	if _, err := c.Write(b); err != nil {
		log.Warn().Err(err).Msg("write failed")
		return
	}

	s.meter().Counter("httpx_requests_total", 1,
		obs.Label{Key: "method", Value: string(req.Method)},
		obs.Label{Key: "status", Value: strconv.Itoa(int(res.Status))})
	s.meter().Histogram("httpx_response_bytes", float64(len(b)))
	log.Info().
		Str("method", string(req.Method)).
		Str("target", req.Target).
		Int("status", int(res.Status)).
		Int("bytes", len(b)).
		Str("encoding", res.Encoding()).
		Dur("duration", time.Since(start)).
		Msg("response written")

	s.drain(c, req, log)
}

// drain half-closes c and consumes whatever request body the handler left
// unread, so closing c does not reset the client before it reads the
// response.
func (s *Server) drain(c net.Conn, req *Request, log zerolog.Logger) {
	if cw, ok := c.(interface{ CloseWrite() error }); ok {
		if err := cw.CloseWrite(); err != nil {
			log.Debug().Err(err).Msg("close write failed")
		}
	}
	if err := c.SetReadDeadline(time.Now().Add(drainTimeout)); err != nil {
		log.Debug().Err(err).Msg("set drain deadline failed")
		return
	}
	if err := req.discardBody(maxDrainBytes); err != nil {
		log.Debug().Err(err).Msg("request body not drained")
	}
}

func (s *Server) logger() *zerolog.Logger {
	if s.Logger == nil {
		l := zerolog.Nop()
		return &l
	}
	return s.Logger
}

func (s *Server) meter() obs.Meter {
	if s.Meter == nil {
		return obs.NopMeter{}
	}
	return s.Meter
}

func (s *Server) dispatcher() Dispatcher {
	if s.Dispatcher == nil {
		return GoDispatcher{}
	}
	return s.Dispatcher
}

func (s *Server) encodings() []string {
	if s.Encodings == nil {
		return DefaultEncodings
	}
	return s.Encodings
}

func (s *Server) headerLimit() int {
	if s.MaxHeaderBytes <= 0 {
		return 8 << 10
	}
	return s.MaxHeaderBytes
}
