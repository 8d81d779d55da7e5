package httpserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/DimK19/vibettp/uuid"
)

const scopeName = "github.com/DimK19/vibettp/httpserver"

type Options struct {
	MaxClients int
	Timeout    time.Duration
	KeepAlive  bool
}

type Server struct {
	Name      string
	Router    *Router
	KeepAlive bool
	Timeout   time.Duration
	Log       *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	slots    *limiter
	handlers sync.WaitGroup

	tracer   trace.Tracer
	accepted metric.Int64Counter
	rejected metric.Int64Counter
	served   metric.Int64Counter
}

func NewServer(name string, router *Router, opt Options, log *slog.Logger) *Server {
	if opt.MaxClients < 1 {
		opt.MaxClients = 1
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 180 * time.Second
	}

	meter := otel.Meter(scopeName)
	return &Server{
		Name:      name,
		Router:    router,
		KeepAlive: opt.KeepAlive,
		Timeout:   opt.Timeout,
		Log:       log,

		slots: newLimiter(int64(opt.MaxClients)),

		tracer:   otel.Tracer(scopeName),
		accepted: newCounter(meter, "vibettp.connections.accepted", "Connections admitted to a handler"),
		rejected: newCounter(meter, "vibettp.connections.rejected", "Connections refused with 503 at admission"),
		served:   newCounter(meter, "vibettp.requests.served", "Requests answered, by status code"),
	}
}

func newCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(err)
	}
	return counter
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve runs the accept loop until the listener is closed, either by
// Shutdown or by ctx cancellation. The loop never waits on a handler;
// each admitted connection runs on its own goroutine and reports
// completion only by releasing its slot.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.Log.Info("listening",
		"server", s.Name,
		"addr", listener.Addr().String(),
		"max_clients", s.slots.capacity,
		"keep_alive", s.KeepAlive,
		"timeout", s.Timeout.String())

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.Log.Warn("accept failed", "error", err)
			continue
		}

		if !s.slots.TryAcquire() {
			s.rejected.Add(ctx, 1)
			go s.rejectConn(conn)
			continue
		}

		s.accepted.Add(ctx, 1)
		s.handlers.Add(1)
		go func() {
			defer s.handlers.Done()
			defer s.slots.Release()
			s.serveConn(ctx, conn)
		}()
	}
}

// Shutdown closes the listener, unblocking Serve, and waits for in-flight
// handlers until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener != nil {
		listener.Close()
	}

	done := make(chan struct{})
	go func() {
		s.handlers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// rejectConn is the capacity-exceeded short path. The socket is accepted
// so the client gets a framed 503 instead of a TCP-level refusal; no slot
// is consumed and no parser runs.
func (s *Server) rejectConn(conn net.Conn) {
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(5 * time.Second))
	bw := bufio.NewWriterSize(conn, DefaultWriteBufferSize)
	if err := ErrorResponse(StatusServiceUnavailable).Write(bw, false, false); err != nil {
		s.Log.Debug("503 short path write failed", "error", err)
	}

	// Drain what the client already sent before closing, so the close does
	// not turn into a reset that loses the 503 on its way out.
	io.Copy(io.Discard, io.LimitReader(conn, DefaultReadBufferSize))

	s.Log.Info("connection rejected at capacity", "peer", conn.RemoteAddr().String())
}

// serveConn drives one connection through its request cycles:
// await request, parse, dispatch, write, then either re-arm the idle
// deadline for the next cycle or close. All per-connection failures end
// here; nothing propagates to other connections or the accept loop.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	log := s.Log.With("conn", uuid.NewV4().String(), "peer", conn.RemoteAddr().String())
	log.Debug("client connected")

	br := bufio.NewReaderSize(conn, DefaultReadBufferSize)
	bw := bufio.NewWriterSize(conn, DefaultWriteBufferSize)

	for {
		conn.SetDeadline(time.Now().Add(s.Timeout))

		req, err := ReadRequest(br, MaxRequestSize)
		if err != nil {
			// Parse failures that merit a response get one, with
			// keep-alive forced off. Everything else closes silently.
			if res := parseFailureResponse(err); res != nil {
				// The cycle deadline may already be spent (a 408 is
				// reached exactly because it expired), so the error
				// response gets its own short write window.
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if werr := res.Write(bw, false, false); werr != nil {
					log.Debug("error response write failed", "error", werr)
				}
				s.served.Add(ctx, 1, metric.WithAttributes(attribute.Int("status", int(res.Status))))
				log.Info("request rejected", "status", int(res.Status), "error", err)
			} else {
				log.Debug("client disconnected", "reason", err)
			}
			return
		}

		reqCtx, span := s.tracer.Start(ctx, "vibettp.request", trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.target", req.RawPath),
		))

		res := s.dispatch(req, log)

		keepAlive := s.KeepAlive && req.KeepAlive
		err = res.Write(bw, keepAlive, req.Method == "HEAD")

		span.SetAttributes(attribute.Int("http.status_code", int(res.Status)))
		span.End()
		s.served.Add(reqCtx, 1, metric.WithAttributes(attribute.Int("status", int(res.Status))))
		log.Info("request served",
			"method", req.Method,
			"path", req.RawPath,
			"status", int(res.Status),
			"bytes", len(res.Body))

		if err != nil {
			log.Warn("response write failed", "error", err)
			return
		}
		if !keepAlive {
			return
		}
	}
}

// dispatch invokes the router, containing panics and surfacing them as
// 500 so one bad handler cannot take the process down.
func (s *Server) dispatch(req *Request, log *slog.Logger) (res *Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("dispatch panicked", "method", req.Method, "path", req.RawPath, "panic", r)
			res = ErrorResponse(StatusInternalServerError)
		}
	}()
	return s.Router.Resolve(req)
}
