// Package httpserver implements a bounded HTTP/1.1 server directly on top
// of TCP sockets. It owns the accept loop, a per-connection goroutine with
// a keep-alive/timeout state machine, an incremental request parser, a
// router that serves named routes and static files under one root
// directory, and an atomic admission limiter that answers 503 when the
// server is saturated instead of letting connections pile up.
package httpserver

const (
	// MaxRequestSize bounds one full request: request line, headers and
	// body together. Anything larger is answered with 413.
	MaxRequestSize = 2 * 1024 * 1024 // 2MB

	// MaxHeaderCount bounds the number of header lines per request so a
	// client trickling headers forever cannot hold a parse cycle open.
	MaxHeaderCount = 255

	DefaultReadBufferSize  = 4096
	DefaultWriteBufferSize = 4096
)

var allowedMethods = [...]string{"GET", "HEAD", "POST"}

func methodAllowed(method string) bool {
	for _, m := range allowedMethods {
		if m == method {
			return true
		}
	}
	return false
}
