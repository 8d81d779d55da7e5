package httpserver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type Request struct {
	Method  string
	RawPath string
	Proto   string

	// Headers holds header name -> value with names folded to lowercase.
	// Duplicate names keep the last value.
	Headers map[string]string

	Body []byte

	// KeepAlive reflects what the client asked for: HTTP/1.1 persists
	// unless "Connection: close", HTTP/1.0 persists only on an explicit
	// "Connection: keep-alive".
	KeepAlive bool
}

func (req *Request) Header(name string) (string, bool) {
	v, found := req.Headers[strings.ToLower(name)]
	return v, found
}

// ReadRequest parses one request from br, never buffering more than limit
// bytes. It returns io.EOF when the client closed the connection before
// sending a request line. Read deadlines on the underlying connection
// surface as errors here; once the request line has been read, a deadline
// expiry is reported as ErrRequestTimeout so the handler can still answer
// 408 instead of dropping the connection silently.
func ReadRequest(br *bufio.Reader, limit int) (*Request, error) {
	line, err := readLine(br, limit)
	if err != nil {
		return nil, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, io.EOF
	}

	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}
	method, target, proto := parts[0], parts[1], parts[2]
	if proto != "HTTP/1.1" && proto != "HTTP/1.0" {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrMalformedRequestLine, proto)
	}
	if !methodAllowed(method) {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotAllowed, method)
	}

	req := &Request{
		Method:  method,
		RawPath: target,
		Proto:   proto,
		Headers: make(map[string]string),
	}

	read := len(line) + 2
	for {
		hline, err := readLine(br, limit-read)
		if err != nil {
			return nil, midRequestErr(err)
		}
		read += len(hline) + 2
		if hline = strings.TrimSpace(hline); hline == "" {
			break
		}
		if len(req.Headers) >= MaxHeaderCount {
			return nil, fmt.Errorf("%w: more than %d header lines", ErrHeaderTooLarge, MaxHeaderCount)
		}
		i := strings.IndexByte(hline, ':')
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, hline)
		}
		name := strings.ToLower(strings.TrimSpace(hline[:i]))
		req.Headers[name] = strings.TrimSpace(hline[i+1:])
	}

	if err := req.readBody(br, limit-read); err != nil {
		return nil, midRequestErr(err)
	}

	connHeader := strings.ToLower(req.Headers["connection"])
	if proto == "HTTP/1.1" {
		req.KeepAlive = connHeader != "close"
	} else {
		req.KeepAlive = connHeader == "keep-alive"
	}

	return req, nil
}

// readBody reads a Content-Length delimited body. The declared length is
// checked against the remaining allowance before a single body byte is
// read, so an oversized request is rejected without buffering it.
func (req *Request) readBody(br *bufio.Reader, remaining int) error {
	declared, found := req.Headers["content-length"]
	if !found {
		return nil
	}
	n, err := strconv.Atoi(declared)
	if err != nil || n < 0 {
		return fmt.Errorf("%w: content-length %q", ErrMalformedHeader, declared)
	}
	if n > remaining {
		return fmt.Errorf("%w: declared body of %d bytes", ErrRequestTooLarge, n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(br, body); err != nil {
		return err
	}
	req.Body = body
	return nil
}

// readLine reads up to CRLF without the trailing line break, refusing
// lines longer than max. bufio.ReadSlice keeps the scan within the fixed
// read buffer, so a single endless line cannot grow memory past max.
func readLine(br *bufio.Reader, max int) (string, error) {
	if max <= 0 {
		return "", ErrHeaderTooLarge
	}
	var line []byte
	for {
		frag, err := br.ReadSlice('\n')
		line = append(line, frag...)
		if len(line) > max {
			return "", ErrHeaderTooLarge
		}
		if err == nil {
			break
		}
		if err != bufio.ErrBufferFull {
			return "", err
		}
	}
	return strings.TrimRight(string(line), "\r\n"), nil
}

func midRequestErr(err error) error {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrRequestTimeout, err)
	}
	return err
}
