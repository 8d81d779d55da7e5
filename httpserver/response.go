package httpserver

import (
	"bufio"
	"strconv"
	"strings"
	"time"
)

const dateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

type Response struct {
	Status  Status
	Headers map[string]string
	Body    []byte
}

func NewResponse(status Status) *Response {
	return &Response{
		Status:  status,
		Headers: make(map[string]string),
	}
}

func (res *Response) WithText(payload string) *Response {
	res.Headers["Content-Type"] = "text/plain"
	res.Body = []byte(payload)
	return res
}

func (res *Response) WithHTML(payload string) *Response {
	res.Headers["Content-Type"] = "text/html"
	res.Body = []byte(payload)
	return res
}

// ErrorResponse builds the canonical error body for a status, e.g.
// "404 Not Found".
func ErrorResponse(status Status) *Response {
	return NewResponse(status).WithText(strconv.Itoa(int(status)) + " " + status.Reason())
}

// Write serializes the response: status line, Date, Content-Length,
// Connection, remaining headers, blank line, body, then flushes. For HEAD
// requests head suppresses the body bytes while Content-Length still
// reports the full body size.
func (res *Response) Write(bw *bufio.Writer, keepAlive, head bool) error {
	if _, err := bw.WriteString("HTTP/1.1 " + strconv.Itoa(int(res.Status)) + " " + res.Status.Reason() + "\r\n"); err != nil {
		return err
	}

	writeHeaderLine(bw, "Date", time.Now().UTC().Format(dateFormat))
	writeHeaderLine(bw, "Content-Length", strconv.Itoa(len(res.Body)))
	if keepAlive {
		writeHeaderLine(bw, "Connection", "keep-alive")
	} else {
		writeHeaderLine(bw, "Connection", "close")
	}
	for name, value := range res.Headers {
		if reservedHeader(name) {
			continue
		}
		writeHeaderLine(bw, name, value)
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}

	if !head {
		if _, err := bw.Write(res.Body); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeHeaderLine(bw *bufio.Writer, name, value string) {
	bw.WriteString(name)
	bw.WriteString(": ")
	bw.WriteString(value)
	bw.WriteString("\r\n")
}

// reservedHeader reports headers the writer owns; values smuggled into
// Response.Headers under these names are ignored rather than duplicated.
func reservedHeader(name string) bool {
	switch strings.ToLower(name) {
	case "date", "content-length", "connection":
		return true
	}
	return false
}
