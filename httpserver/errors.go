package httpserver

import "errors"

var (
	ErrMalformedRequestLine = errors.New("httpserver: malformed request line")
	ErrMalformedHeader      = errors.New("httpserver: malformed header")
	ErrMethodNotAllowed     = errors.New("httpserver: method not allowed")
	ErrHeaderTooLarge       = errors.New("httpserver: header section too large")
	ErrRequestTooLarge      = errors.New("httpserver: request too large")
	ErrRequestTimeout       = errors.New("httpserver: timed out mid request")
)

// parseFailureResponse maps a ReadRequest error to the response owed to
// the client, or nil where a silent close is correct (client disconnect,
// idle timeout before the first byte, transport failure).
func parseFailureResponse(err error) *Response {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return ErrorResponse(StatusMethodNotAllowed)
	case errors.Is(err, ErrRequestTooLarge), errors.Is(err, ErrHeaderTooLarge):
		return ErrorResponse(StatusRequestEntityTooLarge)
	case errors.Is(err, ErrRequestTimeout):
		return ErrorResponse(StatusRequestTimeout)
	case errors.Is(err, ErrMalformedRequestLine), errors.Is(err, ErrMalformedHeader):
		return ErrorResponse(StatusBadRequest)
	}
	return nil
}
