package httpserver

// Status is the closed set of status codes this server can put on the
// wire. The engine never emits anything outside it.
type Status uint16

const (
	StatusOK                    Status = 200
	StatusBadRequest            Status = 400
	StatusForbidden             Status = 403
	StatusNotFound              Status = 404
	StatusMethodNotAllowed      Status = 405
	StatusRequestTimeout        Status = 408
	StatusRequestEntityTooLarge Status = 413
	StatusInternalServerError   Status = 500
	StatusServiceUnavailable    Status = 503
)

func (s Status) Reason() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBadRequest:
		return "Bad Request"
	case StatusForbidden:
		return "Forbidden"
	case StatusNotFound:
		return "Not Found"
	case StatusMethodNotAllowed:
		return "Method Not Allowed"
	case StatusRequestTimeout:
		return "Request Timeout"
	case StatusRequestEntityTooLarge:
		return "Content Too Large"
	case StatusInternalServerError:
		return "Internal Server Error"
	case StatusServiceUnavailable:
		return "Service Unavailable"
	}
	return "Unknown Status Code"
}
