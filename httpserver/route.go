package httpserver

// Handler produces the response for a named route.
type Handler func(req *Request) *Response

type Route struct {
	Path    string
	Handler Handler
}
