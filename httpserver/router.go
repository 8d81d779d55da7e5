package httpserver

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Router maps a request to a named route or to a static file under Root.
// Named routes shadow files of the same path.
type Router struct {
	Root   string
	Routes []Route

	// resolvedRoot is Root with symlinks evaluated, used to refuse
	// serving files whose real location lies outside the root.
	resolvedRoot string
}

func NewRouter(root string) *Router {
	router := &Router{Root: root}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		router.resolvedRoot = resolved
	}
	return router
}

func (router *Router) GET(routePath string, handler Handler) {
	router.Routes = append(router.Routes, Route{Path: routePath, Handler: handler})
}

// Resolve turns a parsed request into a response. Identical (method, path)
// pairs always resolve to the same response class for a given filesystem
// state.
func (router *Router) Resolve(req *Request) *Response {
	rel, ok := sanitizePath(req.RawPath)
	if !ok {
		return ErrorResponse(StatusForbidden)
	}

	canonical := "/" + rel
	for _, route := range router.Routes {
		if route.Path != canonical {
			continue
		}
		if req.Method != "GET" && req.Method != "HEAD" {
			return ErrorResponse(StatusMethodNotAllowed)
		}
		return route.Handler(req)
	}

	if req.Method != "GET" && req.Method != "HEAD" {
		return ErrorResponse(StatusMethodNotAllowed)
	}
	return router.serveFile(rel)
}

// sanitizePath percent-decodes and normalizes a request target into a
// root-relative path ("" means the root itself). It reports false for
// anything that cannot be decoded or that would climb above the root.
func sanitizePath(raw string) (string, bool) {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil || strings.IndexByte(decoded, 0) >= 0 {
		return "", false
	}

	// Clean the path as a relative one so ".." segments stay visible
	// instead of being clamped at "/": "/../etc/passwd" must be refused,
	// not silently rewritten to "/etc/passwd".
	cleaned := path.Clean(strings.TrimPrefix(decoded, "/"))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	if cleaned == "." {
		cleaned = ""
	}
	return cleaned, true
}

func (router *Router) serveFile(rel string) *Response {
	if rel == "" {
		return ErrorResponse(StatusNotFound)
	}

	name := filepath.Join(router.Root, filepath.FromSlash(rel))

	info, err := os.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return ErrorResponse(StatusForbidden)
		}
		return ErrorResponse(StatusNotFound)
	}
	if !info.Mode().IsRegular() {
		return ErrorResponse(StatusNotFound)
	}
	if router.escapesRoot(name) {
		return ErrorResponse(StatusForbidden)
	}

	body, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return ErrorResponse(StatusForbidden)
		}
		return ErrorResponse(StatusInternalServerError)
	}

	res := NewResponse(StatusOK)
	res.Headers["Content-Type"] = contentTypeFor(name)
	res.Body = body
	return res
}

// escapesRoot reports whether the file's real location, after following
// symlinks, lies outside the served root.
func (router *Router) escapesRoot(name string) bool {
	if router.resolvedRoot == "" {
		return false
	}
	resolved, err := filepath.EvalSymlinks(name)
	if err != nil {
		return false
	}
	return resolved != router.resolvedRoot &&
		!strings.HasPrefix(resolved, router.resolvedRoot+string(filepath.Separator))
}
