package httpserver

import (
	"path/filepath"
	"strings"
)

const defaultContentType = "application/octet-stream"

// contentTypes is the closed extension mapping; anything else is served
// as a generic binary type.
var contentTypes = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".txt":  "text/plain",
	".json": "application/json",
	".xml":  "application/xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".pdf":  "application/pdf",
}

func contentTypeFor(name string) string {
	if ct, found := contentTypes[strings.ToLower(filepath.Ext(name))]; found {
		return ct
	}
	return defaultContentType
}
