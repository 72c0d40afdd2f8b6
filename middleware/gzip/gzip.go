package gzip

import (
	"compress/gzip"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"gin-mime/mimetypes"
)

const (
	BestCompression    = gzip.BestCompression
	BestSpeed          = gzip.BestSpeed
	DefaultCompression = gzip.DefaultCompression
	NoCompression      = gzip.NoCompression
)

// DefaultExcludedKeys are the built-in types whose payloads are already
// compressed or streamed.
var DefaultExcludedKeys = []string{"gzip", "zip", "png", "jpeg", "gif", "webp", "event_stream"}

// Options controls which responses are compressed.
type Options struct {
	// ExcludedKeys are registered type keys sent uncompressed.
	ExcludedKeys []string
	// ExcludedExtensions are request path extensions, e.g. ".png".
	ExcludedExtensions []string
	// ExcludedPaths are request path prefixes.
	ExcludedPaths []string
}

// Option configures Options.
type Option func(*Options)

// WithExcludedKeys replaces the excluded type keys.
func WithExcludedKeys(keys ...string) Option {
	return func(o *Options) {
		o.ExcludedKeys = keys
	}
}

// WithExcludedExtensions excludes request paths ending in one of exts.
func WithExcludedExtensions(exts ...string) Option {
	return func(o *Options) {
		o.ExcludedExtensions = append(o.ExcludedExtensions, exts...)
	}
}

// WithExcludedPaths excludes request paths starting with one of prefixes.
func WithExcludedPaths(prefixes ...string) Option {
	return func(o *Options) {
		o.ExcludedPaths = append(o.ExcludedPaths, prefixes...)
	}
}

// Gzip returns a middleware compressing responses for clients that accept
// gzip. The decision is made when the status is written: the response
// Content-Type is mapped to its registered key in reg and excluded keys are
// passed through. Responses of unregistered types are compressed.
func Gzip(reg *mimetypes.Registry, level int, options ...Option) func(http.Handler) http.Handler {
	g := newGzipHandler(reg, level, options...)
	return g.Handle
}

func (g *gzipHandler) shouldCompress(req *http.Request) bool {
	if !strings.Contains(req.Header.Get("Accept-Encoding"), "gzip") ||
		strings.Contains(req.Header.Get("Connection"), "Upgrade") {
		return false
	}

	if slices.Contains(g.ExcludedExtensions, filepath.Ext(req.URL.Path)) {
		return false
	}
	for _, prefix := range g.ExcludedPaths {
		if strings.HasPrefix(req.URL.Path, prefix) {
			return false
		}
	}
	return true
}

// compressible reports whether a response of contentType may be compressed.
func (g *gzipHandler) compressible(contentType string) bool {
	mediaType := contentType
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	key, ok := g.reg.KeyFor(strings.TrimSpace(mediaType))
	if !ok {
		return true
	}
	return !slices.Contains(g.ExcludedKeys, key)
}
