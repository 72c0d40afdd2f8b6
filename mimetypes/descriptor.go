package mimetypes

import (
	"maps"
	"net/http"
	"slices"
)

// All is the key of the catch-all type matching */*. It is always registered.
const All = "all"

// NoTransform marks a descriptor whose payload is written as is.
const NoTransform = ""

// ResponseHook is invoked when a type is selected for a response, before rendering.
type ResponseHook func(w http.ResponseWriter, r *http.Request)

// Descriptor holds the negotiation metadata of one registered key.
type Descriptor struct {
	// Key is the symbolic name, e.g. "json".
	Key string
	// Accepts lists the wire content types matching Key. The first one is canonical.
	Accepts []string
	// Transform names the serialization operation for this type; NoTransform if none.
	Transform string
	// ContentType is the exact Content-Type response header value.
	ContentType string
	// Headers are merged into every response using this type.
	Headers map[string]string
	// DefaultQuality is the weight used when the Accept header gives none.
	DefaultQuality float64
	// Hook runs before rendering a response of this type.
	Hook ResponseHook
}

func (d Descriptor) clone() Descriptor {
	d.Accepts = slices.Clone(d.Accepts)
	d.Headers = maps.Clone(d.Headers)
	if d.Headers == nil {
		d.Headers = map[string]string{}
	}
	return d
}

// Candidate is one negotiated key with its effective quality.
type Candidate struct {
	Key     string
	Quality float64
}

// Removal is the outcome of Unregister.
type Removal int

const (
	// Removed means the descriptor existed and was deleted.
	Removed Removal = iota
	// NotPresent means no descriptor was registered under the key.
	NotPresent
	// NotRemovable means the key is protected and was kept.
	NotRemovable
)

func (r Removal) String() string {
	switch r {
	case Removed:
		return "removed"
	case NotPresent:
		return "not present"
	case NotRemovable:
		return "not removable"
	}
	return "unknown"
}

// Option customizes a registration.
type Option func(*registration)

type registration struct {
	headers map[string]string
	quality float64
	hook    ResponseHook
}

// WithHeaders sets the response headers. A "charset" entry is folded into the
// content type and removed; a "Content-Type" entry replaces the canonical accept.
func WithHeaders(headers map[string]string) Option {
	return func(r *registration) {
		r.headers = headers
	}
}

// WithQuality sets the default quality. It must be positive.
func WithQuality(q float64) Option {
	return func(r *registration) {
		r.quality = q
	}
}

// WithHook sets the response hook.
func WithHook(hook ResponseHook) Option {
	return func(r *registration) {
		r.hook = hook
	}
}

// EntryPointDefiner is notified each time a key is registered so it can make
// sure a render entry point exists for it. Implementations must be idempotent.
type EntryPointDefiner interface {
	DefineRenderEntryPoint(key string)
}
