// Package mimetypes maps symbolic content-type keys such as "json" or "html"
// to the metadata needed to negotiate and write a response of that type.
//
// A Registry is built once at process start, with New or Default, and shared
// by every request handler. Registrations normally happen before traffic is
// served, but the registry stays consistent for readers while it is changed.
package mimetypes

import (
	"fmt"
	"math"
	"mime"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"gin-mime/internal/debug"

	"github.com/patrickmn/go-cache"
	"golang.org/x/net/http/httpguts"
)

const (
	resolvedExpiration = 10 * time.Minute
	resolvedCleanup    = 30 * time.Minute
	// maxResolved bounds the number of distinct Accept headers remembered.
	maxResolved = 1024
)

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Registry is the table of registered types. Both indexes sit behind one lock
// so a reader never sees a descriptor without its wire mappings, or the reverse.
type Registry struct {
	mu sync.RWMutex

	byKey  map[string]Descriptor
	byWire map[string]string
	// keys holds the registered keys in registration order.
	keys []string

	definers []EntryPointDefiner

	// resolved memoises Resolve per Accept header; flushed on every change.
	resolved *cache.Cache
}

// New returns a registry holding only the catch-all type.
func New() *Registry {
	r := &Registry{
		byKey:    make(map[string]Descriptor),
		byWire:   make(map[string]string),
		resolved: cache.New(resolvedExpiration, resolvedCleanup),
	}
	r.MustRegister(All, NoTransform, []string{MIMEAll})
	return r
}

// Register adds or replaces the descriptor for key. Nothing from a previous
// registration of key is kept. Every accept string is (re)pointed at key.
func (r *Registry) Register(key, transform string, accepts []string, opts ...Option) error {
	d, err := newDescriptor(key, transform, accepts, opts...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.store(d)
	definers := slices.Clone(r.definers)
	r.mu.Unlock()

	debug.Print("%-18s --> %s (%s)", key, d.ContentType, strings.Join(d.Accepts, ", "))

	for _, definer := range definers {
		definer.DefineRenderEntryPoint(key)
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(key, transform string, accepts []string, opts ...Option) {
	if err := r.Register(key, transform, accepts, opts...); err != nil {
		panic(err)
	}
}

func (r *Registry) store(d Descriptor) {
	if _, ok := r.byKey[d.Key]; !ok {
		r.keys = append(r.keys, d.Key)
	}
	r.byKey[d.Key] = d
	for _, wire := range d.Accepts {
		r.byWire[wire] = d.Key
	}
	r.resolved.Flush()
}

// Unregister deletes the descriptor for key. The catch-all type is never
// removed. Wire mappings pointing at key are left in place: KeyFor keeps
// returning key for them and TransformFor then fails with ErrUnknownMimeType.
func (r *Registry) Unregister(key string) (Descriptor, Removal) {
	if key == All {
		debug.Print("%s is not removable", All)
		return Descriptor{}, NotRemovable
	}

	r.mu.Lock()
	d, ok := r.remove(key)
	r.mu.Unlock()

	if !ok {
		return Descriptor{}, NotPresent
	}
	debug.Print("%-18s removed", key)
	return d.clone(), Removed
}

func (r *Registry) remove(key string) (Descriptor, bool) {
	d, ok := r.byKey[key]
	if !ok {
		return Descriptor{}, false
	}
	delete(r.byKey, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
	r.resolved.Flush()
	return d, true
}

// Lookup returns a copy of the descriptor registered under key.
func (r *Registry) Lookup(key string) (Descriptor, bool) {
	r.mu.RLock()
	d, ok := r.byKey[key]
	r.mu.RUnlock()
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// TransformFor returns the transform identifier of key, which may be NoTransform.
func (r *Registry) TransformFor(key string) (string, error) {
	r.mu.RLock()
	d, ok := r.byKey[key]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMimeType, key)
	}
	return d.Transform, nil
}

// KeyFor returns the key the wire string is mapped to. The key may no longer
// be registered if it was removed after the mapping was written.
func (r *Registry) KeyFor(wire string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keyFor(wire)
}

func (r *Registry) keyFor(wire string) (string, bool) {
	wire = strings.TrimSpace(wire)
	if key, ok := r.byWire[wire]; ok {
		return key, true
	}
	for w, key := range r.byWire {
		if strings.EqualFold(w, wire) {
			return key, true
		}
	}
	return "", false
}

// Types returns a snapshot of all descriptors by key.
func (r *Registry) Types() map[string]Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Descriptor, len(r.byKey))
	for key, d := range r.byKey {
		out[key] = d.clone()
	}
	return out
}

// WireMappings returns a snapshot of the wire string to key index.
func (r *Registry) WireMappings() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.byWire))
	for wire, key := range r.byWire {
		out[wire] = key
	}
	return out
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.keys)
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

// OnRegister adds a definer notified on every later Register call. It is
// called right away for every key already registered.
func (r *Registry) OnRegister(definer EntryPointDefiner) {
	r.mu.Lock()
	r.definers = append(r.definers, definer)
	keys := slices.Clone(r.keys)
	r.mu.Unlock()

	for _, key := range keys {
		definer.DefineRenderEntryPoint(key)
	}
}

func newDescriptor(key, transform string, accepts []string, opts ...Option) (Descriptor, error) {
	if !keyPattern.MatchString(key) {
		return Descriptor{}, fmt.Errorf("%w: invalid key %q", ErrInvalidArgument, key)
	}
	if len(accepts) == 0 {
		return Descriptor{}, fmt.Errorf("%w: no accept strings for %q", ErrInvalidArgument, key)
	}
	if key == All && !slices.Contains(accepts, MIMEAll) {
		return Descriptor{}, fmt.Errorf("%w: %q must accept %s", ErrInvalidArgument, All, MIMEAll)
	}
	for _, wire := range accepts {
		if _, _, ok := splitMediaRange(wire); !ok || wire != strings.TrimSpace(wire) {
			return Descriptor{}, fmt.Errorf("%w: malformed media range %q for %q", ErrInvalidArgument, wire, key)
		}
	}

	reg := registration{quality: 1}
	for _, opt := range opts {
		opt(&reg)
	}
	if math.IsNaN(reg.quality) || math.IsInf(reg.quality, 0) || reg.quality <= 0 {
		return Descriptor{}, fmt.Errorf("%w: quality %v for %q must be positive", ErrInvalidArgument, reg.quality, key)
	}

	contentType := accepts[0]
	charset := ""
	headers := make(map[string]string, len(reg.headers))
	for name, value := range reg.headers {
		if strings.EqualFold(name, "charset") {
			charset = value
			continue
		}
		if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(value) {
			return Descriptor{}, fmt.Errorf("%w: bad header %q for %q", ErrInvalidArgument, name, key)
		}
		if http.CanonicalHeaderKey(name) == "Content-Type" {
			contentType = value
		}
		headers[name] = value
	}
	if charset != "" {
		contentType += "; charset=" + charset
	}
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return Descriptor{}, fmt.Errorf("%w: content type %q for %q: %v", ErrInvalidArgument, contentType, key, err)
	}

	return Descriptor{
		Key:            key,
		Accepts:        slices.Clone(accepts),
		Transform:      transform,
		ContentType:    contentType,
		Headers:        headers,
		DefaultQuality: reg.quality,
		Hook:           reg.hook,
	}, nil
}
