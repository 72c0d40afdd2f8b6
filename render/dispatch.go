package render

import (
	"fmt"
	"net/http"
	"slices"
	"sync"

	"gin-mime/mimetypes"
)

// EntryPoint renders obj with status code as one registered type.
type EntryPoint func(w http.ResponseWriter, code int, obj any) error

// Dispatcher keeps one render entry point per registered key. It subscribes
// to the registry, so every key registered before or after NewDispatcher gets
// an entry point. Entry points read the descriptor at call time: a
// re-registered key renders with its new metadata, a removed key fails with
// mimetypes.ErrUnknownMimeType.
type Dispatcher struct {
	registry *mimetypes.Registry

	mu       sync.RWMutex
	entries  map[string]EntryPoint
	encoders map[string]Encoder
}

var _ mimetypes.EntryPointDefiner = (*Dispatcher)(nil)

// NewDispatcher returns a dispatcher bound to reg with the built-in encoders.
func NewDispatcher(reg *mimetypes.Registry) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		entries:  make(map[string]EntryPoint),
		encoders: defaultEncoders(),
	}
	reg.OnRegister(d)
	return d
}

// DefineRenderEntryPoint installs the entry point of key unless it exists.
func (d *Dispatcher) DefineRenderEntryPoint(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[key]; ok {
		return
	}
	d.entries[key] = func(w http.ResponseWriter, code int, obj any) error {
		return d.render(w, key, code, obj)
	}
}

// RegisterEncoder sets the encoder used for a transform identifier.
func (d *Dispatcher) RegisterEncoder(transform string, enc Encoder) {
	d.mu.Lock()
	d.encoders[transform] = enc
	d.mu.Unlock()
}

// EntryPoint returns the entry point of key.
func (d *Dispatcher) EntryPoint(key string) (EntryPoint, bool) {
	d.mu.RLock()
	ep, ok := d.entries[key]
	d.mu.RUnlock()
	return ep, ok
}

// Keys returns the keys with an entry point, sorted.
func (d *Dispatcher) Keys() []string {
	d.mu.RLock()
	keys := make([]string, 0, len(d.entries))
	for key := range d.entries {
		keys = append(keys, key)
	}
	d.mu.RUnlock()

	slices.Sort(keys)
	return keys
}

// Render calls the entry point of key.
func (d *Dispatcher) Render(w http.ResponseWriter, key string, code int, obj any) error {
	ep, ok := d.EntryPoint(key)
	if !ok {
		return fmt.Errorf("%w: no render entry point for %q", mimetypes.ErrUnknownMimeType, key)
	}
	return ep(w, code, obj)
}

// Format builds the renderer of obj as key.
func (d *Dispatcher) Format(key string, obj any) (Format, error) {
	desc, ok := d.registry.Lookup(key)
	if !ok {
		return Format{}, fmt.Errorf("%w: %q", mimetypes.ErrUnknownMimeType, key)
	}

	f := Format{Descriptor: desc, Data: obj}
	if desc.Transform == mimetypes.NoTransform {
		return f, nil
	}
	if _, ok := obj.(Marshaler); ok {
		return f, nil
	}

	d.mu.RLock()
	f.Encode, ok = d.encoders[desc.Transform]
	d.mu.RUnlock()
	if !ok {
		return Format{}, fmt.Errorf("%w: %s (%s)", ErrNoEncoder, desc.Transform, key)
	}
	return f, nil
}

func (d *Dispatcher) render(w http.ResponseWriter, key string, code int, obj any) error {
	f, err := d.Format(key, obj)
	if err != nil {
		return err
	}

	f.WriteContentType(w)
	if code > 0 {
		w.WriteHeader(code)
	}
	if !bodyAllowedForStatus(code) {
		return nil
	}
	return f.writeBody(w)
}

// bodyAllowedForStatus is a copy of http.bodyAllowedForStatus non-exported function.
func bodyAllowedForStatus(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent:
		return false
	case status == http.StatusNotModified:
		return false
	}
	return true
}
