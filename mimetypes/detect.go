package mimetypes

import (
	"io"
	"mime"

	"github.com/gabriel-vasile/mimetype"
)

// Detect sniffs data and returns the registered key of its content type. The
// detected type is tried first, then its more generic parents, so a JSON
// document falls back to "text" when "json" is not registered.
func (r *Registry) Detect(data []byte) (string, bool) {
	return r.detected(mimetype.Detect(data))
}

// DetectReader is like Detect but reads the header bytes from rd.
func (r *Registry) DetectReader(rd io.Reader) (string, error) {
	m, err := mimetype.DetectReader(rd)
	if err != nil {
		return "", err
	}
	key, ok := r.detected(m)
	if !ok {
		return "", ErrUnknownMimeType
	}
	return key, nil
}

func (r *Registry) detected(m *mimetype.MIME) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for ; m != nil; m = m.Parent() {
		mediaType, _, err := mime.ParseMediaType(m.String())
		if err != nil {
			continue
		}
		if key, ok := r.keyFor(mediaType); ok {
			if _, registered := r.byKey[key]; registered {
				return key, true
			}
		}
	}
	return "", false
}
