package render

import (
	"fmt"
	"io"
	"net/http"

	"gin-mime/mimetypes"
)

// Format renders Data as the registered type described by Descriptor. The
// descriptor's headers and content type replace any already set.
type Format struct {
	Descriptor mimetypes.Descriptor
	// Encode is the encoder of the descriptor's transform, nil when it has none.
	Encode Encoder
	Data   any
}

// WriteContentType (Format) writes the descriptor headers and content type.
func (r Format) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	for name, value := range r.Descriptor.Headers {
		header.Set(name, value)
	}
	header.Set("Content-Type", r.Descriptor.ContentType)
}

// Render (Format) writes the headers then the serialized payload.
func (r Format) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	return r.writeBody(w)
}

func (r Format) writeBody(w io.Writer) error {
	if m, ok := r.Data.(Marshaler); ok {
		b, err := m.MarshalMIME(r.Descriptor.Key)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	if r.Encode != nil {
		return r.Encode(w, r.Data)
	}

	var err error
	switch v := r.Data.(type) {
	case nil:
	case []byte:
		_, err = w.Write(v)
	case string:
		_, err = io.WriteString(w, v)
	case io.Reader:
		_, err = io.Copy(w, v)
	default:
		err = fmt.Errorf("%w: %s cannot write %T", ErrNoTransform, r.Descriptor.Key, r.Data)
	}
	return err
}
