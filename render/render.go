// Copyright 2014 Manu Martinez-Almeida. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package render

import (
	"errors"
	"io"
	"net/http"
)

var (
	// ErrNoTransform is returned when a payload of a type without transform
	// is neither raw bytes, a string, a reader nor a Marshaler.
	ErrNoTransform = errors.New("no transform for payload")
	// ErrNoEncoder is returned when a descriptor names a transform with no encoder.
	ErrNoEncoder = errors.New("no encoder for transform")
)

// Render interface is to be implemented by Event, Data and Format.
type Render interface {
	// Render writes data with custom ContentType.
	Render(http.ResponseWriter) error
	// WriteContentType writes custom ContentType.
	WriteContentType(w http.ResponseWriter)
}

// Encoder serializes obj to w. Encoders are registered per transform identifier.
type Encoder func(w io.Writer, obj any) error

// Marshaler is implemented by values that serialize themselves for a type key.
// It takes precedence over the encoder of the key's transform.
type Marshaler interface {
	MarshalMIME(key string) ([]byte, error)
}

var (
	_ Render = Event{}
	_ Render = Data{}
	_ Render = Format{}
)

func writeContentType(w http.ResponseWriter, value []string) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = value
	}
}
