// Copyright 2014 Manu Martinez-Almeida. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package ginMime

import (
	"bufio"
	"io"
	"net"
	"net/http"
)

const (
	noWritten     = -1
	defaultStatus = http.StatusOK
)

// ResponseWriter is the writer handed to renderers. The status line is held
// back until the first body byte or WriteHeaderNow, so a render can still
// replace the status and the negotiated headers.
type ResponseWriter interface {
	http.ResponseWriter
	http.Hijacker
	http.Flusher

	// Status is the recorded status code, sent or not.
	Status() int
	// Size is the number of body bytes written, -1 before the header is sent.
	Size() int
	// WriteString writes s to the body.
	WriteString(s string) (int, error)
	// Written reports whether the header was sent.
	Written() bool
	// WriteHeaderNow sends the recorded status and headers.
	WriteHeaderNow()
	// ContentType is the Content-Type header of the response.
	ContentType() string
}

type responseWriter struct {
	http.ResponseWriter
	size   int
	status int
}

var _ ResponseWriter = (*responseWriter)(nil)

func (w *responseWriter) reset(writer http.ResponseWriter) {
	*w = responseWriter{
		ResponseWriter: writer,
		size:           noWritten,
		status:         defaultStatus,
	}
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// WriteHeader records code. Non-positive codes are ignored; a code arriving
// after the header was sent is dropped with a debug warning.
func (w *responseWriter) WriteHeader(code int) {
	switch {
	case code <= 0 || code == w.status:
	case w.Written():
		debugPrint("[WARNING] Headers were already written. Wanted to override status code %d with %d", w.status, code)
	default:
		w.status = code
	}
}

func (w *responseWriter) WriteHeaderNow() {
	if w.Written() {
		return
	}
	w.size = 0
	w.ResponseWriter.WriteHeader(w.status)
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.WriteHeaderNow()
	n, err := w.ResponseWriter.Write(data)
	w.size += n
	return n, err
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.WriteHeaderNow()
	n, err := io.WriteString(w.ResponseWriter, s)
	w.size += n
	return n, err
}

func (w *responseWriter) Status() int { return w.status }

func (w *responseWriter) Size() int { return w.size }

func (w *responseWriter) Written() bool { return w.size != noWritten }

func (w *responseWriter) ContentType() string {
	return w.Header().Get("Content-Type")
}

// Hijack implements the http.Hijacker interface. The connection is owned by
// the caller afterwards, so the response counts as written.
func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if !w.Written() {
		w.size = 0
	}
	return w.ResponseWriter.(http.Hijacker).Hijack()
}

// Flush implements the http.Flusher interface.
func (w *responseWriter) Flush() {
	w.WriteHeaderNow()
	w.ResponseWriter.(http.Flusher).Flush()
}
