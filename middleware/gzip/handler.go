package gzip

import (
	"compress/gzip"
	"io"
	"net/http"
	"sync"

	"gin-mime/mimetypes"
)

type gzipHandler struct {
	Options
	reg    *mimetypes.Registry
	gzPool sync.Pool
}

func newGzipHandler(reg *mimetypes.Registry, level int, options ...Option) *gzipHandler {
	if _, err := gzip.NewWriterLevel(io.Discard, level); err != nil {
		panic(err)
	}

	handler := &gzipHandler{
		Options: Options{ExcludedKeys: DefaultExcludedKeys},
		reg:     reg,
		gzPool: sync.Pool{
			New: func() any {
				gz, _ := gzip.NewWriterLevel(io.Discard, level)
				return gz
			},
		},
	}
	for _, setter := range options {
		setter(&handler.Options)
	}
	return handler
}

func (g *gzipHandler) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !g.shouldCompress(req) {
			next.ServeHTTP(w, req)
			return
		}

		w.Header().Add("Vary", "Accept-Encoding")
		gw := &gzipWriter{ResponseWriter: w, handler: g}
		defer gw.close()

		next.ServeHTTP(gw, req)
	})
}

// gzipWriter defers the compression decision until the status is written,
// when the negotiated Content-Type is known.
type gzipWriter struct {
	http.ResponseWriter
	handler *gzipHandler
	writer  *gzip.Writer
	decided bool
}

func (w *gzipWriter) WriteHeader(code int) {
	if !w.decided {
		w.decide(code)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *gzipWriter) decide(code int) {
	w.decided = true

	header := w.Header()
	if !bodyAllowedForStatus(code) || header.Get("Content-Encoding") != "" {
		return
	}
	if !w.handler.compressible(header.Get("Content-Type")) {
		return
	}

	header.Set("Content-Encoding", "gzip")
	header.Del("Content-Length")
	w.writer = w.handler.gzPool.Get().(*gzip.Writer)
	w.writer.Reset(w.ResponseWriter)
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	if !w.decided {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", w.sniff(data))
		}
		w.WriteHeader(http.StatusOK)
	}
	if w.writer == nil {
		return w.ResponseWriter.Write(data)
	}
	return w.writer.Write(data)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// sniff names the registered content type of data, as net/http would
// otherwise do after the compression decision.
func (w *gzipWriter) sniff(data []byte) string {
	if key, ok := w.handler.reg.Detect(data); ok {
		if d, ok := w.handler.reg.Lookup(key); ok {
			return d.ContentType
		}
	}
	return http.DetectContentType(data)
}

// Flush implements the http.Flusher interface.
func (w *gzipWriter) Flush() {
	if w.writer != nil {
		_ = w.writer.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *gzipWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *gzipWriter) close() {
	if w.writer == nil {
		return
	}
	_ = w.writer.Close()
	w.writer.Reset(io.Discard)
	w.handler.gzPool.Put(w.writer)
	w.writer = nil
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
