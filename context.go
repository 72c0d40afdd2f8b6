// Copyright 2014 Manu Martinez-Almeida. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package ginMime

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"gin-mime/binding"
	"gin-mime/mimetypes"
	"gin-mime/render"
)

var (
	// ErrNilRequest is returned when the context carries no request.
	ErrNilRequest = errors.New("request is nil")
	// ErrNilParam is the panic value of Error(nil).
	ErrNilParam = errors.New("parameter is nil")
)

// HandlerFunc defines the handler served by a Responder.
type HandlerFunc func(*Context)

// Context carries one request through negotiation, binding and rendering.
// A Context is owned by a single request and must not be kept after the
// handler returns.
type Context struct {
	writermem responseWriter
	request   *http.Request
	responder *Responder

	aborted bool
	errors  errorMsgs

	// accepted holds the resolved Accept header, nil until first needed.
	accepted []mimetypes.Candidate
	// refused holds the keys the Accept header rates q=0.
	refused []string
	format  string
}

/************************************/
/********* CONTEXT CREATION *********/
/************************************/

func (c *Context) reset(w http.ResponseWriter, req *http.Request) {
	c.writermem.reset(w)
	c.request = req
	c.aborted = false
	c.errors = c.errors[:0]
	c.accepted = nil
	c.refused = nil
	c.format = ""
}

/************************************/
/********** REQUEST METHODS *********/
/************************************/

// Request returns the HTTP request.
func (c *Context) Request() *http.Request {
	return c.request
}

// Response returns the response writer of the request.
func (c *Context) Response() ResponseWriter {
	return &c.writermem
}

// Registry returns the registry negotiation runs against.
func (c *Context) Registry() *mimetypes.Registry {
	return c.responder.registry
}

// RequestHeader returns value from request headers.
func (c *Context) RequestHeader(key string) string {
	if c.request == nil {
		return ""
	}
	return c.request.Header.Get(key)
}

// ContentType returns the Content-Type header of the request without parameters.
func (c *Context) ContentType() string {
	return filterFlags(c.RequestHeader("Content-Type"))
}

// GetRawData returns the request body.
func (c *Context) GetRawData() ([]byte, error) {
	if c.request == nil || c.request.Body == nil {
		return nil, ErrNilRequest
	}
	return io.ReadAll(c.request.Body)
}

/************************************/
/************ FLOW CONTROL **********/
/************************************/

// IsAborted returns true if the current context was aborted.
func (c *Context) IsAborted() bool {
	return c.aborted
}

// Abort marks the context as aborted. It does not stop the current handler.
func (c *Context) Abort() {
	c.aborted = true
}

// AbortWithStatus calls Abort() and writes the headers with the specified status code.
func (c *Context) AbortWithStatus(code int) {
	c.Status(code)
	c.Response().WriteHeaderNow()
	c.Abort()
}

// AbortWithError calls AbortWithStatus() and Error() internally.
func (c *Context) AbortWithError(code int, err error) *Error {
	c.AbortWithStatus(code)
	return c.Error(err)
}

/************************************/
/******** ERROR MANAGEMENT **********/
/************************************/

// Error attaches an error to the current context. Errors are collected for
// the caller of the handler; Error panics if err is nil.
func (c *Context) Error(err error) *Error {
	if err == nil {
		panic(ErrNilParam)
	}

	var parsedError *Error
	if !errors.As(err, &parsedError) {
		parsedError = &Error{
			Err:  err,
			Type: ErrorTypePrivate,
		}
	}

	c.errors = append(c.errors, parsedError)
	return parsedError
}

// Errors returns the errors attached to the context.
func (c *Context) Errors() errorMsgs {
	return c.errors
}

/************************************/
/********* BINDING METHODS **********/
/************************************/

// ShouldBind decodes the request body into obj with the binding of the
// transform registered for the request Content-Type.
func (c *Context) ShouldBind(obj any) error {
	b, err := binding.Default(c.responder.registry, c.ContentType())
	if err != nil {
		return err
	}
	return c.ShouldBindWith(obj, b)
}

// ShouldBindWith binds the request body into obj using b.
func (c *Context) ShouldBindWith(obj any, b binding.Binding) error {
	return b.Bind(c.request, obj)
}

// Bind is ShouldBind that aborts with 415 for an unsupported Content-Type
// and 400 for any other failure.
func (c *Context) Bind(obj any) error {
	err := c.ShouldBind(obj)
	if err == nil {
		return nil
	}

	code := http.StatusBadRequest
	if errors.Is(err, binding.ErrUnsupportedMediaType) || errors.Is(err, mimetypes.ErrUnknownMimeType) {
		code = http.StatusUnsupportedMediaType
	}
	c.AbortWithError(code, err).SetType(ErrorTypeBind) //nolint: errcheck
	return err
}

/************************************/
/********* RESPONSE METHODS *********/
/************************************/

// Status sets the HTTP response code.
func (c *Context) Status(code int) {
	c.Response().WriteHeader(code)
}

// Header writes a header in the response. An empty value deletes the header.
func (c *Context) Header(key, value string) {
	if value == "" {
		c.Response().Header().Del(key)
		return
	}
	c.Response().Header().Set(key, value)
}

// Render writes the response headers and calls render.Render to render data.
func (c *Context) Render(code int, r render.Render) {
	c.Status(code)

	if !bodyAllowedForStatus(code) {
		r.WriteContentType(c.Response())
		c.Response().WriteHeaderNow()
		return
	}

	if err := r.Render(c.Response()); err != nil {
		c.Error(err).SetType(ErrorTypeRender) //nolint: errcheck
		c.Abort()
	}
}

// Respond renders obj as the registered type key. The type's response hook
// runs first, then its headers and content type are written and obj is
// serialized by the dispatcher entry point of key.
func (c *Context) Respond(code int, key string, obj any) {
	desc, ok := c.responder.registry.Lookup(key)
	if !ok {
		err := fmt.Errorf("%w: %q", mimetypes.ErrUnknownMimeType, key)
		c.AbortWithError(http.StatusInternalServerError, err).SetType(ErrorTypeRender) //nolint: errcheck
		return
	}

	c.format = key
	if desc.Hook != nil {
		desc.Hook(c.Response(), c.request)
	}

	if err := c.responder.dispatcher.Render(c.Response(), key, code, obj); err != nil {
		c.Error(err).SetType(ErrorTypeRender) //nolint: errcheck
		if !c.Response().Written() {
			c.Status(http.StatusInternalServerError)
		}
		c.Abort()
	}
}

// JSON serializes obj as the registered "json" type.
func (c *Context) JSON(code int, obj any) {
	c.Respond(code, "json", obj)
}

// XML serializes obj as the registered "xml" type.
func (c *Context) XML(code int, obj any) {
	c.Respond(code, "xml", obj)
}

// YAML serializes obj as the registered "yaml" type.
func (c *Context) YAML(code int, obj any) {
	c.Respond(code, "yaml", obj)
}

// TOML serializes obj as the registered "toml" type.
func (c *Context) TOML(code int, obj any) {
	c.Respond(code, "toml", obj)
}

// ProtoBuf serializes obj as the registered "protobuf" type.
func (c *Context) ProtoBuf(code int, obj any) {
	c.Respond(code, "protobuf", obj)
}

// MsgPack serializes obj as the registered "msgpack" type.
func (c *Context) MsgPack(code int, obj any) {
	c.Respond(code, "msgpack", obj)
}

// String writes obj as the registered "text" type.
func (c *Context) String(code int, obj any) {
	c.Respond(code, "text", obj)
}

// Format returns the key of the type the response was rendered as, or "".
func (c *Context) Format() string {
	return c.format
}

// Data writes raw bytes with the given content type.
func (c *Context) Data(code int, contentType string, data []byte) {
	c.Render(code, render.Data{
		ContentType: contentType,
		Data:        data,
	})
}

// SSEvent writes a Server-Sent Event into the body stream.
func (c *Context) SSEvent(name string, message any) {
	c.Render(-1, render.Event{
		Event: name,
		Data:  message,
	})
}

// Stream sends a streaming response and returns a boolean
// indicates "Is client disconnected in middle of stream"
func (c *Context) Stream(step func(w io.Writer) bool) bool {
	w := c.Response()
	clientGone := c.request.Context().Done()
	for {
		select {
		case <-clientGone:
			return true
		default:
			keepOpen := step(w)
			w.Flush()
			if !keepOpen {
				return false
			}
		}
	}
}

/************************************/
/******* CONTENT NEGOTIATION ********/
/************************************/

// Accepted returns the registered types acceptable for the request, best first.
// The Accept header is resolved once per request.
func (c *Context) Accepted() []mimetypes.Candidate {
	if c.accepted == nil {
		accept := c.RequestHeader("Accept")
		c.accepted = c.responder.registry.Resolve(accept)
		c.refused = c.responder.registry.Refused(accept)
	}
	return c.accepted
}

// SetAccepted replaces the negotiated types with keys, each at quality 1.
func (c *Context) SetAccepted(keys ...string) {
	c.accepted = make([]mimetypes.Candidate, 0, len(keys))
	c.refused = nil
	for _, key := range keys {
		c.accepted = append(c.accepted, mimetypes.Candidate{Key: key, Quality: 1})
	}
}

// NegotiateFormat returns the offered key the client prefers. An accepted
// catch-all selects the first offer the client neither refused nor ranked
// below it; "" means nothing offered is acceptable.
func (c *Context) NegotiateFormat(offered ...string) string {
	assert1(len(offered) > 0, "you must provide at least one offer")

	accepted := c.Accepted()
	if len(accepted) == 0 {
		return offered[0]
	}
	for i, cand := range accepted {
		if cand.Key == mimetypes.All {
			if key := c.unrated(offered, accepted[i+1:]); key != "" {
				return key
			}
			continue
		}
		if slices.Contains(offered, cand.Key) {
			return cand.Key
		}
	}
	return ""
}

// unrated returns the first offer that is neither refused nor in below.
func (c *Context) unrated(offered []string, below []mimetypes.Candidate) string {
	for _, key := range offered {
		if slices.Contains(c.refused, key) {
			continue
		}
		if slices.ContainsFunc(below, func(cand mimetypes.Candidate) bool { return cand.Key == key }) {
			continue
		}
		return key
	}
	return ""
}

// Negotiate renders obj as the offered type the client prefers and aborts
// with 406 Not Acceptable when there is none. A negotiated key that is no
// longer registered degrades to the first offer.
func (c *Context) Negotiate(code int, obj any, offered ...string) {
	key := c.NegotiateFormat(offered...)
	if key == "" {
		c.AbortWithError(http.StatusNotAcceptable, ErrNotAcceptable).SetType(ErrorTypeNegotiation) //nolint: errcheck
		return
	}
	if _, ok := c.responder.registry.Lookup(key); !ok && key != offered[0] {
		debugPrint("negotiated type %q is not registered, falling back to %q", key, offered[0])
		key = offered[0]
	}
	c.Respond(code, key, obj)
}

/************************************/
/********* HELPER FUNCTIONS *********/
/************************************/

func filterFlags(content string) string {
	if i := strings.IndexAny(content, "; "); i >= 0 {
		return content[:i]
	}
	return content
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
