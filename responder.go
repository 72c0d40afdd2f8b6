// Copyright 2014 Manu Martinez-Almeida. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package ginMime

import (
	"net/http"
	"sync"

	"gin-mime/mimetypes"
	"gin-mime/render"
)

// Responder adapts HandlerFuncs to net/http. Every request gets a pooled
// Context bound to the responder's registry and dispatcher.
type Responder struct {
	registry   *mimetypes.Registry
	dispatcher *render.Dispatcher
	pool       sync.Pool
}

// NewResponder returns a Responder negotiating against reg and rendering
// through disp. A nil disp gets a new dispatcher subscribed to reg.
func NewResponder(reg *mimetypes.Registry, disp *render.Dispatcher) *Responder {
	assert1(reg != nil, "registry must not be nil")
	if disp == nil {
		disp = render.NewDispatcher(reg)
	}

	r := &Responder{
		registry:   reg,
		dispatcher: disp,
	}
	r.pool.New = func() any {
		return r.allocateContext()
	}
	return r
}

// Default returns a Responder over mimetypes.Default().
func Default() *Responder {
	debugPrint("Creating a responder with the built-in types. Use NewResponder for a custom registry.")
	return NewResponder(mimetypes.Default(), nil)
}

func (r *Responder) allocateContext() *Context {
	return &Context{responder: r}
}

// Registry returns the registry of the responder.
func (r *Responder) Registry() *mimetypes.Registry {
	return r.registry
}

// Dispatcher returns the render dispatcher of the responder.
func (r *Responder) Dispatcher() *render.Dispatcher {
	return r.dispatcher
}

// Handle returns an http.Handler running h with a fresh Context.
func (r *Responder) Handle(h HandlerFunc) http.Handler {
	assert1(h != nil, "handler must not be nil")

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		c := r.pool.Get().(*Context)
		c.reset(w, req)

		h(c)
		c.writermem.WriteHeaderNow()

		r.pool.Put(c)
	})
}
