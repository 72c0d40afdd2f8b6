// Copyright 2014 Manu Martinez-Almeida. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package binding

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"gin-mime/mimetypes"

	"github.com/go-playground/validator/v10"
)

// ErrUnsupportedMediaType is returned by Default when the request content
// type maps to no registered type with a decodable transform.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// Binding describes the interface which needs to be implemented for binding the
// data present in the request such as JSON request body, query parameters or
// the form POST.
type Binding interface {
	Name() string
	Bind(*http.Request, any) error
}

// BindingBody adds BindBody method to Binding. BindBody is similar with Bind,
// but it reads the body from supplied bytes instead of req.Body.
type BindingBody interface {
	Binding
	BindBody([]byte, any) error
}

// StructValidator is the minimal interface which needs to be implemented in
// order for it to be used as the validator engine for ensuring the correctness
// of the request.
type StructValidator interface {
	ValidateStruct(any) error
	Engine() any
}

// Validator is the default validator which implements the StructValidator
// interface. It uses https://github.com/go-playground/validator/tree/v10.
var Validator StructValidator = &defaultValidator{}

// These implement the Binding interface and can be used to bind the data
// present in the request to struct instances.
var (
	JSON     BindingBody = jsonBinding{}
	XML      BindingBody = xmlBinding{}
	YAML     BindingBody = yamlBinding{}
	TOML     BindingBody = tomlBinding{}
	MsgPack  BindingBody = msgpackBinding{}
	ProtoBuf BindingBody = protobufBinding{}
)

var byTransform = map[string]BindingBody{
	mimetypes.TransformJSON:     JSON,
	mimetypes.TransformXML:      XML,
	mimetypes.TransformYAML:     YAML,
	mimetypes.TransformTOML:     TOML,
	mimetypes.TransformMsgPack:  MsgPack,
	mimetypes.TransformProtoBuf: ProtoBuf,
}

// Default returns the binding for a request Content-Type. The content type is
// looked up in the registry's reverse index and the binding is picked from the
// transform of the type it maps to, so any type registered with "to_json"
// decodes as JSON.
func Default(reg *mimetypes.Registry, contentType string) (BindingBody, error) {
	mediaType := filterFlags(contentType)
	key, ok := reg.KeyFor(mediaType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mediaType)
	}
	transform, err := reg.TransformFor(key)
	if err != nil {
		return nil, err
	}
	b, ok := byTransform[transform]
	if !ok {
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedMediaType, mediaType, key)
	}
	return b, nil
}

func validate(obj any) error {
	if Validator == nil {
		return nil
	}
	return Validator.ValidateStruct(obj)
}

func filterFlags(content string) string {
	for i, char := range content {
		if char == ' ' || char == ';' {
			return content[:i]
		}
	}
	return strings.TrimSpace(content)
}

type defaultValidator struct {
	once     sync.Once
	validate *validator.Validate
}

var _ StructValidator = (*defaultValidator)(nil)

// ValidateStruct validates obj when it is a struct or a pointer to one.
func (v *defaultValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}

	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	v.lazyinit()
	return v.validate.Struct(value.Interface())
}

// Engine returns the underlying validator engine which powers the default
// Validator instance.
func (v *defaultValidator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *defaultValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New(validator.WithRequiredStructEnabled())
		v.validate.SetTagName("binding")
	})
}
