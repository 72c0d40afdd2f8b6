// Copyright 2014 Manu Martinez-Almeida. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package binding

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pelletier/go-toml/v2"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"
)

var errNilBody = errors.New("invalid request")

type jsonBinding struct{}

func (jsonBinding) Name() string {
	return "json"
}

func (jsonBinding) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return errNilBody
	}
	return decodeJSON(req.Body, obj)
}

func (jsonBinding) BindBody(body []byte, obj any) error {
	return decodeJSON(bytes.NewReader(body), obj)
}

func decodeJSON(r io.Reader, obj any) error {
	if err := json.NewDecoder(r).Decode(obj); err != nil {
		return err
	}
	return validate(obj)
}

type xmlBinding struct{}

func (xmlBinding) Name() string {
	return "xml"
}

func (xmlBinding) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return errNilBody
	}
	return decodeXML(req.Body, obj)
}

func (xmlBinding) BindBody(body []byte, obj any) error {
	return decodeXML(bytes.NewReader(body), obj)
}

func decodeXML(r io.Reader, obj any) error {
	if err := xml.NewDecoder(r).Decode(obj); err != nil {
		return err
	}
	return validate(obj)
}

type yamlBinding struct{}

func (yamlBinding) Name() string {
	return "yaml"
}

func (yamlBinding) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return errNilBody
	}
	return decodeYAML(req.Body, obj)
}

func (yamlBinding) BindBody(body []byte, obj any) error {
	return decodeYAML(bytes.NewReader(body), obj)
}

func decodeYAML(r io.Reader, obj any) error {
	if err := yaml.NewDecoder(r).Decode(obj); err != nil {
		return err
	}
	return validate(obj)
}

type tomlBinding struct{}

func (tomlBinding) Name() string {
	return "toml"
}

func (tomlBinding) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return errNilBody
	}
	return decodeTOML(req.Body, obj)
}

func (tomlBinding) BindBody(body []byte, obj any) error {
	return decodeTOML(bytes.NewReader(body), obj)
}

func decodeTOML(r io.Reader, obj any) error {
	if err := toml.NewDecoder(r).Decode(obj); err != nil {
		return err
	}
	return validate(obj)
}

type protobufBinding struct{}

func (protobufBinding) Name() string {
	return "protobuf"
}

func (b protobufBinding) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return errNilBody
	}
	buf, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	return b.BindBody(buf, obj)
}

func (protobufBinding) BindBody(body []byte, obj any) error {
	msg, ok := obj.(proto.Message)
	if !ok {
		return fmt.Errorf("obj is not ProtoMessage: %T", obj)
	}
	if err := proto.Unmarshal(body, msg); err != nil {
		return err
	}
	// Here it's same to return validate(obj), but until now we can't add
	// `binding:""` to the struct which automatically generate by gen-proto
	return nil
}
