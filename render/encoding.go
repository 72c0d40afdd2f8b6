// Copyright 2014 Manu Martinez-Almeida. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package render

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"gin-mime/mimetypes"

	"github.com/gin-contrib/sse"
	"github.com/pelletier/go-toml/v2"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"
)

var errNotProtoMessage = errors.New("payload is not a proto.Message")

// Event is a server-sent event.
type Event = sse.Event

func encodeJSON(w io.Writer, obj any) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func encodeXML(w io.Writer, obj any) error {
	return xml.NewEncoder(w).Encode(obj)
}

func encodeYAML(w io.Writer, obj any) error {
	b, err := yaml.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func encodeTOML(w io.Writer, obj any) error {
	b, err := toml.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func encodeProtoBuf(w io.Writer, obj any) error {
	msg, ok := obj.(proto.Message)
	if !ok {
		return fmt.Errorf("%w: %T", errNotProtoMessage, obj)
	}
	b, err := proto.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func encodeText(w io.Writer, obj any) error {
	var err error
	switch v := obj.(type) {
	case string:
		_, err = io.WriteString(w, v)
	case []byte:
		_, err = w.Write(v)
	case fmt.Stringer:
		_, err = io.WriteString(w, v.String())
	default:
		_, err = fmt.Fprint(w, v)
	}
	return err
}

func encodeEvent(w io.Writer, obj any) error {
	switch v := obj.(type) {
	case Event:
		return sse.Encode(w, v)
	case []Event:
		for _, event := range v {
			if err := sse.Encode(w, event); err != nil {
				return err
			}
		}
		return nil
	}
	return sse.Encode(w, Event{Data: obj})
}

func defaultEncoders() map[string]Encoder {
	return map[string]Encoder{
		mimetypes.TransformJSON:        encodeJSON,
		mimetypes.TransformXML:         encodeXML,
		mimetypes.TransformYAML:        encodeYAML,
		mimetypes.TransformTOML:        encodeTOML,
		mimetypes.TransformMsgPack:     encodeMsgPack,
		mimetypes.TransformProtoBuf:    encodeProtoBuf,
		mimetypes.TransformText:        encodeText,
		mimetypes.TransformEventStream: encodeEvent,
	}
}
