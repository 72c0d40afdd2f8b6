// Copyright 2017 Manu Martinez-Almeida. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package render

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

func encodeMsgPack(w io.Writer, obj any) error {
	return msgpack.NewEncoder(w).Encode(obj)
}
