package expvar

import (
	"expvar"
	"fmt"
	"net/http"

	ginMime "gin-mime"
	"gin-mime/mimetypes"
)

// TypeVar is the published view of one registered type.
type TypeVar struct {
	Accepts     []string          `json:"accepts"`
	Transform   string            `json:"transform,omitempty"`
	ContentType string            `json:"content_type"`
	Headers     map[string]string `json:"headers,omitempty"`
	Quality     float64           `json:"quality"`
}

// Publish exposes the types of reg as the expvar name. The value is computed
// on every read, so later registrations and removals show up. Like
// expvar.Publish, it panics if name is already in use.
func Publish(name string, reg *mimetypes.Registry) {
	expvar.Publish(name, expvar.Func(func() any {
		return Snapshot(reg)
	}))
}

// Snapshot returns the published view of reg keyed by type key.
func Snapshot(reg *mimetypes.Registry) map[string]TypeVar {
	types := reg.Types()
	out := make(map[string]TypeVar, len(types))
	for key, d := range types {
		var headers map[string]string
		if len(d.Headers) > 0 {
			headers = d.Headers
		}
		out[key] = TypeVar{
			Accepts:     d.Accepts,
			Transform:   d.Transform,
			ContentType: d.ContentType,
			Headers:     headers,
			Quality:     d.DefaultQuality,
		}
	}
	return out
}

// Handler writes every published expvar as one JSON object.
func Handler() ginMime.HandlerFunc {
	return func(c *ginMime.Context) {
		w := c.Response()
		c.Header("Content-Type", "application/json; charset=utf-8")
		_, _ = w.WriteString("{\n")
		first := true
		expvar.Do(func(kv expvar.KeyValue) {
			if !first {
				_, _ = w.WriteString(",\n")
			}
			first = false
			fmt.Fprintf(w, "%q: %s", kv.Key, kv.Value)
		})
		_, _ = w.WriteString("\n}\n")
		c.AbortWithStatus(http.StatusOK)
	}
}
