package mimetypes

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"gin-mime/internal/debug"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	debug.SetMode(debug.TestMode)
}

type recordingDefiner struct {
	mu   sync.Mutex
	keys []string
}

func (d *recordingDefiner) DefineRenderEntryPoint(key string) {
	d.mu.Lock()
	d.keys = append(d.keys, key)
	d.mu.Unlock()
}

func TestNewHasOnlyAll(t *testing.T) {
	r := New()

	types := r.Types()
	require.Len(t, types, 1)
	assert.Equal(t, Descriptor{
		Key:            All,
		Accepts:        []string{"*/*"},
		Transform:      NoTransform,
		ContentType:    "*/*",
		Headers:        map[string]string{},
		DefaultQuality: 1,
	}, types[All])
	assert.Equal(t, map[string]string{"*/*": All}, r.WireMappings())
}

func TestRegisterRoundTrip(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("vcard", "to_vcard", []string{"text/vcard", "text/x-vcard"},
		WithHeaders(map[string]string{"X-Format": "vcard"}),
		WithQuality(0.5),
	))

	d, ok := r.Lookup("vcard")
	require.True(t, ok)
	assert.Equal(t, Descriptor{
		Key:            "vcard",
		Accepts:        []string{"text/vcard", "text/x-vcard"},
		Transform:      "to_vcard",
		ContentType:    "text/vcard",
		Headers:        map[string]string{"X-Format": "vcard"},
		DefaultQuality: 0.5,
	}, d)
	assert.Equal(t, d, r.Types()["vcard"])

	wires := r.WireMappings()
	assert.Equal(t, "vcard", wires["text/vcard"])
	assert.Equal(t, "vcard", wires["text/x-vcard"])
}

func TestRegisterCharset(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("json", "to_json", []string{"application/json"},
		WithHeaders(map[string]string{"charset": "utf-8"})))

	d, _ := r.Lookup("json")
	assert.Equal(t, "application/json; charset=utf-8", d.ContentType)
	assert.NotContains(t, d.Headers, "charset")
	assert.Empty(t, d.Headers)
}

func TestRegisterExplicitContentType(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("rss", "to_xml", []string{"application/rss+xml"},
		WithHeaders(map[string]string{"Content-Type": "application/xml", "Charset": "utf-8"})))

	d, _ := r.Lookup("rss")
	assert.Equal(t, "application/xml; charset=utf-8", d.ContentType)
	assert.Equal(t, map[string]string{"Content-Type": "application/xml"}, d.Headers)
}

func TestRegisterReplacesEntirely(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("json", "to_json", []string{"application/json", "text/x-json"},
		WithHeaders(map[string]string{"X-A": "1"}), WithQuality(0.3), WithHook(func(http.ResponseWriter, *http.Request) {})))
	require.NoError(t, r.Register("json", NoTransform, []string{"application/vnd.api+json"}))

	d, _ := r.Lookup("json")
	assert.Equal(t, []string{"application/vnd.api+json"}, d.Accepts)
	assert.Equal(t, NoTransform, d.Transform)
	assert.Empty(t, d.Headers)
	assert.Equal(t, 1.0, d.DefaultQuality)
	assert.Nil(t, d.Hook)
	assert.Equal(t, []string{All, "json"}, r.Keys())
}

func TestRegisterReassignsWireString(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("xml", "to_xml", []string{"application/xml", "text/xml"}))
	require.NoError(t, r.Register("rss", "to_xml", []string{"application/rss+xml", "text/xml"}))

	key, ok := r.KeyFor("text/xml")
	assert.True(t, ok)
	assert.Equal(t, "rss", key)

	key, _ = r.KeyFor("application/xml")
	assert.Equal(t, "xml", key)

	// xml still lists text/xml, but only rss answers for it
	assert.Equal(t, []Candidate{{Key: "rss", Quality: 1}}, r.Resolve("text/xml"))
}

func TestRegisterInvalidArgument(t *testing.T) {
	r := New()
	tests := []struct {
		name    string
		key     string
		accepts []string
		opts    []Option
	}{
		{"empty key", "", []string{"text/plain"}, nil},
		{"bad key", "not a key", []string{"text/plain"}, nil},
		{"leading digit", "3gp", []string{"video/3gpp"}, nil},
		{"no accepts", "text", nil, nil},
		{"empty accepts", "text", []string{}, nil},
		{"no slash", "text", []string{"text"}, nil},
		{"empty subtype", "text", []string{"text/"}, nil},
		{"params", "text", []string{"text/plain; charset=utf-8"}, nil},
		{"zero quality", "text", []string{"text/plain"}, []Option{WithQuality(0)}},
		{"negative quality", "text", []string{"text/plain"}, []Option{WithQuality(-1)}},
		{"bad header name", "text", []string{"text/plain"}, []Option{WithHeaders(map[string]string{"Bad Header": "x"})}},
		{"bad header value", "text", []string{"text/plain"}, []Option{WithHeaders(map[string]string{"X-A": "a\nb"})}},
		{"bad charset", "text", []string{"text/plain"}, []Option{WithHeaders(map[string]string{"charset": "a b"})}},
		{"catch-all without */*", All, []string{"text/html"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.key, NoTransform, tt.accepts, tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
	assert.Equal(t, 1, r.Len())
	assert.Panics(t, func() { r.MustRegister("", NoTransform, nil) })
}

func TestRegisterAllKeepsWildcard(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(All, NoTransform, []string{"application/octet-stream", MIMEAll}, WithQuality(0.5)))

	d, ok := r.Lookup(All)
	require.True(t, ok)
	assert.Contains(t, d.Accepts, MIMEAll)
	assert.Equal(t, []Candidate{{Key: All, Quality: 0.5}}, r.Resolve("*/*"))
}

func TestUnregister(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("csv", NoTransform, []string{"text/csv"}))

	d, outcome := r.Unregister("csv")
	assert.Equal(t, Removed, outcome)
	assert.Equal(t, "csv", d.Key)
	_, ok := r.Lookup("csv")
	assert.False(t, ok)

	_, outcome = r.Unregister("csv")
	assert.Equal(t, NotPresent, outcome)
}

func TestUnregisterAll(t *testing.T) {
	r := New()
	_, outcome := r.Unregister(All)
	assert.Equal(t, NotRemovable, outcome)
	assert.Equal(t, "not removable", outcome.String())
	assert.Contains(t, r.Types(), All)
}

// Unregister keeps the wire mappings of the removed key. They resolve to the
// old key, which then fails as unknown; negotiation skips them.
func TestUnregisterLeavesStaleWireMapping(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("csv", "to_csv", []string{"text/csv"}))
	r.Unregister("csv")

	key, ok := r.KeyFor("text/csv")
	assert.True(t, ok)
	assert.Equal(t, "csv", key)
	assert.Equal(t, "csv", r.WireMappings()["text/csv"])

	_, err := r.TransformFor(key)
	assert.ErrorIs(t, err, ErrUnknownMimeType)

	assert.Equal(t, []Candidate{{Key: All, Quality: 1}}, r.Resolve("text/csv"))
}

func TestTransformFor(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("json", "to_json", []string{"application/json"}))
	require.NoError(t, r.Register("html", NoTransform, []string{"text/html"}))

	transform, err := r.TransformFor("json")
	require.NoError(t, err)
	assert.Equal(t, "to_json", transform)

	transform, err = r.TransformFor("html")
	require.NoError(t, err)
	assert.Equal(t, NoTransform, transform)

	_, err = r.TransformFor("nonexistent")
	assert.ErrorIs(t, err, ErrUnknownMimeType)
}

func TestKeyForIgnoresCase(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("json", "to_json", []string{"application/json"}))

	key, ok := r.KeyFor(" Application/JSON ")
	assert.True(t, ok)
	assert.Equal(t, "json", key)

	_, ok = r.KeyFor("application/xml")
	assert.False(t, ok)
}

func TestSnapshotsAreCopies(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("json", "to_json", []string{"application/json"},
		WithHeaders(map[string]string{"X-A": "1"})))

	types := r.Types()
	types["json"].Headers["X-A"] = "2"
	types["json"].Accepts[0] = "text/plain"
	delete(types, All)

	wires := r.WireMappings()
	wires["application/json"] = "other"

	d, _ := r.Lookup("json")
	assert.Equal(t, "1", d.Headers["X-A"])
	assert.Equal(t, "application/json", d.Accepts[0])
	assert.Contains(t, r.Types(), All)
	key, _ := r.KeyFor("application/json")
	assert.Equal(t, "json", key)
}

func TestOnRegister(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("html", NoTransform, []string{"text/html"}))

	definer := &recordingDefiner{}
	r.OnRegister(definer)
	assert.Equal(t, []string{All, "html"}, definer.keys)

	require.NoError(t, r.Register("json", "to_json", []string{"application/json"}))
	require.NoError(t, r.Register("json", "to_json", []string{"application/json"}))
	assert.Equal(t, []string{All, "html", "json", "json"}, definer.keys)

	assert.Error(t, r.Register("", NoTransform, []string{"text/plain"}))
	assert.Len(t, definer.keys, 4)
}

func TestOnRegisterDefinerMayReadRegistry(t *testing.T) {
	r := New()
	var seen []string
	r.OnRegister(definerFunc(func(key string) {
		d, ok := r.Lookup(key)
		require.True(t, ok)
		seen = append(seen, d.ContentType)
	}))
	require.NoError(t, r.Register("json", "to_json", []string{"application/json"}))
	assert.Equal(t, []string{"*/*", "application/json"}, seen)
}

type definerFunc func(string)

func (f definerFunc) DefineRenderEntryPoint(key string) { f(key) }

func TestHookIsStored(t *testing.T) {
	r := New()
	called := false
	require.NoError(t, r.Register("html", NoTransform, []string{"text/html"},
		WithHook(func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.Header().Set("X-Frame-Options", "DENY")
		})))

	d, _ := r.Lookup("html")
	require.NotNil(t, d.Hook)
	w := httptest.NewRecorder()
	d.Hook(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestDefault(t *testing.T) {
	r := Default()

	assert.Equal(t, All, r.Keys()[0])
	for _, b := range builtins {
		d, ok := r.Lookup(b.key)
		require.True(t, ok, b.key)
		assert.Equal(t, b.accepts, d.Accepts)
	}

	d, _ := r.Lookup("json")
	assert.Equal(t, "application/json", d.ContentType)
	d, _ = r.Lookup("html")
	assert.Equal(t, "text/html; charset=utf-8", d.ContentType)
	d, _ = r.Lookup("event_stream")
	assert.Equal(t, map[string]string{"Cache-Control": "no-cache"}, d.Headers)
}

func TestConcurrentRegisterAndResolve(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	stop := make(chan struct{})
	known := map[string]struct{}{All: {}, "json": {}, "csv": {}}

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for _, c := range r.Resolve("application/json, text/csv;q=0.5, */*;q=0.1") {
					if _, ok := known[c.Key]; !ok {
						t.Errorf("resolved unexpected key %q", c.Key)
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		assert.NoError(t, r.Register("json", "to_json", []string{"application/json"}))
		assert.NoError(t, r.Register("csv", NoTransform, []string{"text/csv"}))
		r.Unregister("json")
		r.Unregister("csv")
	}
	close(stop)
	wg.Wait()
}
