package mimetypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccept(t *testing.T) {
	got := ParseAccept("text/html, application/xhtml+xml;level=1, application/xml;q=0.9, image/webp, */*;q=0.8")
	assert.Equal(t, []AcceptRange{
		{Type: "text", Subtype: "html", Quality: 1},
		{Type: "application", Subtype: "xhtml+xml", Quality: 1},
		{Type: "application", Subtype: "xml", Quality: 0.9, Explicit: true},
		{Type: "image", Subtype: "webp", Quality: 1},
		{Type: "*", Subtype: "*", Quality: 0.8, Explicit: true},
	}, got)
}

func TestParseAcceptEdgeCases(t *testing.T) {
	assert.Empty(t, ParseAccept(""))
	assert.Empty(t, ParseAccept(" , ;q=1, text"))

	assert.Equal(t, []AcceptRange{{Type: "*", Subtype: "*", Quality: 1}}, ParseAccept("*"))
	assert.Equal(t, []AcceptRange{{Type: "text", Subtype: "html", Quality: 1}}, ParseAccept("TEXT/HTML"))
	assert.Equal(t, []AcceptRange{{Type: "text", Subtype: "html", Quality: 1}}, ParseAccept("text/html;q=abc"))
	assert.Equal(t, []AcceptRange{{Type: "text", Subtype: "html", Quality: 1, Explicit: true}}, ParseAccept("text/html;q=7"))
	assert.Equal(t, []AcceptRange{{Type: "text", Subtype: "html", Quality: 0, Explicit: true}}, ParseAccept("text/html; Q=-1"))
	assert.Equal(t, []AcceptRange{{Type: "text", Subtype: "html", Quality: 0.5, Explicit: true}}, ParseAccept("text/html;q=0.5;q=0.1"))
}

func TestAcceptRangeMatches(t *testing.T) {
	ar := AcceptRange{Type: "text", Subtype: "*"}
	assert.True(t, ar.Matches("text", "html"))
	assert.True(t, ar.Matches("TEXT", "csv"))
	assert.False(t, ar.Matches("application", "json"))

	assert.True(t, AcceptRange{Type: "image", Subtype: "png"}.Matches("image", "*"))
	assert.True(t, AcceptRange{Type: "*", Subtype: "*"}.Matches("application", "json"))
	assert.Equal(t, "image/png", AcceptRange{Type: "image", Subtype: "png"}.String())
}

func scenarioRegistry(t *testing.T) *Registry {
	r := New()
	require.NoError(t, r.Register("html", NoTransform, []string{"text/html"}))
	require.NoError(t, r.Register("json", "to_json", []string{"application/json"}))
	return r
}

func TestResolveScenario(t *testing.T) {
	r := scenarioRegistry(t)
	assert.Equal(t,
		[]Candidate{{Key: "json", Quality: 0.9}, {Key: "html", Quality: 0.8}},
		r.Resolve("application/json;q=0.9, text/html;q=0.8"))
}

func TestResolveFallback(t *testing.T) {
	r := New()
	assert.Equal(t, []Candidate{{Key: All, Quality: 1}}, r.Resolve("*/*"))
	assert.Equal(t, []Candidate{{Key: All, Quality: 1}}, r.Resolve(""))
	assert.Equal(t, []Candidate{{Key: All, Quality: 1}}, r.Resolve("application/json"))
	assert.Equal(t, []Candidate{{Key: All, Quality: 1}}, r.Resolve("garbage"))
}

func TestResolveDefaultQuality(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("html", NoTransform, []string{"text/html"}, WithQuality(0.4)))
	require.NoError(t, r.Register("json", "to_json", []string{"application/json"}, WithQuality(0.6)))

	assert.Equal(t,
		[]Candidate{{Key: "json", Quality: 0.6}, {Key: "html", Quality: 0.4}},
		r.Resolve("text/html, application/json"))

	// the header q wins over the default quality
	assert.Equal(t,
		[]Candidate{{Key: "html", Quality: 1}, {Key: "json", Quality: 0.6}},
		r.Resolve("text/html;q=1, application/json"))
}

func TestResolveTiesFollowRegistrationOrder(t *testing.T) {
	r := scenarioRegistry(t)
	assert.Equal(t,
		[]Candidate{{Key: "html", Quality: 1}, {Key: "json", Quality: 1}},
		r.Resolve("application/json, text/html"))
}

func TestResolveAllSortsLastAmongEquals(t *testing.T) {
	r := scenarioRegistry(t)
	assert.Equal(t,
		[]Candidate{{Key: "html", Quality: 1}, {Key: All, Quality: 1}},
		r.Resolve("*/*, text/html"))
	assert.Equal(t,
		[]Candidate{{Key: "json", Quality: 1}, {Key: All, Quality: 0.1}},
		r.Resolve("application/json, */*;q=0.1"))
}

func TestResolveWildcardRange(t *testing.T) {
	r := Default()
	got := r.Resolve("text/*;q=0.5, application/json")

	require.NotEmpty(t, got)
	assert.Equal(t, Candidate{Key: "json", Quality: 1}, got[0])
	keys := make([]string, 0, len(got))
	for _, c := range got[1:] {
		assert.Equal(t, 0.5, c.Quality)
		keys = append(keys, c.Key)
	}
	assert.Equal(t, []string{"html", "text", "js", "css", "csv", "xml", "yaml", "event_stream"}, keys)
}

func TestResolveRegisteredPattern(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("image", NoTransform, []string{"image/*"}))

	assert.Equal(t, []Candidate{{Key: "image", Quality: 0.7}}, r.Resolve("image/avif;q=0.7"))
}

func TestResolveMixedCaseRegistration(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("vnd", NoTransform, []string{"application/VND.Example+JSON"}))

	assert.Equal(t, []Candidate{{Key: "vnd", Quality: 1}}, r.Resolve("application/vnd.example+json"))
}

func TestResolveKeepsHighestQuality(t *testing.T) {
	r := Default()
	assert.Equal(t,
		[]Candidate{{Key: "xml", Quality: 0.8}},
		r.Resolve("application/xml;q=0.2, text/xml;q=0.8"))
}

func TestResolveZeroQualityRefuses(t *testing.T) {
	r := scenarioRegistry(t)
	assert.Equal(t,
		[]Candidate{{Key: "json", Quality: 1}},
		r.Resolve("text/html;q=0, application/json"))
	assert.Equal(t,
		[]Candidate{{Key: All, Quality: 1}},
		r.Resolve("text/html;q=0"))
	assert.Equal(t, []string{"html"}, r.Refused("text/html;q=0"))
}

func TestResolveSpecificRangeWins(t *testing.T) {
	r := Default()

	assert.Equal(t, []Candidate{{Key: "html", Quality: 1}}, r.Resolve("text/*;q=0, text/html"))
	assert.Equal(t,
		[]string{"text", "js", "css", "csv", "xml", "json", "yaml", "event_stream"},
		r.Refused("text/*;q=0, text/html"))

	got := r.Resolve("text/html;q=0.1, text/*")
	require.NotEmpty(t, got)
	assert.Equal(t, Candidate{Key: "text", Quality: 1}, got[0])
	assert.Equal(t, Candidate{Key: "html", Quality: 0.1}, got[len(got)-1])
	assert.Empty(t, r.Refused("text/html;q=0.1, text/*"))

	assert.Equal(t,
		[]Candidate{{Key: All, Quality: 1}, {Key: "json", Quality: 0.1}},
		r.Resolve("application/json;q=0.1, */*"))
	assert.Equal(t, []string{"json"}, r.Refused("application/json;q=0, */*"))
}

func TestResolveCacheFlushedOnChange(t *testing.T) {
	r := New()
	header := "application/json"
	assert.Equal(t, []Candidate{{Key: All, Quality: 1}}, r.Resolve(header))

	require.NoError(t, r.Register("json", "to_json", []string{"application/json"}))
	assert.Equal(t, []Candidate{{Key: "json", Quality: 1}}, r.Resolve(header))

	r.Unregister("json")
	assert.Equal(t, []Candidate{{Key: All, Quality: 1}}, r.Resolve(header))
}

func TestResolveReturnsCopies(t *testing.T) {
	r := scenarioRegistry(t)
	got := r.Resolve("text/html")
	got[0].Key = "mutated"

	assert.Equal(t, []Candidate{{Key: "html", Quality: 1}}, r.Resolve("text/html"))
}
