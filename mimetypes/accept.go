package mimetypes

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// AcceptRange is one media range of an Accept header.
type AcceptRange struct {
	Type    string
	Subtype string
	// Quality is the q parameter, 1 when absent.
	Quality float64
	// Explicit reports whether the header carried a valid q parameter.
	Explicit bool
}

// String returns the range as "type/subtype".
func (a AcceptRange) String() string {
	return a.Type + "/" + a.Subtype
}

// Matches reports whether the range covers the media type or pattern
// typ/subtype. A "*" segment on either side matches any value.
func (a AcceptRange) Matches(typ, subtype string) bool {
	return segmentMatch(a.Type, typ) && segmentMatch(a.Subtype, subtype)
}

func segmentMatch(a, b string) bool {
	return a == "*" || b == "*" || strings.EqualFold(a, b)
}

// ParseAccept splits an Accept header into its media ranges, in header order.
// A lone "*" is read as "*/*". Malformed ranges are dropped, a malformed q
// parameter is ignored and q values are clamped to [0, 1].
func ParseAccept(header string) []AcceptRange {
	parts := strings.Split(header, ",")
	out := make([]AcceptRange, 0, len(parts))
	for _, part := range parts {
		params := strings.Split(part, ";")
		media := strings.TrimSpace(params[0])
		if media == "*" {
			media = MIMEAll
		}
		typ, subtype, ok := splitMediaRange(media)
		if !ok {
			continue
		}

		ar := AcceptRange{
			Type:    strings.ToLower(typ),
			Subtype: strings.ToLower(subtype),
			Quality: 1,
		}
		for _, param := range params[1:] {
			name, value, found := strings.Cut(strings.TrimSpace(param), "=")
			if !found || !strings.EqualFold(strings.TrimSpace(name), "q") {
				continue
			}
			q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || math.IsNaN(q) {
				break
			}
			ar.Quality = min(max(q, 0), 1)
			ar.Explicit = true
			// parameters after q are accept extensions
			break
		}
		out = append(out, ar)
	}
	return out
}

// splitMediaRange splits "type/subtype" and checks both are HTTP tokens.
func splitMediaRange(s string) (typ, subtype string, ok bool) {
	typ, subtype, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found || !isToken(typ) || !isToken(subtype) {
		return "", "", false
	}
	return typ, subtype, true
}

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !httpguts.IsTokenRune(r) {
			return false
		}
	}
	return true
}
