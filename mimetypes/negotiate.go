package mimetypes

import (
	"cmp"
	"slices"
)

// Resolve turns an Accept header into candidate keys ordered by descending
// quality. Equal qualities keep registration order, with the catch-all type
// last. A range without a q parameter takes the matched type's default
// quality. Ranges naming no registered wire string literally are matched
// against every registered accept pattern, wildcards included.
//
// When several ranges select the same key the most specific one rates it:
// a full type/subtype beats type/*, which beats */*. Ranges of equal
// specificity keep the highest quality. A key rated q=0 is refused.
//
// Resolve never fails: when nothing matches it returns the catch-all type
// alone, and wire strings left behind by Unregister are skipped.
func (r *Registry) Resolve(header string) []Candidate {
	return slices.Clone(r.resolution(header).accepted)
}

// Refused returns the registered keys the Accept header rates q=0, in
// registration order.
func (r *Registry) Refused(header string) []string {
	return slices.Clone(r.resolution(header).refused)
}

type resolution struct {
	accepted []Candidate
	refused  []string
}

func (r *Registry) resolution(header string) resolution {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cached, ok := r.resolved.Get(header); ok {
		return cached.(resolution)
	}

	res := r.resolve(ParseAccept(header))
	if r.resolved.ItemCount() >= maxResolved {
		r.resolved.Flush()
	}
	r.resolved.SetDefault(header, res)
	return res
}

// rating is the quality a key got from the most specific range selecting it.
type rating struct {
	quality     float64
	specificity int
}

func specificity(ar AcceptRange) int {
	switch {
	case ar.Type == "*":
		return 0
	case ar.Subtype == "*":
		return 1
	}
	return 2
}

func (r *Registry) resolve(ranges []AcceptRange) resolution {
	if len(ranges) == 0 {
		ranges = []AcceptRange{{Type: "*", Subtype: "*", Quality: 1}}
	}

	rated := make(map[string]rating)
	for _, ar := range ranges {
		spec := specificity(ar)
		for _, key := range r.keysMatching(ar) {
			d, ok := r.byKey[key]
			if !ok {
				continue
			}
			q := d.DefaultQuality
			if ar.Explicit {
				q = ar.Quality
			}
			cur, seen := rated[key]
			if !seen || spec > cur.specificity || (spec == cur.specificity && q > cur.quality) {
				rated[key] = rating{quality: q, specificity: spec}
			}
		}
	}

	var res resolution
	for _, key := range r.keys {
		rt, ok := rated[key]
		switch {
		case !ok:
		case rt.quality <= 0:
			res.refused = append(res.refused, key)
		default:
			res.accepted = append(res.accepted, Candidate{Key: key, Quality: rt.quality})
		}
	}
	slices.SortStableFunc(res.accepted, func(a, b Candidate) int {
		if c := cmp.Compare(b.Quality, a.Quality); c != 0 {
			return c
		}
		switch {
		case a.Key == All:
			return 1
		case b.Key == All:
			return -1
		}
		return 0
	})

	if len(res.accepted) == 0 {
		res.accepted = []Candidate{{Key: All, Quality: r.byKey[All].DefaultQuality}}
	}
	return res
}

// keysMatching returns the keys a range selects: the literal reverse index
// hit when there is one, else every key with an accept pattern the range
// matches. The catch-all type is only reached literally.
func (r *Registry) keysMatching(ar AcceptRange) []string {
	if key, ok := r.byWire[ar.String()]; ok {
		return []string{key}
	}

	var keys []string
	for _, key := range r.keys {
		if key == All {
			continue
		}
		for _, wire := range r.byKey[key].Accepts {
			typ, subtype, _ := splitMediaRange(wire)
			if r.byWire[wire] == key && ar.Matches(typ, subtype) {
				keys = append(keys, key)
				break
			}
		}
	}
	return keys
}
